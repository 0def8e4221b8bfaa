package pages

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
	Email       string
	Next        string
	Error       string
	FieldErrors map[string]string
}

// Login renders the sign-in form
func Login(data LoginData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="auth-card"><h1>Sign in</h1><form action="/login" method="post" id="login-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Name: "next", Type: "hidden", Value: data.Next}))
		m.Render(layout.Input(layout.Field{Label: "Email", Name: "email", Type: "email", Value: data.Email, Error: data.FieldErrors["email"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Password", Name: "password", Type: "password", Error: data.FieldErrors["password"], Required: true}))
		m.Raw(`<button type="submit">Sign in</button></form>`,
			`<p><a href="/forgot-password">Forgot your password?</a></p>`,
			`<p>No account? <a href="/register">Register</a></p></section>`)
	}))
}

// RegisterData is the data for the registration page
type RegisterData struct {
	layout.PageData
	Email       string
	Username    string
	Error       string
	FieldErrors map[string]string
}

// Register renders the sign-up form
func Register(data RegisterData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="auth-card"><h1>Create an account</h1><form action="/register" method="post" id="register-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Email", Name: "email", Type: "email", Value: data.Email, Error: data.FieldErrors["email"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Username", Name: "username", Value: data.Username, Error: data.FieldErrors["username"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Password", Name: "password", Type: "password", Error: data.FieldErrors["password"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Confirm password", Name: "password_confirm", Type: "password", Error: data.FieldErrors["password_confirm"], Required: true}))
		m.Raw(`<button type="submit">Register</button></form>`,
			`<p>Already registered? <a href="/login">Sign in</a></p></section>`)
	}))
}

// AccountData is the data for pages about the signed-in user
type AccountData struct {
	layout.PageData
	Account model.Identity
}

// Welcome greets a newly registered user
func Welcome(data AccountData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section id="welcome"><h1>Welcome, `)
		m.Text(data.Account.Name())
		m.Raw(`!</h1><p>Your account is ready.</p>`,
			`<p><a href="/blog" class="button">Start reading</a> <a href="/dashboard">Go to your dashboard</a></p></section>`)
	}))
}

// Dashboard is the signed-in user's home
func Dashboard(data AccountData) templ.Component {
	a := data.Account
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section id="dashboard"><h1>Dashboard</h1><dl class="profile">`,
			`<dt>Username</dt><dd id="profile-username">`)
		m.Text(a.Username)
		m.Raw(`</dd><dt>Email</dt><dd id="profile-email">`)
		m.Text(a.Email)
		m.Raw(`</dd><dt>Role</dt><dd id="profile-role">`)
		m.Text(string(a.Role()))
		m.Raw(`</dd><dt>Member ID</dt><dd>`)
		m.Text(strconv.FormatInt(a.ID, 10))
		m.Raw(`</dd></dl><ul class="dashboard-links">`,
			`<li><a href="/account/password">Change password</a></li>`)
		if a.Role().AtLeast(model.RoleEditor) {
			m.Raw(`<li><a href="/admin" id="dashboard-admin">Open the admin console</a></li>`)
		}
		m.Raw(`</ul></section>`)
	}))
}

// ErrorData is the data for error pages
type ErrorData struct {
	layout.PageData
	Status  int
	Heading string
	Message string
}

// Error renders a full-page error
func Error(data ErrorData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="error-page"`)
		m.Attr("data-status", strconv.Itoa(data.Status))
		m.Raw(`><h1>`)
		m.Text(data.Heading)
		m.Raw(`</h1><p>`)
		m.Text(data.Message)
		m.Raw(`</p><p><a href="/">Return to home</a></p></section>`)
	}))
}
