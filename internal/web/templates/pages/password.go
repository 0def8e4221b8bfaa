package pages

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// ForgotPasswordData is the data for the reset request page
type ForgotPasswordData struct {
	layout.PageData
	Email       string
	Sent        string
	Error       string
	FieldErrors map[string]string
}

// ForgotPassword renders the reset request form, or its confirmation
func ForgotPassword(data ForgotPasswordData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="auth-card"><h1>Forgot password</h1>`)
		if data.Sent != "" {
			m.Raw(`<p class="notice" id="reset-sent">`)
			m.Text(data.Sent)
			m.Raw(`</p><p><a href="/login">Back to sign in</a></p></section>`)
			return
		}
		m.Raw(`<form action="/forgot-password" method="post" id="forgot-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Email", Name: "email", Type: "email", Value: data.Email, Error: data.FieldErrors["email"], Required: true}))
		m.Raw(`<button type="submit">Send reset link</button></form></section>`)
	}))
}

// ResetPasswordData is the data for choosing a new password from a reset link
type ResetPasswordData struct {
	layout.PageData
	Token       string
	Valid       bool
	Error       string
	FieldErrors map[string]string
	Strength    int
}

// ResetPassword renders the new password form for a verified token
func ResetPassword(data ResetPasswordData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="auth-card"><h1>Reset password</h1>`)
		if !data.Valid {
			m.Raw(`<p class="form-error" id="reset-invalid">This reset link is invalid or has expired.</p>`,
				`<p><a href="/forgot-password">Request a new link</a></p></section>`)
			return
		}
		m.Raw(`<form action="/reset-password" method="post" id="reset-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Name: "token", Type: "hidden", Value: data.Token}))
		m.Render(layout.Input(layout.Field{Label: "New password", Name: "new_password", Type: "password", Error: data.FieldErrors["new_password"], Required: true}))
		m.Render(StrengthMeter(data.Strength))
		m.Render(layout.Input(layout.Field{Label: "Confirm new password", Name: "confirm_password", Type: "password", Error: data.FieldErrors["confirm_password"], Required: true}))
		m.Raw(`<button type="submit">Reset password</button></form></section>`)
	}))
}

// ChangePasswordData is the data for changing the signed-in user's password
type ChangePasswordData struct {
	layout.PageData
	Error       string
	FieldErrors map[string]string
	Strength    int
}

// ChangePassword renders the change password form
func ChangePassword(data ChangePasswordData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="auth-card"><h1>Change password</h1><form action="/account/password" method="post" id="change-password-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Current password", Name: "current_password", Type: "password", Error: data.FieldErrors["current_password"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "New password", Name: "new_password", Type: "password", Error: data.FieldErrors["new_password"], Required: true}))
		m.Render(StrengthMeter(data.Strength))
		m.Render(layout.Input(layout.Field{Label: "Confirm new password", Name: "confirm_password", Type: "password", Error: data.FieldErrors["confirm_password"], Required: true}))
		m.Raw(`<button type="submit">Change password</button></form></section>`)
	}))
}

var strengthLabels = [...]string{"Very weak", "Very weak", "Weak", "Fair", "Good", "Strong"}

// StrengthMeter shows a password strength score from 0 to 5
func StrengthMeter(score int) templ.Component {
	score = max(0, min(score, len(strengthLabels)-1))
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<div class="strength"><meter id="password-strength" min="0" max="5"`)
		m.Attr("value", strconv.Itoa(score))
		m.Raw(`></meter><span class="strength-label">`)
		m.Text(strengthLabels[score])
		m.Raw(`</span></div>`)
	})
}
