package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/blogfront/internal/web/forms"
	"github.com/mcoot/blogfront/internal/web/middleware"
	"github.com/mcoot/blogfront/internal/web/templates/pages"
)

// AuthHandler handles sign-in, sign-up and the signed-in landing pages
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, pages.Login(pages.LoginData{
		PageData: PageData(r, "Login"),
		Next:     safeNext(r.URL.Query().Get("next")),
	}))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, pages.LoginData{Error: "Invalid form data"})
		return
	}

	form := forms.Login{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	next := safeNext(r.FormValue("next"))
	data := pages.LoginData{Email: form.Email, Next: next}

	if errs := forms.Validate(form); errs != nil {
		data.FieldErrors = errs
		h.renderLogin(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	sess := middleware.GetSession(r.Context())
	user, err := sess.Manager.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.logger.Info("login failed", slog.String("email", form.Email), slog.String("error", err.Error()))
		data.Error = actionMessage(err, "Login failed")
		h.renderLogin(w, r, http.StatusUnauthorized, data)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Welcome back, "+user.Name()+"!")
	if next != "" {
		middleware.Redirect(w, r, next)
		return
	}
	redirectAfter(w, r, "/")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data pages.LoginData) {
	data.PageData = PageData(r, "Login")
	Render(w, r, status, pages.Login(data))
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, pages.Register(pages.RegisterData{
		PageData: PageData(r, "Register"),
	}))
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, http.StatusBadRequest, pages.RegisterData{Error: "Invalid form data"})
		return
	}

	form := forms.Register{
		Email:           strings.TrimSpace(r.FormValue("email")),
		Username:        strings.TrimSpace(r.FormValue("username")),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}
	data := pages.RegisterData{Email: form.Email, Username: form.Username}

	if errs := forms.Validate(form); errs != nil {
		data.FieldErrors = errs
		h.renderRegister(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	sess := middleware.GetSession(r.Context())
	user, err := sess.Manager.Register(r.Context(), form.Email, form.Username, form.Password)
	if err != nil {
		data.Error = actionMessage(err, "Registration failed")
		h.renderRegister(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Account created! Welcome, "+user.Name()+"!")
	redirectAfter(w, r, "/")
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, data pages.RegisterData) {
	data.PageData = PageData(r, "Register")
	Render(w, r, status, pages.Register(data))
}

// Logout ends the session. The backend is not told.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		sess.Manager.Logout(r.Context())
	}

	middleware.SetFlash(w, middleware.FlashInfo, "You have been logged out")
	redirectAfter(w, r, "/")
}

// Welcome greets a newly registered user
func (h *AuthHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		redirectAfter(w, r, "/login")
		return
	}
	Render(w, r, http.StatusOK, pages.Welcome(pages.AccountData{
		PageData: PageData(r, "Welcome"),
		Account:  *user,
	}))
}

// Dashboard is the signed-in user's home
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		redirectAfter(w, r, "/login")
		return
	}
	Render(w, r, http.StatusOK, pages.Dashboard(pages.AccountData{
		PageData: PageData(r, "Dashboard"),
		Account:  *user,
	}))
}
