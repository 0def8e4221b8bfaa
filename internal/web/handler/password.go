package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/web/forms"
	"github.com/mcoot/blogfront/internal/web/middleware"
	"github.com/mcoot/blogfront/internal/web/templates/pages"
)

const resetSentMessage = "If an account exists for that email, a reset link has been sent."

// PasswordHandler handles forgotten, reset and changed passwords
type PasswordHandler struct {
	logger *slog.Logger
}

// NewPasswordHandler creates a new PasswordHandler
func NewPasswordHandler(logger *slog.Logger) *PasswordHandler {
	return &PasswordHandler{logger: logger}
}

// ForgotPage renders the reset request form
func (h *PasswordHandler) ForgotPage(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, pages.ForgotPassword(pages.ForgotPasswordData{
		PageData: PageData(r, "Forgot Password"),
	}))
}

// Forgot requests a reset link
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	form := forms.ForgotPassword{Email: strings.TrimSpace(r.FormValue("email"))}
	data := pages.ForgotPasswordData{
		PageData: PageData(r, "Forgot Password"),
		Email:    form.Email,
	}

	if errs := forms.Validate(form); errs != nil {
		data.FieldErrors = errs
		Render(w, r, http.StatusUnprocessableEntity, pages.ForgotPassword(data))
		return
	}

	msg, err := middleware.GetClient(r.Context()).ForgotPassword(r.Context(), form.Email)
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			data.Error = apiclient.Message(err, "Could not send a reset link")
			Render(w, r, http.StatusUnprocessableEntity, pages.ForgotPassword(data))
			return
		}
		BackendError(w, r, h.logger, err)
		return
	}

	if msg == "" {
		msg = resetSentMessage
	}
	data.Sent = msg
	Render(w, r, http.StatusOK, pages.ForgotPassword(data))
}

// ResetPage verifies the token in the link before offering the form
func (h *PasswordHandler) ResetPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	data := pages.ResetPasswordData{
		PageData: PageData(r, "Reset Password"),
		Token:    token,
	}

	if token != "" {
		valid, err := middleware.GetClient(r.Context()).VerifyResetToken(r.Context(), token)
		if err != nil {
			BackendError(w, r, h.logger, err)
			return
		}
		data.Valid = valid
	}

	Render(w, r, http.StatusOK, pages.ResetPassword(data))
}

// Reset sets a new password with a reset token
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	form := forms.ResetPassword{
		Token:           r.FormValue("token"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	data := pages.ResetPasswordData{
		PageData: PageData(r, "Reset Password"),
		Token:    form.Token,
		Valid:    form.Token != "",
		Strength: forms.Strength(form.NewPassword),
	}

	if errs := forms.Validate(form); errs != nil {
		data.FieldErrors = errs
		Render(w, r, http.StatusUnprocessableEntity, pages.ResetPassword(data))
		return
	}

	msg, err := middleware.GetClient(r.Context()).ResetPassword(r.Context(), form.Token, form.NewPassword)
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			data.Error = apiclient.Message(err, "This reset link is invalid or has expired.")
			Render(w, r, http.StatusUnprocessableEntity, pages.ResetPassword(data))
			return
		}
		BackendError(w, r, h.logger, err)
		return
	}

	if msg == "" {
		msg = "Your password has been reset"
	}
	middleware.SetFlash(w, middleware.FlashSuccess, strings.TrimSuffix(msg, ".")+". Please sign in.")
	middleware.Redirect(w, r, "/login")
}

// ChangePage renders the change password form
func (h *PasswordHandler) ChangePage(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, pages.ChangePassword(pages.ChangePasswordData{
		PageData: PageData(r, "Change Password"),
	}))
}

// Change changes the signed-in user's password
func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	form := forms.ChangePassword{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	data := pages.ChangePasswordData{
		PageData: PageData(r, "Change Password"),
		Strength: forms.Strength(form.NewPassword),
	}

	if errs := forms.Validate(form); errs != nil {
		data.FieldErrors = errs
		Render(w, r, http.StatusUnprocessableEntity, pages.ChangePassword(data))
		return
	}

	msg, err := middleware.GetClient(r.Context()).ChangePassword(r.Context(), form.CurrentPassword, form.NewPassword)
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			data.Error = apiclient.Message(err, "Could not change your password")
			Render(w, r, http.StatusUnprocessableEntity, pages.ChangePassword(data))
			return
		}
		BackendError(w, r, h.logger, err)
		return
	}

	if msg == "" {
		msg = "Your password has been changed."
	}
	middleware.SetFlash(w, middleware.FlashSuccess, msg)
	middleware.Redirect(w, r, "/dashboard")
}
