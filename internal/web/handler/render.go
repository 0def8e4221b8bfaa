package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/session"
	"github.com/mcoot/blogfront/internal/web/middleware"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/pages"
)

const sessionExpiredMessage = "Your session has expired. Please sign in again."

// PageData collects what every page needs from the request
func PageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title: title,
		User:  middleware.GetUser(r.Context()),
		Flash: middleware.GetFlash(r.Context()),
	}
}

// Render writes c with status, unless the session has asked to navigate away
func Render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	if loc, ok := middleware.PendingRedirect(r.Context()); ok {
		middleware.Redirect(w, r, loc)
		return
	}

	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError writes a full-page error
func RenderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	Render(w, r, status, pages.Error(pages.ErrorData{
		PageData: PageData(r, heading),
		Status:   status,
		Heading:  heading,
		Message:  message,
	}))
}

// BackendError turns a failed backend call into a response
func BackendError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if loc, ok := middleware.PendingRedirect(r.Context()); ok {
		middleware.SetFlash(w, middleware.FlashError, sessionExpiredMessage)
		middleware.Redirect(w, r, loc)
		return
	}

	var transportErr *apiclient.TransportError
	switch {
	case errors.Is(err, model.ErrNotFound):
		RenderError(w, r, http.StatusNotFound, "Not Found", "The page you were looking for does not exist.")
	case errors.Is(err, model.ErrForbidden):
		RenderError(w, r, http.StatusForbidden, "Forbidden", "You do not have permission to view this page.")
	case errors.As(err, &transportErr):
		logger.Error("backend unavailable", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		RenderError(w, r, http.StatusBadGateway, "Service Unavailable", "The blog service is unavailable. Please try again shortly.")
	default:
		logger.Error("backend call failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		RenderError(w, r, http.StatusInternalServerError, "Something Went Wrong", apiclient.Message(err, "Something went wrong. Please try again later."))
	}
}

// redirectAfter follows a pending session navigation, falling back to dest
func redirectAfter(w http.ResponseWriter, r *http.Request, dest string) {
	if loc, ok := middleware.PendingRedirect(r.Context()); ok {
		dest = loc
	}
	middleware.Redirect(w, r, dest)
}

// safeNext returns next if it is a path on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	return next
}

// actionMessage extracts the message to show for a failed session action
func actionMessage(err error, fallback string) string {
	var ae *session.ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return apiclient.Message(err, fallback)
}
