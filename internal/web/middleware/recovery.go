package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/blogfront/internal/middleware"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Error"},
		Status:   http.StatusInternalServerError,
		Heading:  "Internal Server Error",
		Message:  "Something went wrong. Please try again later.",
	}).Render(r.Context(), w)
}
