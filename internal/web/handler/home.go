package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/middleware"
	"github.com/mcoot/blogfront/internal/web/templates/pages"
)

// latestPostCount is how many posts the home page shows
const latestPostCount = 5

// HomeHandler handles the home page and the site-wide error pages
type HomeHandler struct {
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(logger *slog.Logger) *HomeHandler {
	return &HomeHandler{logger: logger}
}

// Home renders the latest posts
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	client := middleware.GetClient(r.Context())

	page, err := client.ListPosts(r.Context(), model.PostQuery{Page: 1, Limit: latestPostCount})
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}
	categories, err := client.ListCategories(r.Context())
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	Render(w, r, http.StatusOK, pages.Home(pages.HomeData{
		PageData:   PageData(r, "Home"),
		Posts:      page.Posts,
		Categories: categories,
	}))
}

// Forbidden is where the route guard sends users without the required role
func (h *HomeHandler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusForbidden, "Access Denied", "You do not have permission to view that page.")
}

// NotFound renders the 404 page
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusNotFound, "Not Found", "The page you were looking for does not exist.")
}
