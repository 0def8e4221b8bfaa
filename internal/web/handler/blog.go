package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/forms"
	"github.com/mcoot/blogfront/internal/web/middleware"
	"github.com/mcoot/blogfront/internal/web/templates/pages"
)

// DefaultPostsPerPage is the listing page size
const DefaultPostsPerPage = 10

// BlogHandler handles the public reading pages
type BlogHandler struct {
	logger  *slog.Logger
	perPage int
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(logger *slog.Logger, perPage int) *BlogHandler {
	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}
	return &BlogHandler{logger: logger, perPage: perPage}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// List renders a page of posts, optionally filtered by category or tag
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	client := middleware.GetClient(r.Context())
	category := r.URL.Query().Get("category")
	tag := r.URL.Query().Get("tag")

	page, err := client.ListPosts(r.Context(), model.PostQuery{
		Page:     pageParam(r),
		Limit:    h.perPage,
		Category: category,
		Tag:      tag,
	})
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}
	categories, err := client.ListCategories(r.Context())
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}
	tags, err := client.ListTags(r.Context())
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	Render(w, r, http.StatusOK, pages.BlogList(pages.BlogListData{
		PageData:   PageData(r, "Blog"),
		Page:       page,
		Categories: categories,
		Tags:       tags,
		Category:   category,
		Tag:        tag,
	}))
}

// Show renders one post with its comments
func (h *BlogHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderPost(w, r, http.StatusOK, pages.CommentForm{}, nil, "")
}

func (h *BlogHandler) renderPost(w http.ResponseWriter, r *http.Request, status int, form pages.CommentForm, fieldErrors forms.Errors, errMsg string) {
	client := middleware.GetClient(r.Context())

	post, err := client.GetPostBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}
	comments, err := client.ListComments(r.Context(), post.ID)
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	Render(w, r, status, pages.Post(pages.PostData{
		PageData:    PageData(r, post.Title),
		Post:        post,
		Comments:    comments,
		Form:        form,
		FieldErrors: fieldErrors,
		Error:       errMsg,
	}))
}

// Comment handles the comment form on a post
func (h *BlogHandler) Comment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPost(w, r, http.StatusBadRequest, pages.CommentForm{}, nil, "Invalid form data")
		return
	}

	form := pages.CommentForm{
		Author:  strings.TrimSpace(r.FormValue("author")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
	if user := middleware.GetUser(r.Context()); user != nil {
		if form.Author == "" {
			form.Author = user.Name()
		}
		if form.Email == "" {
			form.Email = user.Email
		}
	}

	in := model.NewComment{Author: form.Author, Email: form.Email, Content: form.Content}
	if errs := forms.Validate(in); errs != nil {
		h.renderPost(w, r, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	client := middleware.GetClient(r.Context())
	slug := mux.Vars(r)["slug"]
	post, err := client.GetPostBySlug(r.Context(), slug)
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	in.PostID = post.ID
	if _, err := client.CreateComment(r.Context(), in); err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			h.renderPost(w, r, http.StatusUnprocessableEntity, form, nil, apiclient.Message(err, "Could not post your comment"))
			return
		}
		BackendError(w, r, h.logger, err)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Thanks! Your comment has been posted.")
	middleware.Redirect(w, r, "/blog/"+post.Slug+"#comments")
}

// Categories renders every category
func (h *BlogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := middleware.GetClient(r.Context()).ListCategories(r.Context())
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	Render(w, r, http.StatusOK, pages.Categories(pages.CategoriesData{
		PageData:   PageData(r, "Categories"),
		Categories: categories,
	}))
}

// Category renders the posts in one category
func (h *BlogHandler) Category(w http.ResponseWriter, r *http.Request) {
	client := middleware.GetClient(r.Context())

	category, err := client.FindCategory(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}
	page, err := client.ListPosts(r.Context(), model.PostQuery{
		Page:     pageParam(r),
		Limit:    h.perPage,
		Category: category.Slug,
	})
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	Render(w, r, http.StatusOK, pages.Category(pages.CategoryData{
		PageData: PageData(r, category.Name),
		Category: category,
		Page:     page,
	}))
}

// Tags renders every tag
func (h *BlogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := middleware.GetClient(r.Context()).ListTags(r.Context())
	if err != nil {
		BackendError(w, r, h.logger, err)
		return
	}

	Render(w, r, http.StatusOK, pages.Tags(pages.TagsData{
		PageData: PageData(r, "Tags"),
		Tags:     tags,
	}))
}

// Search renders results for the q parameter
func (h *BlogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := pages.SearchData{
		PageData: PageData(r, "Search"),
		Query:    query,
	}

	if query != "" {
		results, err := middleware.GetClient(r.Context()).Search(r.Context(), query)
		if err != nil {
			if _, pending := middleware.PendingRedirect(r.Context()); pending {
				BackendError(w, r, h.logger, err)
				return
			}
			h.logger.Warn("search failed", slog.String("query", query), slog.String("error", err.Error()))
			data.Error = apiclient.Message(err, "Search is unavailable right now.")
		}
		data.Results = results
	}

	Render(w, r, http.StatusOK, pages.Search(data))
}
