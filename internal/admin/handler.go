package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/blogfront/internal/admin/templates"
	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/forms"
	"github.com/mcoot/blogfront/internal/web/handler"
	"github.com/mcoot/blogfront/internal/web/middleware"
)

// postListLimit bounds the admin post table
const postListLimit = 100

// Handler serves the admin console pages
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// Dashboard renders the headline numbers
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := middleware.GetClient(r.Context()).Stats(r.Context())
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}
	handler.Render(w, r, http.StatusOK, templates.Dashboard(templates.DashboardData{
		PageData: handler.PageData(r, "Admin"),
		Stats:    stats,
	}))
}

// Posts lists posts, filtered by ?status=published|draft
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != templates.StatusPublished && status != templates.StatusDraft {
		status = templates.StatusAll
	}

	page, err := middleware.GetClient(r.Context()).ListPosts(r.Context(), model.PostQuery{Page: 1, Limit: postListLimit})
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}

	posts := page.Posts
	if status != templates.StatusAll {
		posts = posts[:0:0]
		for _, p := range page.Posts {
			if p.Status() == status {
				posts = append(posts, p)
			}
		}
	}

	handler.Render(w, r, http.StatusOK, templates.Posts(templates.PostsData{
		PageData: handler.PageData(r, "Posts"),
		Posts:    posts,
		Status:   status,
	}))
}

// NewPost renders an empty editor
func (h *Handler) NewPost(w http.ResponseWriter, r *http.Request) {
	h.renderPostForm(w, r, http.StatusOK, templates.PostFormData{})
}

// EditPost renders the editor for an existing post
func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	post, err := middleware.GetClient(r.Context()).GetPost(r.Context(), pathID(r))
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}

	in := model.PostInput{
		Title:      post.Title,
		Slug:       post.Slug,
		Content:    post.Content,
		Excerpt:    post.Excerpt,
		ImageURL:   post.ImageURL,
		Published:  post.Published,
		CategoryID: post.Category.ID,
	}
	for _, t := range post.Tags {
		in.TagIDs = append(in.TagIDs, t.ID)
	}
	h.renderPostForm(w, r, http.StatusOK, templates.PostFormData{ID: post.ID, Input: in})
}

// CreatePost saves a new post
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	h.savePost(w, r, 0)
}

// UpdatePost saves changes to a post
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	h.savePost(w, r, pathID(r))
}

func (h *Handler) savePost(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		h.renderPostForm(w, r, http.StatusBadRequest, templates.PostFormData{ID: id, Error: "Invalid form data"})
		return
	}

	in := postInput(r)
	if errs := forms.Validate(in); errs != nil {
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, templates.PostFormData{ID: id, Input: in, FieldErrors: errs})
		return
	}

	client := middleware.GetClient(r.Context())
	var (
		post model.Post
		err  error
	)
	if id == 0 {
		post, err = client.CreatePost(r.Context(), in)
	} else {
		post, err = client.UpdatePost(r.Context(), id, in)
	}
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			h.renderPostForm(w, r, http.StatusUnprocessableEntity, templates.PostFormData{ID: id, Input: in, Error: apiclient.Message(err, "Could not save the post")})
			return
		}
		handler.BackendError(w, r, h.logger, err)
		return
	}

	h.logger.Info("post saved", slog.Int64("post_id", post.ID), slog.String("status", post.Status()))
	middleware.SetFlash(w, middleware.FlashSuccess, "Saved \""+post.Title+"\"")
	middleware.Redirect(w, r, "/admin/posts")
}

func postInput(r *http.Request) model.PostInput {
	in := model.PostInput{
		Title:     strings.TrimSpace(r.FormValue("title")),
		Slug:      strings.TrimSpace(r.FormValue("slug")),
		Content:   r.FormValue("content"),
		Excerpt:   strings.TrimSpace(r.FormValue("excerpt")),
		ImageURL:  strings.TrimSpace(r.FormValue("image_url")),
		Published: r.FormValue("published") == "true",
	}
	in.CategoryID, _ = strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	for _, v := range r.Form["tag_ids"] {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			in.TagIDs = append(in.TagIDs, id)
		}
	}
	return in
}

func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, status int, data templates.PostFormData) {
	client := middleware.GetClient(r.Context())
	categories, err := client.ListCategories(r.Context())
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}
	tags, err := client.ListTags(r.Context())
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}

	title := "New Post"
	if data.ID != 0 {
		title = "Edit Post"
	}
	data.PageData = handler.PageData(r, title)
	data.Categories = categories
	data.Tags = tags
	handler.Render(w, r, status, templates.PostForm(data))
}

// DeletePost removes a post
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := middleware.GetClient(r.Context()).DeletePost(r.Context(), pathID(r)); err != nil {
		h.deleteFailed(w, r, err, "/admin/posts")
		return
	}
	middleware.SetFlash(w, middleware.FlashSuccess, "Post deleted")
	middleware.Redirect(w, r, "/admin/posts")
}

// Categories lists categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.renderCategories(w, r, http.StatusOK, templates.CategoriesData{})
}

// CreateCategory adds a category
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	in := model.CategoryInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if errs := forms.Validate(in); errs != nil {
		h.renderCategories(w, r, http.StatusUnprocessableEntity, templates.CategoriesData{Input: in, FieldErrors: errs})
		return
	}

	c, err := middleware.GetClient(r.Context()).CreateCategory(r.Context(), in)
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			h.renderCategories(w, r, http.StatusUnprocessableEntity, templates.CategoriesData{Input: in, Error: apiclient.Message(err, "Could not add the category")})
			return
		}
		handler.BackendError(w, r, h.logger, err)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Added category \""+c.Name+"\"")
	middleware.Redirect(w, r, "/admin/categories")
}

func (h *Handler) renderCategories(w http.ResponseWriter, r *http.Request, status int, data templates.CategoriesData) {
	categories, err := middleware.GetClient(r.Context()).ListCategories(r.Context())
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}
	data.PageData = handler.PageData(r, "Categories")
	data.Categories = categories
	handler.Render(w, r, status, templates.Categories(data))
}

// DeleteCategory removes a category
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := middleware.GetClient(r.Context()).DeleteCategory(r.Context(), pathID(r)); err != nil {
		h.deleteFailed(w, r, err, "/admin/categories")
		return
	}
	middleware.SetFlash(w, middleware.FlashSuccess, "Category deleted")
	middleware.Redirect(w, r, "/admin/categories")
}

// Tags lists tags
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	h.renderTags(w, r, http.StatusOK, templates.TagsData{})
}

// CreateTag adds a tag
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	in := model.TagInput{Name: strings.TrimSpace(r.FormValue("name"))}
	if errs := forms.Validate(in); errs != nil {
		h.renderTags(w, r, http.StatusUnprocessableEntity, templates.TagsData{Input: in, FieldErrors: errs})
		return
	}

	t, err := middleware.GetClient(r.Context()).CreateTag(r.Context(), in)
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusBadRequest {
			h.renderTags(w, r, http.StatusUnprocessableEntity, templates.TagsData{Input: in, Error: apiclient.Message(err, "Could not add the tag")})
			return
		}
		handler.BackendError(w, r, h.logger, err)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Added tag \""+t.Name+"\"")
	middleware.Redirect(w, r, "/admin/tags")
}

func (h *Handler) renderTags(w http.ResponseWriter, r *http.Request, status int, data templates.TagsData) {
	tags, err := middleware.GetClient(r.Context()).ListTags(r.Context())
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}
	data.PageData = handler.PageData(r, "Tags")
	data.Tags = tags
	handler.Render(w, r, status, templates.Tags(data))
}

// DeleteTag removes a tag
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := middleware.GetClient(r.Context()).DeleteTag(r.Context(), pathID(r)); err != nil {
		h.deleteFailed(w, r, err, "/admin/tags")
		return
	}
	middleware.SetFlash(w, middleware.FlashSuccess, "Tag deleted")
	middleware.Redirect(w, r, "/admin/tags")
}

// deleteFailed reports a failed delete on the list it came from
func (h *Handler) deleteFailed(w http.ResponseWriter, r *http.Request, err error, back string) {
	if _, pending := middleware.PendingRedirect(r.Context()); pending {
		handler.BackendError(w, r, h.logger, err)
		return
	}
	h.logger.Warn("delete failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	middleware.SetFlash(w, middleware.FlashError, apiclient.Message(err, "Delete failed"))
	middleware.Redirect(w, r, back)
}

// Users lists every account
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := middleware.GetClient(r.Context()).ListUsers(r.Context())
	if err != nil {
		handler.BackendError(w, r, h.logger, err)
		return
	}
	handler.Render(w, r, http.StatusOK, templates.Users(templates.UsersData{
		PageData: handler.PageData(r, "Users"),
		Users:    users,
	}))
}
