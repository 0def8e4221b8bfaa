package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mcoot/blogfront/internal/model"
)

// envelope is the backend's standard response wrapper
type envelope[T any] struct {
	Data       T                 `json:"data"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// getData fetches path and unwraps its data field
func getData[T any](ctx context.Context, c *Client, path string, opts ...CallOption) (T, error) {
	var env envelope[T]
	if err := c.Get(ctx, path, &env, opts...); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// ListPosts returns one page of posts matching q
func (c *Client) ListPosts(ctx context.Context, q model.PostQuery) (model.PostPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	path := "/api/posts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var env envelope[[]model.Post]
	if err := c.Get(ctx, path, &env); err != nil {
		return model.PostPage{}, err
	}

	page := model.PostPage{Posts: env.Data}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	} else {
		page.Pagination = model.Pagination{Page: max(q.Page, 1), Limit: q.Limit, Total: len(env.Data), TotalPages: 1}
	}
	return page, nil
}

// GetPostBySlug returns the post with the given slug
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	post, err := getData[model.Post](ctx, c, "/api/posts/slug/"+url.PathEscape(slug))
	return post, notFoundAs(err, model.ErrPostNotFound)
}

// GetPost returns the post with the given ID
func (c *Client) GetPost(ctx context.Context, id int64) (model.Post, error) {
	post, err := getData[model.Post](ctx, c, fmt.Sprintf("/api/posts/%d", id))
	return post, notFoundAs(err, model.ErrPostNotFound)
}

// ListCategories returns every category
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	return getData[[]model.Category](ctx, c, "/api/categories")
}

// GetCategory returns the category with the given ID
func (c *Client) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	cat, err := getData[model.Category](ctx, c, fmt.Sprintf("/api/categories/%d", id))
	return cat, notFoundAs(err, model.ErrCategoryNotFound)
}

// FindCategory looks a category up by slug
func (c *Client) FindCategory(ctx context.Context, slug string) (model.Category, error) {
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return model.Category{}, err
	}
	for _, cat := range cats {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return model.Category{}, model.ErrCategoryNotFound
}

// ListTags returns every tag
func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	return getData[[]model.Tag](ctx, c, "/api/tags")
}

// ListComments returns the comments on a post
func (c *Client) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	return getData[[]model.Comment](ctx, c, fmt.Sprintf("/api/posts/%d/comments", postID))
}

// CreateComment submits a reader comment
func (c *Client) CreateComment(ctx context.Context, in model.NewComment) (model.Comment, error) {
	var env envelope[model.Comment]
	if err := c.Post(ctx, "/api/comments", in, &env); err != nil {
		return model.Comment{}, err
	}
	return env.Data, nil
}

// Search returns posts matching query
func (c *Client) Search(ctx context.Context, query string) ([]model.Post, error) {
	return getData[[]model.Post](ctx, c, "/api/search?q="+url.QueryEscape(query))
}

// notFoundAs maps a 404 onto a domain sentinel
func notFoundAs(err, sentinel error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
