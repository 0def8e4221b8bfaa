package apiclient

import (
	"context"
	"fmt"

	"github.com/mcoot/blogfront/internal/model"
)

// CreatePost creates a post
func (c *Client) CreatePost(ctx context.Context, in model.PostInput) (model.Post, error) {
	var env envelope[model.Post]
	if err := c.Post(ctx, "/api/posts", in, &env); err != nil {
		return model.Post{}, err
	}
	return env.Data, nil
}

// UpdatePost replaces a post's editable fields
func (c *Client) UpdatePost(ctx context.Context, id int64, in model.PostInput) (model.Post, error) {
	var env envelope[model.Post]
	if err := c.Put(ctx, fmt.Sprintf("/api/posts/%d", id), in, &env); err != nil {
		return model.Post{}, notFoundAs(err, model.ErrPostNotFound)
	}
	return env.Data, nil
}

// DeletePost deletes a post
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return notFoundAs(c.Delete(ctx, fmt.Sprintf("/api/posts/%d", id)), model.ErrPostNotFound)
}

// CreateCategory creates a category
func (c *Client) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	var env envelope[model.Category]
	if err := c.Post(ctx, "/api/categories", in, &env); err != nil {
		return model.Category{}, err
	}
	return env.Data, nil
}

// DeleteCategory deletes a category
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return notFoundAs(c.Delete(ctx, fmt.Sprintf("/api/categories/%d", id)), model.ErrCategoryNotFound)
}

// CreateTag creates a tag
func (c *Client) CreateTag(ctx context.Context, in model.TagInput) (model.Tag, error) {
	var env envelope[model.Tag]
	if err := c.Post(ctx, "/api/tags", in, &env); err != nil {
		return model.Tag{}, err
	}
	return env.Data, nil
}

// DeleteTag deletes a tag
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/api/tags/%d", id))
}

// ListUsers returns every account
func (c *Client) ListUsers(ctx context.Context) ([]model.Identity, error) {
	return getData[[]model.Identity](ctx, c, "/api/admin/users")
}

// Stats returns dashboard counts
func (c *Client) Stats(ctx context.Context) (model.DashboardStats, error) {
	return getData[model.DashboardStats](ctx, c, "/api/admin/stats")
}
