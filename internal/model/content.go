package model

import "time"

// Category groups posts under a single heading
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	PostCount   int    `json:"post_count,omitempty"`
}

// Tag is a free-form label attached to posts
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count,omitempty"`
}

// Post is a blog article
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	ImageURL   string    `json:"image_url,omitempty"`
	Published  bool      `json:"published"`
	CategoryID int64     `json:"category_id,omitempty"`
	Category   Category  `json:"category"`
	Tags       []Tag     `json:"tags"`
	Author     Identity  `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Status is the admin-facing publication state
func (p Post) Status() string {
	if p.Published {
		return "published"
	}
	return "draft"
}

// Comment is a reader comment on a post
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether a later page exists
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether an earlier page exists
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// PostPage is one page of posts
type PostPage struct {
	Posts      []Post
	Pagination Pagination
}

// PostQuery filters a post listing
type PostQuery struct {
	Page     int
	Limit    int
	Category string
	Tag      string
	Search   string
}

// DashboardStats are the headline numbers on the admin dashboard
type DashboardStats struct {
	Posts       int    `json:"posts"`
	Published   int    `json:"published"`
	Drafts      int    `json:"drafts"`
	Comments    int    `json:"comments"`
	Users       int    `json:"users"`
	Categories  int    `json:"categories"`
	Tags        int    `json:"tags"`
	RecentPosts []Post `json:"recent_posts,omitempty"`
}

// NewComment is a reader-submitted comment
type NewComment struct {
	PostID  int64  `json:"post_id"`
	Author  string `json:"author" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Content string `json:"content" validate:"required,max=2000"`
}

// PostInput creates or updates a post
type PostInput struct {
	Title      string  `json:"title" validate:"required,max=200"`
	Slug       string  `json:"slug,omitempty" validate:"omitempty,max=200"`
	Content    string  `json:"content" validate:"required"`
	Excerpt    string  `json:"excerpt,omitempty" validate:"max=500"`
	ImageURL   string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Published  bool    `json:"published"`
	CategoryID int64   `json:"category_id,omitempty"`
	TagIDs     []int64 `json:"tag_ids,omitempty"`
}

// CategoryInput creates or updates a category
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// TagInput creates or updates a tag
type TagInput struct {
	Name string `json:"name" validate:"required,max=50"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=50"`
}
