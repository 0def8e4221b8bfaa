package pages

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

const dateFormat = "Jan 2, 2006"

// HomeData is the data for the home page
type HomeData struct {
	layout.PageData
	Posts      []model.Post
	Categories []model.Category
}

// Home renders the landing page with the latest posts
func Home(data HomeData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<section class="hero"><h1>Latest posts</h1>`)
		if data.User == nil {
			m.Raw(`<p><a href="/register" class="button">Join the community</a></p>`)
		}
		m.Raw(`</section><section id="latest-posts">`)
		m.Render(postList(data.Posts, "No posts yet."))
		m.Raw(`</section>`)
		if len(data.Categories) > 0 {
			m.Raw(`<aside id="home-categories"><h2>Categories</h2>`)
			m.Render(categoryList(data.Categories))
			m.Raw(`</aside>`)
		}
	}))
}

// BlogListData is the data for the post listing
type BlogListData struct {
	layout.PageData
	Page       model.PostPage
	Categories []model.Category
	Tags       []model.Tag
	Category   string
	Tag        string
}

// BlogList renders a filterable, paginated list of posts
func BlogList(data BlogListData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Blog</h1><form action="/blog" method="get" class="filters" id="blog-filters">`,
			`<select name="category"><option value="">All categories</option>`)
		for _, c := range data.Categories {
			m.Raw(`<option`)
			m.Attr("value", c.Slug)
			m.Flag("selected", c.Slug == data.Category)
			m.Raw(`>`)
			m.Text(c.Name)
			m.Raw(`</option>`)
		}
		m.Raw(`</select><select name="tag"><option value="">All tags</option>`)
		for _, t := range data.Tags {
			m.Raw(`<option`)
			m.Attr("value", t.Slug)
			m.Flag("selected", t.Slug == data.Tag)
			m.Raw(`>`)
			m.Text(t.Name)
			m.Raw(`</option>`)
		}
		m.Raw(`</select><button type="submit">Filter</button></form>`)

		m.Raw(`<section id="posts">`)
		m.Render(postList(data.Page.Posts, "No posts match these filters."))
		m.Raw(`</section>`)

		query := url.Values{}
		if data.Category != "" {
			query.Set("category", data.Category)
		}
		if data.Tag != "" {
			query.Set("tag", data.Tag)
		}
		m.Render(layout.Pager("/blog", query, data.Page.Pagination))
	}))
}

// CommentForm holds the comment form values
type CommentForm struct {
	Author  string
	Email   string
	Content string
}

// PostData is the data for a single post
type PostData struct {
	layout.PageData
	Post        model.Post
	Comments    []model.Comment
	Form        CommentForm
	FieldErrors map[string]string
	Error       string
}

// Post renders a post with its comments and the comment form
func Post(data PostData) templ.Component {
	p := data.Post
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<article class="post-detail"`)
		m.Attr("data-post-id", strconv.FormatInt(p.ID, 10))
		m.Raw(`><h1 class="post-title">`)
		m.Text(p.Title)
		m.Raw(`</h1>`)
		m.Render(postMeta(p))
		if p.ImageURL != "" {
			m.Raw(`<img class="post-image" alt=""`)
			m.URL("src", p.ImageURL)
			m.Raw(`>`)
		}
		m.Raw(`<div class="post-content">`)
		m.Text(p.Content)
		m.Raw(`</div>`)
		if len(p.Tags) > 0 {
			m.Raw(`<ul class="post-tags">`)
			for _, t := range p.Tags {
				m.Raw(`<li><a`)
				m.URL("href", "/blog?tag="+url.QueryEscape(t.Slug))
				m.Raw(`>#`)
				m.Text(t.Name)
				m.Raw(`</a></li>`)
			}
			m.Raw(`</ul>`)
		}
		m.Raw(`</article>`)

		m.Raw(`<section id="comments"><h2>`)
		m.Textf("Comments (%d)", len(data.Comments))
		m.Raw(`</h2>`)
		if len(data.Comments) == 0 {
			m.Raw(`<p class="empty">No comments yet.</p>`)
		}
		for _, c := range data.Comments {
			m.Raw(`<div class="comment"><p class="comment-author">`)
			m.Text(c.Author)
			m.Raw(` <time>`)
			m.Text(c.CreatedAt.Format(dateFormat))
			m.Raw(`</time></p><p class="comment-content">`)
			m.Text(c.Content)
			m.Raw(`</p></div>`)
		}

		m.Raw(`<form method="post" id="comment-form"`)
		m.Attr("action", "/blog/"+p.Slug+"/comments")
		m.Raw(`><h3>Leave a comment</h3>`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Name", Name: "author", Value: data.Form.Author, Error: data.FieldErrors["author"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Email", Name: "email", Type: "email", Value: data.Form.Email, Error: data.FieldErrors["email"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Comment", Name: "content", Type: "textarea", Value: data.Form.Content, Error: data.FieldErrors["content"], Required: true}))
		m.Raw(`<button type="submit">Post comment</button></form></section>`)
	}))
}

// CategoriesData is the data for the category index
type CategoriesData struct {
	layout.PageData
	Categories []model.Category
}

// Categories renders every category
func Categories(data CategoriesData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Categories</h1>`)
		if len(data.Categories) == 0 {
			m.Raw(`<p class="empty">No categories yet.</p>`)
			return
		}
		m.Render(categoryList(data.Categories))
	}))
}

// CategoryData is the data for one category's posts
type CategoryData struct {
	layout.PageData
	Category model.Category
	Page     model.PostPage
}

// Category renders the posts in a category
func Category(data CategoryData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1 class="category-name">`)
		m.Text(data.Category.Name)
		m.Raw(`</h1>`)
		if data.Category.Description != "" {
			m.Raw(`<p class="category-description">`)
			m.Text(data.Category.Description)
			m.Raw(`</p>`)
		}
		m.Raw(`<section id="posts">`)
		m.Render(postList(data.Page.Posts, "No posts in this category yet."))
		m.Raw(`</section>`)
		m.Render(layout.Pager("/category/"+data.Category.Slug, nil, data.Page.Pagination))
	}))
}

// TagsData is the data for the tag index
type TagsData struct {
	layout.PageData
	Tags []model.Tag
}

// Tags renders every tag
func Tags(data TagsData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Tags</h1>`)
		if len(data.Tags) == 0 {
			m.Raw(`<p class="empty">No tags yet.</p>`)
			return
		}
		m.Raw(`<ul class="tag-cloud">`)
		for _, t := range data.Tags {
			m.Raw(`<li class="tag"><a`)
			m.URL("href", "/blog?tag="+url.QueryEscape(t.Slug))
			m.Raw(`>#`)
			m.Text(t.Name)
			m.Raw(`</a></li>`)
		}
		m.Raw(`</ul>`)
	}))
}

// SearchData is the data for the search page
type SearchData struct {
	layout.PageData
	Query   string
	Results []model.Post
	Error   string
}

// Search renders the search form and any results
func Search(data SearchData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Search</h1><form action="/search" method="get" id="search-form"><input type="search" name="q"`)
		m.Attr("value", data.Query)
		m.Raw(`><button type="submit">Search</button></form>`)
		m.Render(layout.FormError(data.Error))
		if data.Query == "" || data.Error != "" {
			return
		}
		m.Raw(`<section id="search-results"><p class="result-count">`)
		m.Textf("%d result(s) for %q", len(data.Results), data.Query)
		m.Raw(`</p>`)
		m.Render(postList(data.Results, "Nothing matched."))
		m.Raw(`</section>`)
	}))
}

func postList(posts []model.Post, empty string) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		if len(posts) == 0 {
			m.Raw(`<p class="empty">`)
			m.Text(empty)
			m.Raw(`</p>`)
			return
		}
		for _, p := range posts {
			m.Raw(`<article class="post-card"><h2><a`)
			m.URL("href", "/blog/"+p.Slug)
			m.Raw(`>`)
			m.Text(p.Title)
			m.Raw(`</a></h2>`)
			m.Render(postMeta(p))
			m.Raw(`<p class="post-excerpt">`)
			m.Text(p.Excerpt)
			m.Raw(`</p></article>`)
		}
	})
}

func postMeta(p model.Post) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<p class="post-meta">`)
		if !p.CreatedAt.IsZero() {
			m.Raw(`<time>`)
			m.Text(p.CreatedAt.Format(dateFormat))
			m.Raw(`</time> `)
		}
		if p.Author.Username != "" {
			m.Raw(`by <span class="post-author">`)
			m.Text(p.Author.Name())
			m.Raw(`</span> `)
		}
		if p.Category.Slug != "" {
			m.Raw(`in <a class="post-category"`)
			m.URL("href", "/category/"+p.Category.Slug)
			m.Raw(`>`)
			m.Text(p.Category.Name)
			m.Raw(`</a>`)
		}
		m.Raw(`</p>`)
	})
}

func categoryList(categories []model.Category) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<ul class="category-list">`)
		for _, c := range categories {
			m.Raw(`<li class="category"><a`)
			m.URL("href", "/category/"+c.Slug)
			m.Raw(`>`)
			m.Text(c.Name)
			m.Raw(`</a> <span class="count">`)
			m.Textf("(%d)", c.PostCount)
			m.Raw(`</span></li>`)
		}
		m.Raw(`</ul>`)
	})
}
