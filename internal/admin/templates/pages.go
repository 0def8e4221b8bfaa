package templates

import (
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// DashboardData is the data for the admin dashboard
type DashboardData struct {
	layout.PageData
	Stats model.DashboardStats
}

// Dashboard renders the headline numbers and recent posts
func Dashboard(data DashboardData) templ.Component {
	st := data.Stats
	return Console(data.PageData, SectionDashboard, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Dashboard</h1><div class="stats">`)
		stat := func(id, label string, n int) {
			m.Raw(`<div class="stat"`)
			m.Attr("id", id)
			m.Raw(`><span class="stat-value">`)
			m.Text(strconv.Itoa(n))
			m.Raw(`</span><span class="stat-label">`)
			m.Text(label)
			m.Raw(`</span></div>`)
		}
		stat("stat-posts", "Posts", st.Posts)
		stat("stat-published", "Published", st.Published)
		stat("stat-drafts", "Drafts", st.Drafts)
		stat("stat-comments", "Comments", st.Comments)
		stat("stat-categories", "Categories", st.Categories)
		stat("stat-tags", "Tags", st.Tags)
		stat("stat-users", "Users", st.Users)
		m.Raw(`</div>`)
		if len(st.RecentPosts) > 0 {
			m.Raw(`<h2>Recent posts</h2><ul id="recent-posts">`)
			for _, p := range st.RecentPosts {
				m.Raw(`<li><a`)
				m.Attr("href", "/admin/posts/"+strconv.FormatInt(p.ID, 10)+"/edit")
				m.Raw(`>`)
				m.Text(p.Title)
				m.Raw(`</a> <span class="status">`)
				m.Text(p.Status())
				m.Raw(`</span></li>`)
			}
			m.Raw(`</ul>`)
		}
		m.Raw(`<p><a href="/admin/posts/new" class="button">New post</a></p>`)
	}))
}

// Post status filters
const (
	StatusAll       = "all"
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// PostsData is the data for the admin post list
type PostsData struct {
	layout.PageData
	Posts  []model.Post
	Status string
}

// Posts renders every post with a status filter
func Posts(data PostsData) templ.Component {
	return Console(data.PageData, SectionPosts, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Posts</h1><p><a href="/admin/posts/new" class="button" id="new-post">New post</a></p><nav class="status-filter">`)
		for _, s := range []string{StatusAll, StatusPublished, StatusDraft} {
			m.Raw(`<a`)
			m.Attr("href", "/admin/posts?status="+s)
			if s == data.Status {
				m.Raw(` class="active"`)
			}
			m.Raw(`>`)
			m.Text(s)
			m.Raw(`</a>`)
		}
		m.Raw(`</nav>`)
		if len(data.Posts) == 0 {
			m.Raw(`<p class="empty">No posts.</p>`)
			return
		}
		m.Raw(`<table id="admin-posts"><thead><tr><th>Title</th><th>Category</th><th>Status</th><th>Updated</th><th></th></tr></thead><tbody>`)
		for _, p := range data.Posts {
			id := strconv.FormatInt(p.ID, 10)
			m.Raw(`<tr class="post-row"`)
			m.Attr("data-status", p.Status())
			m.Raw(`><td><a`)
			m.Attr("href", "/admin/posts/"+id+"/edit")
			m.Raw(`>`)
			m.Text(p.Title)
			m.Raw(`</a></td><td>`)
			m.Text(p.Category.Name)
			m.Raw(`</td><td class="status">`)
			m.Text(p.Status())
			m.Raw(`</td><td>`)
			m.Text(p.UpdatedAt.Format("2006-01-02"))
			m.Raw(`</td><td>`)
			m.Render(deleteButton("/admin/posts/"+id+"/delete", "post"))
			m.Raw(`</td></tr>`)
		}
		m.Raw(`</tbody></table>`)
	}))
}

// PostFormData is the data for creating or editing a post
type PostFormData struct {
	layout.PageData
	// ID is zero for a new post
	ID          int64
	Input       model.PostInput
	Categories  []model.Category
	Tags        []model.Tag
	Error       string
	FieldErrors map[string]string
}

// PostForm renders the post editor
func PostForm(data PostFormData) templ.Component {
	in := data.Input
	action := "/admin/posts"
	heading := "New post"
	if data.ID != 0 {
		action = "/admin/posts/" + strconv.FormatInt(data.ID, 10)
		heading = "Edit post"
	}
	return Console(data.PageData, SectionPosts, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>`)
		m.Text(heading)
		m.Raw(`</h1><form method="post" id="post-form"`)
		m.Attr("action", action)
		m.Raw(`>`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Title", Name: "title", Value: in.Title, Error: data.FieldErrors["title"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Slug", Name: "slug", Value: in.Slug, Error: data.FieldErrors["slug"], Placeholder: "generated from the title"}))
		m.Render(layout.Input(layout.Field{Label: "Excerpt", Name: "excerpt", Value: in.Excerpt, Error: data.FieldErrors["excerpt"]}))
		m.Render(layout.Input(layout.Field{Label: "Content", Name: "content", Type: "textarea", Value: in.Content, Error: data.FieldErrors["content"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Image URL", Name: "image_url", Value: in.ImageURL, Error: data.FieldErrors["image_url"]}))

		m.Raw(`<div class="field"><label for="category_id">Category</label><select id="category_id" name="category_id"><option value="">None</option>`)
		for _, c := range data.Categories {
			m.Raw(`<option`)
			m.Attr("value", strconv.FormatInt(c.ID, 10))
			m.Flag("selected", c.ID == in.CategoryID)
			m.Raw(`>`)
			m.Text(c.Name)
			m.Raw(`</option>`)
		}
		m.Raw(`</select></div><fieldset class="tags"><legend>Tags</legend>`)
		for _, t := range data.Tags {
			m.Raw(`<label><input type="checkbox" name="tag_ids"`)
			m.Attr("value", strconv.FormatInt(t.ID, 10))
			m.Flag("checked", slices.Contains(in.TagIDs, t.ID))
			m.Raw(`> `)
			m.Text(t.Name)
			m.Raw(`</label>`)
		}
		m.Raw(`</fieldset>`)
		m.Render(layout.Input(layout.Field{Label: "Published", Name: "published", Type: "checkbox", Checked: in.Published}))
		m.Raw(`<button type="submit">Save</button> <a href="/admin/posts">Cancel</a></form>`)
	}))
}

// CategoriesData is the data for managing categories
type CategoriesData struct {
	layout.PageData
	Categories  []model.Category
	Input       model.CategoryInput
	Error       string
	FieldErrors map[string]string
}

// Categories lists categories with a create form
func Categories(data CategoriesData) templ.Component {
	return Console(data.PageData, SectionCategories, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Categories</h1><table id="admin-categories"><thead><tr><th>Name</th><th>Slug</th><th>Posts</th><th></th></tr></thead><tbody>`)
		for _, c := range data.Categories {
			m.Raw(`<tr class="category-row"><td>`)
			m.Text(c.Name)
			m.Raw(`</td><td>`)
			m.Text(c.Slug)
			m.Raw(`</td><td>`)
			m.Text(strconv.Itoa(c.PostCount))
			m.Raw(`</td><td>`)
			m.Render(deleteButton("/admin/categories/"+strconv.FormatInt(c.ID, 10)+"/delete", "category"))
			m.Raw(`</td></tr>`)
		}
		m.Raw(`</tbody></table><h2>Add category</h2><form method="post" action="/admin/categories" id="category-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Name", Name: "name", Value: data.Input.Name, Error: data.FieldErrors["name"], Required: true}))
		m.Render(layout.Input(layout.Field{Label: "Slug", Name: "slug", Value: data.Input.Slug, Error: data.FieldErrors["slug"]}))
		m.Render(layout.Input(layout.Field{Label: "Description", Name: "description", Type: "textarea", Value: data.Input.Description, Error: data.FieldErrors["description"]}))
		m.Raw(`<button type="submit">Add category</button></form>`)
	}))
}

// TagsData is the data for managing tags
type TagsData struct {
	layout.PageData
	Tags        []model.Tag
	Input       model.TagInput
	Error       string
	FieldErrors map[string]string
}

// Tags lists tags with a create form
func Tags(data TagsData) templ.Component {
	return Console(data.PageData, SectionTags, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Tags</h1><ul id="admin-tags">`)
		for _, t := range data.Tags {
			m.Raw(`<li class="tag-row">`)
			m.Text(t.Name)
			m.Raw(` `)
			m.Render(deleteButton("/admin/tags/"+strconv.FormatInt(t.ID, 10)+"/delete", "tag"))
			m.Raw(`</li>`)
		}
		m.Raw(`</ul><h2>Add tag</h2><form method="post" action="/admin/tags" id="tag-form">`)
		m.Render(layout.FormError(data.Error))
		m.Render(layout.Input(layout.Field{Label: "Name", Name: "name", Value: data.Input.Name, Error: data.FieldErrors["name"], Required: true}))
		m.Raw(`<button type="submit">Add tag</button></form>`)
	}))
}

// UsersData is the data for the user list
type UsersData struct {
	layout.PageData
	Users []model.Identity
}

// Users lists every account
func Users(data UsersData) templ.Component {
	return Console(data.PageData, SectionUsers, markup.Component(func(m *markup.Writer) {
		m.Raw(`<h1>Users</h1><table id="admin-users"><thead><tr><th>Username</th><th>Email</th><th>Role</th></tr></thead><tbody>`)
		for _, u := range data.Users {
			m.Raw(`<tr class="user-row"><td>`)
			m.Text(u.Username)
			m.Raw(`</td><td>`)
			m.Text(u.Email)
			m.Raw(`</td><td class="role">`)
			m.Text(string(u.Role()))
			m.Raw(`</td></tr>`)
		}
		m.Raw(`</tbody></table>`)
	}))
}
