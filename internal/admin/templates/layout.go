// Package templates renders the admin console.
package templates

import (
	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// Section identifies the active sidebar entry
type Section string

const (
	SectionDashboard  Section = "dashboard"
	SectionPosts      Section = "posts"
	SectionCategories Section = "categories"
	SectionTags       Section = "tags"
	SectionUsers      Section = "users"
)

// Console wraps admin content in the site chrome plus the admin sidebar
func Console(data layout.PageData, active Section, content templ.Component) templ.Component {
	return layout.Base(data, markup.Component(func(m *markup.Writer) {
		m.Raw(`<div class="admin"><aside class="admin-sidebar"><ul>`)
		link := func(s Section, href, label string) {
			m.Raw(`<li><a`)
			m.Attr("href", href)
			if s == active {
				m.Raw(` class="active"`)
			}
			m.Raw(`>`)
			m.Text(label)
			m.Raw(`</a></li>`)
		}
		link(SectionDashboard, "/admin", "Dashboard")
		link(SectionPosts, "/admin/posts", "Posts")
		link(SectionCategories, "/admin/categories", "Categories")
		link(SectionTags, "/admin/tags", "Tags")
		if data.User != nil && data.User.Role().AtLeast(model.RoleAdmin) {
			link(SectionUsers, "/admin/users", "Users")
		}
		m.Raw(`</ul></aside><section class="admin-content">`)
		m.Render(content)
		m.Raw(`</section></div>`)
	}))
}

// deleteButton posts to action after a browser confirmation
func deleteButton(action, what string) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<form method="post" class="inline delete-form"`)
		m.Attr("action", action)
		m.Attr("onsubmit", "return confirm('Delete this "+what+"?')")
		m.Raw(`><button type="submit" class="danger">Delete</button></form>`)
	})
}
