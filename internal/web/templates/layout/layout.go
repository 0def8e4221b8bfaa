package layout

import (
	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// SiteName appears in every page title
const SiteName = "Blog"

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is common to every page
type PageData struct {
	Title string
	User  *model.Identity
	Flash *FlashMessage
}

// Base wraps content in the site chrome
func Base(data PageData, content templ.Component) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		if data.Title != "" {
			m.Text(data.Title + " | ")
		}
		m.Text(SiteName)
		m.Raw(`</title><link rel="stylesheet" href="/static/style.css"></head><body>`)
		m.Render(Nav(data.User))
		m.Raw(`<main class="container">`)
		m.Render(Flash(data.Flash))
		m.Render(content)
		m.Raw(`</main><footer class="site-footer"><p>`)
		m.Text(SiteName)
		m.Raw(`</p></footer></body></html>`)
	})
}

// Nav is the site header; its links depend on who is signed in
func Nav(user *model.Identity) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<header class="site-header"><nav>`,
			`<a href="/" class="brand">`)
		m.Text(SiteName)
		m.Raw(`</a><a href="/blog">Blog</a><a href="/categories">Categories</a><a href="/tags">Tags</a>`,
			`<form action="/search" method="get" class="nav-search"><input type="search" name="q" placeholder="Search posts"></form>`)
		if user == nil {
			m.Raw(`<span class="nav-auth"><a href="/login" id="nav-login">Login</a><a href="/register" id="nav-register">Register</a></span>`)
		} else {
			m.Raw(`<span class="nav-auth"><a href="/dashboard" id="nav-user">`)
			m.Text(user.Name())
			m.Raw(`</a>`)
			if user.Role().AtLeast(model.RoleEditor) {
				m.Raw(`<a href="/admin" id="nav-admin">Admin</a>`)
			}
			m.Raw(`<a href="/account/password">Account</a>`,
				`<form action="/logout" method="post" class="inline"><button type="submit" id="nav-logout">Logout</button></form></span>`)
		}
		m.Raw(`</nav></header>`)
	})
}

// Flash renders the pending notice, if any
func Flash(f *FlashMessage) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		if f == nil || f.Message == "" {
			return
		}
		m.Raw(`<div role="alert"`)
		m.Attr("class", "flash flash-"+f.Type)
		m.Raw(`>`)
		m.Text(f.Message)
		m.Raw(`</div>`)
	})
}

// Loading is shown while the session has not been resolved
func Loading() templ.Component {
	return markup.Component(func(m *markup.Writer) {
		m.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta http-equiv="refresh" content="1"><title>Loading</title></head>`,
			`<body><div class="loading" aria-busy="true"><span class="spinner"></span>Loading...</div></body></html>`)
	})
}
