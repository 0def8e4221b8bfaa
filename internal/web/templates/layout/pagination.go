package layout

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// Pager links to neighbouring pages of a listing at path, keeping query
func Pager(path string, query url.Values, p model.Pagination) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		if p.TotalPages <= 1 {
			return
		}
		m.Raw(`<nav class="pagination">`)
		if p.HasPrev() {
			m.Raw(`<a rel="prev" class="page-prev"`)
			m.URL("href", pageURL(path, query, p.Page-1))
			m.Raw(`>Previous</a>`)
		}
		m.Raw(`<span class="page-current">`)
		m.Textf("Page %d of %d", p.Page, p.TotalPages)
		m.Raw(`</span>`)
		if p.HasNext() {
			m.Raw(`<a rel="next" class="page-next"`)
			m.URL("href", pageURL(path, query, p.Page+1))
			m.Raw(`>Next</a>`)
		}
		m.Raw(`</nav>`)
	})
}

func pageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}
