// Package markup builds templ components from Go code.
//
// Every string that did not come from a literal in this module goes through
// Text, Attr or URL so that it is escaped.
package markup

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates markup and remembers the first write error
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// Component adapts a build function to templ.Component
func Component(build func(m *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &Writer{ctx: ctx, w: w}
		build(m)
		return m.err
	})
}

func (m *Writer) write(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Raw writes trusted markup as is
func (m *Writer) Raw(parts ...string) {
	for _, p := range parts {
		m.write(p)
	}
}

// Text writes escaped text
func (m *Writer) Text(s string) {
	m.write(templ.EscapeString(s))
}

// Textf writes escaped formatted text
func (m *Writer) Textf(format string, args ...any) {
	m.Text(fmt.Sprintf(format, args...))
}

// Attr writes ` name="value"` with value escaped
func (m *Writer) Attr(name, value string) {
	m.write(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// URL writes a URL attribute, replacing unsafe schemes
func (m *Writer) URL(name, u string) {
	m.Attr(name, string(templ.URL(u)))
}

// Flag writes a boolean attribute when on is true
func (m *Writer) Flag(name string, on bool) {
	if on {
		m.write(" " + name)
	}
}

// Render writes a nested component
func (m *Writer) Render(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

// Err returns the first write error
func (m *Writer) Err() error {
	return m.err
}
