package markup

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, build func(m *Writer)) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Component(build).Render(context.Background(), &buf))
	return buf.String()
}

func TestTextIsEscaped(t *testing.T) {
	out := render(t, func(m *Writer) {
		m.Raw("<p>")
		m.Text(`<script>alert("x")</script>`)
		m.Raw("</p>")
	})
	assert.Equal(t, `<p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</p>`, out)
}

func TestAttrIsEscaped(t *testing.T) {
	out := render(t, func(m *Writer) {
		m.Raw("<input")
		m.Attr("value", `a" onfocus="x`)
		m.Raw(">")
	})
	assert.NotContains(t, out, `" onfocus="`)
}

func TestURLRejectsJavascript(t *testing.T) {
	out := render(t, func(m *Writer) {
		m.Raw("<a")
		m.URL("href", "javascript:alert(1)")
		m.Raw(">x</a>")
	})
	assert.NotContains(t, out, "javascript:")

	out = render(t, func(m *Writer) {
		m.Raw("<a")
		m.URL("href", "/blog/hello-go")
		m.Raw(">x</a>")
	})
	assert.Contains(t, out, `href="/blog/hello-go"`)
}

func TestNestedRender(t *testing.T) {
	inner := Component(func(m *Writer) { m.Raw("<b>in</b>") })
	out := render(t, func(m *Writer) {
		m.Raw("<div>")
		m.Render(inner)
		m.Raw("</div>")
	})
	assert.Equal(t, "<div><b>in</b></div>", out)
}
