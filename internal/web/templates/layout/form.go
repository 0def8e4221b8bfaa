package layout

import (
	"github.com/a-h/templ"

	"github.com/mcoot/blogfront/internal/web/templates/markup"
)

// Field describes one labelled form control
type Field struct {
	Label       string
	Name        string
	Type        string // text, email, password, textarea, checkbox, hidden
	Value       string
	Error       string
	Required    bool
	Checked     bool
	Placeholder string
}

// Input renders a labelled control with its validation message
func Input(f Field) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		if f.Type == "hidden" {
			m.Raw(`<input type="hidden"`)
			m.Attr("name", f.Name)
			m.Attr("value", f.Value)
			m.Raw(`>`)
			return
		}

		m.Raw(`<div class="field`)
		if f.Error != "" {
			m.Raw(` has-error`)
		}
		m.Raw(`"><label`)
		m.Attr("for", f.Name)
		m.Raw(`>`)
		m.Text(f.Label)
		m.Raw(`</label>`)

		switch f.Type {
		case "textarea":
			m.Raw(`<textarea`)
			m.Attr("id", f.Name)
			m.Attr("name", f.Name)
			m.Flag("required", f.Required)
			m.Raw(`>`)
			m.Text(f.Value)
			m.Raw(`</textarea>`)
		case "checkbox":
			m.Raw(`<input type="checkbox" value="true"`)
			m.Attr("id", f.Name)
			m.Attr("name", f.Name)
			m.Flag("checked", f.Checked)
			m.Raw(`>`)
		default:
			typ := f.Type
			if typ == "" {
				typ = "text"
			}
			m.Raw(`<input`)
			m.Attr("type", typ)
			m.Attr("id", f.Name)
			m.Attr("name", f.Name)
			if typ != "password" {
				m.Attr("value", f.Value)
			}
			if f.Placeholder != "" {
				m.Attr("placeholder", f.Placeholder)
			}
			m.Flag("required", f.Required)
			m.Raw(`>`)
		}

		if f.Error != "" {
			m.Raw(`<p class="field-error"`)
			m.Attr("data-field", f.Name)
			m.Raw(`>`)
			m.Text(f.Error)
			m.Raw(`</p>`)
		}
		m.Raw(`</div>`)
	})
}

// FormError renders a form-level error message
func FormError(msg string) templ.Component {
	return markup.Component(func(m *markup.Writer) {
		if msg == "" {
			return
		}
		m.Raw(`<div class="form-error" role="alert">`)
		m.Text(msg)
		m.Raw(`</div>`)
	})
}
