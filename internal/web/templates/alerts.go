package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders an error with its action hint and support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="alert alert-error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="code">Code: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// Warning renders a non-fatal notice, such as an incomplete form.
func Warning(message, action string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="alert alert-warning" role="status"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// NoMatch renders the guidance shown when no rule corresponds to the query.
func NoMatch(code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="alert alert-warning" role="status">`)
		h.raw(`<strong>No match found</strong>`)
		h.raw(`<p>The selected criteria do not correspond to any entry in the reference data.</p>`)
		h.raw(`<p>Suggestions:</p><ul>`)
		h.raw(`<li>Check the nationality/origin/destination combination</li>`)
		h.raw(`<li>Try broader criteria</li>`)
		h.raw(`<li>Contact the relocation team for personalised assistance</li>`)
		h.raw(`</ul><p class="code">Code: `)
		h.text(code)
		h.raw(`</p></div>`)
		return h.err
	})
}

// Info renders a neutral hint.
func Info(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="alert alert-info">`)
		h.text(message)
		h.raw(`</div>`)
		return h.err
	})
}
