// Package templates renders the lookup pages as templ components.
package templates

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *htmlWriter {
	return &htmlWriter{w: w}
}

// raw writes s as-is. Only for literal markup.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}
