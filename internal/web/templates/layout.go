package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTMXSource is the script loaded by every page.
const HTMXSource = "https://unpkg.com/htmx.org@2.0.4"

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		// swap error responses too, so unavailable-data alerts reach the panel
		h.raw(`<meta name="htmx-config" content='{"responseHandling":[{"code":".*","swap":true}]}'>`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/style.css">`)
		h.raw(`<script`)
		h.attr("src", HTMXSource)
		h.raw(`></script></head><body><main class="container">`)
		h.raw(`<h1>Business Visas</h1>`)
		h.raw(`<p class="subtitle">Find the visa your employees need for international business trips</p>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}
