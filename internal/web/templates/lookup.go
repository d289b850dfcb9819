package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/bizvisa/internal/visa"
)

// Form field names shared by the page, the form handler and the JSON API.
const (
	FieldNationality = "nationality"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldDuration    = "duration"
	FieldStayType    = "stay_type"
)

// Field is one dropdown of the lookup form.
type Field struct {
	Name     string
	Label    string
	Options  []string
	Selected string
}

// FormFields builds the five dropdowns, keeping the current selection.
func FormFields(opts visa.Options, q visa.Query) []Field {
	return []Field{
		{FieldNationality, "Nationality", opts.Nationalities, q.Nationality},
		{FieldOrigin, "Origin country", opts.Origins, q.OriginCountry},
		{FieldStayType, "Stay type", opts.StayTypes, q.StayType},
		{FieldDestination, "Destination country", opts.Destinations, q.DestinationCountry},
		{FieldDuration, "Stay duration", opts.Durations, q.StayDuration},
	}
}

// LookupPage renders the full page: form on the left, panel on the right.
func LookupPage(opts visa.Options, q visa.Query, panel templ.Component) templ.Component {
	return Layout("Business Visas", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="columns"><section class="form-container">`)
		if h.err != nil {
			return h.err
		}
		if err := LookupForm(FormFields(opts, q)).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</section><section><h2>Result</h2><div id="result">`)
		if h.err != nil {
			return h.err
		}
		if panel == nil {
			panel = Info("Fill in the form and submit it to get the result.")
		}
		if err := panel.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div></section></div>`)
		return h.err
	}))
}

// LookupForm renders the five dropdowns. Without JavaScript the form posts
// normally; with HTMX only the result panel is swapped.
func LookupForm(fields []Field) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<form method="post" action="/lookup" hx-post="/lookup" hx-target="#result" hx-swap="innerHTML">`)
		for _, f := range fields {
			h.raw(`<label`)
			h.attr("for", f.Name)
			h.raw(`>`)
			h.text(f.Label)
			h.raw(`</label><select`)
			h.attr("id", f.Name)
			h.attr("name", f.Name)
			h.raw(`><option value="">`)
			h.text(visa.Placeholder)
			h.raw(`</option>`)
			for _, opt := range f.Options {
				h.raw(`<option`)
				h.attr("value", opt)
				if opt == f.Selected {
					h.raw(` selected`)
				}
				h.raw(`>`)
				h.text(opt)
				h.raw(`</option>`)
			}
			h.raw(`</select>`)
		}
		h.raw(`<button type="submit">Find the required visa</button></form>`)
		return h.err
	})
}

// ResultCard renders a matched rule with a summary of the query.
func ResultCard(q visa.Query, res visa.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="result-card">`)

		h.raw(`<div class="summary"><span class="label">Nationality</span><span>`)
		h.text(q.Nationality)
		h.raw(`</span></div>`)

		h.raw(`<div class="summary"><span class="label">Route</span><span>`)
		h.text(q.OriginCountry)
		h.raw(` → `)
		h.text(q.DestinationCountry)
		h.raw(`</span></div>`)

		h.raw(`<div class="summary"><span class="label">Duration</span><span>`)
		h.text(q.StayDuration)
		h.raw(`</span></div><hr>`)

		h.raw(`<div class="visa-type">`)
		h.text(res.VisaType)
		h.raw(`</div>`)

		if res.Tier == visa.TierFallback {
			h.raw(`<p class="tier">Closest match on nationality and destination. Other criteria differ.</p>`)
		}

		h.raw(`<h3>Conditions</h3><div class="conditions-box">`)
		h.text(res.Conditions)
		h.raw(`</div>`)

		h.raw(`<div class="alert alert-info">For guidance only. Check with the consular authorities.</div>`)
		h.raw(`</div>`)
		return h.err
	})
}
