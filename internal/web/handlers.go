package web

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/bizvisa/internal/logging"
	"github.com/JonMunkholm/bizvisa/internal/visa"
	"github.com/JonMunkholm/bizvisa/internal/web/templates"
)

// queryFromValues reads the five lookup fields from form or URL values.
func queryFromValues(v url.Values) visa.Query {
	return visa.Query{
		Nationality:        v.Get(templates.FieldNationality),
		OriginCountry:      v.Get(templates.FieldOrigin),
		DestinationCountry: v.Get(templates.FieldDestination),
		StayDuration:       v.Get(templates.FieldDuration),
		StayType:           v.Get(templates.FieldStayType),
	}
}

// handleIndex renders the lookup form, or the unavailable alert when the
// reference data cannot be loaded.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.Options(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	renderPage(w, r, http.StatusOK, templates.LookupPage(opts, visa.Query{}, nil))
}

// handleLookupForm handles the form submission. HTMX requests get the
// result panel only; plain posts get the whole page.
func (s *Server) handleLookupForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	q := queryFromValues(r.PostForm)

	res, err := s.service.Lookup(ctx, q)
	panel, ok := lookupPanel(q, res, err)
	if !ok {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	if isHTMX(r) {
		renderPage(w, r, http.StatusOK, panel)
		return
	}

	opts, err := s.service.Options(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	renderPage(w, r, http.StatusOK, templates.LookupPage(opts, q, panel))
}

// lookupPanel picks the result panel for a lookup outcome. ok is false for
// failures that should go through respondError.
//
// A matched rule with a blank visa type or conditions is shown as no match.
func lookupPanel(q visa.Query, res visa.Result, err error) (templ.Component, bool) {
	switch {
	case err == nil && res.Complete():
		return templates.ResultCard(q, res), true
	case err == nil, errors.Is(err, visa.ErrNoMatch):
		return templates.NoMatch(visa.MapError(visa.ErrNoMatch).Code), true
	case errors.Is(err, visa.ErrIncompleteQuery):
		msg := visa.MapError(err)
		return templates.Warning(msg.Message, msg.Action), true
	default:
		return nil, false
	}
}

// handleOptions returns the dropdown values as JSON.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.Options(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// LookupResponse is the JSON body of a successful API lookup.
type LookupResponse struct {
	VisaType   string    `json:"visa_type"`
	Conditions string    `json:"conditions"`
	Tier       visa.Tier `json:"tier"`
	Row        int       `json:"row"`
	Complete   bool      `json:"complete"`
}

// handleLookupAPI runs a lookup from URL query parameters.
func (s *Server) handleLookupAPI(w http.ResponseWriter, r *http.Request) {
	q := queryFromValues(r.URL.Query())

	res, err := s.service.Lookup(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, LookupResponse{
		VisaType:   res.VisaType,
		Conditions: res.Conditions,
		Tier:       res.Tier,
		Row:        res.Row,
		Complete:   res.Complete(),
	})
}

// handleDataset returns metadata about the cached reference table.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Dataset(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string            `json:"status"`
	Code      string            `json:"code,omitempty"`
	Dataset   *visa.DatasetInfo `json:"dataset,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// handleHealth reports whether the reference table can be loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Dataset(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unavailable",
			Code:      visa.MapError(err).Code,
			CheckedAt: time.Now().UTC(),
		})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Dataset:   &info,
		CheckedAt: time.Now().UTC(),
	})
}
