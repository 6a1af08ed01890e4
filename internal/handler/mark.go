package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tagcal/internal/domain"
)

// ListMarks handles GET /marks.
// The body maps each marked ISO date to its ordered entries.
func (s *Server) ListMarks(w http.ResponseWriter, r *http.Request) {
	marks := s.cal.Marks(r.Context())
	resp := make(map[string][]MarkEntry, len(marks))
	for date, entries := range marks {
		resp[date] = entriesToResponse(entries)
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkDay handles POST /marks.
func (s *Server) MarkDay(w http.ResponseWriter, r *http.Request) {
	var body MarkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Date.Time.IsZero() {
		badRequest(w, "date is required")
		return
	}

	entries, err := s.cal.MarkDay(r.Context(), body.TagId, domain.DateOf(body.Date.Time))
	if err != nil {
		writeServiceError(w, err, "mark not found")
		return
	}
	writeJSON(w, http.StatusOK, DayMarks{Date: body.Date, Entries: entriesToResponse(entries)})
}

// UnmarkDay handles DELETE /marks/{date}/{tagId}.
func (s *Server) UnmarkDay(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.cal.UnmarkDay(r.Context(), chi.URLParam(r, "tagId"), d); err != nil {
		writeServiceError(w, err, "mark not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearMarks handles DELETE /marks. Periods go with their marks; tags stay.
func (s *Server) ClearMarks(w http.ResponseWriter, r *http.Request) {
	if err := s.cal.ClearAll(r.Context()); err != nil {
		writeServiceError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entriesToResponse(entries []domain.MarkEntry) []MarkEntry {
	out := make([]MarkEntry, len(entries))
	for i, e := range entries {
		out[i] = MarkEntry{TagId: e.TagID, Name: e.Name, Color: e.Color}
		if e.PeriodID != "" {
			id := e.PeriodID
			out[i].PeriodId = &id
		}
	}
	return out
}

// dateOf converts a domain date to the API date type.
func dateOf(d domain.Date) openapi_types.Date {
	return openapi_types.Date{Time: d.Time()}
}
