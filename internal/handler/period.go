package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tagcal/internal/domain"
)

// ListPeriods handles GET /periods.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
// The total is repeated in the X-Total-Count header.
func (s *Server) ListPeriods(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	params := domain.NewPaginationParams(page, limit)
	periods, total := s.cal.ListPeriods(r.Context(), params)

	data := make([]Period, len(periods))
	for i, p := range periods {
		data[i] = periodToResponse(p)
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, PeriodList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetPeriod handles GET /periods/{id}.
func (s *Server) GetPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := s.cal.Period(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "period not found")
		return
	}
	writeJSON(w, http.StatusOK, periodToResponse(p))
}

// CreatePeriod handles POST /periods.
func (s *Server) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	tagID, start, end, ok := decodePeriod(w, r)
	if !ok {
		return
	}

	p, err := s.cal.CreatePeriod(r.Context(), tagID, start, end)
	if err != nil {
		writeServiceError(w, err, "period not found")
		return
	}
	writeJSON(w, http.StatusCreated, periodToResponse(p))
}

// UpdatePeriod handles PUT /periods/{id}.
func (s *Server) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	tagID, start, end, ok := decodePeriod(w, r)
	if !ok {
		return
	}

	p, err := s.cal.EditPeriod(r.Context(), chi.URLParam(r, "id"), tagID, start, end)
	if err != nil {
		writeServiceError(w, err, "period not found")
		return
	}
	writeJSON(w, http.StatusOK, periodToResponse(p))
}

// DeletePeriod handles DELETE /periods/{id}.
func (s *Server) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	if err := s.cal.DeletePeriod(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "period not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// decodePeriod reads a PeriodRequest and converts its dates.
// Missing dates are rejected here; range checks belong to the service.
func decodePeriod(w http.ResponseWriter, r *http.Request) (string, domain.Date, domain.Date, bool) {
	var body PeriodRequest
	if !decodeBody(w, r, &body) {
		return "", domain.Date{}, domain.Date{}, false
	}
	if body.StartDate.Time.IsZero() || body.EndDate.Time.IsZero() {
		badRequest(w, "startDate and endDate are required")
		return "", domain.Date{}, domain.Date{}, false
	}
	return body.TagId, domain.DateOf(body.StartDate.Time), domain.DateOf(body.EndDate.Time), true
}

func periodToResponse(p domain.Period) Period {
	return Period{
		Id:        p.ID,
		TagId:     p.TagID,
		TagName:   p.TagName,
		TagColor:  p.TagColor,
		StartDate: dateOf(p.StartDate),
		EndDate:   dateOf(p.EndDate),
	}
}

// queryInt parses an optional integer query parameter.
// It writes a 422 and reports false when the value is not a number.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, name+" must be an integer")
		return nil, false
	}
	return &n, true
}
