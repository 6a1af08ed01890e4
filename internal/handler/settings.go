package handler

import (
	"net/http"

	"github.com/pkordes/tagcal/internal/domain"
)

// GetSettings handles GET /settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsToResponse(s.cal.Settings(r.Context())))
}

// UpdateSettings handles PUT /settings.
// startMonth is "YYYY-MM"; monthsCount must be between 1 and 36.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body Settings
	if !decodeBody(w, r, &body) {
		return
	}
	start, err := domain.ParseYearMonth(body.StartMonth)
	if err != nil {
		badRequest(w, "startMonth must be YYYY-MM")
		return
	}

	updated, err := s.cal.UpdateSettings(r.Context(), domain.DisplaySettings{
		StartMonth:        start,
		MonthsCount:       body.MonthsCount,
		HighlightWeekends: body.HighlightWeekends,
		WeekendColor:      body.WeekendColor,
	})
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, settingsToResponse(updated))
}

func settingsToResponse(s domain.DisplaySettings) Settings {
	return Settings{
		StartMonth:        s.StartMonth.String(),
		MonthsCount:       s.MonthsCount,
		HighlightWeekends: s.HighlightWeekends,
		WeekendColor:      s.WeekendColor,
	}
}
