package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/tagcal/internal/layout"
)

// maxContainerWidth bounds ?width= so a request cannot ask for an absurd SVG.
const maxContainerWidth = 10000

// GetCalendar handles GET /calendar.
// Returns the computed layout of every displayed month. ?width= sets the
// container width in pixels.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	opts, ok := layoutOptions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.cal.Layout(r.Context(), opts))
}

// GetCalendarSVG handles GET /calendar.svg.
// ?title= is printed above the months.
func (s *Server) GetCalendarSVG(w http.ResponseWriter, r *http.Request) {
	opts, ok := layoutOptions(w, r)
	if !ok {
		return
	}
	svg := layout.RenderSVG(s.cal.Layout(r.Context(), opts), r.URL.Query().Get("title"))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

func layoutOptions(w http.ResponseWriter, r *http.Request) (layout.Options, bool) {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return layout.Options{}, true
	}
	width, err := strconv.ParseFloat(raw, 64)
	if err != nil || width <= 0 || width > maxContainerWidth {
		badRequest(w, "width must be a positive number of pixels")
		return layout.Options{}, false
	}
	return layout.Options{ContainerWidth: width}, true
}
