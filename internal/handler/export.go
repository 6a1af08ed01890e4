package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/pkordes/tagcal/internal/service"
)

// GetExport handles GET /export.
// ?format= selects json (default), yaml, csv or ics. The response is sent
// as a download named calendario_<date>.<ext>.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	file, err := s.export.Export(r.Context(), format)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

// PostImport handles POST /import.
// The body is a JSON export document. Without ?confirm=true the import is a
// dry run that only reports what would be loaded.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	confirm := false
	if raw := r.URL.Query().Get("confirm"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, "confirm must be true or false")
			return
		}
		confirm = v
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	summary, err := s.export.Import(r.Context(), data, confirm)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
