package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tagcal/internal/domain"
)

// ListTags handles GET /tags.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags := s.cal.Tags(r.Context())
	resp := make([]Tag, len(tags))
	for i, t := range tags {
		resp[i] = tagToResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTag handles POST /tags.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var body TagRequest
	if !decodeBody(w, r, &body) {
		return
	}

	tag, err := s.cal.AddTag(r.Context(), body.Name, derefString(body.Color))
	if err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusCreated, tagToResponse(tag))
}

// UpdateTag handles PUT /tags/{id}.
func (s *Server) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var body TagRequest
	if !decodeBody(w, r, &body) {
		return
	}

	tag, err := s.cal.EditTag(r.Context(), chi.URLParam(r, "id"), body.Name, derefString(body.Color))
	if err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// DeleteTag handles DELETE /tags/{id}.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.cal.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func tagToResponse(t domain.Tag) Tag {
	return Tag{Id: t.ID, Name: t.Name, Color: t.Color}
}

// derefString returns the value of s, or "" if s is nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
