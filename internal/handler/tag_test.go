package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/handler"
)

// ---- GET /tags -------------------------------------------------------------

func TestListTags_200(t *testing.T) {
	svc := &mockCalendarServicer{
		tags: func(_ context.Context) []domain.Tag {
			return []domain.Tag{tagFixture(), {ID: "tag_2", Name: "Work", Color: "#00ff00"}}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Tag
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "tag_1", resp[0].Id)
	assert.Equal(t, "Work", resp[1].Name)
}

func TestListTags_emptyIsArray(t *testing.T) {
	svc := &mockCalendarServicer{tags: func(context.Context) []domain.Tag { return nil }}

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// ---- POST /tags ------------------------------------------------------------

func TestCreateTag_201(t *testing.T) {
	var gotName, gotColor string
	svc := &mockCalendarServicer{
		addTag: func(_ context.Context, name, color string) (domain.Tag, error) {
			gotName, gotColor = name, color
			return domain.Tag{ID: "tag_1", Name: name, Color: domain.DefaultTagColor}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/tags", jsonBody(t, map[string]any{"name": "Vacation"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Vacation", gotName)
	assert.Empty(t, gotColor, "absent color is passed as empty so the service picks the default")

	var resp handler.Tag
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.DefaultTagColor, resp.Color)
}

func TestCreateTag_422_ValidationError(t *testing.T) {
	svc := &mockCalendarServicer{
		addTag: func(_ context.Context, _, _ string) (domain.Tag, error) {
			return domain.Tag{}, fmt.Errorf("service.CalendarService.AddTag: %w: name is required", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/tags", jsonBody(t, map[string]any{"name": "  "}))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "name is required", resp.Error.Message)
}

func TestCreateTag_422_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tags", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockCalendarServicer{}, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec.Body).Error.Message)
}

func TestCreateTag_413_BodyTooLarge(t *testing.T) {
	h := newHTTPHandler(&mockCalendarServicer{}, nil)
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 8)
		h.ServeHTTP(w, r)
	})

	req := httptest.NewRequest(http.MethodPost, "/tags", jsonBody(t, map[string]any{"name": "a rather long tag name"}))
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decodeError(t, rec.Body).Error.Code)
}

// ---- PUT /tags/{id} --------------------------------------------------------

func TestUpdateTag_200(t *testing.T) {
	var gotID, gotColor string
	svc := &mockCalendarServicer{
		editTag: func(_ context.Context, id, name, color string) (domain.Tag, error) {
			gotID, gotColor = id, color
			return domain.Tag{ID: id, Name: name, Color: color}, nil
		},
	}

	body := jsonBody(t, map[string]any{"name": "Holiday", "color": "#123456"})
	req := httptest.NewRequest(http.MethodPut, "/tags/tag_1", body)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tag_1", gotID)
	assert.Equal(t, "#123456", gotColor)
}

func TestUpdateTag_404(t *testing.T) {
	svc := &mockCalendarServicer{
		editTag: func(_ context.Context, id, _, _ string) (domain.Tag, error) {
			return domain.Tag{}, fmt.Errorf("service.CalendarService.EditTag: tag %s: %w", id, domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/tags/tag_x", jsonBody(t, map[string]any{"name": "X"}))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "tag not found", resp.Error.Message)
}

// ---- DELETE /tags/{id} -----------------------------------------------------

func TestDeleteTag_204(t *testing.T) {
	var gotID string
	svc := &mockCalendarServicer{
		deleteTag: func(_ context.Context, id string) error {
			gotID = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/tags/tag_1", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tag_1", gotID)
}

func TestDeleteTag_500_UnexpectedError(t *testing.T) {
	svc := &mockCalendarServicer{
		deleteTag: func(context.Context, string) error { return fmt.Errorf("disk on fire") },
	}

	req := httptest.NewRequest(http.MethodDelete, "/tags/tag_1", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "internal_error", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "fire")
}
