package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	h "eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/domain"

	"github.com/stretchr/testify/require"
)

const testEventID = "2b1e9a65-0f0e-4d8a-9a3e-3e9d9a3c7f11"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubEventService lets each test plug in just the method it exercises.
type stubEventService struct {
	create       func(ctx context.Context, e *domain.Event) (*domain.Event, error)
	getByID      func(ctx context.Context, id string) (*domain.Event, error)
	list         func(ctx context.Context) ([]*domain.Event, error)
	update       func(ctx context.Context, id string, e *domain.Event) (*domain.Event, error)
	updateStatus func(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error)
	delete       func(ctx context.Context, id string) error
	statistics   func(ctx context.Context) (*domain.EventStatistics, error)
	search       func(ctx context.Context, c domain.EventSearchCriteria) (*domain.EventSearchResult, error)
}

func (s *stubEventService) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	return s.create(ctx, e)
}

func (s *stubEventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.getByID(ctx, id)
}

func (s *stubEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.list(ctx)
}

func (s *stubEventService) Update(ctx context.Context, id string, e *domain.Event) (*domain.Event, error) {
	return s.update(ctx, id, e)
}

func (s *stubEventService) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	return s.updateStatus(ctx, id, status)
}

func (s *stubEventService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

func (s *stubEventService) Statistics(ctx context.Context) (*domain.EventStatistics, error) {
	return s.statistics(ctx)
}

func (s *stubEventService) Search(ctx context.Context, c domain.EventSearchCriteria) (*domain.EventSearchResult, error) {
	return s.search(ctx, c)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) h.APIResponse {
	t.Helper()
	var resp h.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func eventRequestBody() string {
	start := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	end := time.Now().Add(56 * time.Hour).Format(time.RFC3339)
	return fmt.Sprintf(`{
		"event_name": "Go Conference",
		"description": "Talks and workshops",
		"start_date_time": %q,
		"end_date_time": %q,
		"location": "Berlin",
		"organizer": "GoConf Org",
		"max_participants": 100
	}`, start, end)
}

func TestEventController_CreateEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubEventService{
			create: func(_ context.Context, e *domain.Event) (*domain.Event, error) {
				e.ID = testEventID
				e.Status = domain.StatusActive
				return e, nil
			},
		}
		c := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(eventRequestBody()))
		rec := httptest.NewRecorder()
		c.CreateEvent(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.True(t, resp.Success)
		require.Equal(t, "event created successfully", resp.Message)
		require.NotNil(t, resp.Data)
	})

	t.Run("body validation", func(t *testing.T) {
		c := NewEventController(testLogger(), &stubEventService{})

		req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(`{"event_name": ""}`))
		rec := httptest.NewRecorder()
		c.CreateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.False(t, resp.Success)
		require.Contains(t, resp.Message, "event_name is required")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		c := NewEventController(testLogger(), &stubEventService{})

		req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(`{"surprise": true}`))
		rec := httptest.NewRecorder()
		c.CreateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service validation error", func(t *testing.T) {
		svc := &stubEventService{
			create: func(_ context.Context, _ *domain.Event) (*domain.Event, error) {
				return nil, domain.ValidationError("start date/time must be in the future")
			},
		}
		c := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(eventRequestBody()))
		rec := httptest.NewRecorder()
		c.CreateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.Equal(t, "start date/time must be in the future", resp.Message)
	})
}

func TestEventController_GetEvent(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		c := NewEventController(testLogger(), &stubEventService{})

		req := httptest.NewRequest(http.MethodGet, "/api/events/not-a-uuid", nil)
		req.SetPathValue("eventID", "not-a-uuid")
		rec := httptest.NewRecorder()
		c.GetEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid eventID", decodeEnvelope(t, rec).Message)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubEventService{
			getByID: func(_ context.Context, _ string) (*domain.Event, error) {
				return nil, domain.ErrNotFound
			},
		}
		c := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID, nil)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.GetEvent(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "event not found", decodeEnvelope(t, rec).Message)
	})

	t.Run("unexpected error is a generic 500", func(t *testing.T) {
		svc := &stubEventService{
			getByID: func(_ context.Context, _ string) (*domain.Event, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}
		c := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID, nil)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.GetEvent(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "internal server error", decodeEnvelope(t, rec).Message)
	})
}

func TestEventController_UpdateEventStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		c := NewEventController(testLogger(), &stubEventService{})

		req := httptest.NewRequest(http.MethodPatch, "/api/events/"+testEventID+"/status",
			strings.NewReader(`{"status": "PAUSED"}`))
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.UpdateEventStatus(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, decodeEnvelope(t, rec).Message, "status must be one of")
	})

	t.Run("success", func(t *testing.T) {
		svc := &stubEventService{
			updateStatus: func(_ context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
				return &domain.Event{ID: id, Status: status}, nil
			},
		}
		c := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/api/events/"+testEventID+"/status",
			strings.NewReader(`{"status": "COMPLETED"}`))
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.UpdateEventStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decodeEnvelope(t, rec).Success)
	})
}

func TestEventController_DeleteEvent(t *testing.T) {
	svc := &stubEventService{
		delete: func(_ context.Context, _ string) error { return domain.ErrNotFound },
	}
	c := NewEventController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/events/"+testEventID, nil)
	req.SetPathValue("eventID", testEventID)
	rec := httptest.NewRecorder()
	c.DeleteEvent(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventController_SearchEvents(t *testing.T) {
	t.Run("negative page rejected", func(t *testing.T) {
		c := NewEventController(testLogger(), &stubEventService{})

		req := httptest.NewRequest(http.MethodPost, "/api/events/search", strings.NewReader(`{"page": -1}`))
		rec := httptest.NewRecorder()
		c.SearchEvents(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("passes criteria through", func(t *testing.T) {
		var got domain.EventSearchCriteria
		svc := &stubEventService{
			search: func(_ context.Context, c domain.EventSearchCriteria) (*domain.EventSearchResult, error) {
				got = c
				return domain.NewEventSearchResult(nil, 0, c.Page, 10), nil
			},
		}
		c := NewEventController(testLogger(), svc)

		body := `{"keyword": " conference ", "status": "ACTIVE", "page": 2, "size": 10, "sort_by": "startDateTime", "sort_order": "asc"}`
		req := httptest.NewRequest(http.MethodPost, "/api/events/search", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.SearchEvents(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "conference", got.Keyword)
		require.Equal(t, domain.StatusActive, got.Status)
		require.Equal(t, 2, got.Page)
		require.Equal(t, "startDateTime", got.SortBy)
	})
}

func TestEventController_GetStatistics(t *testing.T) {
	svc := &stubEventService{
		statistics: func(_ context.Context) (*domain.EventStatistics, error) {
			return &domain.EventStatistics{TotalEvents: 4, ActiveEvents: 2, CompletedEvents: 1, CancelledEvents: 1}, nil
		},
	}
	c := NewEventController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/events/statistics", nil)
	rec := httptest.NewRecorder()
	c.GetStatistics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 4, data["total_events"])
	require.EqualValues(t, 2, data["active_events"])
}
