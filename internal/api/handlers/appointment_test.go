package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
	"github.com/pratik-mahalle/reminderflow/internal/services"
	"github.com/pratik-mahalle/reminderflow/internal/testutil"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newAppointmentHandler() (*AppointmentHandler, appointment.Service) {
	log := testutil.NewTestLogger()
	service := services.NewAppointmentService(testutil.NewMockAppointmentRepository(), log)
	return NewAppointmentHandler(service, log, validator.New()), service
}

func TestAppointmentHandler_List(t *testing.T) {
	handler, service := newAppointmentHandler()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, status := range []string{appointment.StatusScheduled, appointment.StatusConfirmed, appointment.StatusScheduled} {
		start := base.Add(time.Duration(2-i) * time.Hour)
		if _, err := service.Create(ctx, &appointment.Appointment{
			BusinessID: "biz-1",
			ClientName: "Client",
			StartTime:  start,
			EndTime:    start.Add(30 * time.Minute),
			Status:     status,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tests := []struct {
		name           string
		businessID     string
		queryParams    string
		expectedStatus int
		expectedCount  int
	}{
		{name: "all", businessID: "biz-1", expectedStatus: http.StatusOK, expectedCount: 3},
		{name: "by status", businessID: "biz-1", queryParams: "?status=scheduled", expectedStatus: http.StatusOK, expectedCount: 2},
		{name: "with limit", businessID: "biz-1", queryParams: "?limit=1", expectedStatus: http.StatusOK, expectedCount: 1},
		{name: "other business", businessID: "biz-2", expectedStatus: http.StatusOK, expectedCount: 0},
		{name: "bad from", businessID: "biz-1", queryParams: "?from=yesterday", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/businesses/"+tt.businessID+"/appointments"+tt.queryParams, nil)
			req = withURLParam(req, "id", tt.businessID)
			rr := httptest.NewRecorder()

			handler.List(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if rr.Code != http.StatusOK {
				return
			}

			var items []dto.AppointmentDTO
			if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &items); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(items) != tt.expectedCount {
				t.Errorf("got %d appointments, want %d", len(items), tt.expectedCount)
			}
			for i := 1; i < len(items); i++ {
				if items[i].StartTime.Before(items[i-1].StartTime) {
					t.Error("appointments not ordered by start time")
				}
			}
		})
	}
}

func TestAppointmentHandler_CreateUpdateDelete(t *testing.T) {
	handler, _ := newAppointmentHandler()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid",
			body:           `{"client_name":"Ann","start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T09:30:00Z"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "end before start",
			body:           `{"client_name":"Ann","start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T08:30:00Z"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown status",
			body:           `{"client_name":"Ann","start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T09:30:00Z","status":"maybe"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing client",
			body:           `{"start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T09:30:00Z"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	var createdID string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(postJSON("/api/v1/businesses/biz-1/appointments", tt.body), "id", "biz-1")
			rr := httptest.NewRecorder()

			handler.Create(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("got %v want %v: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code == http.StatusCreated {
				var a dto.AppointmentDTO
				if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &a); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if a.Status != appointment.StatusScheduled {
					t.Errorf("default status = %q", a.Status)
				}
				createdID = a.ID
			}
		})
	}
	if createdID == "" {
		t.Fatal("no appointment created")
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+createdID, strings.NewReader(`{"status":"confirmed"}`))
	rr := httptest.NewRecorder()
	handler.Update(rr, withURLParam(req, "id", createdID))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rr.Code, rr.Body.String())
	}
	var updated dto.AppointmentDTO
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != appointment.StatusConfirmed || updated.ClientName != "Ann" {
		t.Errorf("update did not merge: %+v", updated)
	}

	for i := 0; i < 2; i++ {
		rr = httptest.NewRecorder()
		handler.Delete(rr, withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", createdID))
		if rr.Code != http.StatusNoContent {
			t.Errorf("delete #%d: got %d want 204", i+1, rr.Code)
		}
		if rr.Body.Len() != 0 {
			t.Errorf("delete #%d: unexpected body %q", i+1, rr.Body.String())
		}
	}

	rr = httptest.NewRecorder()
	handler.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", createdID))
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d want 404", rr.Code)
	}
}
