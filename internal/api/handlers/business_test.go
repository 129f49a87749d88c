package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/api/middleware"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
	"github.com/pratik-mahalle/reminderflow/internal/services"
	"github.com/pratik-mahalle/reminderflow/internal/testutil"
)

func TestBusinessHandler_Onboarding(t *testing.T) {
	log := testutil.NewTestLogger()
	settingsRepo := testutil.NewMockSettingsRepository()
	subsRepo := testutil.NewMockSubscriptionRepository()
	service := services.NewBusinessService(testutil.NewMockBusinessRepository(), settingsRepo, subsRepo, log)
	handler := NewBusinessHandler(service, log, validator.New())

	asUser := func(req *http.Request) *http.Request {
		return req.WithContext(middleware.WithUser(req.Context(), "user-1", "owner@example.com"))
	}

	rr := httptest.NewRecorder()
	handler.Mine(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/me", nil)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("before onboarding: got %d want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.Create(rr, asUser(postJSON("/api/v1/businesses", `{"name":"Studio","language":"de"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unsupported language: got %d want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.Create(rr, asUser(postJSON("/api/v1/businesses", `{"name":"Studio","language":"ru"}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rr.Code, rr.Body.String())
	}
	var created dto.BusinessDTO
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UserID != "user-1" || created.Language != "ru" {
		t.Errorf("created = %+v", created)
	}

	if _, err := settingsRepo.GetByBusinessID(context.Background(), created.ID); err != nil {
		t.Errorf("default settings not provisioned: %v", err)
	}
	if _, err := subsRepo.GetByBusinessID(context.Background(), created.ID); err != nil {
		t.Errorf("free subscription not provisioned: %v", err)
	}

	rr = httptest.NewRecorder()
	handler.Create(rr, asUser(postJSON("/api/v1/businesses", `{"name":"Second"}`)))
	if rr.Code != http.StatusConflict {
		t.Errorf("second business: got %d want 409", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/businesses/"+created.ID, strings.NewReader(`{"name":"Renamed"}`))
	rr = httptest.NewRecorder()
	handler.Update(rr, withURLParam(asUser(req), "id", created.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d", rr.Code)
	}
	var updated dto.BusinessDTO
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "Renamed" || updated.Language != "ru" {
		t.Errorf("updated = %+v", updated)
	}

	rr = httptest.NewRecorder()
	handler.Mine(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/me", nil)))
	if rr.Code != http.StatusOK {
		t.Errorf("after onboarding: got %d want 200", rr.Code)
	}

	asStranger := func(req *http.Request) *http.Request {
		return req.WithContext(middleware.WithUser(req.Context(), "user-2", "stranger@example.com"))
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/businesses/"+created.ID, strings.NewReader(`{"name":"Hijacked"}`))
	rr = httptest.NewRecorder()
	handler.Update(rr, withURLParam(asStranger(req), "id", created.ID))
	if rr.Code != http.StatusForbidden {
		t.Errorf("update by another user: got %d want 403", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/businesses/missing", strings.NewReader(`{"name":"Ghost"}`))
	rr = httptest.NewRecorder()
	handler.Update(rr, withURLParam(asUser(req), "id", "missing"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("update of unknown business: got %d want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ByUser(rr, withURLParam(asStranger(httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/business", nil)), "id", "user-1"))
	if rr.Code != http.StatusForbidden {
		t.Errorf("read by another user: got %d want 403", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ByUser(rr, withURLParam(asUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/business", nil)), "id", "user-1"))
	if rr.Code != http.StatusOK {
		t.Errorf("read by owner: got %d want 200", rr.Code)
	}
	var unchanged dto.BusinessDTO
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &unchanged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if unchanged.Name != "Renamed" {
		t.Errorf("business name = %q after rejected update, want Renamed", unchanged.Name)
	}
}

func TestBillingHandler(t *testing.T) {
	log := testutil.NewTestLogger()
	subsRepo := testutil.NewMockSubscriptionRepository()
	analyticsRepo := testutil.NewMockAnalyticsRepository()
	handler := NewBillingHandler(
		services.NewSubscriptionService(subsRepo, log),
		services.NewAnalyticsService(analyticsRepo, log),
		log,
		validator.New(),
	)

	rr := httptest.NewRecorder()
	handler.Plans(rr, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))
	var plans []dto.PlanDTO
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &plans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plans) != 4 || plans[0].ID != "free" {
		t.Errorf("plans = %+v", plans)
	}

	rr = httptest.NewRecorder()
	handler.GetSubscription(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nobody"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing subscription: got %d want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/?from=2026-03-10&to=2026-03-01", nil), "id", "biz-1")
	handler.DailyAnalytics(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("inverted range: got %d want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "biz-1")
	handler.DailyAnalytics(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("default range: got %d want 200", rr.Code)
	}
}
