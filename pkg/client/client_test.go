package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/api"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/testutil"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL:    "http://localhost:5173",
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Auth: config.AuthConfig{
			JWTSecret:          "client-test-secret",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
			BCryptCost:         4,
		},
	}
	srv := httptest.NewServer(api.New(cfg, testutil.NewTestDB(t), testutil.NewTestLogger()).Handler)
	t.Cleanup(srv.Close)
	return srv
}

func strPtr(s string) *string { return &s }

func TestClient_AccountLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := client.NewClient(client.Config{BaseURL: srv.URL})
	ctx := context.Background()

	sess, err := c.Auth().SignUp(ctx, client.SignUpRequest{
		Email:        "owner@example.com",
		Password:     "longenough",
		BusinessName: "Studio",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if sess.User == nil || sess.User.Email != "owner@example.com" {
		t.Fatalf("SignUp() user = %+v", sess.User)
	}
	if c.GetToken() != sess.AccessToken {
		t.Error("SignUp() did not install the access token")
	}

	me, err := c.Auth().Me(ctx)
	if err != nil || me.ID != sess.User.ID {
		t.Fatalf("Me() = %+v, %v", me, err)
	}

	b, err := c.Businesses().GetByUser(ctx, me.ID)
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if b.Name != "Studio" || b.Language != "en" {
		t.Errorf("business = %+v", b)
	}

	rs, err := c.ReminderSettings().Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("ReminderSettings().Get() error = %v", err)
	}
	if len(rs.Intervals) == 0 || !rs.SMSEnabled {
		t.Errorf("default settings = %+v", rs)
	}

	sub, err := c.Subscriptions().Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Subscriptions().Get() error = %v", err)
	}
	if sub.Plan != "free" || sub.SMSLimit != 20 {
		t.Errorf("subscription = %+v", sub)
	}

	upgraded, err := c.Subscriptions().Update(ctx, sub.ID, client.SubscriptionPatch{Plan: strPtr("business")})
	if err != nil {
		t.Fatalf("Subscriptions().Update() error = %v", err)
	}
	if upgraded.SMSLimit != 500 {
		t.Errorf("SMSLimit after upgrade = %d, want 500", upgraded.SMSLimit)
	}

	updated, err := c.Businesses().Update(ctx, b.ID, client.BusinessPatch{Language: strPtr("ru")})
	if err != nil {
		t.Fatalf("Businesses().Update() error = %v", err)
	}
	if updated.Language != "ru" || updated.Name != "Studio" {
		t.Errorf("partial update = %+v", updated)
	}

	_, err = c.Auth().SignUp(ctx, client.SignUpRequest{
		Email:        "OWNER@example.com",
		Password:     "longenough",
		BusinessName: "Again",
	})
	if kind := client.KindOf(err); kind != client.KindEmailInUse {
		t.Errorf("duplicate SignUp() kind = %v, want email_in_use (err %v)", kind, err)
	}

	anon := client.NewClient(client.Config{BaseURL: srv.URL})
	_, err = anon.Auth().SignInWithPassword(ctx, "owner@example.com", "wrong-password")
	if kind := client.KindOf(err); kind != client.KindInvalidCredentials {
		t.Errorf("bad password kind = %v, want invalid_credentials", kind)
	}

	again, err := anon.Auth().SignInWithPassword(ctx, "owner@example.com", "longenough")
	if err != nil {
		t.Fatalf("SignInWithPassword() error = %v", err)
	}
	refreshed, err := anon.Auth().Refresh(ctx, again.RefreshToken)
	if err != nil || refreshed.User.ID != me.ID {
		t.Fatalf("Refresh() = %+v, %v", refreshed, err)
	}

	if err := c.Auth().SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if c.GetToken() != "" {
		t.Error("SignOut() kept the token")
	}
	if _, err := c.Auth().Me(ctx); client.KindOf(err) != client.KindUnauthorized {
		t.Errorf("Me() after SignOut kind = %v, want unauthorized", client.KindOf(err))
	}
}

func TestClient_Appointments(t *testing.T) {
	srv := newTestServer(t)
	c := client.NewClient(client.Config{BaseURL: srv.URL})
	ctx := context.Background()

	sess, err := c.Auth().SignUp(ctx, client.SignUpRequest{
		Email: "clinic@example.com", Password: "longenough", BusinessName: "Clinic",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	b, err := c.Businesses().GetByUser(ctx, sess.User.ID)
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}

	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	var ids []string
	for _, offset := range []int{3, 1, 2} {
		start := base.Add(time.Duration(offset) * time.Hour)
		a, err := c.Appointments().Create(ctx, b.ID, client.CreateAppointmentRequest{
			ClientName:  "Client",
			ClientPhone: strPtr("+10000000000"),
			StartTime:   start,
			EndTime:     start.Add(30 * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if a.Status != "scheduled" {
			t.Errorf("default status = %q", a.Status)
		}
		ids = append(ids, a.ID)
	}

	list, err := c.Appointments().List(ctx, b.ID, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() = %d items, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].StartTime.Before(list[i-1].StartTime) {
			t.Fatal("List() not ordered by start time")
		}
	}

	from := base.Add(90 * time.Minute)
	windowed, err := c.Appointments().List(ctx, b.ID, &client.AppointmentListOptions{From: &from, Limit: 1})
	if err != nil {
		t.Fatalf("List(from) error = %v", err)
	}
	if len(windowed) != 1 || !windowed[0].StartTime.Equal(base.Add(2*time.Hour)) {
		t.Errorf("List(from, limit 1) = %+v", windowed)
	}

	confirmed, err := c.Appointments().Update(ctx, ids[0], client.AppointmentPatch{Status: strPtr("confirmed")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if confirmed.Status != "confirmed" || confirmed.ClientPhone == nil {
		t.Errorf("Update() = %+v", confirmed)
	}

	byStatus, err := c.Appointments().List(ctx, b.ID, &client.AppointmentListOptions{Status: "confirmed"})
	if err != nil || len(byStatus) != 1 {
		t.Errorf("List(status) = %d, %v", len(byStatus), err)
	}

	_, err = c.Appointments().Create(ctx, b.ID, client.CreateAppointmentRequest{
		ClientName: "Backwards", StartTime: base, EndTime: base.Add(-time.Hour),
	})
	if client.KindOf(err) != client.KindValidation {
		t.Errorf("invalid Create() kind = %v, want validation", client.KindOf(err))
	}

	for i := 0; i < 2; i++ {
		if err := c.Appointments().Delete(ctx, ids[0]); err != nil {
			t.Errorf("Delete() #%d error = %v", i+1, err)
		}
	}
	if _, err := c.Appointments().Get(ctx, ids[0]); !client.IsNotFound(err) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}

	reminders, err := c.Reminders().List(ctx, b.ID, nil)
	if err != nil || reminders == nil || len(reminders) != 0 {
		t.Errorf("Reminders().List() = %v, %v; want empty non-nil", reminders, err)
	}

	stats, err := c.Analytics().DailyStats(ctx, b.ID, "", "")
	if err != nil || len(stats) != 0 {
		t.Errorf("DailyStats() = %v, %v", stats, err)
	}
}

func TestClient_Integrations(t *testing.T) {
	srv := newTestServer(t)
	c := client.NewClient(client.Config{BaseURL: srv.URL})
	ctx := context.Background()

	sess, err := c.Auth().SignUp(ctx, client.SignUpRequest{
		Email: "cal@example.com", Password: "longenough", BusinessName: "Cal",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	b, _ := c.Businesses().GetByUser(ctx, sess.User.ID)

	created, err := c.CalendarIntegrations().Create(ctx, b.ID, client.CreateIntegrationRequest{
		Provider:    "google",
		AccessToken: strPtr("secret-token"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created.Connected || !created.SyncEnabled {
		t.Errorf("Create() = %+v", created)
	}

	off := false
	patched, err := c.CalendarIntegrations().Update(ctx, created.ID, client.IntegrationPatch{SyncEnabled: &off})
	if err != nil || patched.SyncEnabled || !patched.Connected {
		t.Errorf("Update() = %+v, %v", patched, err)
	}

	if _, err := c.CalendarIntegrations().Create(ctx, b.ID, client.CreateIntegrationRequest{Provider: "icloud"}); client.KindOf(err) != client.KindValidation {
		t.Errorf("unknown provider kind = %v", client.KindOf(err))
	}

	if err := c.CalendarIntegrations().Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, err := c.CalendarIntegrations().List(ctx, b.ID)
	if err != nil || len(list) != 0 {
		t.Errorf("List() after delete = %v, %v", list, err)
	}
}

func TestClient_PublicEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := client.NewClient(client.Config{BaseURL: srv.URL})
	ctx := context.Background()

	plans, err := c.Plans().List(ctx)
	if err != nil {
		t.Fatalf("Plans().List() error = %v", err)
	}
	if len(plans) != 4 {
		t.Errorf("plans = %d, want 4", len(plans))
	}

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	u := c.Auth().GoogleSignInURL("http://localhost:5173/auth/callback/google")
	if !strings.HasPrefix(u, srv.URL+"/api/v1/auth/google/login?redirect_to=") {
		t.Errorf("GoogleSignInURL() = %q", u)
	}

	if _, err := c.Auth().Me(ctx); client.KindOf(err) != client.KindUnauthorized {
		t.Errorf("anonymous Me() kind = %v", client.KindOf(err))
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want client.ErrorKind
	}{
		{name: "nil", err: nil, want: client.KindUnknown},
		{name: "email in use", err: &client.APIError{StatusCode: 409, Code: "EMAIL_IN_USE"}, want: client.KindEmailInUse},
		{name: "invalid credentials", err: &client.APIError{StatusCode: 401, Code: "INVALID_CREDENTIALS"}, want: client.KindInvalidCredentials},
		{name: "validation", err: &client.APIError{StatusCode: 400, Code: "VALIDATION_ERROR"}, want: client.KindValidation},
		{name: "bare 404", err: &client.APIError{StatusCode: 404}, want: client.KindNotFound},
		{name: "bare 401", err: &client.APIError{StatusCode: 401}, want: client.KindUnauthorized},
		{name: "rate limited", err: &client.APIError{StatusCode: 429, Code: "RATE_LIMITED"}, want: client.KindRateLimited},
		{name: "server", err: &client.APIError{StatusCode: 502, Code: "OAUTH_ERROR"}, want: client.KindServer},
		{name: "network", err: &client.NetworkError{Op: "GET /", Err: context.DeadlineExceeded}, want: client.KindNetwork},
		{name: "plain", err: http.ErrHandlerTimeout, want: client.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.NewClient(client.Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Plans().List(context.Background())
	if client.KindOf(err) != client.KindNetwork {
		t.Errorf("KindOf() = %v, want network (err %v)", client.KindOf(err), err)
	}
}
