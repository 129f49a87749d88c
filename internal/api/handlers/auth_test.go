package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/api/middleware"
	"github.com/pratik-mahalle/reminderflow/internal/auth"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
	"github.com/pratik-mahalle/reminderflow/internal/services"
	"github.com/pratik-mahalle/reminderflow/internal/testutil"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{FrontendURL: "http://localhost:5173"},
		Auth: config.AuthConfig{
			JWTSecret:          testSecret,
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: time.Hour,
			BCryptCost:         4,
		},
	}
}

type fakeGoogle struct {
	redirectTo string
	email      string
	err        error
}

func (f *fakeGoogle) AuthCodeURL(redirectTo string) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?state=signed", nil
}

func (f *fakeGoogle) VerifyState(state string) (string, error) {
	if state != "signed" {
		return "", fmt.Errorf("bad state")
	}
	return f.redirectTo, nil
}

func (f *fakeGoogle) Exchange(ctx context.Context, code string) (*auth.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.GoogleProfile{Email: f.email, EmailVerified: true}, nil
}

func newAuthHandler(t *testing.T, google GoogleAuth) (*AuthHandler, *testutil.MockBusinessRepository) {
	t.Helper()
	log := testutil.NewTestLogger()
	businesses := testutil.NewMockBusinessRepository()
	svc := services.NewUserService(
		testutil.NewMockUserRepository(),
		businesses,
		testutil.NewMockSettingsRepository(),
		testutil.NewMockSubscriptionRepository(),
		4,
		log,
	)
	return NewAuthHandler(svc, google, testConfig(), log, validator.New()), businesses
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Register(t *testing.T) {
	handler, businesses := newAuthHandler(t, nil)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid registration",
			body:           `{"email":"Owner@Example.com","password":"longenough","business_name":"Studio"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			body:           `{"email":"owner@example.com","password":"longenough","business_name":"Studio"}`,
			expectedStatus: http.StatusConflict,
			expectedCode:   "EMAIL_IN_USE",
		},
		{
			name:           "short password",
			body:           `{"email":"new@example.com","password":"short","business_name":"Studio"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "missing business name",
			body:           `{"email":"new@example.com","password":"longenough"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "malformed body",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.Register(rr, postJSON("/api/v1/auth/register", tt.body))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			env := decodeEnvelope(t, rr)
			if tt.expectedCode != "" && env.Error.Code != tt.expectedCode {
				t.Errorf("error code = %q, want %q", env.Error.Code, tt.expectedCode)
			}
		})
	}

	ids, _ := businesses.ListIDs(context.Background())
	if len(ids) != 1 {
		t.Errorf("businesses provisioned = %d, want 1", len(ids))
	}
}

func TestAuthHandler_LoginAndRefresh(t *testing.T) {
	handler, _ := newAuthHandler(t, nil)

	rr := httptest.NewRecorder()
	handler.Register(rr, postJSON("/api/v1/auth/register",
		`{"email":"owner@example.com","password":"longenough","business_name":"Studio"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.Login(rr, postJSON("/api/v1/auth/login", `{"email":"owner@example.com","password":"wrong-password"}`))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d want 401", rr.Code)
	}
	if env := decodeEnvelope(t, rr); env.Error.Code != "INVALID_CREDENTIALS" {
		t.Errorf("error code = %q, want INVALID_CREDENTIALS", env.Error.Code)
	}

	rr = httptest.NewRecorder()
	handler.Login(rr, postJSON("/api/v1/auth/login", `{"email":"owner@example.com","password":"longenough"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got %d want 200", rr.Code)
	}

	var hasCookie bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie && c.Value != "" {
			hasCookie = true
		}
	}
	if !hasCookie {
		t.Error("login did not set the access token cookie")
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if tokens.User.Email != "owner@example.com" {
		t.Errorf("user email = %q", tokens.User.Email)
	}

	rr = httptest.NewRecorder()
	handler.RefreshToken(rr, postJSON("/api/v1/auth/refresh", `{"refresh_token":"`+tokens.AccessToken+`"}`))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token: got %d want 401", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.RefreshToken(rr, postJSON("/api/v1/auth/refresh", `{"refresh_token":"`+tokens.RefreshToken+`"}`))
	if rr.Code != http.StatusOK {
		t.Errorf("refresh: got %d want 200", rr.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler, _ := newAuthHandler(t, nil)

	rr := httptest.NewRecorder()
	handler.Register(rr, postJSON("/api/v1/auth/register",
		`{"email":"owner@example.com","password":"longenough","business_name":"Studio"}`))
	var created struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	tests := []struct {
		name           string
		userID         string
		expectedStatus int
	}{
		{name: "known user", userID: created.User.ID, expectedStatus: http.StatusOK},
		{name: "deleted user", userID: "missing", expectedStatus: http.StatusUnauthorized},
		{name: "anonymous", userID: "", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			req = req.WithContext(middleware.WithUser(req.Context(), tt.userID, ""))
			rr := httptest.NewRecorder()

			handler.Me(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	handler, _ := newAuthHandler(t, nil)
	rr := httptest.NewRecorder()

	handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s not expired", c.Name)
		}
	}
}

func TestAuthHandler_Google(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		handler, _ := newAuthHandler(t, nil)
		rr := httptest.NewRecorder()
		handler.GoogleLogin(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("got %d want 503", rr.Code)
		}
	})

	t.Run("foreign redirect rejected", func(t *testing.T) {
		handler, _ := newAuthHandler(t, &fakeGoogle{})
		rr := httptest.NewRecorder()
		handler.GoogleLogin(rr, httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/google/login?redirect_to="+url.QueryEscape("https://evil.example/steal"), nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got %d want 400", rr.Code)
		}
	})

	t.Run("login redirects to consent", func(t *testing.T) {
		handler, _ := newAuthHandler(t, &fakeGoogle{})
		rr := httptest.NewRecorder()
		handler.GoogleLogin(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil))
		if rr.Code != http.StatusFound {
			t.Fatalf("got %d want 302", rr.Code)
		}
		if !strings.HasPrefix(rr.Header().Get("Location"), "https://accounts.google.com/") {
			t.Errorf("Location = %q", rr.Header().Get("Location"))
		}
	})

	t.Run("callback hands tokens to frontend", func(t *testing.T) {
		google := &fakeGoogle{redirectTo: "http://localhost:5173/auth/callback/google", email: "g@example.com"}
		handler, businesses := newAuthHandler(t, google)
		rr := httptest.NewRecorder()
		handler.GoogleCallback(rr, httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/google/callback?state=signed&code=abc", nil))

		if rr.Code != http.StatusFound {
			t.Fatalf("got %d want 302: %s", rr.Code, rr.Body.String())
		}
		loc, err := url.Parse(rr.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parse Location: %v", err)
		}
		if loc.Path != "/auth/callback/google" {
			t.Errorf("redirect path = %q", loc.Path)
		}
		access := loc.Query().Get("access_token")
		claims, err := auth.ParseClaims(access, testSecret, auth.TokenAccess)
		if err != nil {
			t.Fatalf("access token invalid: %v", err)
		}
		if claims.Email != "g@example.com" {
			t.Errorf("claims email = %q", claims.Email)
		}
		if loc.Query().Get("refresh_token") == "" {
			t.Error("refresh_token missing")
		}

		ids, _ := businesses.ListIDs(context.Background())
		if len(ids) != 0 {
			t.Errorf("OAuth sign-in provisioned %d businesses, want 0", len(ids))
		}
	})

	t.Run("callback with bad state", func(t *testing.T) {
		handler, _ := newAuthHandler(t, &fakeGoogle{})
		rr := httptest.NewRecorder()
		handler.GoogleCallback(rr, httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/google/callback?state=forged&code=abc", nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got %d want 400", rr.Code)
		}
	})

	t.Run("callback exchange failure", func(t *testing.T) {
		handler, _ := newAuthHandler(t, &fakeGoogle{redirectTo: "http://localhost:5173/x", err: fmt.Errorf("boom")})
		rr := httptest.NewRecorder()
		handler.GoogleCallback(rr, httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/google/callback?state=signed&code=abc", nil))
		if rr.Code != http.StatusBadGateway {
			t.Errorf("got %d want 502", rr.Code)
		}
	})
}

