package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

var user = &client.User{ID: "user-1", Email: "owner@example.com"}

func TestDecide(t *testing.T) {
	render := Decision{Outcome: Render}
	loading := Decision{Outcome: Loading}
	toLogin := Decision{Outcome: Redirect, Location: "/login", Replace: true}
	toDashboard := Decision{Outcome: Redirect, Location: "/dashboard", Replace: true}

	tests := []struct {
		name          string
		state         session.State
		wantProtected Decision
		wantPublic    Decision
	}{
		{
			name:          "not initialized, anonymous",
			state:         session.State{},
			wantProtected: loading,
			wantPublic:    loading,
		},
		{
			name:          "not initialized, user present",
			state:         session.State{User: user},
			wantProtected: loading,
			wantPublic:    loading,
		},
		{
			name:          "initialized but loading",
			state:         session.State{IsInitialized: true, IsLoading: true, User: user},
			wantProtected: loading,
			wantPublic:    loading,
		},
		{
			name:          "ready with user",
			state:         session.State{IsInitialized: true, User: user},
			wantProtected: render,
			wantPublic:    toDashboard,
		},
		{
			name:          "ready without user",
			state:         session.State{IsInitialized: true},
			wantProtected: toLogin,
			wantPublic:    render,
		},
		{
			name:          "business refresh does not block rendering",
			state:         session.State{IsInitialized: true, Refreshing: true, User: user},
			wantProtected: render,
			wantPublic:    toDashboard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantProtected, Decide(Protected, tt.state))
			assert.Equal(t, tt.wantPublic, Decide(Public, tt.state))
		})
	}
}

// stateSource is a minimal Source for tests
type stateSource struct {
	mu        sync.Mutex
	state     session.State
	listeners map[int]func(session.State)
	next      int
}

func newStateSource(st session.State) *stateSource {
	return &stateSource{state: st, listeners: map[int]func(session.State){}}
}

func (s *stateSource) State() session.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stateSource) Subscribe(fn func(session.State)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *stateSource) set(st session.State) {
	s.mu.Lock()
	s.state = st
	listeners := make([]func(session.State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()
	for _, l := range listeners {
		l(st)
	}
}

func (s *stateSource) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func TestMiddleware(t *testing.T) {
	content := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	})

	tests := []struct {
		name         string
		variant      Variant
		state        session.State
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{name: "protected renders", variant: Protected, state: session.State{IsInitialized: true, User: user}, wantStatus: http.StatusOK, wantBody: "content"},
		{name: "protected redirects", variant: Protected, state: session.State{IsInitialized: true}, wantStatus: http.StatusSeeOther, wantLocation: "/login"},
		{name: "public redirects", variant: Public, state: session.State{IsInitialized: true, User: user}, wantStatus: http.StatusSeeOther, wantLocation: "/dashboard"},
		{name: "public renders", variant: Public, state: session.State{IsInitialized: true}, wantStatus: http.StatusOK, wantBody: "content"},
		{name: "loading", variant: Protected, state: session.State{}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newStateSource(tt.state)
			h := Middleware(tt.variant, src, nil)(content)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			}
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestMiddleware_CustomLoading(t *testing.T) {
	src := newStateSource(session.State{IsInitialized: true, IsLoading: true})
	loading := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("spinner"))
	})
	h := Middleware(Public, src, loading)(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, "spinner", rec.Body.String())

	// the decision follows the store on the next request
	src.set(session.State{IsInitialized: true})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func receive(t *testing.T, ch <-chan Decision) Decision {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return d
	case <-time.After(time.Second):
		t.Fatal("no decision received")
		return Decision{}
	}
}

func TestWatch(t *testing.T) {
	src := newStateSource(session.State{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, Protected, src)
	assert.Equal(t, Loading, receive(t, ch).Outcome)

	// same decision, nothing emitted
	src.set(session.State{IsLoading: true})

	src.set(session.State{IsInitialized: true})
	assert.Equal(t, Decision{Outcome: Redirect, Location: LoginPath, Replace: true}, receive(t, ch))

	src.set(session.State{IsInitialized: true, User: user})
	assert.Equal(t, Render, receive(t, ch).Outcome)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.Zero(t, src.subscribers())
}

func TestWatch_WithStore(t *testing.T) {
	auth := &stubAuth{}
	store := session.New(auth, stubData{}, nil, nil, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, Public, store)
	assert.Equal(t, Loading, receive(t, ch).Outcome)

	store.Initialize(ctx)
	assert.Equal(t, Render, receive(t, ch).Outcome)
}

type stubAuth struct{}

func (stubAuth) GetSession(context.Context) (*client.Session, error) { return nil, nil }
func (stubAuth) SignOut(context.Context) error                       { return nil }
func (stubAuth) OnAuthStateChange(session.AuthListener) func()       { return func() {} }

type stubData struct{}

func (stubData) GetBusiness(context.Context, string) (*client.Business, error) { return nil, nil }
func (stubData) GetSubscription(context.Context, string) (*client.Subscription, error) {
	return nil, nil
}
func (stubData) GetReminderSettings(context.Context, string) (*client.ReminderSettings, error) {
	return nil, nil
}
