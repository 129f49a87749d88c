package backend

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/reminderflow/internal/api"
	"github.com/pratik-mahalle/reminderflow/internal/app/prefs"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/testutil"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

type memTokens struct {
	mu     sync.Mutex
	tokens prefs.Tokens
	err    error
}

func (m *memTokens) Tokens() prefs.Tokens {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens
}

func (m *memTokens) SaveTokens(t prefs.Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.tokens = t
	return nil
}

func (m *memTokens) ClearTokens() error {
	return m.SaveTokens(prefs.Tokens{})
}

type recorder struct {
	mu     sync.Mutex
	events []session.AuthChange
}

func (r *recorder) listen(_ context.Context, change session.AuthChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, change)
}

func (r *recorder) kinds() []session.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.AuthEvent, len(r.events))
	for i, e := range r.events {
		out[i] = e.Event
	}
	return out
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL:    "http://localhost:5173",
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Auth: config.AuthConfig{
			JWTSecret:          "backend-test-secret",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
			BCryptCost:         4,
		},
	}
	srv := httptest.NewServer(api.New(cfg, testutil.NewTestDB(t), testutil.NewTestLogger()).Handler)
	t.Cleanup(srv.Close)
	return srv
}

func newBackend(t *testing.T, baseURL string, tokens *memTokens) (*Backend, *recorder) {
	t.Helper()
	b := New(client.NewClient(client.Config{BaseURL: baseURL, Timeout: 5 * time.Second}), tokens, logger.Nop())
	rec := &recorder{}
	b.OnAuthStateChange(rec.listen)
	return b, rec
}

func signUp(t *testing.T, b *Backend) *client.Session {
	t.Helper()
	sess, err := b.SignUp(context.Background(), client.SignUpRequest{
		Email:        "owner@example.com",
		Password:     "longenough",
		BusinessName: "Acme Salon",
	})
	require.NoError(t, err)
	return sess
}

func TestBackend_SignUpAndLoad(t *testing.T) {
	srv := newAPI(t)
	tokens := &memTokens{}
	b, rec := newBackend(t, srv.URL, tokens)
	ctx := context.Background()

	sess := signUp(t, b)
	assert.Equal(t, []session.AuthEvent{session.EventSignedIn}, rec.kinds())
	assert.Equal(t, sess.AccessToken, tokens.Tokens().AccessToken)
	assert.Equal(t, sess.RefreshToken, tokens.Tokens().RefreshToken)

	got, err := b.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.User.ID, got.User.ID)

	biz, err := b.GetBusiness(ctx, got.User.ID)
	require.NoError(t, err)
	require.NotNil(t, biz)
	assert.Equal(t, "Acme Salon", biz.Name)

	sub, err := b.GetSubscription(ctx, biz.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", sub.Plan)

	settings, err := b.GetReminderSettings(ctx, biz.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, settings.Intervals)
}

func TestBackend_GetSessionWithoutTokens(t *testing.T) {
	srv := newAPI(t)
	b, _ := newBackend(t, srv.URL, &memTokens{})

	sess, err := b.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestBackend_GetSessionRefreshesOnce(t *testing.T) {
	srv := newAPI(t)
	tokens := &memTokens{}
	b, _ := newBackend(t, srv.URL, tokens)
	sess := signUp(t, b)

	// a stale access token next to a valid refresh token
	require.NoError(t, tokens.SaveTokens(prefs.Tokens{AccessToken: "expired", RefreshToken: sess.RefreshToken}))

	got, err := b.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.User.ID, got.User.ID)
	assert.NotEqual(t, "expired", tokens.Tokens().AccessToken)
	assert.Equal(t, got.AccessToken, b.Client().GetToken())
}

func TestBackend_GetSessionRejectedEverywhere(t *testing.T) {
	srv := newAPI(t)
	tokens := &memTokens{tokens: prefs.Tokens{AccessToken: "bogus", RefreshToken: "bogus"}}
	b, _ := newBackend(t, srv.URL, tokens)

	sess, err := b.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.True(t, tokens.Tokens().Empty(), "rejected tokens are forgotten")
}

func TestBackend_GetSessionNetworkError(t *testing.T) {
	srv := newAPI(t)
	url := srv.URL
	srv.Close()

	tokens := &memTokens{tokens: prefs.Tokens{AccessToken: "at", RefreshToken: "rt"}}
	b, _ := newBackend(t, url, tokens)

	_, err := b.GetSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
	assert.False(t, tokens.Tokens().Empty(), "a network error must not forget the session")
}

func TestBackend_RefreshSession(t *testing.T) {
	srv := newAPI(t)
	tokens := &memTokens{}
	b, rec := newBackend(t, srv.URL, tokens)
	signUp(t, b)

	require.NoError(t, b.RefreshSession(context.Background()))
	assert.Equal(t, []session.AuthEvent{session.EventSignedIn, session.EventTokenRefreshed}, rec.kinds())

	require.NoError(t, tokens.SaveTokens(prefs.Tokens{AccessToken: "x", RefreshToken: "revoked"}))
	require.NoError(t, b.RefreshSession(context.Background()))
	assert.Equal(t, session.EventSignedOut, rec.kinds()[2])
	assert.True(t, tokens.Tokens().Empty())

	// nothing to refresh
	require.NoError(t, b.RefreshSession(context.Background()))
	assert.Len(t, rec.kinds(), 3)
}

func TestBackend_SignOutClearsEvenWhenUnreachable(t *testing.T) {
	srv := newAPI(t)
	url := srv.URL
	srv.Close()

	tokens := &memTokens{tokens: prefs.Tokens{AccessToken: "at", RefreshToken: "rt"}}
	b, rec := newBackend(t, url, tokens)

	err := b.SignOut(context.Background())
	assert.Error(t, err)
	assert.True(t, tokens.Tokens().Empty())
	assert.Empty(t, b.Client().GetToken())
	assert.Equal(t, []session.AuthEvent{session.EventSignedOut}, rec.kinds())
}

func TestBackend_NotFoundIsNil(t *testing.T) {
	srv := newAPI(t)
	b, _ := newBackend(t, srv.URL, &memTokens{})
	sess := signUp(t, b)

	biz, err := b.GetBusiness(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, biz)

	sub, err := b.GetSubscription(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.NotNil(t, sess)
}

func TestBackend_CompleteOAuth(t *testing.T) {
	srv := newAPI(t)
	issuer, _ := newBackend(t, srv.URL, &memTokens{})
	sess := signUp(t, issuer)

	tokens := &memTokens{}
	b, rec := newBackend(t, srv.URL, tokens)

	got, err := b.CompleteOAuth(context.Background(), sess.AccessToken, sess.RefreshToken, sess.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, got.User.ID)
	assert.Equal(t, sess.AccessToken, tokens.Tokens().AccessToken)
	assert.Equal(t, []session.AuthEvent{session.EventSignedIn}, rec.kinds())

	_, err = b.CompleteOAuth(context.Background(), "forged", "", time.Time{})
	assert.Error(t, err)
	assert.Len(t, rec.kinds(), 1)
}

func TestBackend_PersistFailureIsNotFatal(t *testing.T) {
	srv := newAPI(t)
	tokens := &memTokens{err: errors.New("disk full")}
	b, rec := newBackend(t, srv.URL, tokens)

	signUp(t, b)
	assert.Equal(t, []session.AuthEvent{session.EventSignedIn}, rec.kinds())
	assert.NotEmpty(t, b.Client().GetToken())
}

func TestBackend_DrivesSessionStore(t *testing.T) {
	srv := newAPI(t)
	tokens := &memTokens{}
	b, _ := newBackend(t, srv.URL, tokens)
	store := session.New(b, b, nil, nil, logger.Nop())
	defer store.Close()
	ctx := context.Background()

	store.Initialize(ctx)
	require.True(t, store.State().Ready())
	require.Nil(t, store.State().User)

	signUp(t, b)
	st := store.State()
	require.NotNil(t, st.User)
	require.NotNil(t, st.Business)
	assert.Equal(t, "Acme Salon", st.Business.Name)
	assert.Equal(t, "free", st.Subscription.Plan)
	assert.NotNil(t, st.ReminderSettings)

	// a fresh process picks the session up from the persisted tokens
	restarted, _ := newBackend(t, srv.URL, tokens)
	fresh := session.New(restarted, restarted, nil, nil, logger.Nop())
	fresh.Initialize(ctx)
	assert.Equal(t, st.User.ID, fresh.State().User.ID)
	assert.Equal(t, st.Business.ID, fresh.State().Business.ID)

	require.NoError(t, store.SignOut(ctx))
	assert.Nil(t, store.State().User)
	assert.Nil(t, store.State().Business)
}

func TestRefresher_BadSchedule(t *testing.T) {
	r := NewRefresher(New(client.NewClient(client.Config{BaseURL: "http://127.0.0.1:1"}), &memTokens{}, logger.Nop()), "not a schedule", logger.Nop())
	assert.Error(t, r.Start(context.Background()))
}

func TestRefresher_StopsWithContext(t *testing.T) {
	r := NewRefresher(New(client.NewClient(client.Config{BaseURL: "http://127.0.0.1:1"}), &memTokens{}, logger.Nop()), "@every 1h", logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop")
	}
}
