// Package backend adapts the hosted auth/data service client to the
// interfaces the dashboard's session store consumes, and broadcasts auth
// state changes.
package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/app/prefs"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

// TokenStore persists the auth session between runs
type TokenStore interface {
	Tokens() prefs.Tokens
	SaveTokens(t prefs.Tokens) error
	ClearTokens() error
}

// Backend implements session.AuthService and session.DataService over the API
type Backend struct {
	api    *client.Client
	tokens TokenStore
	log    *logger.Logger

	mu        sync.Mutex
	listeners map[int]session.AuthListener
	nextID    int
}

var (
	_ session.AuthService = (*Backend)(nil)
	_ session.DataService = (*Backend)(nil)
)

// New creates a backend. The persisted access token, if any, is installed on api.
func New(api *client.Client, tokens TokenStore, log *logger.Logger) *Backend {
	b := &Backend{
		api:       api,
		tokens:    tokens,
		log:       log,
		listeners: make(map[int]session.AuthListener),
	}
	if t := tokens.Tokens(); t.AccessToken != "" {
		api.SetToken(t.AccessToken)
	}
	return b
}

// Client returns the underlying API client
func (b *Backend) Client() *client.Client {
	return b.api
}

// OnAuthStateChange registers fn for auth state changes
func (b *Backend) OnAuthStateChange(fn session.AuthListener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// emit delivers change to every listener synchronously
func (b *Backend) emit(ctx context.Context, event session.AuthEvent, user *client.User) {
	b.mu.Lock()
	listeners := make([]session.AuthListener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	b.log.With("event", string(event)).Debug("Broadcasting auth state change")
	change := session.AuthChange{Event: event, User: user}
	for _, fn := range listeners {
		fn(ctx, change)
	}
}

// GetSession returns the persisted session after confirming it with the
// API. An expired access token is refreshed once; a rejected refresh token
// means there is no session.
func (b *Backend) GetSession(ctx context.Context) (*client.Session, error) {
	t := b.tokens.Tokens()
	if t.Empty() {
		return nil, nil
	}

	if t.AccessToken != "" {
		b.api.SetToken(t.AccessToken)
		user, err := b.api.Auth().Me(ctx)
		if err == nil {
			return &client.Session{
				AccessToken:  t.AccessToken,
				RefreshToken: t.RefreshToken,
				ExpiresAt:    t.ExpiresAt,
				User:         user,
			}, nil
		}
		if !client.IsUnauthorized(err) {
			return nil, err
		}
	}

	if t.RefreshToken == "" {
		b.forget()
		return nil, nil
	}

	sess, err := b.api.Auth().Refresh(ctx, t.RefreshToken)
	if err != nil {
		if client.IsUnauthorized(err) {
			b.forget()
			return nil, nil
		}
		return nil, err
	}
	b.remember(sess)
	return sess, nil
}

// SignInWithPassword signs in and broadcasts SignedIn
func (b *Backend) SignInWithPassword(ctx context.Context, email, password string) (*client.Session, error) {
	sess, err := b.api.Auth().SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	b.remember(sess)
	b.emit(ctx, session.EventSignedIn, sess.User)
	return sess, nil
}

// SignUp registers an account with its business and broadcasts SignedIn
func (b *Backend) SignUp(ctx context.Context, req client.SignUpRequest) (*client.Session, error) {
	sess, err := b.api.Auth().SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	b.remember(sess)
	b.emit(ctx, session.EventSignedIn, sess.User)
	return sess, nil
}

// GoogleSignInURL returns the URL that starts Google sign-in
func (b *Backend) GoogleSignInURL(redirectTo string) string {
	return b.api.Auth().GoogleSignInURL(redirectTo)
}

// CompleteOAuth adopts the tokens handed back by an OAuth redirect
func (b *Backend) CompleteOAuth(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) (*client.Session, error) {
	b.api.SetToken(accessToken)
	user, err := b.api.Auth().Me(ctx)
	if err != nil {
		b.api.SetToken("")
		return nil, fmt.Errorf("verify oauth session: %w", err)
	}
	sess := &client.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}
	b.remember(sess)
	b.emit(ctx, session.EventSignedIn, user)
	return sess, nil
}

// SignOut ends the session remotely and locally and broadcasts SignedOut.
// The local session is dropped even when the API call fails.
func (b *Backend) SignOut(ctx context.Context) error {
	err := b.api.Auth().SignOut(ctx)
	b.forget()
	b.emit(ctx, session.EventSignedOut, nil)
	return err
}

// RefreshSession exchanges the refresh token for a new session. A rejected
// refresh token signs the user out.
func (b *Backend) RefreshSession(ctx context.Context) error {
	t := b.tokens.Tokens()
	if t.RefreshToken == "" {
		return nil
	}

	sess, err := b.api.Auth().Refresh(ctx, t.RefreshToken)
	if err != nil {
		if client.IsUnauthorized(err) {
			b.log.Info("Refresh token rejected, session expired")
			b.forget()
			b.emit(ctx, session.EventSignedOut, nil)
			return nil
		}
		return err
	}

	b.remember(sess)
	b.emit(ctx, session.EventTokenRefreshed, sess.User)
	return nil
}

// GetBusiness returns the business of userID, or nil if it has none
func (b *Backend) GetBusiness(ctx context.Context, userID string) (*client.Business, error) {
	biz, err := b.api.Businesses().GetByUser(ctx, userID)
	if client.IsNotFound(err) {
		return nil, nil
	}
	return biz, err
}

// GetSubscription returns the subscription of businessID, or nil if it has none
func (b *Backend) GetSubscription(ctx context.Context, businessID string) (*client.Subscription, error) {
	sub, err := b.api.Subscriptions().Get(ctx, businessID)
	if client.IsNotFound(err) {
		return nil, nil
	}
	return sub, err
}

// GetReminderSettings returns the settings of businessID, or nil if none exist
func (b *Backend) GetReminderSettings(ctx context.Context, businessID string) (*client.ReminderSettings, error) {
	settings, err := b.api.ReminderSettings().Get(ctx, businessID)
	if client.IsNotFound(err) {
		return nil, nil
	}
	return settings, err
}

func (b *Backend) remember(sess *client.Session) {
	b.api.SetToken(sess.AccessToken)
	err := b.tokens.SaveTokens(prefs.Tokens{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
	})
	if err != nil {
		b.log.WarnWithErr(err, "Failed to persist session")
	}
}

func (b *Backend) forget() {
	b.api.SetToken("")
	if err := b.tokens.ClearTokens(); err != nil {
		b.log.WarnWithErr(err, "Failed to clear persisted session")
	}
}
