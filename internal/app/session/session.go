// Package session holds the dashboard's authenticated session: the signed-in
// user, their business with its subscription and reminder settings, and the
// device theme. The store is created by the application root and injected
// into everything that needs it.
package session

import (
	"context"
	"sync"

	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

// Theme is the persisted display preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// Mode is the visual mode actually applied
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// AuthEvent is an auth state change reported by the auth service
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// AuthChange is delivered to auth state listeners
type AuthChange struct {
	Event AuthEvent
	User  *client.User
}

// AuthListener receives auth state changes
type AuthListener func(ctx context.Context, change AuthChange)

// AuthService is the external authentication service
type AuthService interface {
	// GetSession returns the current session, or nil when signed out
	GetSession(ctx context.Context) (*client.Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}

// DataService loads the rows a session is made of. A missing row is
// returned as (nil, nil).
type DataService interface {
	GetBusiness(ctx context.Context, userID string) (*client.Business, error)
	GetSubscription(ctx context.Context, businessID string) (*client.Subscription, error)
	GetReminderSettings(ctx context.Context, businessID string) (*client.ReminderSettings, error)
}

// ThemeStore persists the theme preference
type ThemeStore interface {
	Theme() string
	SetTheme(theme string) error
}

// Platform reports the host's color scheme preference
type Platform interface {
	PrefersDark() bool
}

// ColorScheme is a Platform with a fixed preference ("dark" or "light")
type ColorScheme string

// PrefersDark implements Platform
func (c ColorScheme) PrefersDark() bool {
	return c == "dark"
}

// State is a snapshot of the store
type State struct {
	User             *client.User             `json:"user"`
	Business         *client.Business         `json:"business"`
	Subscription     *client.Subscription     `json:"subscription"`
	ReminderSettings *client.ReminderSettings `json:"reminder_settings"`
	IsLoading        bool                     `json:"is_loading"`
	IsInitialized    bool                     `json:"is_initialized"`
	Refreshing       bool                     `json:"refreshing"`
	Theme            Theme                    `json:"theme"`
	Mode             Mode                     `json:"mode"`
}

// Authenticated reports whether a user is signed in
func (s State) Authenticated() bool {
	return s.User != nil
}

// Ready reports whether route decisions may be made
func (s State) Ready() bool {
	return s.IsInitialized && !s.IsLoading
}

// Store is the session state machine
type Store struct {
	auth     AuthService
	data     DataService
	prefs    ThemeStore
	platform Platform
	log      *logger.Logger

	mu           sync.Mutex
	state        State
	generation   uint64
	initializing int
	refreshing   int
	listeners    map[int]func(State)
	nextID       int

	unsubscribeAuth func()
}

// New creates a store, loads the persisted theme and subscribes to auth
// state changes for the lifetime of the store
func New(auth AuthService, data DataService, prefs ThemeStore, platform Platform, log *logger.Logger) *Store {
	if platform == nil {
		platform = ColorScheme("light")
	}
	s := &Store{
		auth:      auth,
		data:      data,
		prefs:     prefs,
		platform:  platform,
		log:       log,
		listeners: make(map[int]func(State)),
	}

	s.state.Theme = ThemeLight
	if prefs != nil {
		if t := Theme(prefs.Theme()); t.Valid() {
			s.state.Theme = t
		}
	}
	s.state.Mode = s.resolve(s.state.Theme)

	s.unsubscribeAuth = auth.OnAuthStateChange(s.handleAuthChange)
	return s
}

// Close detaches the store from the auth service
func (s *Store) Close() {
	if s.unsubscribeAuth != nil {
		s.unsubscribeAuth()
	}
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive a snapshot after every change
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Initialize loads the current session. It never fails: fetch errors are
// logged and leave the affected fields nil. When it returns the store is
// initialized.
func (s *Store) Initialize(ctx context.Context) {
	var gen uint64
	s.update(func(st *State) {
		s.initializing++
		st.IsLoading = true
		s.generation++
		gen = s.generation
	})

	sess, err := s.auth.GetSession(ctx)
	switch {
	case err != nil:
		s.log.WarnWithErr(err, "Failed to load session")
		metrics.RecordSessionFetchError("session")
	case sess != nil && sess.User != nil:
		user := sess.User
		if s.apply(gen, func(st *State) { st.User = user }) {
			s.loadBusiness(ctx, gen, user.ID)
		}
	}

	var authenticated bool
	s.update(func(st *State) {
		st.Mode = s.resolve(st.Theme)
		s.initializing--
		st.IsLoading = s.initializing > 0
		st.IsInitialized = true
		authenticated = st.User != nil
	})

	if authenticated {
		metrics.RecordSessionInit("authenticated")
	} else {
		metrics.RecordSessionInit("anonymous")
	}
}

// SignOut signs out of the auth service and clears the session regardless
// of the outcome. The sign-out error is returned for the caller to report.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	if err != nil {
		s.log.WarnWithErr(err, "Sign out failed, clearing local session anyway")
	}
	s.clear()
	return err
}

// RefreshBusiness reloads the business, subscription and settings of the
// signed-in user. Errors are logged and keep the previous values.
func (s *Store) RefreshBusiness(ctx context.Context) {
	var (
		userID string
		gen    uint64
	)
	s.update(func(st *State) {
		if st.User == nil {
			return
		}
		userID = st.User.ID
		s.refreshing++
		st.Refreshing = true
		s.generation++
		gen = s.generation
	})
	if userID == "" {
		return
	}

	s.loadBusiness(ctx, gen, userID)

	s.update(func(st *State) {
		s.refreshing--
		st.Refreshing = s.refreshing > 0
	})
}

// SetTheme stores and persists theme and applies the resulting mode
func (s *Store) SetTheme(theme Theme) error {
	if !theme.Valid() {
		return &InvalidThemeError{Theme: string(theme)}
	}

	s.update(func(st *State) {
		st.Theme = theme
		st.Mode = s.resolve(theme)
	})

	if s.prefs == nil {
		return nil
	}
	return s.prefs.SetTheme(string(theme))
}

// InvalidThemeError is returned for an unknown theme name
type InvalidThemeError struct {
	Theme string
}

func (e *InvalidThemeError) Error() string {
	return "unknown theme: " + e.Theme
}

// loadBusiness fetches the business of userID and, if it exists, its
// subscription and settings. Results from a superseded generation are dropped.
func (s *Store) loadBusiness(ctx context.Context, gen uint64, userID string) {
	business, err := s.data.GetBusiness(ctx, userID)
	if err != nil {
		s.log.With("user_id", userID).WarnWithErr(err, "Failed to load business")
		metrics.RecordSessionFetchError("business")
		return
	}
	if business == nil {
		return
	}
	if !s.apply(gen, func(st *State) { st.Business = business }) {
		return
	}

	sub, err := s.data.GetSubscription(ctx, business.ID)
	if err != nil {
		s.log.With("business_id", business.ID).WarnWithErr(err, "Failed to load subscription")
		metrics.RecordSessionFetchError("subscription")
	} else if !s.apply(gen, func(st *State) { st.Subscription = sub }) {
		return
	}

	settings, err := s.data.GetReminderSettings(ctx, business.ID)
	if err != nil {
		s.log.With("business_id", business.ID).WarnWithErr(err, "Failed to load reminder settings")
		metrics.RecordSessionFetchError("reminder_settings")
		return
	}
	s.apply(gen, func(st *State) { st.ReminderSettings = settings })
}

func (s *Store) handleAuthChange(ctx context.Context, change AuthChange) {
	metrics.RecordAuthEvent(string(change.Event))
	s.log.With("event", string(change.Event)).Debug("Auth state changed")

	switch change.Event {
	case EventSignedIn:
		if change.User == nil {
			return
		}
		user := change.User
		s.update(func(st *State) {
			if st.User == nil || st.User.ID != user.ID {
				s.generation++
				st.Business = nil
				st.Subscription = nil
				st.ReminderSettings = nil
			}
			st.User = user
		})
		s.RefreshBusiness(ctx)
	case EventSignedOut:
		s.clear()
	case EventTokenRefreshed, EventUserUpdated:
		if change.User == nil {
			return
		}
		user := change.User
		s.update(func(st *State) {
			if st.User != nil {
				st.User = user
			}
		})
	}
}

// clear drops the session fields and invalidates in-flight fetches
func (s *Store) clear() {
	s.update(func(st *State) {
		s.generation++
		st.User = nil
		st.Business = nil
		st.Subscription = nil
		st.ReminderSettings = nil
	})
}

// apply runs fn only when gen is still the current generation
func (s *Store) apply(gen uint64, fn func(*State)) bool {
	applied := false
	s.update(func(st *State) {
		if gen != s.generation {
			return
		}
		fn(st)
		applied = true
	})
	return applied
}

// update mutates the state under the lock and notifies listeners
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	before := s.state
	fn(&s.state)
	after := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if before != after {
		for _, l := range listeners {
			l(after)
		}
	}
}

func (s *Store) resolve(theme Theme) Mode {
	switch theme {
	case ThemeDark:
		return ModeDark
	case ThemeSystem:
		if s.platform.PrefersDark() {
			return ModeDark
		}
		return ModeLight
	default:
		return ModeLight
	}
}
