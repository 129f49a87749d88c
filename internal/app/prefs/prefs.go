// Package prefs persists device-level preferences: display language, theme
// and the auth service's tokens. Nothing else about the session is stored.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
)

const (
	keyLanguage     = "language"
	keyTheme        = "theme"
	keyAccessToken  = "auth.access_token"
	keyRefreshToken = "auth.refresh_token"
	keyExpiresAt    = "auth.expires_at"
)

// Tokens is the persisted session of the auth service
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Empty reports whether no session is stored
func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Store is a YAML preferences file
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads the preferences file at path. A missing file is not an error;
// it is created on the first write. The language defaults to the one in
// $LANG when supported.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keyLanguage, i18n.Detect(os.Getenv("LANG")))
	v.SetDefault(keyTheme, "light")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read preferences %s: %w", path, err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the preferences file location
func (s *Store) Path() string {
	return s.path
}

// Language returns the persisted display language
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lang := s.v.GetString(keyLanguage)
	if !i18n.Supported(lang) {
		return i18n.DefaultLanguage
	}
	return lang
}

// SetLanguage persists lang, which must be a supported language
func (s *Store) SetLanguage(lang string) error {
	if !i18n.Supported(lang) {
		return fmt.Errorf("unsupported language: %q", lang)
	}
	return s.set(map[string]interface{}{keyLanguage: lang})
}

// Theme returns the persisted theme name
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(keyTheme)
}

// SetTheme persists theme
func (s *Store) SetTheme(theme string) error {
	return s.set(map[string]interface{}{keyTheme: theme})
}

// Tokens returns the persisted auth session
func (s *Store) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Tokens{
		AccessToken:  s.v.GetString(keyAccessToken),
		RefreshToken: s.v.GetString(keyRefreshToken),
	}
	if unix := s.v.GetInt64(keyExpiresAt); unix > 0 {
		t.ExpiresAt = time.Unix(unix, 0)
	}
	return t
}

// SaveTokens persists the auth session
func (s *Store) SaveTokens(t Tokens) error {
	var exp int64
	if !t.ExpiresAt.IsZero() {
		exp = t.ExpiresAt.Unix()
	}
	return s.set(map[string]interface{}{
		keyAccessToken:  t.AccessToken,
		keyRefreshToken: t.RefreshToken,
		keyExpiresAt:    exp,
	})
}

// ClearTokens forgets the auth session
func (s *Store) ClearTokens() error {
	return s.SaveTokens(Tokens{})
}

func (s *Store) set(values map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.v.Set(k, v)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	if err := ensurePrivate(s.path); err != nil {
		return fmt.Errorf("prepare preferences file: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// ensurePrivate creates path as 0600, or tightens an existing file, before
// any token is written. Writes keep the mode of an existing file.
func ensurePrivate(path string) error {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o600)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}
