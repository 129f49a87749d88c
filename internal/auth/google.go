package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProfile is the subset of the OpenID userinfo document we use
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleProvider drives the Google authorization-code flow
type GoogleProvider struct {
	conf        *oauth2.Config
	stateSecret string
	userInfoURL string
}

// NewGoogleProvider creates a provider. The state parameter is signed with
// stateSecret so no server-side storage is needed between the two legs.
func NewGoogleProvider(clientID, clientSecret, redirectURL string, scopes []string, stateSecret string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		stateSecret: stateSecret,
		userInfoURL: googleUserInfoURL,
	}
}

type stateClaims struct {
	RedirectTo string `json:"rt"`
	jwt.RegisteredClaims
}

// AuthCodeURL returns the consent URL; redirectTo is where the caller is sent
// with its tokens once the callback completes
func (g *GoogleProvider) AuthCodeURL(redirectTo string) (string, error) {
	now := time.Now()
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		RedirectTo: redirectTo,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}).SignedString([]byte(g.stateSecret))
	if err != nil {
		return "", err
	}
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// VerifyState checks the state parameter and returns the embedded redirect target
func (g *GoogleProvider) VerifyState(state string) (string, error) {
	t, err := jwt.ParseWithClaims(state, &stateClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(g.stateSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	c, ok := t.Claims.(*stateClaims)
	if !ok || !t.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return c.RedirectTo, nil
}

// Exchange trades the authorization code for a token and loads the profile
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("userinfo carries no email")
	}
	return &profile, nil
}
