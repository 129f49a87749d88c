package client

import (
	"context"
	"net/url"
)

// AuthService handles authentication API calls
type AuthService struct {
	client *Client
}

// SignUpRequest represents a registration request
type SignUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
	Timezone     string `json:"timezone,omitempty"`
	Language     string `json:"language,omitempty"`
}

// SignUp creates an account with its business and signs it in
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	return s.session(ctx, "/api/v1/auth/register", req)
}

// SignInWithPassword authenticates with email and password
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return s.session(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh exchanges a refresh token for a new session
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return s.session(ctx, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})
}

// SignOut ends the session. The local token is dropped even when the call fails.
func (s *AuthService) SignOut(ctx context.Context) error {
	err := s.client.doRequest(ctx, "POST", "/api/v1/auth/logout", nil, nil)
	s.client.SetToken("")
	return err
}

// Me retrieves the currently authenticated user
func (s *AuthService) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.doRequest(ctx, "GET", "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GoogleSignInURL returns the URL that starts the Google sign-in flow; the
// API redirects to redirectTo with the session tokens when it completes
func (s *AuthService) GoogleSignInURL(redirectTo string) string {
	q := url.Values{}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	u := s.client.baseURL + "/api/v1/auth/google/login"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *AuthService) session(ctx context.Context, path string, body interface{}) (*Session, error) {
	var sess Session
	if err := s.client.doRequest(ctx, "POST", path, body, &sess); err != nil {
		return nil, err
	}
	// Automatically set the token for future requests
	if sess.AccessToken != "" {
		s.client.SetToken(sess.AccessToken)
	}
	return &sess, nil
}
