package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/api/middleware"
	"github.com/pratik-mahalle/reminderflow/internal/auth"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/domain/user"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

const refreshTokenCookie = "refreshToken"

// GoogleAuth is the subset of the Google provider the auth handler drives
type GoogleAuth interface {
	AuthCodeURL(redirectTo string) (string, error)
	VerifyState(state string) (string, error)
	Exchange(ctx context.Context, code string) (*auth.GoogleProfile, error)
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	google      GoogleAuth
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler. google may be nil when Google
// sign-in is not configured.
func NewAuthHandler(
	userService user.Service,
	google GoogleAuth,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		google:      google,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// Register handles account creation and signs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		metrics.RecordAuthAttempt("register", "invalid")
		return
	}

	newUser, err := h.userService.Register(r.Context(), user.Registration{
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
		Timezone:     req.Timezone,
		Language:     req.Language,
	})
	if err != nil {
		metrics.RecordAuthAttempt("register", "failed")
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).WarnWithErr(err, "Registration failed")
		utils.WriteAnyError(w, err)
		return
	}

	metrics.RecordAuthAttempt("register", "ok")
	h.logger.With("user_id", newUser.ID).Info("User registered")
	h.respondWithTokens(w, http.StatusCreated, newUser)
}

// Login handles email/password sign-in
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		metrics.RecordAuthAttempt("password", "invalid")
		return
	}

	authenticated, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt("password", "failed")
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteAnyError(w, err)
		return
	}

	metrics.RecordAuthAttempt("password", "ok")
	h.respondWithTokens(w, http.StatusOK, authenticated)
}

// RefreshToken exchanges a refresh token, from the body or the refresh
// cookie, for a new token pair
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}
	} else if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		req.RefreshToken = cookie.Value
	}
	if req.RefreshToken == "" {
		utils.WriteError(w, errors.Unauthorized("Missing refresh token"))
		return
	}

	claims, err := auth.ParseClaims(req.RefreshToken, h.config.Auth.JWTSecret, auth.TokenRefresh)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", "failed")
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", "failed")
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	metrics.RecordAuthAttempt("refresh", "ok")
	h.respondWithTokens(w, http.StatusOK, u)
}

// Logout clears the session cookies. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, middleware.AccessTokenCookie, "", -1)
	h.setCookie(w, refreshTokenCookie, "", -1)
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.IsNotFound(err) {
			utils.WriteError(w, errors.Unauthorized("User no longer exists"))
			return
		}
		h.logger.ErrorWithErr(err, "Failed to get user")
		utils.WriteAnyError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToUserDTO(u))
}

// GoogleLogin redirects to Google's consent screen. redirect_to must point
// at the configured frontend.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		utils.WriteError(w, errors.ServiceUnavailable("Google sign-in is not configured"))
		return
	}

	redirectTo := r.URL.Query().Get("redirect_to")
	if redirectTo == "" {
		redirectTo = strings.TrimRight(h.config.Server.FrontendURL, "/") + "/auth/callback/google"
	}
	if !h.allowedRedirect(redirectTo) {
		utils.WriteError(w, errors.BadRequest("redirect_to must point at the frontend"))
		return
	}

	consent, err := h.google.AuthCodeURL(redirectTo)
	if err != nil {
		utils.WriteAnyError(w, errors.Internal("Failed to start Google sign-in", err))
		return
	}
	http.Redirect(w, r, consent, http.StatusFound)
}

// GoogleCallback completes the code exchange and hands the tokens to the
// frontend as query parameters of the redirect target
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		utils.WriteError(w, errors.ServiceUnavailable("Google sign-in is not configured"))
		return
	}

	q := r.URL.Query()
	redirectTo, err := h.google.VerifyState(q.Get("state"))
	if err != nil {
		metrics.RecordAuthAttempt("google", "failed")
		utils.WriteError(w, errors.BadRequest("Invalid OAuth state"))
		return
	}

	if e := q.Get("error"); e != "" {
		metrics.RecordAuthAttempt("google", "denied")
		http.Redirect(w, r, withQuery(redirectTo, url.Values{"error": {e}}), http.StatusFound)
		return
	}

	profile, err := h.google.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		metrics.RecordAuthAttempt("google", "failed")
		h.logger.WarnWithErr(err, "Google code exchange failed")
		utils.WriteError(w, errors.OAuthError("Google", err))
		return
	}

	u, err := h.userService.SignInWithProvider(r.Context(), user.ProviderGoogle, profile.Email)
	if err != nil {
		metrics.RecordAuthAttempt("google", "failed")
		utils.WriteAnyError(w, err)
		return
	}

	tokens, err := h.mint(u)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}
	metrics.RecordAuthAttempt("google", "ok")

	http.Redirect(w, r, withQuery(redirectTo, url.Values{
		"access_token":  {tokens.AccessToken},
		"refresh_token": {tokens.RefreshToken},
		"expires_at":    {strconv.FormatInt(tokens.ExpiresAt.Unix(), 10)},
	}), http.StatusFound)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, status int, u *user.User) {
	tokens, err := h.mint(u)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, tokens.AccessToken, int(h.config.Auth.AccessTokenExpiry.Seconds()))
	h.setCookie(w, refreshTokenCookie, tokens.RefreshToken, int(h.config.Auth.RefreshTokenExpiry.Seconds()))

	utils.WriteSuccess(w, status, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt.UTC().Truncate(time.Second),
		User:         dto.ToUserDTO(u),
	})
}

func (h *AuthHandler) mint(u *user.User) (auth.TokenPair, error) {
	return auth.MintTokens(
		u.ID,
		u.Email,
		h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   h.config.Server.Environment == "production",
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

func (h *AuthHandler) allowedRedirect(target string) bool {
	t, err := url.Parse(target)
	if err != nil || t.Scheme == "" || t.Host == "" {
		return false
	}
	front, err := url.Parse(h.config.Server.FrontendURL)
	if err != nil {
		return false
	}
	return t.Scheme == front.Scheme && t.Host == front.Host
}

func withQuery(target string, values url.Values) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	for k, v := range values {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}
