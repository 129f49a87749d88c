package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMintAndParseTokens(t *testing.T) {
	pair, err := MintTokens("user-1", "owner@example.com", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		secret  string
		typ     string
		wantErr bool
	}{
		{name: "access token as access", token: pair.AccessToken, secret: "secret", typ: TokenAccess},
		{name: "refresh token as refresh", token: pair.RefreshToken, secret: "secret", typ: TokenRefresh},
		{name: "refresh token as access", token: pair.RefreshToken, secret: "secret", typ: TokenAccess, wantErr: true},
		{name: "wrong secret", token: pair.AccessToken, secret: "other", typ: TokenAccess, wantErr: true},
		{name: "garbage", token: "not-a-token", secret: "secret", typ: TokenAccess, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseClaims(tt.token, tt.secret, tt.typ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClaims() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if claims.UserID != "user-1" {
				t.Errorf("UserID = %q, want user-1", claims.UserID)
			}
			if claims.Email != "owner@example.com" {
				t.Errorf("Email = %q, want owner@example.com", claims.Email)
			}
		})
	}
}

func TestParseClaims_WrongType(t *testing.T) {
	pair, _ := MintTokens("user-1", "owner@example.com", "secret", time.Minute, time.Hour)
	_, err := ParseClaims(pair.AccessToken, "secret", TokenRefresh)
	if !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("ParseClaims() error = %v, want ErrWrongTokenType", err)
	}
}

func TestParseClaims_Expired(t *testing.T) {
	pair, _ := MintTokens("user-1", "owner@example.com", "secret", -time.Minute, time.Hour)
	if _, err := ParseClaims(pair.AccessToken, "secret", TokenAccess); err == nil {
		t.Error("ParseClaims() accepted an expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if strings.Contains(hash, "correct horse") {
		t.Fatal("hash contains the plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted the wrong password")
	}
	if CheckPassword("", "anything") {
		t.Error("CheckPassword() accepted an empty hash")
	}
}

func TestGoogleState_RoundTrip(t *testing.T) {
	g := NewGoogleProvider("id", "secret", "http://localhost/cb", nil, "state-secret")

	consent, err := g.AuthCodeURL("http://localhost:5173/auth/callback/google")
	if err != nil {
		t.Fatalf("AuthCodeURL() error = %v", err)
	}
	if !strings.Contains(consent, "accounts.google.com") {
		t.Errorf("AuthCodeURL() = %q, want google endpoint", consent)
	}

	idx := strings.Index(consent, "state=")
	if idx < 0 {
		t.Fatalf("AuthCodeURL() carries no state: %q", consent)
	}
	state := consent[idx+len("state="):]
	if amp := strings.IndexByte(state, '&'); amp >= 0 {
		state = state[:amp]
	}

	redirect, err := g.VerifyState(state)
	if err != nil {
		t.Fatalf("VerifyState() error = %v", err)
	}
	if redirect != "http://localhost:5173/auth/callback/google" {
		t.Errorf("VerifyState() = %q", redirect)
	}

	other := NewGoogleProvider("id", "secret", "http://localhost/cb", nil, "different")
	if _, err := other.VerifyState(state); err == nil {
		t.Error("VerifyState() accepted a state signed with another secret")
	}
}
