package postgres

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/reminderflow/internal/domain/user"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     *user.User
		wantCode string
	}{
		{
			name: "create user successfully",
			user: &user.User{Email: "owner@example.com", PasswordHash: "hash"},
		},
		{
			name: "create oauth user",
			user: &user.User{Email: "google@example.com", Provider: user.ProviderGoogle},
		},
		{
			name:     "duplicate email differing in case",
			user:     &user.User{Email: "Owner@Example.com", PasswordHash: "hash"},
			wantCode: errors.ErrCodeEmailInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)

			if tt.wantCode != "" {
				appErr, ok := errors.As(err)
				if !ok || appErr.Code != tt.wantCode {
					t.Errorf("Create() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if tt.user.ID == "" {
				t.Error("Create() did not set user ID")
			}
			if tt.user.Provider == "" {
				t.Error("Create() did not default the provider")
			}
		})
	}
}

func TestUserRepository_Get(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "owner@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Email != "owner@example.com" || byID.PasswordHash != "hash" {
		t.Errorf("GetByID() = %+v", byID)
	}

	byEmail, err := repo.GetByEmail(ctx, " OWNER@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetByEmail() ID = %s, want %s", byEmail.ID, u.ID)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("GetByID(missing) error = %v, want not found", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "owner@example.com", Provider: user.ProviderGoogle}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u.PasswordHash = "new-hash"
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := repo.GetByID(ctx, u.ID)
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}

	missing := &user.User{ID: "missing", Email: "x@example.com"}
	if err := repo.Update(ctx, missing); !errors.IsNotFound(err) {
		t.Errorf("Update(missing) error = %v, want not found", err)
	}
}
