package postgres

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

func TestIntegrationRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewIntegrationRepository(db)
	b := seedBusiness(t, db, "owner@example.com")

	list, err := repo.ListByBusinessID(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListByBusinessID() error = %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("ListByBusinessID() = %v, want empty non-nil", list)
	}

	c := &integration.CalendarIntegration{BusinessID: b.ID, Provider: integration.ProviderGoogle, SyncEnabled: true}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	token := "access"
	disabled := false
	updated, err := repo.Update(ctx, c.ID, integration.Patch{AccessToken: &token, SyncEnabled: &disabled})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Connected() || updated.SyncEnabled {
		t.Errorf("Update() = %+v", updated)
	}
	if updated.Provider != integration.ProviderGoogle {
		t.Errorf("Update() dropped provider: %q", updated.Provider)
	}

	if _, err := repo.Update(ctx, "missing", integration.Patch{SyncEnabled: &disabled}); !errors.IsNotFound(err) {
		t.Errorf("Update(missing) error = %v, want not found", err)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Errorf("Delete() of absent id error = %v, want nil", err)
	}

	list, _ = repo.ListByBusinessID(ctx, b.ID)
	if len(list) != 0 {
		t.Errorf("ListByBusinessID() after delete = %d items", len(list))
	}
}
