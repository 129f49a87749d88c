package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// BusinessRepository implements business.Repository
type BusinessRepository struct {
	db *DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *DB) business.Repository {
	return &BusinessRepository{db: db}
}

const businessColumns = `id, user_id, name, logo_url, timezone, language, created_at`

// Create creates a new business
func (r *BusinessRepository) Create(ctx context.Context, b *business.Business) error {
	now := time.Now().Unix()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Timezone == "" {
		b.Timezone = business.DefaultTimezone
	}
	if b.Language == "" {
		b.Language = business.LanguageEN
	}
	b.CreatedAt = time.Unix(now, 0)

	query := `
		INSERT INTO businesses (id, user_id, name, logo_url, timezone, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Name, nullString(b.LogoURL), b.Timezone, b.Language, now,
	)
	if isUniqueViolation(err) {
		return errors.Conflict("User already owns a business")
	}
	if err != nil {
		return errors.DatabaseError("Failed to create business", err)
	}
	return nil
}

// GetByUserID retrieves the business owned by a user
func (r *BusinessRepository) GetByUserID(ctx context.Context, userID string) (*business.Business, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE user_id = ?`, userID)
}

// GetByID retrieves a business by ID
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*business.Business, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = ?`, id)
}

func (r *BusinessRepository) getOne(ctx context.Context, query string, arg any) (*business.Business, error) {
	var b business.Business
	var logo sql.NullString
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&b.ID, &b.UserID, &b.Name, &logo, &b.Timezone, &b.Language, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Business")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get business", err)
	}

	b.LogoURL = stringPtr(logo)
	b.CreatedAt = time.Unix(createdAt, 0)
	return &b, nil
}

// Update applies patch and returns the updated business
func (r *BusinessRepository) Update(ctx context.Context, id string, patch business.Patch) (*business.Business, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.LogoURL != nil {
		set.add("logo_url", nullString(patch.LogoURL))
	}
	if patch.Timezone != nil {
		set.add("timezone", *patch.Timezone)
	}
	if patch.Language != nil {
		set.add("language", *patch.Language)
	}

	if !set.empty() {
		result, err := r.db.ExecContext(ctx,
			`UPDATE businesses SET `+set.sql()+` WHERE id = ?`,
			append(set.args, id)...,
		)
		if err != nil {
			return nil, errors.DatabaseError("Failed to update business", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, errors.NotFound("Business")
		}
	}

	return r.GetByID(ctx, id)
}

// ListIDs returns the ids of every business
func (r *BusinessRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM businesses ORDER BY created_at`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list businesses", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.DatabaseError("Failed to scan business", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate businesses", err)
	}
	return ids, nil
}
