package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"crudlandia/internal/registry/models"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/platform/tx"
	"crudlandia/pkg/requestcontext"
)

// PostgresStore persists references in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed reference store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Reference, error) {
	var ref models.Reference
	err := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, code, name, created_at, created_by, updated_at, updated_by, version
		FROM "references" WHERE id = $1`, id,
	).Scan(&ref.ID, &ref.Code, &ref.Name, &ref.CreatedAt, &ref.CreatedBy, &ref.UpdatedAt, &ref.UpdatedBy, &ref.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find reference: %w", err)
	}
	return &ref, nil
}

func (s *PostgresStore) Insert(ctx context.Context, ref *models.Reference) error {
	ref.StampInsert(uuid.New(), requestcontext.Now(ctx), requestcontext.Actor(ctx))
	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO "references" (id, code, name, created_at, created_by, updated_at, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ref.ID, ref.Code, ref.Name, ref.CreatedAt, ref.CreatedBy, ref.UpdatedAt, ref.UpdatedBy, ref.Version,
	)
	if err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}
