package example

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/platform/tx"
	"crudlandia/pkg/requestcontext"
)

// PostgresStore persists examples in PostgreSQL. Name uniqueness is
// guaranteed by a unique index, so the service-level pre-check is only an
// early rejection; concurrent creators racing past it lose here.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed example store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const exampleColumns = `id, reference_id, name, description, sequence, value, weight, issued_at, status,
	created_at, created_by, updated_at, updated_by, version`

// exampleSQLColumns maps whitelisted sort columns to SQL identifiers. Only
// values that passed query validation reach this map, and only mapped values
// are ever interpolated into SQL.
var exampleSQLColumns = map[string]string{
	"name":       "name",
	"sequence":   "sequence",
	"value":      "value",
	"weight":     "weight",
	"issued_at":  "issued_at",
	"status":     "status",
	"created_at": "created_at",
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Example, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+exampleColumns+` FROM examples WHERE id = $1`, id)
	return scanExample(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Example, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+exampleColumns+` FROM examples WHERE name = $1`, name)
	return scanExample(row)
}

func (s *PostgresStore) Insert(ctx context.Context, e *models.Example) error {
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)
	e.StampInsert(uuid.New(), now, actor)

	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO examples (id, reference_id, name, description, sequence, value, weight, issued_at, status,
			created_at, created_by, updated_at, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.ReferenceID, e.Name, e.Description, e.Sequence, nullDecimal(e.Value), e.Weight,
		e.IssuedAt, string(e.Status), e.CreatedAt, e.CreatedBy, e.UpdatedAt, e.UpdatedBy, e.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert example: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, e *models.Example) error {
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)

	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE examples
		SET reference_id = $1, name = $2, description = $3, sequence = $4, value = $5, weight = $6,
			issued_at = $7, status = $8, updated_at = $9, updated_by = $10, version = version + 1
		WHERE id = $11 AND version = $12`,
		e.ReferenceID, e.Name, e.Description, e.Sequence, nullDecimal(e.Value), e.Weight,
		e.IssuedAt, string(e.Status), now, actor, e.ID, e.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("update example: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update example: %w", err)
	}
	if rows == 0 {
		// Zero rows means either a stale version or a row deleted since the
		// caller loaded it; tell them apart like the memory store does.
		if _, findErr := s.FindByID(ctx, e.ID); findErr != nil {
			if errors.Is(findErr, sentinel.ErrNotFound) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("update example: %w", findErr)
		}
		return sentinel.ErrVersionConflict
	}
	e.StampUpdate(now, actor)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM examples WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete example: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete example: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, q query.ExampleQuery) ([]*models.Example, int, error) {
	column, ok := exampleSQLColumns[q.Sort.Column]
	if !ok {
		return nil, 0, fmt.Errorf("unmapped sort column %q", q.Sort.Column)
	}
	direction := "ASC"
	if q.Sort.Direction == query.Descending {
		direction = "DESC"
	}

	var conds []string
	var args []any
	appendCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.IssuedFrom != nil {
		appendCond("issued_at >= $%d", *q.IssuedFrom)
	}
	if q.IssuedTo != nil {
		appendCond("issued_at <= $%d", *q.IssuedTo)
	}
	if q.Name != "" {
		appendCond("name ILIKE '%%' || $%d || '%%'", escapeLike(q.Name))
	}
	if q.Status != nil {
		appendCond("status = $%d", string(*q.Status))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	querier := tx.QuerierFrom(ctx, s.db)

	var total int
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM examples`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count examples: %w", err)
	}

	args = append(args, q.Page.Size, q.Page.Offset())
	stmt := fmt.Sprintf(`SELECT %s FROM examples%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		exampleColumns, where, column, direction, len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query examples: %w", err)
	}
	defer rows.Close()

	examples := make([]*models.Example, 0, q.Page.Size)
	for rows.Next() {
		e, err := scanExample(rows)
		if err != nil {
			return nil, 0, err
		}
		examples = append(examples, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("query examples: %w", err)
	}
	return examples, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExample(row scanner) (*models.Example, error) {
	var e models.Example
	var description sql.NullString
	var value decimal.NullDecimal
	var weight sql.NullFloat64
	err := row.Scan(&e.ID, &e.ReferenceID, &e.Name, &description, &e.Sequence, &value, &weight,
		&e.IssuedAt, &e.Status, &e.CreatedAt, &e.CreatedBy, &e.UpdatedAt, &e.UpdatedBy, &e.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan example: %w", err)
	}
	if description.Valid {
		e.Description = &description.String
	}
	if value.Valid {
		e.Value = &value.Decimal
	}
	if weight.Valid {
		e.Weight = &weight.Float64
	}
	return &e, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

// escapeLike neutralizes LIKE metacharacters so filter input matches
// literally, the same way the memory store's substring check does.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
