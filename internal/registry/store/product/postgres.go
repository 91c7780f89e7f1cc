package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/platform/tx"
	"crudlandia/pkg/requestcontext"
)

// PostgresStore persists products in PostgreSQL. Code and name uniqueness
// are two independent unique indexes; either can reject a write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed product store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const productColumns = `id, code, name, value, brand, expiry, active,
	created_at, created_by, updated_at, updated_by, version`

var productSQLColumns = map[string]string{
	"code":       "code",
	"name":       "name",
	"value":      "value",
	"brand":      "brand",
	"expiry":     "expiry",
	"active":     "active",
	"created_at": "created_at",
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE code = $1`, code)
	return scanProduct(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Product, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE name = $1`, name)
	return scanProduct(row)
}

func (s *PostgresStore) Insert(ctx context.Context, p *models.Product) error {
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)
	p.StampInsert(uuid.New(), now, actor)

	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO products (id, code, name, value, brand, expiry, active,
			created_at, created_by, updated_at, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Code, p.Name, p.Value, p.Brand, p.Expiry, p.Active,
		p.CreatedAt, p.CreatedBy, p.UpdatedAt, p.UpdatedBy, p.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Product) error {
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)

	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE products
		SET code = $1, name = $2, value = $3, brand = $4, expiry = $5, active = $6,
			updated_at = $7, updated_by = $8, version = version + 1
		WHERE id = $9 AND version = $10`,
		p.Code, p.Name, p.Value, p.Brand, p.Expiry, p.Active, now, actor, p.ID, p.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if rows == 0 {
		// Zero rows means either a stale version or a row deleted since the
		// caller loaded it; tell them apart like the memory store does.
		if _, findErr := s.FindByID(ctx, p.ID); findErr != nil {
			if errors.Is(findErr, sentinel.ErrNotFound) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("update product: %w", findErr)
		}
		return sentinel.ErrVersionConflict
	}
	p.StampUpdate(now, actor)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, q query.ProductQuery) ([]*models.Product, int, error) {
	column, ok := productSQLColumns[q.Sort.Column]
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
	if q.CreatedFrom != nil {
		appendCond("created_at >= $%d", *q.CreatedFrom)
	}
	if q.CreatedTo != nil {
		appendCond("created_at <= $%d", *q.CreatedTo)
	}
	if q.Code != "" {
		appendCond("code ILIKE '%%' || $%d || '%%'", escapeLike(q.Code))
	}
	if q.Name != "" {
		appendCond("name ILIKE '%%' || $%d || '%%'", escapeLike(q.Name))
	}
	if q.Active != nil {
		appendCond("active = $%d", *q.Active)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	querier := tx.QuerierFrom(ctx, s.db)

	var total int
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, q.Page.Size, q.Page.Offset())
	stmt := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, column, direction, len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, q.Page.Size)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	return products, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	var brand sql.NullString
	var expiry sql.NullTime
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Value, &brand, &expiry, &p.Active,
		&p.CreatedAt, &p.CreatedBy, &p.UpdatedAt, &p.UpdatedBy, &p.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	if expiry.Valid {
		p.Expiry = &expiry.Time
	}
	return &p, nil
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
