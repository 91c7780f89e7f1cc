// Package service implements the registry business rules: uniqueness and
// referential-integrity invariants, lifecycle transitions, and orchestration
// of store calls inside one transaction scope per operation. Services own
// all mutation; the read path goes through validated queries only.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	registrymetrics "crudlandia/internal/registry/metrics"
	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/pkg/requestcontext"
)

// ExampleStore is the storage port for examples. Implementations must
// enforce name uniqueness and expected-version checks at the storage layer;
// the service pre-checks are early rejections, not the real guard.
type ExampleStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Example, error)
	FindByName(ctx context.Context, name string) (*models.Example, error)
	Insert(ctx context.Context, e *models.Example) error
	Update(ctx context.Context, e *models.Example) error
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, q query.ExampleQuery) ([]*models.Example, int, error)
}

// ReferenceStore is the storage port for references.
type ReferenceStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reference, error)
	Insert(ctx context.Context, ref *models.Reference) error
}

// ProductStore is the storage port for products. Code and name uniqueness
// are two independent storage constraints.
type ProductStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, q query.ProductQuery) ([]*models.Product, int, error)
}

// StoreTx demarcates one atomic unit of work. Every mutating service
// operation acquires a scope at entry and releases it on every exit path.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	tx      StoreTx
}

// Option configures a service.
type Option func(*serviceConfig)

// WithLogger attaches a structured logger for audit-style mutation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

// WithMetrics attaches registry metrics.
func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithTx attaches a transaction runner. Defaults to an in-memory passthrough
// suitable for the memory stores, which guard their own consistency.
func WithTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

func newServiceConfig(opts []Option) *serviceConfig {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = newInMemoryStoreTx()
	}
	return cfg
}

func (c *serviceConfig) logAudit(ctx context.Context, event string, attributes ...any) {
	if c.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	c.logger.InfoContext(ctx, event, args...)
}

func (c *serviceConfig) incrementConflicts() {
	if c.metrics != nil {
		c.metrics.IncrementConflictsRejected()
	}
}
