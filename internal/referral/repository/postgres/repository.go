package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/clock"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
	"github.com/jackc/pgx/v5/pgconn"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	txAttempts = 10
	txBackoff  = 10 * time.Millisecond

	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Repository is the authoritative referral store.
type Repository struct {
	db      *gorm.DB
	metrics Metrics
	txOpts  *sql.TxOptions
}

// Option customises a Repository.
type Option func(*Repository)

// WithIsolation sets the isolation level InTx transactions run at.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(r *Repository) {
		r.txOpts = &sql.TxOptions{Isolation: level}
	}
}

// NewRepository connects to PostgreSQL. Transactions run SERIALIZABLE and are
// retried when PostgreSQL aborts them with a serialization failure.
func NewRepository(dsn string, metrics Metrics, opts ...Option) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	return Open(pgdriver.Open(dsn), metrics, append([]Option{WithIsolation(sql.LevelSerializable)}, opts...)...)
}

// Open builds a repository over any gorm dialector. Tests pass an in-memory sqlite dialector.
func Open(dialector gorm.Dialector, metrics Metrics, opts ...Option) (*Repository, error) {
	if metrics == nil {
		return nil, errors.New("repository metrics is required")
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	r := &Repository{db: db, metrics: metrics}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// AutoMigrate creates the schema from the models. Production deployments use
// the SQL files under migrations/postgres instead.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&model.Account{},
		&model.AncestorEdge{},
		&model.LevelDefinition{},
		&model.LedgerEntry{},
		&model.Settlement{},
		&model.Setting{},
	)
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// SetMaxOpenConns bounds the connection pool.
func (r *Repository) SetMaxOpenConns(n int) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(n)
	return nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// InTx runs fn inside a single database transaction. Any error rolls back every
// write made through the Store. A transaction aborted by a serialization
// failure or deadlock is run again from the start, so fn must not keep state
// between calls.
func (r *Repository) InTx(ctx context.Context, fn func(store.Store) error) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction", err, start)
	}()

	for attempt := 1; ; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&Store{db: tx, metrics: r.metrics})
		}, r.txOptions()...)
		if err == nil || !retryable(err) || attempt == txAttempts {
			return err
		}
		r.metrics.Observe("transaction_retry", err, start)
		wait := time.Duration(attempt)*txBackoff + rand.N(txBackoff)
		if sleepErr := clock.SleepWithContext(ctx, wait); sleepErr != nil {
			return err
		}
	}
}

func (r *Repository) txOptions() []*sql.TxOptions {
	if r.txOpts == nil {
		return nil
	}
	return []*sql.TxOptions{r.txOpts}
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}

// Snapshot returns a Store that reads without taking locks.
func (r *Repository) Snapshot() store.Store {
	return &Store{db: r.db, metrics: r.metrics}
}

// Store implements store.Store over a gorm handle that is either a
// transaction or the connection pool.
type Store struct {
	db      *gorm.DB
	metrics Metrics
}

var _ store.Store = (*Store)(nil)
