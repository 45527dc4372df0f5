package repository

import (
	"context"
	"fmt"
	"time"

	"trybud/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrQuestNotActive     = errors.New("quest not active")
	ErrQuestExpired       = errors.New("quest expired")
	ErrQuestNotFinished   = errors.New("quest not finished yet")
	ErrAlreadyLoggedToday = errors.New("already logged for today")
	ErrInsufficientStake  = errors.New("insufficient balance to lock stake")
)

// Repository is the SQL-backed quest ledger.
type Repository struct {
	db     *sqlx.DB
	driver string
	ph     squirrel.PlaceholderFormat
	now    func() time.Time
}

type Option func(*Repository)

// WithClock overrides the ledger clock used for day indices and expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Driver   string `json:"driver"`
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func New(cfg Config, opts ...Option) (*Repository, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	db, err := sqlx.Connect(driver, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ph := squirrel.PlaceholderFormat(squirrel.Dollar)
	if driver == DriverSQLite {
		// every connection to an in-memory sqlite database is a fresh database
		db.SetMaxOpenConns(1)
		ph = squirrel.Question
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger().Info("Connected to database successfully")

	r := &Repository{
		db:     db,
		driver: driver,
		ph:     ph,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (c *Config) GetDatabaseURL() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}
