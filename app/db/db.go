// Package database owns the Postgres connection pool and schema migrations.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/voyaiger/voyaiger-server/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// defaultWaitBudget bounds startup pings when the config leaves
// MAXCONWAITINGTIME unset.
const defaultWaitBudget = 10 * time.Second

type DatabaseConfig struct {
	ConnectionURL string
}

// WaitForDB pings the pool with linear backoff until it answers, the context
// is cancelled, or maxWait elapses. A zero maxWait means the default budget.
func WaitForDB(ctx context.Context, pgpool *pgxpool.Pool, maxWait time.Duration, logger *slog.Logger) bool {
	if maxWait <= 0 {
		maxWait = defaultWaitBudget
	}
	deadline := time.Now().Add(maxWait)
	for attempt := 1; ; attempt++ {
		err := pgpool.Ping(ctx)
		if err == nil {
			logger.InfoContext(ctx, "Database connection successful")
			return true
		}
		if ctx.Err() != nil {
			logger.ErrorContext(ctx, "Database wait aborted", slog.String("error", ctx.Err().Error()))
			return false
		}

		wait := time.Duration(attempt) * 200 * time.Millisecond
		if time.Now().Add(wait).After(deadline) {
			logger.ErrorContext(ctx, "Database connection failed within wait budget",
				slog.Int("attempts", attempt),
				slog.Duration("max_wait", maxWait),
				slog.String("error", err.Error()),
			)
			return false
		}
		logger.WarnContext(ctx, "Database ping failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait_duration", wait),
			slog.String("error", err.Error()),
		)
		time.Sleep(wait)
	}
}

// RunMigrations applies all pending migrations from the embedded filesystem.
func RunMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return errors.New("invalid database URL scheme for migrate, expected postgresql://")
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, verr := m.Version()
	switch {
	case verr != nil:
		logger.Warn("Could not determine migration version", slog.Any("error", verr))
	case dirty:
		// Requires manual repair before the schema can move again.
		logger.Error("Database migration state is dirty", slog.Uint64("version", uint64(version)))
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Info("No new migrations to apply", slog.Uint64("current_version", uint64(version)))
	default:
		logger.Info("Database migrations applied", slog.Uint64("new_version", uint64(version)))
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("Error closing migration source", slog.Any("error", srcErr))
	}
	if dbErr != nil {
		logger.Warn("Error closing migration database connection", slog.Any("error", dbErr))
	}
	return nil
}

// NewDatabaseConfig builds the connection URL from configuration. The
// postgresql:// scheme keeps the same URL usable by both pgxpool and migrate.
func NewDatabaseConfig(cfg *config.Config, logger *slog.Logger) (*DatabaseConfig, error) {
	if cfg == nil || cfg.Repositories.Postgres.Host == "" {
		return nil, errors.New("postgres configuration is missing or invalid")
	}
	pg := cfg.Repositories.Postgres

	sslMode := pg.SSLMODE
	if sslMode == "" {
		sslMode = "disable"
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("timezone", "utc")

	connURL := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(pg.Username, pg.Password),
		Host:     fmt.Sprintf("%s:%s", pg.Host, pg.Port),
		Path:     pg.DB,
		RawQuery: query.Encode(),
	}

	logger.Info("Database connection URL generated",
		slog.String("host", connURL.Host), slog.String("database", pg.DB))

	return &DatabaseConfig{ConnectionURL: connURL.String()}, nil
}

// Init creates the pgxpool and registers the google/uuid codec on every new
// connection so uuid.UUID values scan without casts.
func Init(connectionURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing db config: %w", err)
	}

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed creating db pool: %w", err)
	}

	logger.Info("Database connection pool initialized")
	return pool, nil
}
