// Package dbtest connects repository tests to a throwaway PostgreSQL database.
//
// Connection parameters come from DB_*_TEST environment variables with localhost
// defaults. When the database is unreachable Open returns nil and Require skips the
// calling test, so unit test runs do not need Postgres.
package dbtest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/course-manager/internal/config"
	"github.com/vasiliy-maslov/course-manager/internal/db"
)

func Config() config.PostgresConfig {
	return config.PostgresConfig{
		Host:            envOr("DB_HOST_TEST", "localhost"),
		Port:            envOr("DB_PORT_TEST", "5432"),
		User:            envOr("DB_USER_TEST", "postgres"),
		Password:        envOr("DB_PASSWORD_TEST", "123456"),
		DBName:          envOr("DB_NAME_TEST", "course_manager_test"),
		SSLMode:         envOr("DB_SSLMODE_TEST", "disable"),
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
}

// Open connects to the test database and applies migrations. It returns nil when the
// database cannot be reached.
func Open() *pgxpool.Pool {
	cfg := Config()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("host", cfg.Host).Str("dbname", cfg.DBName).Msg("Test database unavailable, repository tests will be skipped")
		return nil
	}

	if err := db.Migrate(cfg); err != nil {
		log.Warn().Err(err).Msg("Failed to migrate test database, repository tests will be skipped")
		pg.Close()
		return nil
	}

	log.Info().Msg("Test Database connection established.")
	return pg.Pool
}

func Require(tb testing.TB, pool *pgxpool.Pool) {
	tb.Helper()
	if pool == nil {
		tb.Skip("test database is not available")
	}
}

// Truncate empties every table of the schema and restarts identities.
func Truncate(tb testing.TB, pool *pgxpool.Pool) {
	tb.Helper()
	tables := []string{"event_participants", "event_tags", "events", "tags", "classrooms", "users"}
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(tb, err, "failed to truncate tables")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
