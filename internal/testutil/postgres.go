package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"

	"github.com/emilythestrangee/social-blog/backend/internal/database"
)

// PostgresPoolSize keeps concurrent tests well under the server's
// max_connections.
const PostgresPoolSize = 20

// NewPostgresDB starts a throwaway Postgres container and returns it
// migrated, with the same fixtures as NewDB. Unlike SQLite, transactions on
// it really run concurrently. Skipped in -short mode or without Docker.
func NewPostgresDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		tcpostgres.WithDatabase("social_blog"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gdb, err := database.Open(postgres.Open(dsn), "silent", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(PostgresPoolSize)

	return wrapDB(t, gdb)
}
