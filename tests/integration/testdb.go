// Package integration runs the bookstore services against a real PostgreSQL
// database started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/bookstore/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormlogger "gorm.io/gorm/logger"
)

const (
	postgresImage = "postgres:16-alpine"
	testDBName    = "bookstore_test"
	testUser      = "postgres"
	testPassword  = "bookstore"
)

var (
	// Shared container for all tests in the package
	sharedContainer   *tcpostgres.PostgresContainer
	sharedConfig      config.DatabaseConfig
	sharedContainerMu sync.Mutex
)

// TestDB is a migrated PostgreSQL database wrapped in a test store
type TestDB struct {
	*testutil.Store
	Config config.DatabaseConfig
	t      *testing.T
}

// NewTestDB returns a store over the shared PostgreSQL container with every table emptied.
// It skips the test under -short or when no container runtime is available.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	cfg := startSharedContainer(t)

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg, gormLog)
	require.NoError(t, err, "Failed to connect to PostgreSQL")
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{
		Store:  testutil.NewStoreFor(t, db),
		Config: cfg,
		t:      t,
	}
	tdb.CleanTables()
	return tdb
}

func startSharedContainer(t *testing.T) config.DatabaseConfig {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		return sharedConfig
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testUser),
		tcpostgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err, "Failed to get container host")
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err, "Failed to get mapped port")

	sharedContainer = container
	sharedConfig = config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            testUser,
		Password:        testPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5,
		AutoMigrate:     true,
	}
	return sharedConfig
}

// CleanTables empties every bookstore table and restarts their ID sequences
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	err := tdb.DB.DB.Exec(fmt.Sprintf(
		"TRUNCATE TABLE %s RESTART IDENTITY CASCADE",
		"invoice_lines, invoices, books, customers, authors",
	)).Error
	require.NoError(tdb.t, err, "Failed to truncate tables")
}

// CleanupSharedContainer terminates the shared container.
// Call it from TestMain after the tests ran.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
	sharedContainer = nil
}
