package bootstrap

import (
	"context"
	"errors"
	"testing"

	"accessdash/internal/config"
	"accessdash/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(*config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func noReplica(*config.Config) (*gorm.DB, error) { return nil, nil }

func stubConnectors(t *testing.T, primary, replica func(*config.Config) (*gorm.DB, error)) {
	t.Helper()
	origPrimary, origReplica, origRedis := connectPrimary, connectReplica, connectRedis
	connectPrimary, connectReplica = primary, replica
	t.Cleanup(func() {
		connectPrimary, connectReplica, connectRedis = origPrimary, origReplica, origRedis
	})
}

func TestInitRuntime_AutoSchemaAndSeed(t *testing.T) {
	stubConnectors(t, openSQLite, noReplica)
	mr := miniredis.RunT(t)

	cfg := &config.Config{Env: "development", DBSchemaMode: "auto", RedisURL: mr.Addr()}
	rt, err := InitRuntime(context.Background(), cfg, Options{ApplySchema: true, SeedDemoRequests: 12})
	require.NoError(t, err)
	defer rt.Close()

	require.NotNil(t, rt.DB)
	assert.Nil(t, rt.ReadDB)
	require.NotNil(t, rt.Redis)
	require.NotNil(t, rt.ShutdownTracer)

	var n int64
	require.NoError(t, rt.DB.Model(&models.AccessRequest{}).Count(&n).Error)
	assert.EqualValues(t, 12, n)

	// a second seed pass leaves existing data alone
	require.NoError(t, seedIfEmpty(context.Background(), rt.DB, 5))
	require.NoError(t, rt.DB.Model(&models.AccessRequest{}).Count(&n).Error)
	assert.EqualValues(t, 12, n)
}

func TestInitRuntime_SeedOnlyInDevelopment(t *testing.T) {
	stubConnectors(t, openSQLite, noReplica)

	cfg := &config.Config{Env: "test", DBSchemaMode: "auto"}
	rt, err := InitRuntime(context.Background(), cfg, Options{ApplySchema: true, SkipRedis: true, SeedDemoRequests: 12})
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Redis)
	var n int64
	require.NoError(t, rt.DB.Model(&models.AccessRequest{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestInitRuntime_PrimaryFailure(t *testing.T) {
	stubConnectors(t, func(*config.Config) (*gorm.DB, error) {
		return nil, errors.New("dial tcp: refused")
	}, noReplica)

	_, err := InitRuntime(context.Background(), &config.Config{Env: "test"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestInitRuntime_ReplicaFailureClosesPrimary(t *testing.T) {
	var primary *gorm.DB
	stubConnectors(t, func(c *config.Config) (*gorm.DB, error) {
		db, err := openSQLite(c)
		primary = db
		return db, err
	}, func(*config.Config) (*gorm.DB, error) {
		return nil, errors.New("replica down")
	})

	_, err := InitRuntime(context.Background(), &config.Config{Env: "test"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read replica connection failed")

	sqlDB, err := primary.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

func TestInitRuntime_RejectsAutoSchemaInProduction(t *testing.T) {
	stubConnectors(t, openSQLite, noReplica)
	connectRedis = func(context.Context, string) *redis.Client {
		t.Fatal("redis should not be dialled after a schema failure")
		return nil
	}

	cfg := &config.Config{Env: "production", DBSchemaMode: "auto"}
	_, err := InitRuntime(context.Background(), cfg, Options{ApplySchema: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema setup failed")
}

func TestRuntimeClose_NilSafe(t *testing.T) {
	var rt *Runtime
	rt.Close()
	(&Runtime{}).Close()
}
