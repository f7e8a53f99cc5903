package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

func TestOpenRecordsSQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:     config.StoreSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "nested", "client.db"),
		RecordNamespace: "device-a",
	}

	records, closer, err := OpenRecords(cfg)
	require.NoError(t, err)
	defer closer.Close()

	ctx := context.Background()
	require.NoError(t, records.Put(ctx, storage.MealPlanKey, []byte(`{"2025-01-10":[]}`)))

	got, err := records.Get(ctx, storage.MealPlanKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-01-10":[]}`, string(got))
}

func TestOpenRecordsSQLiteSurvivesReopen(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:     config.StoreSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "client.db"),
		RecordNamespace: "default",
	}
	ctx := context.Background()

	records, closer, err := OpenRecords(cfg)
	require.NoError(t, err)
	require.NoError(t, records.Put(ctx, storage.BasketKey, []byte(`[]`)))
	require.NoError(t, closer.Close())

	records, closer, err = OpenRecords(cfg)
	require.NoError(t, err)
	defer closer.Close()

	_, err = records.Get(ctx, storage.BasketKey)
	assert.NoError(t, err)
}

func TestOpenRecordsMemory(t *testing.T) {
	records, closer, err := OpenRecords(&config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	defer closer.Close()

	_, err = records.Get(context.Background(), storage.MealPlanKey)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestOpenRecordsUnknownDriver(t *testing.T) {
	_, _, err := OpenRecords(&config.Config{StoreDriver: "mongo"})
	assert.Error(t, err)
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(&config.Config{RedisHost: "cache", RedisPort: "6380", RedisDB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)

	opts, err = redisOptions(&config.Config{RedisHost: "ignored", RedisURL: "redis://:secret@redis.local:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "redis.local:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(&config.Config{RedisURL: "://bad"})
	assert.Error(t, err)
}
