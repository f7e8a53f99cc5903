package database

import (
	"fmt"
	"io"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// OpenRecords opens the record backend selected by cfg.StoreDriver and
// scopes it to cfg.RecordNamespace. The returned closer releases the
// connection.
func OpenRecords(cfg *config.Config) (storage.Records, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite, config.StorePostgres:
		db, err := New(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := RunMigrations(db); err != nil {
			Close(db)
			return nil, nil, err
		}
		records := storage.WithNamespace(cfg.RecordNamespace, storage.NewSQLRecords(db))
		return records, closerFunc(func() error { return Close(db) }), nil
	case config.StoreRedis:
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		// Redis keys already carry a prefix; the namespace becomes part of it
		records := storage.NewRedisRecords(client, "mealplan:"+cfg.RecordNamespace)
		return records, client, nil
	case config.StoreMemory:
		return storage.NewMemoryRecords(), closerFunc(func() error { return nil }), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
