package store

import (
	"fmt"

	"swagplan/internal/database"

	"go.uber.org/zap"
)

// Open builds the store selected by driver ("file" or "postgres").
// The returned close func releases any database connection.
func Open(driver, dataFile, dsn string, log *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case "file":
		log.Info("using file store", zap.String("path", dataFile))
		return NewFileStore(dataFile, log), noop, nil
	case "postgres":
		db, err := database.Open(dsn, log)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("failed to get database handle: %w", err)
		}
		log.Info("using postgres store")
		return NewDBStore(db), sqlDB.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", driver)
	}
}
