package repository

import (
	"github.com/glebarez/sqlite"

	"github.com/core-coin/walletsync/pkg/logger"
)

// NewSQLiteDB opens a file backed store for development and tests.
// SQLite allows a single writer, so the pool is capped at one connection.
func NewSQLiteDB(path string, logger *logger.Logger) (*Database, error) {
	db, err := open(sqlite.Open(path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"), logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.Conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Infow("Successfully opened SQLite database", "path", path)
	return db, nil
}
