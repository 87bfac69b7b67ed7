package repository

import (
	"gorm.io/driver/postgres"

	"github.com/core-coin/walletsync/pkg/logger"
)

// NewPostgresDB opens the production store.
func NewPostgresDB(dsn string, logger *logger.Logger) (*Database, error) {
	db, err := open(postgres.Open(dsn), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return db, nil
}
