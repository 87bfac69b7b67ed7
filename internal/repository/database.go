package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Database is the GORM backed user and wallet store.
type Database struct {
	logger *logger.Logger

	Conn *gorm.DB
}

var _ models.Repository = (*Database)(nil)

func open(dialector gorm.Dialector, logger *logger.Logger) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(logger.Named("gorm")), TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Wallet{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	return &Database{Conn: db, logger: logger}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (db *Database) FindUserBySubject(ctx context.Context, subjectID string, includeWallet bool) (*models.User, error) {
	var user models.User
	query := db.Conn.WithContext(ctx)
	if includeWallet {
		query = query.Preload("Wallet")
	}
	if err := query.Where("subject_id = ?", subjectID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by subject: %w", err)
	}

	return &user, nil
}

func (db *Database) CreateUser(ctx context.Context, subjectID, email string) (*models.User, error) {
	user := &models.User{SubjectID: subjectID, Email: email}
	if err := db.Conn.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			db.logger.Debugw("User already exists", "subject_id", subjectID)
			return nil, fmt.Errorf("user %s: %w", subjectID, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *Database) CreateWallet(ctx context.Context, userID, address, chainType string) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID, Address: address, ChainType: chainType}
	if err := db.Conn.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueViolation(err) {
			db.logger.Debugw("Wallet already exists", "user_id", userID)
			return nil, fmt.Errorf("wallet for user %s: %w", userID, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return wallet, nil
}

func (db *Database) FindWalletByUser(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Conn.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find wallet by user: %w", err)
	}

	return &wallet, nil
}

// isUniqueViolation recognises duplicate key errors from every supported driver,
// whether or not the dialector translated them.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
