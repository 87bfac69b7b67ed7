package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/core-coin/walletsync/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends GORM's output through the application logger. Missing rows
// and unique violations are normal outcomes of the sync flow and are not logged.
type gormLogger struct {
	logger        *logger.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*gormLogger)(nil)

func newGormLogger(logger *logger.Logger) *gormLogger {
	return &gormLogger{
		logger:        logger,
		level:         gormlogger.Warn,
		slowThreshold: slowQueryThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !expectedError(err):
		sql, rows := fc()
		l.logger.Errorw("Query failed", "error", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger.Warnw("Slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger.Debugw("Query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}

func expectedError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || isUniqueViolation(err)
}
