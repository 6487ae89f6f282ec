package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	applog "palettefolio/internal/log"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which a statement is logged at
// warn level.
const SlowQueryThreshold = 200 * time.Millisecond

// queryLogger routes gorm output through the process logger. Statements are
// logged with placeholders only, so bound values such as emails never reach
// the log.
type queryLogger struct {
	level logger.LogLevel
}

// NewLogger returns a gorm logger writing through internal/log at the given
// gorm level.
func NewLogger(level logger.LogLevel) logger.Interface {
	return &queryLogger{level: level}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &queryLogger{level: level}
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		applog.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		applog.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		applog.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace is called by gorm after every statement. Missing rows and duplicate
// keys are expected outcomes the store maps onto domain errors, so they are
// not reported as failures.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return
	case err != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		if l.level >= logger.Info {
			sql, rows := fc()
			applog.Debug(ctx, "database constraint violated", "sql", sql, "rows", rows, "duration", elapsed)
		}
	case err != nil && l.level >= logger.Error:
		sql, rows := fc()
		applog.Error(ctx, "database query failed", "error", err, "sql", sql, "rows", rows, "duration", elapsed)
	case elapsed > SlowQueryThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		applog.Warn(ctx, "slow database query", "sql", sql, "rows", rows, "duration", elapsed, "threshold", SlowQueryThreshold)
	case l.level >= logger.Info:
		sql, rows := fc()
		applog.Debug(ctx, "database query", "sql", sql, "rows", rows, "duration", elapsed)
	}
}

// ParamsFilter drops bound parameters so gorm renders statements with
// placeholders instead of values.
func (l *queryLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}
