package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	applog "recipebox/internal/log"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Logger forwards gorm's logging to the application slog logger.
type Logger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

var _ logger.Interface = (*Logger)(nil)

// NewLogger returns a gorm logger at warn level. Queries slower than
// slowThreshold are reported as warnings; zero disables the check.
func NewLogger(slowThreshold time.Duration) *Logger {
	return &Logger{level: logger.Warn, slowThreshold: slowThreshold}
}

func (l *Logger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		applog.Info(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		applog.Warn(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		applog.Error(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

// Trace reports failed statements as errors, slow ones as warnings and, when
// the application logger is at debug, every statement.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		applog.Error(ctx, "query failed", "component", "gorm", "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		applog.Warn(ctx, "slow query", "component", "gorm", "elapsed", elapsed, "threshold", l.slowThreshold, "rows", rows, "sql", sql)
	case applog.Enabled(ctx, slog.LevelDebug):
		sql, rows := fc()
		applog.Debug(ctx, "query", "component", "gorm", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
