package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// documentLiteral matches the jsonb body gorm inlines into explained SQL
var documentLiteral = regexp.MustCompile(`(?s)'\{.*\}'`)

// DocumentGormLogger keeps the stored document out of SQL logs. Successful
// statements matching a quiet pattern are dropped, and the JSON body of every
// logged statement is replaced by its size, since it carries every member's
// email address.
type DocumentGormLogger struct {
	logger.Interface
	quietPatterns []string
}

func NewDocumentGormLogger(l logger.Interface, quietPatterns ...string) *DocumentGormLogger {
	return &DocumentGormLogger{
		Interface:     l,
		quietPatterns: quietPatterns,
	}
}

// LogMode implements logger.Interface
func (l *DocumentGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &DocumentGormLogger{
		Interface:     l.Interface.LogMode(level),
		quietPatterns: l.quietPatterns,
	}
}

// Trace implements logger.Interface
func (l *DocumentGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	sql, rows := fc()

	// failed statements are always logged
	if err == nil && l.quiet(sql) {
		return
	}

	l.Interface.Trace(ctx, begin, func() (string, int64) {
		return RedactDocument(sql), rows
	}, err)
}

func (l *DocumentGormLogger) quiet(sql string) bool {
	for _, pattern := range l.quietPatterns {
		if strings.Contains(sql, pattern) {
			return true
		}
	}
	return false
}

// RedactDocument replaces an inlined JSON document with a size marker
func RedactDocument(sql string) string {
	return documentLiteral.ReplaceAllStringFunc(sql, func(body string) string {
		return fmt.Sprintf("'<document %d bytes>'", len(body)-2)
	})
}
