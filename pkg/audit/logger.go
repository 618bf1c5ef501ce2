package audit

import (
	"context"
	"fmt"

	"github.com/ruslano69/cellscan/pkg/cleaning"
)

// Logger - синхронный audit логгер прогона пайплайна.
// Один прогон - один CLI вызов, поэтому асинхронная буферизация не нужна
type Logger struct {
	appender Appender
	region   string
}

// NewLogger - создать audit logger
func NewLogger(appender Appender, region string) *Logger {
	if appender == nil {
		appender = NewNullAppender()
	}
	return &Logger{appender: appender, region: region}
}

// Log - записать entry
func (l *Logger) Log(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is nil")
	}
	if entry.Region == "" {
		entry.Region = l.region
	}
	return l.appender.Append(ctx, entry)
}

// LogSuccess - записать успешную операцию
func (l *Logger) LogSuccess(ctx context.Context, operation Operation) *Entry {
	entry := NewEntry(operation, StatusSuccess)
	l.logQuiet(ctx, entry)
	return entry
}

// LogFailure - записать неудачную операцию
func (l *Logger) LogFailure(ctx context.Context, operation Operation, err error) *Entry {
	entry := NewEntry(operation, StatusFailure).WithError(err)
	l.logQuiet(ctx, entry)
	return entry
}

// LogStages - записать по одному entry на каждую стадию очистки.
// Стадия country_filter дополнительно различает "no incorrect data"
// и "removed N incorrect rows" - чисто наблюдательная отметка
func (l *Logger) LogStages(ctx context.Context, stats cleaning.RunStats) {
	for _, st := range stats {
		entry := NewEntry(OpStage, StatusSuccess).
			WithResource(st.Stage).
			WithRowCounts(st.RowsBefore, st.RowsAfter)

		if st.Stage == "country_filter" {
			if st.Removed == 0 {
				entry.WithMetadata("note", "no incorrect data found")
			} else {
				entry.WithMetadata("note", fmt.Sprintf("removed %d incorrect rows", st.Removed))
			}
		}

		l.logQuiet(ctx, entry)
	}
}

// logQuiet - записать entry, игнорируя ошибку записи.
// Сбой аудита не должен ронять прогон пайплайна
func (l *Logger) logQuiet(ctx context.Context, entry *Entry) {
	if entry.Region == "" {
		entry.Region = l.region
	}
	_ = l.appender.Append(ctx, entry)
}

// Close - закрыть логгер
func (l *Logger) Close() error {
	return l.appender.Close()
}
