package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Appender - интерфейс для записи audit логов
type Appender interface {
	// Append - записать audit entry
	Append(ctx context.Context, entry *Entry) error

	// Close - закрыть appender
	Close() error
}

// MultiAppender - запись в несколько appenders
type MultiAppender struct {
	appenders []Appender
}

// NewMultiAppender - создать multi appender
func NewMultiAppender(appenders ...Appender) *MultiAppender {
	return &MultiAppender{appenders: appenders}
}

// Append - записать во все appenders.
// При ошибке продолжает запись в остальные, возвращает первую ошибку
func (ma *MultiAppender) Append(ctx context.Context, entry *Entry) error {
	var firstErr error
	for _, appender := range ma.appenders {
		if err := appender.Append(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close - закрыть все appenders
func (ma *MultiAppender) Close() error {
	var firstErr error
	for _, appender := range ma.appenders {
		if err := appender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FileAppender - запись в файл (JSON lines или текст)
type FileAppender struct {
	mu         sync.Mutex
	file       *os.File
	level      Level
	formatJSON bool
}

// NewFileAppender - создать file appender
func NewFileAppender(path string, level Level, formatJSON bool) (*FileAppender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	return &FileAppender{
		file:       file,
		level:      level,
		formatJSON: formatJSON,
	}, nil
}

// Append - записать entry в файл
func (fa *FileAppender) Append(_ context.Context, entry *Entry) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	filtered := entry.FilterByLevel(fa.level)

	var data []byte
	if fa.formatJSON {
		var err error
		data, err = filtered.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		data = append(data, '\n')
	} else {
		data = []byte(filtered.String() + "\n")
	}

	if _, err := fa.file.Write(data); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Flush - сбросить буфер на диск
func (fa *FileAppender) Flush() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.file != nil {
		return fa.file.Sync()
	}
	return nil
}

// Close - закрыть файл
func (fa *FileAppender) Close() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.file != nil {
		return fa.file.Close()
	}
	return nil
}

// ConsoleAppender - запись в stdout (ошибки - в stderr)
type ConsoleAppender struct {
	level Level
}

// NewConsoleAppender - создать console appender
func NewConsoleAppender(level Level) *ConsoleAppender {
	return &ConsoleAppender{level: level}
}

// Append - записать в console
func (ca *ConsoleAppender) Append(_ context.Context, entry *Entry) error {
	filtered := entry.FilterByLevel(ca.level)

	if entry.Status == StatusFailure {
		fmt.Fprintln(os.Stderr, filtered.String())
	} else {
		fmt.Println(filtered.String())
	}
	return nil
}

// Close - закрыть console appender (noop)
func (ca *ConsoleAppender) Close() error {
	return nil
}

// NullAppender - пустой appender (для тестов)
type NullAppender struct{}

// NewNullAppender - создать null appender
func NewNullAppender() *NullAppender {
	return &NullAppender{}
}

// Append - ничего не делает
func (na *NullAppender) Append(_ context.Context, _ *Entry) error {
	return nil
}

// Close - ничего не делает
func (na *NullAppender) Close() error {
	return nil
}
