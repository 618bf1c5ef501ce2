package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Level - уровень детализации логирования
type Level int

const (
	// LevelMinimal - только основная информация
	LevelMinimal Level = iota

	// LevelStandard - стандартная информация с метаданными
	LevelStandard
)

// String - строковое представление уровня
func (l Level) String() string {
	switch l {
	case LevelMinimal:
		return "minimal"
	case LevelStandard:
		return "standard"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Operation - тип операции пайплайна
type Operation string

const (
	OpLoad         Operation = "load"
	OpClean        Operation = "clean"
	OpStage        Operation = "stage"
	OpDiff         Operation = "diff"
	OpSnapshotSave Operation = "snapshot_save"
	OpSnapshotLoad Operation = "snapshot_load"
	OpExport       Operation = "export"
	OpPublish      Operation = "publish"
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - запись в audit логе прогона пайплайна
type Entry struct {
	// ID - уникальный идентификатор записи
	ID string `json:"id"`

	// Timestamp - время операции
	Timestamp time.Time `json:"timestamp"`

	// Operation - тип операции
	Operation Operation `json:"operation"`

	// Status - статус выполнения
	Status Status `json:"status"`

	// Region - регион прогона
	Region string `json:"region,omitempty"`

	// Resource - ресурс (файл, таблица, очередь)
	Resource string `json:"resource,omitempty"`

	// RowsBefore - строк до операции
	RowsBefore int `json:"rows_before,omitempty"`

	// RowsAfter - строк после операции
	RowsAfter int `json:"rows_after,omitempty"`

	// Removed - удалено строк
	Removed int `json:"removed,omitempty"`

	// Duration - длительность операции
	Duration time.Duration `json:"duration,omitempty"`

	// ErrorMessage - сообщение об ошибке
	ErrorMessage string `json:"error_message,omitempty"`

	// Metadata - дополнительные метаданные (только LevelStandard)
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewEntry - создать новую audit запись
func NewEntry(operation Operation, status Status) *Entry {
	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Operation: operation,
		Status:    status,
	}
}

// WithRegion - установить регион
func (e *Entry) WithRegion(region string) *Entry {
	e.Region = region
	return e
}

// WithResource - установить ресурс
func (e *Entry) WithResource(resource string) *Entry {
	e.Resource = resource
	return e
}

// WithRowCounts - установить учёт строк
func (e *Entry) WithRowCounts(before, after int) *Entry {
	e.RowsBefore = before
	e.RowsAfter = after
	e.Removed = before - after
	return e
}

// WithDuration - установить длительность
func (e *Entry) WithDuration(duration time.Duration) *Entry {
	e.Duration = duration
	return e
}

// WithError - установить ошибку
func (e *Entry) WithError(err error) *Entry {
	if err != nil {
		e.ErrorMessage = err.Error()
		e.Status = StatusFailure
	}
	return e
}

// WithMetadata - добавить метаданные
func (e *Entry) WithMetadata(key string, value any) *Entry {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// ToJSON - преобразовать в JSON
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// String - строковое представление
func (e *Entry) String() string {
	s := fmt.Sprintf("[%s] %s %s",
		e.Timestamp.Format(time.RFC3339), e.Operation, e.Status)
	if e.Region != "" {
		s += " region=" + e.Region
	}
	if e.Resource != "" {
		s += " resource=" + e.Resource
	}
	if e.RowsBefore != 0 || e.RowsAfter != 0 {
		s += fmt.Sprintf(" rows=%d->%d removed=%d", e.RowsBefore, e.RowsAfter, e.Removed)
	}
	if e.ErrorMessage != "" {
		s += " error=" + e.ErrorMessage
	}
	return s
}

// FilterByLevel - фильтрация данных по уровню
func (e *Entry) FilterByLevel(level Level) *Entry {
	if level != LevelMinimal {
		return e
	}

	filtered := *e
	filtered.Metadata = nil
	return &filtered
}

// generateID - генерация уникального ID
func generateID() string {
	return fmt.Sprintf("audit-%d", time.Now().UnixNano())
}
