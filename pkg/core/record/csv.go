package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// SourceLoadError - сырой источник не удалось прочитать или распарсить.
// Пайплайн прерывается до выполнения первой стадии, частичный результат не возвращается
type SourceLoadError struct {
	Source string
	Err    error
}

func (e *SourceLoadError) Error() string {
	return fmt.Sprintf("failed to load source %s: %v", e.Source, e.Err)
}

func (e *SourceLoadError) Unwrap() error {
	return e.Err
}

// ReadRows читает сырые строки из CSV без заголовка.
// Число колонок не проверяется здесь - валидация формы строк
// выполняется пайплайном на стадии назначения заголовка
func ReadRows(r io.Reader, source string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &SourceLoadError{Source: source, Err: err}
	}
	return rows, nil
}

// ReadRowsFile читает сырые строки из CSV файла без заголовка
func ReadRowsFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceLoadError{Source: path, Err: err}
	}
	defer f.Close()

	return ReadRows(f, path)
}

// Read читает RecordSet из CSV с заголовком, соответствующим схеме.
// Используется для загрузки ранее сохранённых снапшотов
func Read(r io.Reader, schema Schema, source string) (RecordSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(schema.Fields)

	all, err := reader.ReadAll()
	if err != nil {
		return RecordSet{}, &SourceLoadError{Source: source, Err: err}
	}
	if len(all) == 0 {
		return RecordSet{}, &SourceLoadError{Source: source, Err: fmt.Errorf("missing header row")}
	}

	// Проверяем заголовок
	for i, name := range schema.Names() {
		if all[0][i] != name {
			return RecordSet{}, &SourceLoadError{
				Source: source,
				Err:    fmt.Errorf("header mismatch at column %d: expected %q, got %q", i, name, all[0][i]),
			}
		}
	}

	return RecordSet{Schema: schema, Rows: all[1:]}, nil
}

// Write записывает RecordSet в CSV: строка заголовка, затем данные
func Write(w io.Writer, rs RecordSet) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(rs.Schema.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rs.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile записывает RecordSet в CSV файл
func WriteFile(path string, rs RecordSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return Write(f, rs)
}
