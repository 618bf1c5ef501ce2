package cleaning

import (
	"context"
	"fmt"

	"github.com/ruslano69/cellscan/pkg/core/record"
	"github.com/ruslano69/cellscan/pkg/regions"
)

// DefaultCountryMCC - MCC Германии, страна по умолчанию для этого деплоймента
const DefaultCountryMCC = 262

// SchemaMismatchError - форма сырого входа не соответствует scan-экспорту.
// Возникает до стадии удаления пустых строк, данные не трогаются
type SchemaMismatchError struct {
	Row      int // номер строки (1-based)
	Expected int
	Got      int
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("schema mismatch at row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("schema mismatch at row %d: expected %d columns, got %d",
		e.Row, e.Expected, e.Got)
}

// Config - конфигурация пайплайна. Неизменяема после New:
// все константы фильтрации инжектируются явно, жёстко зашитых
// значений внутри стадий нет
type Config struct {
	// Bounds - границы региона для географической фильтрации
	Bounds regions.Bounds

	// Operators - принятые коды операторов (MNC)
	Operators map[int64]bool

	// CountryMCC - код страны для фильтрации (0 = DefaultCountryMCC)
	CountryMCC int64
}

// Pipeline выполняет детерминированную цепочку очистки scan-записей.
// Между вызовами состояние не хранится: каждый вызов Clean работает
// на свежем наборе, поэтому Clean безопасно вызывать конкурентно
// на независимых входах
type Pipeline struct {
	config    Config
	chain     *Chain
	converter *record.Converter
}

// New создает пайплайн очистки для заданной конфигурации
func New(config Config) (*Pipeline, error) {
	if err := config.Bounds.Validate(); err != nil {
		return nil, err
	}
	if len(config.Operators) == 0 {
		return nil, fmt.Errorf("at least one accepted operator code is required")
	}
	if config.CountryMCC == 0 {
		config.CountryMCC = DefaultCountryMCC
	}

	converter := record.NewConverter()

	// Фиксированный, непереупорядочиваемый порядок стадий
	chain := NewChain(
		&dropMissingStage{},
		&dropDuplicatesStage{},
		&regionFilterStage{bounds: config.Bounds, converter: converter},
		&countryFilterStage{mcc: config.CountryMCC, converter: converter},
		&projectStage{},
		&operatorFilterStage{operators: config.Operators, converter: converter},
	)

	return &Pipeline{
		config:    config,
		chain:     chain,
		converter: converter,
	}, nil
}

// Clean прогоняет сырой набор через полную цепочку очистки.
// Возвращает очищенный 7-колоночный набор и статистику по стадиям.
// Пустой результат - валидный исход, не ошибка; ошибка возвращается
// только при невалидной форме входа (fail-fast, без частичного результата)
func (p *Pipeline) Clean(ctx context.Context, raw [][]string) (record.RecordSet, RunStats, error) {
	rs, err := p.assignHeader(raw)
	if err != nil {
		return record.RecordSet{}, nil, err
	}

	headerStats := StageStats{
		Stage:      "assign_header",
		RowsBefore: len(raw),
		RowsAfter:  rs.Len(),
	}

	result, stats, err := p.chain.Run(ctx, rs)
	if err != nil {
		return record.RecordSet{}, nil, err
	}

	return result, append(RunStats{headerStats}, stats...), nil
}

// assignHeader назначает имена 14 колонкам позиционно и валидирует
// форму входа. Файл с готовой строкой заголовка отклоняется по
// типовой проверке числовых ячеек первой строки - вместо тихой
// порчи данных на поздних числовых фильтрах
func (p *Pipeline) assignHeader(raw [][]string) (record.RecordSet, error) {
	schema := record.RawSchema()

	for i, row := range raw {
		if len(row) != record.RawFieldCount {
			return record.RecordSet{}, &SchemaMismatchError{
				Row:      i + 1,
				Expected: record.RawFieldCount,
				Got:      len(row),
			}
		}
	}

	if len(raw) > 0 {
		for _, name := range []string{"mcc", "net", "lat", "lon"} {
			idx := schema.FieldIndex(name)
			cell := raw[0][idx]
			if cell == "" {
				continue // пустая ячейка - забота стадии drop_missing
			}
			if _, err := p.converter.ParseValue(cell, schema.Fields[idx]); err != nil {
				return record.RecordSet{}, &SchemaMismatchError{
					Row:    1,
					Reason: fmt.Sprintf("column %q holds non-numeric value %q, input likely carries a header row", name, cell),
				}
			}
		}
	}

	return record.RecordSet{Schema: schema, Rows: raw}, nil
}

// Config возвращает конфигурацию пайплайна
func (p *Pipeline) Config() Config {
	return p.config
}
