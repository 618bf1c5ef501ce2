package cleaning

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruslano69/cellscan/pkg/core/record"
	"github.com/ruslano69/cellscan/pkg/regions"
)

// dropMissingStage удаляет строки с пустыми ячейками.
// Частичное восстановление строк не выполняется: одна пустая ячейка
// из 14 удаляет всю строку
type dropMissingStage struct{}

func (s *dropMissingStage) Name() string { return "drop_missing" }

func (s *dropMissingStage) Process(_ context.Context, rs record.RecordSet) (record.RecordSet, error) {
	kept := make([][]string, 0, len(rs.Rows))

	for _, row := range rs.Rows {
		complete := true
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}

	return record.RecordSet{Schema: rs.Schema, Rows: kept}, nil
}

// dropDuplicatesStage удаляет точные дубликаты строк.
// Сравнение по полному равенству всех полей, первое вхождение сохраняется
type dropDuplicatesStage struct{}

func (s *dropDuplicatesStage) Name() string { return "drop_duplicates" }

func (s *dropDuplicatesStage) Process(_ context.Context, rs record.RecordSet) (record.RecordSet, error) {
	seen := make(map[string]bool, len(rs.Rows))
	kept := make([][]string, 0, len(rs.Rows))

	for _, row := range rs.Rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}

	return record.RecordSet{Schema: rs.Schema, Rows: kept}, nil
}

// rowKey строит ключ полного равенства строки.
// Разделитель экранируется, чтобы ("a|b","c") и ("a","b|c") не совпали
func rowKey(row []string) string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = strings.ReplaceAll(cell, "|", `\|`)
	}
	return strings.Join(escaped, "|")
}

// regionFilterStage оставляет строки внутри bounding box региона.
// Обе границы включительные. Строки с нечисловыми lat/lon удаляются:
// они не могут удовлетворить числовой предикат
type regionFilterStage struct {
	bounds    regions.Bounds
	converter *record.Converter
}

func (s *regionFilterStage) Name() string { return "region_filter" }

func (s *regionFilterStage) Process(_ context.Context, rs record.RecordSet) (record.RecordSet, error) {
	latIdx := rs.Schema.FieldIndex("lat")
	lonIdx := rs.Schema.FieldIndex("lon")
	if latIdx < 0 || lonIdx < 0 {
		return record.RecordSet{}, fmt.Errorf("schema has no lat/lon fields")
	}

	kept := make([][]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		lat, err := s.converter.ParseFloat(row[latIdx])
		if err != nil {
			continue
		}
		lon, err := s.converter.ParseFloat(row[lonIdx])
		if err != nil {
			continue
		}
		if s.bounds.Contains(lat, lon) {
			kept = append(kept, row)
		}
	}

	return record.RecordSet{Schema: rs.Schema, Rows: kept}, nil
}

// countryFilterStage оставляет строки с заданным MCC (код страны)
type countryFilterStage struct {
	mcc       int64
	converter *record.Converter
}

func (s *countryFilterStage) Name() string { return "country_filter" }

func (s *countryFilterStage) Process(_ context.Context, rs record.RecordSet) (record.RecordSet, error) {
	mccIdx := rs.Schema.FieldIndex("mcc")
	if mccIdx < 0 {
		return record.RecordSet{}, fmt.Errorf("schema has no mcc field")
	}

	kept := make([][]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		mcc, err := s.converter.ParseInt(row[mccIdx])
		if err != nil {
			continue
		}
		if mcc == s.mcc {
			kept = append(kept, row)
		}
	}

	return record.RecordSet{Schema: rs.Schema, Rows: kept}, nil
}

// projectStage отбрасывает все поля кроме проецируемых.
// Необратимо: отброшенные поля недоступны последующим стадиям
type projectStage struct{}

func (s *projectStage) Name() string { return "project_columns" }

func (s *projectStage) Process(_ context.Context, rs record.RecordSet) (record.RecordSet, error) {
	target := record.ProjectedSchema()

	indices := make([]int, len(target.Fields))
	for i, f := range target.Fields {
		idx := rs.Schema.FieldIndex(f.Name)
		if idx < 0 {
			return record.RecordSet{}, fmt.Errorf("schema has no %s field", f.Name)
		}
		indices[i] = idx
	}

	rows := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		projected := make([]string, len(indices))
		for j, idx := range indices {
			projected[j] = row[idx]
		}
		rows[i] = projected
	}

	return record.RecordSet{Schema: target, Rows: rows}, nil
}

// operatorFilterStage оставляет строки с кодом оператора (net)
// из принятого набора. Финальная стадия пайплайна
type operatorFilterStage struct {
	operators map[int64]bool
	converter *record.Converter
}

func (s *operatorFilterStage) Name() string { return "operator_filter" }

func (s *operatorFilterStage) Process(_ context.Context, rs record.RecordSet) (record.RecordSet, error) {
	netIdx := rs.Schema.FieldIndex("net")
	if netIdx < 0 {
		return record.RecordSet{}, fmt.Errorf("schema has no net field")
	}

	kept := make([][]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		net, err := s.converter.ParseInt(row[netIdx])
		if err != nil {
			continue
		}
		if s.operators[net] {
			kept = append(kept, row)
		}
	}

	return record.RecordSet{Schema: rs.Schema, Rows: kept}, nil
}
