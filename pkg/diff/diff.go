package diff

import (
	"fmt"
	"strings"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// Stats содержит статистику сравнения снапшотов
type Stats struct {
	TotalNew   int  `json:"total_new"`   // Всего строк в новом наборе
	TotalOld   int  `json:"total_old"`   // Всего строк в старом наборе
	Added      int  `json:"added"`       // Строк, отсутствующих в старом наборе
	NoBaseline bool `json:"no_baseline"` // Прежний снапшот отсутствовал
}

// Differ вычисляет дельту "новое против прежнего снапшота".
//
// Сравнение по полному равенству строки, не по естественному ключу:
// известная cell с изменившимся averageSignal считается новой записью.
// Направление асимметричное - выдаются только добавления, не удаления
type Differ struct{}

// NewDiffer создает новый Differ
func NewDiffer() *Differ {
	return &Differ{}
}

// NewRows возвращает строки newSet, не имеющие полнострокового
// эквивалента в oldSet. Строка, встречающаяся в oldSet хотя бы раз,
// исключается полностью; строки только из newSet сохраняют кратность.
//
// oldSet == nil означает отсутствие прежнего снапшота - явный путь,
// отличный от сравнения с пустым набором: результат равен newSet,
// а Stats.NoBaseline фиксирует отсутствие базы для downstream-логики
func (d *Differ) NewRows(newSet record.RecordSet, oldSet *record.RecordSet) (record.RecordSet, Stats, error) {
	if oldSet == nil {
		return record.RecordSet{Schema: newSet.Schema, Rows: newSet.Rows}, Stats{
			TotalNew:   newSet.Len(),
			Added:      newSet.Len(),
			NoBaseline: true,
		}, nil
	}

	if !newSet.Schema.Equals(oldSet.Schema) {
		return record.RecordSet{}, Stats{}, fmt.Errorf("schema mismatch: %d fields vs %d fields",
			len(newSet.Schema.Fields), len(oldSet.Schema.Fields))
	}

	known := make(map[string]bool, oldSet.Len())
	for _, row := range oldSet.Rows {
		known[rowKey(row)] = true
	}

	added := make([][]string, 0)
	for _, row := range newSet.Rows {
		if !known[rowKey(row)] {
			added = append(added, row)
		}
	}

	return record.RecordSet{Schema: newSet.Schema, Rows: added}, Stats{
		TotalNew: newSet.Len(),
		TotalOld: oldSet.Len(),
		Added:    len(added),
	}, nil
}

// rowKey строит ключ полного равенства строки
func rowKey(row []string) string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = strings.ReplaceAll(cell, "|", `\|`)
	}
	return strings.Join(escaped, "|")
}

// FormatText форматирует статистику сравнения в текстовый вид
func (s Stats) FormatText() string {
	var sb strings.Builder

	sb.WriteString("=== Snapshot Diff ===\n")
	sb.WriteString(fmt.Sprintf("Rows in new set: %d\n", s.TotalNew))
	if s.NoBaseline {
		sb.WriteString("No previous snapshot found: every row counts as new\n")
	} else {
		sb.WriteString(fmt.Sprintf("Rows in old set: %d\n", s.TotalOld))
	}
	sb.WriteString(fmt.Sprintf("New rows:        %d\n", s.Added))
	return sb.String()
}
