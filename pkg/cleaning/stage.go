package cleaning

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// Stage определяет интерфейс одной стадии очистки.
// Стадия не мутирует вход: возвращает новый RecordSet,
// который становится входом следующей стадии
type Stage interface {
	// Name возвращает имя стадии
	Name() string

	// Process обрабатывает набор записей
	Process(ctx context.Context, rs record.RecordSet) (record.RecordSet, error)
}

// StageStats - учёт строк одной стадии.
// Инвариант: Removed == RowsBefore - RowsAfter и Removed >= 0
type StageStats struct {
	Stage      string `json:"stage"`
	RowsBefore int    `json:"rows_before"`
	RowsAfter  int    `json:"rows_after"`
	Removed    int    `json:"removed"`
}

// RunStats - статистика полного прогона пайплайна по стадиям
type RunStats []StageStats

// TotalRemoved возвращает суммарное число удалённых строк
func (s RunStats) TotalRemoved() int {
	total := 0
	for _, st := range s {
		total += st.Removed
	}
	return total
}

// FormatText форматирует статистику прогона в текстовый вид
func (s RunStats) FormatText() string {
	var sb strings.Builder

	sb.WriteString("=== Cleaning Statistics ===\n")
	for _, st := range s {
		sb.WriteString(fmt.Sprintf("%-18s %6d -> %6d  (removed %d)\n",
			st.Stage, st.RowsBefore, st.RowsAfter, st.Removed))
	}
	return sb.String()
}

// Chain представляет упорядоченную цепочку стадий
type Chain struct {
	stages []Stage
}

// NewChain создает новую цепочку стадий
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// Run выполняет все стадии последовательно и ведёт учёт строк.
// Поздняя стадия никогда не видит строки, удалённые ранней
func (c *Chain) Run(ctx context.Context, rs record.RecordSet) (record.RecordSet, RunStats, error) {
	stats := make(RunStats, 0, len(c.stages))

	result := rs
	for i, stage := range c.stages {
		before := result.Len()

		var err error
		result, err = stage.Process(ctx, result)
		if err != nil {
			return record.RecordSet{}, stats, fmt.Errorf("stage %d (%s) failed: %w", i, stage.Name(), err)
		}

		stats = append(stats, StageStats{
			Stage:      stage.Name(),
			RowsBefore: before,
			RowsAfter:  result.Len(),
			Removed:    before - result.Len(),
		})
	}

	return result, stats, nil
}

// Len возвращает количество стадий в цепочке
func (c *Chain) Len() int {
	return len(c.stages)
}
