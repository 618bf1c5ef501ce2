package snapshot

import (
	"context"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// Store - хранилище снапшотов очищенных наборов.
//
// Load возвращает (nil, nil), когда прежнего снапшота не существует:
// отсутствующий снапшот - явное состояние, отличное от пустого набора,
// и именно оно подаётся в diff.Differ как oldSet == nil
type Store interface {
	// Save сохраняет очищенный набор как текущий снапшот
	Save(ctx context.Context, rs record.RecordSet) error

	// Load загружает прежний снапшот
	Load(ctx context.Context) (*record.RecordSet, error)

	// Close освобождает ресурсы хранилища
	Close() error
}
