package repository

import (
	"context"
	"sync"

	"arbeitszeit/internal/models"
)

// MemoryTable keeps rows in process memory.
type MemoryTable struct {
	mu   sync.RWMutex
	rows []models.Record
}

// NewMemoryTable returns a table seeded with rows.
func NewMemoryTable(rows ...models.Record) *MemoryTable {
	return &MemoryTable{rows: append([]models.Record(nil), rows...)}
}

func (t *MemoryTable) ReadAll(_ context.Context) ([]models.Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Record(nil), t.rows...), nil
}

func (t *MemoryTable) AppendRow(_ context.Context, rec models.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rec)
	return nil
}

func (t *MemoryTable) UpdateRow(_ context.Context, index int, rec models.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.rows) {
		return ErrRowOutOfRange
	}
	t.rows[index] = rec
	return nil
}

func (t *MemoryTable) DeleteRow(_ context.Context, index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.rows) {
		return ErrRowOutOfRange
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return nil
}
