// Package repository exposes the timesheet as a store keyed by (login, date)
// on top of a positional spreadsheet table.
package repository

import (
	"context"
	"errors"

	"arbeitszeit/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrRowOutOfRange = errors.New("row index out of range")
)

// Table is a spreadsheet of records addressed by position. Index i is the
// i-th data row returned by ReadAll (sheet row i+2, below the header).
type Table interface {
	ReadAll(ctx context.Context) ([]models.Record, error)
	AppendRow(ctx context.Context, rec models.Record) error
	UpdateRow(ctx context.Context, index int, rec models.Record) error
	DeleteRow(ctx context.Context, index int) error
}

// FreshReader is implemented by tables that can serve ReadAll from a cache.
// ReadFresh always reads the underlying sheet.
type FreshReader interface {
	ReadFresh(ctx context.Context) ([]models.Record, error)
}
