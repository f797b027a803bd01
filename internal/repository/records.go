package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"arbeitszeit/internal/models"
)

// Records is the (login, date) keyed view of a Table.
type Records struct {
	table  Table
	logger *zerolog.Logger
}

func NewRecords(table Table, logger *zerolog.Logger) *Records {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Records{table: table, logger: logger}
}

// All returns every row in sheet order.
func (r *Records) All(ctx context.Context) ([]models.Record, error) {
	rows, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return rows, nil
}

// fresh reads rows for a positional write, skipping any cache.
func (r *Records) fresh(ctx context.Context) ([]models.Record, error) {
	fr, ok := r.table.(FreshReader)
	if !ok {
		return r.All(ctx)
	}
	rows, err := fr.ReadFresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return rows, nil
}

// ListByLogin returns the rows of login, newest date first.
func (r *Records) ListByLogin(ctx context.Context, login string) ([]models.Record, error) {
	rows, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByLogin(rows, login), nil
}

// Get returns the row of login on date.
func (r *Records) Get(ctx context.Context, login, date string) (*models.Record, error) {
	rows, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(rows, login, date)
	if idx < 0 {
		return nil, ErrNotFound
	}
	rec := rows[idx]
	return &rec, nil
}

// Upsert overwrites the row with rec's (login, date) or appends a new one.
// The table is re-read right before writing so the row position is current.
func (r *Records) Upsert(ctx context.Context, rec models.Record) (bool, error) {
	rows, err := r.fresh(ctx)
	if err != nil {
		return false, err
	}
	if idx := indexOf(rows, rec.Login, rec.Date); idx >= 0 {
		if err := r.table.UpdateRow(ctx, idx, rec); err != nil {
			return false, fmt.Errorf("update row %d: %w", idx, err)
		}
		r.logger.Debug().Str("login", rec.Login).Str("date", rec.Date).Int("row", idx).Msg("Record updated")
		return false, nil
	}
	if err := r.table.AppendRow(ctx, rec); err != nil {
		return false, fmt.Errorf("append row: %w", err)
	}
	r.logger.Debug().Str("login", rec.Login).Str("date", rec.Date).Msg("Record appended")
	return true, nil
}

// Delete removes the row of login on date.
func (r *Records) Delete(ctx context.Context, login, date string) error {
	rows, err := r.fresh(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(rows, login, date)
	if idx < 0 {
		return ErrNotFound
	}
	if err := r.table.DeleteRow(ctx, idx); err != nil {
		return fmt.Errorf("delete row %d: %w", idx, err)
	}
	r.logger.Debug().Str("login", login).Str("date", date).Int("row", idx).Msg("Record deleted")
	return nil
}

// FilterByLogin keeps the rows whose trimmed login equals login and sorts
// them by date, newest first.
func FilterByLogin(rows []models.Record, login string) []models.Record {
	login = strings.TrimSpace(login)
	var out []models.Record
	for _, row := range rows {
		if strings.TrimSpace(row.Login) == login {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func indexOf(rows []models.Record, login, date string) int {
	for i := range rows {
		if rows[i].SameKey(login, date) {
			return i
		}
	}
	return -1
}
