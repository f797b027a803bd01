// Package workbook stores timesheet rows in a local .xlsx file.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"arbeitszeit/internal/metrics"
	"arbeitszeit/internal/models"
	"arbeitszeit/internal/repository"
)

const backendName = "workbook"

var _ repository.Table = (*Table)(nil)

// Table implements repository.Table on one sheet of a workbook file. The
// file is opened for each operation and saved after every write.
type Table struct {
	path   string
	sheet  string
	logger *zerolog.Logger
	mu     sync.Mutex
}

// Open returns a table on path, creating the workbook with a header row when
// the file does not exist yet.
func Open(path, sheet string, logger *zerolog.Logger) (*Table, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	t := &Table{path: path, sheet: sheet, logger: logger}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create workbook directory: %w", err)
		}
		if err := t.create(); err != nil {
			return nil, err
		}
		logger.Info().Str("path", path).Msg("Created workbook")
	} else if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) create() error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f, t.sheet); err != nil {
		return err
	}
	return f.SaveAs(t.path)
}

func writeHeader(f *excelize.File, sheet string) error {
	header := make([]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// Path returns the workbook file location.
func (t *Table) Path() string {
	return t.path
}

func (t *Table) ReadAll(_ context.Context) ([]models.Record, error) {
	defer metrics.ObserveStore(backendName, "read_all", time.Now())
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := excelize.OpenFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(t.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", t.sheet, err)
	}
	return models.RecordsFromGrid(rows), nil
}

func (t *Table) AppendRow(_ context.Context, rec models.Record) error {
	defer metrics.ObserveStore(backendName, "append", time.Now())
	return t.modify(func(f *excelize.File, rows [][]string) error {
		if len(rows) == 0 {
			if err := writeHeader(f, t.sheet); err != nil {
				return err
			}
			rows = [][]string{models.Columns}
		}
		return writeRow(f, t.sheet, len(rows)+1, header(rows), &rec)
	})
}

func (t *Table) UpdateRow(_ context.Context, index int, rec models.Record) error {
	defer metrics.ObserveStore(backendName, "update", time.Now())
	return t.modify(func(f *excelize.File, rows [][]string) error {
		if index < 0 || index+1 >= len(rows) {
			return repository.ErrRowOutOfRange
		}
		return writeRow(f, t.sheet, index+2, header(rows), &rec)
	})
}

func (t *Table) DeleteRow(_ context.Context, index int) error {
	defer metrics.ObserveStore(backendName, "delete", time.Now())
	return t.modify(func(f *excelize.File, rows [][]string) error {
		if index < 0 || index+1 >= len(rows) {
			return repository.ErrRowOutOfRange
		}
		return f.RemoveRow(t.sheet, index+2)
	})
}

func (t *Table) modify(fn func(f *excelize.File, rows [][]string) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := excelize.OpenFile(t.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(t.sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", t.sheet, err)
	}
	if err := fn(f, rows); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func header(rows [][]string) []string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return models.Columns
	}
	return rows[0]
}

// writeRow writes rec into sheet row n following the column order of header.
func writeRow(f *excelize.File, sheet string, n int, header []string, rec *models.Record) error {
	values := rec.RowValues()
	byName := make(map[string]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		byName[c] = values[i]
	}
	row := make([]interface{}, len(header))
	for i, h := range header {
		if v, ok := byName[strings.TrimSpace(h)]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &row)
}
