// Package export renders timesheet records into Excel workbooks.
package export

import (
	"fmt"

	"arbeitszeit/internal/balance"
	"arbeitszeit/internal/models"
)

const (
	entriesSheet = "Eintraege"
	summarySheet = "Bilanz"
)

// WriteTimesheet writes one user's records and balance summary.
func WriteTimesheet(w ExcelWriter, records []models.Record, summary balance.Summary) error {
	if err := WriteRecords(w, entriesSheet, records); err != nil {
		return err
	}

	if err := w.AddSheet(summarySheet); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"Verbleibende Urlaubstage", "Überstunden-Bilanz", "Freizeitausgleich-Tage"}); err != nil {
		return err
	}
	return w.WriteRow([]interface{}{
		summary.RemainingVacation.String(),
		summary.OvertimeBalance,
		summary.CompLeaveDays,
	})
}

// WriteRecords writes records to a new sheet with the stored column layout.
func WriteRecords(w ExcelWriter, sheet string, records []models.Record) error {
	if err := w.AddSheet(sheet); err != nil {
		return err
	}
	if err := w.WriteHeader(models.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		if err := w.WriteRow(records[i].RowValues()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return nil
}
