package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ExcelWriter writes tabular data to Excel format.
type ExcelWriter interface {
	// AddSheet adds a new sheet with the given name.
	AddSheet(name string) error

	// WriteHeader writes column headers to current sheet.
	WriteHeader(columns []string) error

	// WriteRow writes a data row to current sheet.
	WriteRow(row []interface{}) error

	// Save writes the Excel file to the writer.
	Save(w io.Writer) error

	// SaveToFile writes the Excel file to disk.
	SaveToFile(path string) error

	// Close releases resources.
	Close() error
}

// GenerateFilename creates a filename like "Arbeitszeit_Mark_2024-06-03.xlsx".
func GenerateFilename(login string, t time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(login))
	if name == "" {
		return fmt.Sprintf("Arbeitszeit_%s.xlsx", t.Format("2006-01-02"))
	}
	return fmt.Sprintf("Arbeitszeit_%s_%s.xlsx", name, t.Format("2006-01-02"))
}
