package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"arbeitszeit/internal/balance"
	"arbeitszeit/internal/models"
)

func TestGenerateFilename(t *testing.T) {
	day := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Arbeitszeit_Mark_2024-06-03.xlsx", GenerateFilename("Mark", day))
	assert.Equal(t, "Arbeitszeit_Anna_Maria_2024-06-03.xlsx", GenerateFilename(" Anna Maria ", day))
	assert.Equal(t, "Arbeitszeit_a_b_2024-06-03.xlsx", GenerateFilename("a/b", day))
	assert.Equal(t, "Arbeitszeit_2024-06-03.xlsx", GenerateFilename("", day))
}

func TestWriteTimesheet(t *testing.T) {
	records := []models.Record{
		{Date: "2024-06-04", Login: "mark", Worked: "0:00", Overtime: "0:00", DayType: models.DayTypeHalf},
		{Date: "2024-06-03", Login: "mark", Start: "08:00", End: "17:00", BreakMinutes: 30, Worked: "8:30", Overtime: "+0:48", DayType: models.DayTypeNone},
	}

	w := NewExcelizeWriter()
	defer w.Close()
	require.NoError(t, WriteTimesheet(w, records, balance.Summarize(records)))

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{entriesSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(entriesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.Columns, rows[0])
	assert.Equal(t, "Halb", rows[1][7])
	assert.Equal(t, "+0:48", rows[2][6])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, []string{"25.5", "+0:48", "0"}, summary[1])
}

func TestExcelizeWriter_NoActiveSheet(t *testing.T) {
	w := NewExcelizeWriter()
	defer w.Close()
	assert.Error(t, w.WriteRow([]interface{}{"x"}))
}

type failingWriter struct {
	ExcelWriter
}

func (failingWriter) AddSheet(string) error { return errors.New("disk full") }

func TestWriteRecords_PropagatesErrors(t *testing.T) {
	err := WriteRecords(failingWriter{}, "x", nil)
	assert.EqualError(t, err, "disk full")
}
