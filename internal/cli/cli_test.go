package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"arbeitszeit/internal/models"
	"arbeitszeit/internal/workbook"
)

func setup(t *testing.T, rows ...models.Record) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	book := filepath.Join(dir, "az.xlsx")

	table, err := workbook.Open(book, "Tabelle1", nil)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, table.AppendRow(context.Background(), r))
	}

	configPath = filepath.Join(dir, "config.yaml")
	body := "store:\n  backend: workbook\nworkbook:\n  path: " + book + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return configPath, dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	cfg, _ := setup(t,
		models.Record{Date: "2024-03-04", Login: "mark", Start: "08:00", End: "16:30", BreakMinutes: 30, Worked: "8:00", Overtime: "+0:18"},
		models.Record{Date: "2024-03-05", Login: "mark", DayType: models.DayTypeHalf},
		models.Record{Date: "2024-03-05", Login: "anna", DayType: models.DayTypeFull},
	)

	out, err := run(t, "--config", cfg, "summary", "--login", "mark")
	require.NoError(t, err)
	assert.Contains(t, out, "Verbleibende Urlaubstage: 25.5")
	assert.Contains(t, out, "Überstunden-Bilanz: +0:18")
	assert.Contains(t, out, "2024-03-04")
	assert.NotContains(t, out, "anna")
}

func TestSummaryCommand_Empty(t *testing.T) {
	cfg, _ := setup(t)

	out, err := run(t, "--config", cfg, "summary", "--login", "mark")
	require.NoError(t, err)
	assert.Contains(t, out, "Keine Einträge vorhanden.")
	assert.Contains(t, out, "Überstunden-Bilanz: +0:00")
}

func TestSummaryCommand_EmptyLogin(t *testing.T) {
	cfg, _ := setup(t)

	_, err := run(t, "--config", cfg, "summary", "--login", " ")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	cfg, dir := setup(t, models.Record{Date: "2024-03-04", Login: "mark", CompLeave: true})
	target := filepath.Join(dir, "out.xlsx")

	out, err := run(t, "--config", cfg, "export", "--login", "mark", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bilanz")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"26", "-7:42", "1"}, rows[1])
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "summary", "--login", "mark")
	assert.ErrorContains(t, err, "load config")
}
