package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDayType(t *testing.T) {
	assert.Equal(t, DayTypeFull, ParseDayType("Ja"))
	assert.Equal(t, DayTypeFull, ParseDayType("1"))
	assert.Equal(t, DayTypeHalf, ParseDayType("Halb"))
	assert.Equal(t, DayTypeSeminar, ParseDayType(" Seminar "))
	assert.Equal(t, DayTypeNone, ParseDayType("Nein"))
	assert.Equal(t, DayTypeNone, ParseDayType(""))
	assert.Equal(t, DayTypeNone, ParseDayType("vielleicht"))
}

func TestFlags(t *testing.T) {
	assert.True(t, ParseFlag("Ja"))
	assert.True(t, ParseFlag("1"))
	assert.False(t, ParseFlag("Nein"))
	assert.False(t, ParseFlag(""))
	assert.Equal(t, "Ja", FormatFlag(true))
	assert.Equal(t, "Nein", FormatFlag(false))
}

func TestRecord_RowValues(t *testing.T) {
	r := Record{
		Date:         "2024-06-03",
		Login:        "Mark",
		Start:        "08:00",
		End:          "17:00",
		BreakMinutes: 30,
		Worked:       "8:30",
		Overtime:     "+0:48",
		DayType:      DayTypeNone,
		CompLeave:    false,
	}

	expected := []interface{}{"2024-06-03", "Mark", "08:00", "17:00", 30, "8:30", "+0:48", "Nein", "Nein"}
	assert.Equal(t, expected, r.RowValues())
	assert.Len(t, Columns, len(expected))
}

func TestRecordFromRow(t *testing.T) {
	r := RecordFromRow(map[string]string{
		ColumnDate:      "2024-06-03",
		ColumnLogin:     "  Mark ",
		ColumnBreak:     "abc",
		ColumnVacation:  "Halb",
		ColumnCompLeave: "1",
	})
	assert.Equal(t, "Mark", r.Login)
	assert.Equal(t, 0, r.BreakMinutes)
	assert.Equal(t, DayTypeHalf, r.DayType)
	assert.True(t, r.CompLeave)
	assert.True(t, r.SameKey("Mark", "2024-06-03"))
	assert.False(t, r.SameKey("Mark", "2024-06-04"))
}

func TestRecordsFromGrid(t *testing.T) {
	grid := [][]string{
		{"Login", "Datum", "Pause"},
		{"Anna", "2024-01-02", "15"},
		{},
		{"Mark"},
	}

	records := RecordsFromGrid(grid)
	assert.Len(t, records, 3)
	assert.Equal(t, "Anna", records[0].Login)
	assert.Equal(t, "2024-01-02", records[0].Date)
	assert.Equal(t, 15, records[0].BreakMinutes)
	assert.Equal(t, "", records[1].Login)
	assert.Equal(t, "Mark", records[2].Login)
	assert.Equal(t, "", records[2].Date)

	assert.Nil(t, RecordsFromGrid(nil))
}
