package models

import (
	"strconv"
	"strings"
)

const (
	// AnnualVacationQuota is the number of vacation days per user.
	AnnualVacationQuota = 26
	// StandardDayMinutes is the target working time of a weekday (7h42m).
	StandardDayMinutes = 7*60 + 42
)

// DayType classifies a day for vacation accounting.
type DayType string

const (
	DayTypeNone    DayType = "Nein"
	DayTypeFull    DayType = "Ja"
	DayTypeHalf    DayType = "Halb"
	DayTypeSeminar DayType = "Seminar"
)

const (
	codeYes    = "Ja"
	codeNo     = "Nein"
	codeLegacy = "1"
)

// ParseDayType reads a stored vacation code. Legacy "1" means a full
// vacation day; unknown codes are ordinary days.
func ParseDayType(code string) DayType {
	switch strings.TrimSpace(code) {
	case codeYes, codeLegacy:
		return DayTypeFull
	case string(DayTypeHalf):
		return DayTypeHalf
	case string(DayTypeSeminar):
		return DayTypeSeminar
	default:
		return DayTypeNone
	}
}

// IsVacation reports whether the day type consumes vacation allotment.
func (d DayType) IsVacation() bool {
	return d == DayTypeFull || d == DayTypeHalf
}

// ParseFlag reads a stored "Ja"/"Nein" flag; legacy "1" is true.
func ParseFlag(code string) bool {
	switch strings.TrimSpace(code) {
	case codeYes, codeLegacy:
		return true
	default:
		return false
	}
}

// FormatFlag renders a flag as stored in the sheet.
func FormatFlag(v bool) string {
	if v {
		return codeYes
	}
	return codeNo
}

// Record is one timesheet row: one user, one calendar day.
type Record struct {
	Date         string  `json:"date"`
	Login        string  `json:"login"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	BreakMinutes int     `json:"break_minutes"`
	Worked       string  `json:"worked"`
	Overtime     string  `json:"overtime"`
	DayType      DayType `json:"day_type"`
	CompLeave    bool    `json:"comp_leave"`
}

// SameKey reports whether r is the row of login on date.
func (r *Record) SameKey(login, date string) bool {
	return strings.TrimSpace(r.Login) == strings.TrimSpace(login) && strings.TrimSpace(r.Date) == strings.TrimSpace(date)
}

// Sheet column headers, persisted literally in row 1.
const (
	ColumnDate      = "Datum"
	ColumnLogin     = "Login"
	ColumnStart     = "Start"
	ColumnEnd       = "Ende"
	ColumnBreak     = "Pause"
	ColumnWorked    = "Gearbeitet"
	ColumnOvertime  = "Ueberstunden"
	ColumnVacation  = "Urlaub"
	ColumnCompLeave = "Freizeitausgleich"
)

// Columns is the canonical column order (A..I).
var Columns = []string{
	ColumnDate,
	ColumnLogin,
	ColumnStart,
	ColumnEnd,
	ColumnBreak,
	ColumnWorked,
	ColumnOvertime,
	ColumnVacation,
	ColumnCompLeave,
}

// RowValues returns the record's cells in Columns order.
func (r *Record) RowValues() []interface{} {
	return []interface{}{
		r.Date,
		r.Login,
		r.Start,
		r.End,
		r.BreakMinutes,
		r.Worked,
		r.Overtime,
		string(r.DayType),
		FormatFlag(r.CompLeave),
	}
}

// RecordFromRow builds a record from a header-keyed row. Missing cells are
// empty; a missing or unparseable break counts as zero.
func RecordFromRow(row map[string]string) Record {
	get := func(col string) string { return strings.TrimSpace(row[col]) }
	brk, err := strconv.Atoi(get(ColumnBreak))
	if err != nil || brk < 0 {
		brk = 0
	}
	return Record{
		Date:         get(ColumnDate),
		Login:        get(ColumnLogin),
		Start:        get(ColumnStart),
		End:          get(ColumnEnd),
		BreakMinutes: brk,
		Worked:       get(ColumnWorked),
		Overtime:     get(ColumnOvertime),
		DayType:      ParseDayType(get(ColumnVacation)),
		CompLeave:    ParseFlag(get(ColumnCompLeave)),
	}
}

// RecordsFromGrid maps a grid whose first row is the header onto records.
// The result is aligned with the data rows: records[i] is sheet row i+2.
// Short rows are padded with empty cells.
func RecordsFromGrid(grid [][]string) []Record {
	if len(grid) == 0 {
		return nil
	}
	header := grid[0]
	records := make([]Record, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(map[string]string, len(header))
		for c, name := range header {
			if c < len(cells) {
				row[strings.TrimSpace(name)] = cells[c]
			}
		}
		records = append(records, RecordFromRow(row))
	}
	return records
}
