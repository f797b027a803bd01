// Package balance folds a user's daily records into vacation, overtime and
// compensatory-leave totals.
package balance

import (
	"github.com/shopspring/decimal"

	"arbeitszeit/internal/models"
	"arbeitszeit/internal/timecalc"
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.New(5, -1)
	quota   = decimal.NewFromInt(models.AnnualVacationQuota)
)

// Totals are the three running accumulators.
type Totals struct {
	VacationDays    decimal.Decimal `json:"vacation_days"`
	CompLeaveDays   int             `json:"comp_leave_days"`
	OvertimeMinutes int             `json:"overtime_minutes"`
}

// Recalc folds records into totals. Order does not matter.
//
// Seminar days contribute nothing. Full and half vacation days count 1 and
// 0.5 vacation days. A compensatory-leave day deducts one standard day from
// the overtime balance. Every other day adds its stored overtime delta.
func Recalc(records []models.Record) Totals {
	t := Totals{VacationDays: decimal.Zero}
	for i := range records {
		r := &records[i]
		switch {
		case r.DayType == models.DayTypeSeminar:
			continue
		case r.DayType == models.DayTypeFull:
			t.VacationDays = t.VacationDays.Add(fullDay)
		case r.DayType == models.DayTypeHalf:
			t.VacationDays = t.VacationDays.Add(halfDay)
		case r.CompLeave:
			t.OvertimeMinutes -= models.StandardDayMinutes
			t.CompLeaveDays++
		default:
			t.OvertimeMinutes += timecalc.ParseSignedDuration(r.Overtime)
		}
	}
	return t
}

// VacationContribution is what one day of type d takes from the quota.
func VacationContribution(d models.DayType) decimal.Decimal {
	switch d {
	case models.DayTypeFull:
		return fullDay
	case models.DayTypeHalf:
		return halfDay
	default:
		return decimal.Zero
	}
}

// VacationUsed sums the vacation contribution of records.
func VacationUsed(records []models.Record) decimal.Decimal {
	used := decimal.Zero
	for i := range records {
		used = used.Add(VacationContribution(records[i].DayType))
	}
	return used
}

// ExceedsQuota reports whether used vacation days are over the annual quota.
func ExceedsQuota(used decimal.Decimal) bool {
	return used.GreaterThan(quota)
}

// Summary is the user-facing view of Totals.
type Summary struct {
	Totals
	RemainingVacation decimal.Decimal `json:"remaining_vacation"`
	OvertimeBalance   string          `json:"overtime_balance"`
}

// Summarize computes the display summary for a user's records.
func Summarize(records []models.Record) Summary {
	t := Recalc(records)
	return Summary{
		Totals:            t,
		RemainingVacation: quota.Sub(t.VacationDays),
		OvertimeBalance:   timecalc.FormatBalance(t.OvertimeMinutes),
	}
}
