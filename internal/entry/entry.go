// Package entry validates a submitted day and derives the row to store.
package entry

import (
	"fmt"
	"strings"

	"arbeitszeit/internal/balance"
	"arbeitszeit/internal/calendar"
	"arbeitszeit/internal/models"
	"arbeitszeit/internal/timecalc"
)

// Form holds the raw inputs for one day.
type Form struct {
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Break        string `json:"break"`
	FullVacation bool   `json:"full_vacation"`
	HalfVacation bool   `json:"half_vacation"`
	Seminar      bool   `json:"seminar"`
	CompLeave    bool   `json:"comp_leave"`
}

// Ordinary reports whether none of the day-type flags is set.
func (f *Form) Ordinary() bool {
	return !f.FullVacation && !f.HalfVacation && !f.Seminar && !f.CompLeave
}

// Build validates form and returns the normalized record for login.
//
// existing are the user's stored records, used for the vacation quota.
// previous is the stored record the save will overwrite, or nil for a new
// day; its own vacation contribution is not counted twice.
func Build(login string, form Form, existing []models.Record, previous *models.Record) (models.Record, error) {
	if form.FullVacation && form.HalfVacation {
		return models.Record{}, reject(ReasonFullAndHalf, ErrFullAndHalfVacation)
	}
	if form.Seminar && (form.FullVacation || form.HalfVacation || form.CompLeave) {
		return models.Record{}, reject(ReasonSeminarCombo, ErrSeminarCombination)
	}
	date := strings.TrimSpace(form.Date)
	if _, err := calendar.ParseDate(date); err != nil {
		return models.Record{}, reject(ReasonInvalidDate, fmt.Errorf("%w: %q", ErrInvalidDate, form.Date))
	}

	rec := models.Record{
		Date:         date,
		Login:        strings.TrimSpace(login),
		Start:        strings.TrimSpace(form.Start),
		End:          strings.TrimSpace(form.End),
		BreakMinutes: timecalc.ParseBreakMinutes(form.Break),
		Worked:       timecalc.FormatSignedDuration(0),
		Overtime:     timecalc.FormatSignedDuration(0),
		DayType:      models.DayTypeNone,
	}

	switch {
	case form.Seminar:
		rec.Worked = timecalc.FormatSignedDuration(models.StandardDayMinutes)
		rec.DayType = models.DayTypeSeminar
	case form.FullVacation:
		rec.DayType = models.DayTypeFull
	case form.HalfVacation:
		rec.DayType = models.DayTypeHalf
	case form.CompLeave:
		rec.CompLeave = true
	default:
		start, err := timecalc.ParseClock(rec.Start)
		if err != nil {
			return models.Record{}, reject(ReasonInvalidClock, fmt.Errorf("%w: start %q", ErrInvalidClock, form.Start))
		}
		end, err := timecalc.ParseClock(rec.End)
		if err != nil {
			return models.Record{}, reject(ReasonInvalidClock, fmt.Errorf("%w: end %q", ErrInvalidClock, form.End))
		}
		worked := max(0, end-start-rec.BreakMinutes)
		overtime := worked
		if !calendar.IsWeekend(date) {
			overtime = worked - models.StandardDayMinutes
		}
		rec.Worked = timecalc.FormatSignedDuration(worked)
		rec.Overtime = timecalc.FormatOvertime(overtime)
	}

	if rec.DayType.IsVacation() {
		if err := checkQuota(rec.DayType, existing, previous); err != nil {
			return models.Record{}, err
		}
	}
	return rec, nil
}

func checkQuota(dayType models.DayType, existing []models.Record, previous *models.Record) error {
	used := balance.VacationUsed(existing)
	if previous != nil {
		used = used.Sub(balance.VacationContribution(previous.DayType))
	}
	used = used.Add(balance.VacationContribution(dayType))
	if balance.ExceedsQuota(used) {
		return reject(ReasonQuotaExceeded, fmt.Errorf("%w: %s of %d days", ErrVacationQuotaExceeded, used.String(), models.AnnualVacationQuota))
	}
	return nil
}
