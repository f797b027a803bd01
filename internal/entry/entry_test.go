package entry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbeitszeit/internal/balance"
	"arbeitszeit/internal/models"
)

func fullDays(n int) []models.Record {
	out := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Record{Login: "mark", DayType: models.DayTypeFull})
	}
	return out
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Reason
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name   string
		form   Form
		target error
		reason string
	}{
		{"bad date", Form{Date: "03.06.2024", Start: "08:00", End: "17:00"}, ErrInvalidDate, ReasonInvalidDate},
		{"full and half", Form{Date: "2024-06-03", FullVacation: true, HalfVacation: true}, ErrFullAndHalfVacation, ReasonFullAndHalf},
		{"full and half wins over seminar", Form{Date: "2024-06-03", FullVacation: true, HalfVacation: true, Seminar: true}, ErrFullAndHalfVacation, ReasonFullAndHalf},
		{"seminar and vacation", Form{Date: "2024-06-03", Seminar: true, FullVacation: true}, ErrSeminarCombination, ReasonSeminarCombo},
		{"seminar and comp leave", Form{Date: "2024-06-03", Seminar: true, CompLeave: true}, ErrSeminarCombination, ReasonSeminarCombo},
		{"full and half wins over bad date", Form{Date: "2024-13-40", FullVacation: true, HalfVacation: true}, ErrFullAndHalfVacation, ReasonFullAndHalf},
		{"seminar combination wins over bad date", Form{Date: "", Seminar: true, CompLeave: true}, ErrSeminarCombination, ReasonSeminarCombo},
		{"bad date wins over bad clock", Form{Date: "03.06.2024", Start: "8", End: "late"}, ErrInvalidDate, ReasonInvalidDate},
		{"bad start", Form{Date: "2024-06-03", Start: "8", End: "17:00"}, ErrInvalidClock, ReasonInvalidClock},
		{"bad end", Form{Date: "2024-06-03", Start: "08:00", End: "late"}, ErrInvalidClock, ReasonInvalidClock},
		{"empty times", Form{Date: "2024-06-03"}, ErrInvalidClock, ReasonInvalidClock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("mark", tt.form, nil, nil)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Equal(t, tt.reason, reasonOf(t, err))
		})
	}
}

func TestBuild_OrdinaryWeekday(t *testing.T) {
	rec, err := Build(" mark ", Form{Date: "2024-06-03", Start: "08:00", End: "17:00", Break: "30"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mark", rec.Login)
	assert.Equal(t, "8:30", rec.Worked)
	assert.Equal(t, "+0:48", rec.Overtime)
	assert.Equal(t, models.DayTypeNone, rec.DayType)
	assert.False(t, rec.CompLeave)
	assert.Equal(t, 30, rec.BreakMinutes)
}

func TestBuild_ShortWeekday(t *testing.T) {
	rec, err := Build("mark", Form{Date: "2024-06-04", Start: "09:00", End: "12:00", Break: "x"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.BreakMinutes)
	assert.Equal(t, "3:00", rec.Worked)
	assert.Equal(t, "-4:42", rec.Overtime)
}

func TestBuild_ExactStandardDay(t *testing.T) {
	rec, err := Build("mark", Form{Date: "2024-06-04", Start: "08:00", End: "15:42", Break: "0"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "7:42", rec.Worked)
	assert.Equal(t, "0:00", rec.Overtime)
}

func TestBuild_WeekendCountsAsOvertime(t *testing.T) {
	rec, err := Build("mark", Form{Date: "2024-06-01", Start: "09:00", End: "13:00", Break: "0"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "4:00", rec.Worked)
	assert.Equal(t, "+4:00", rec.Overtime)
}

func TestBuild_WorkedNeverNegative(t *testing.T) {
	rec, err := Build("mark", Form{Date: "2024-06-01", Start: "13:00", End: "09:00"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "0:00", rec.Worked)
	assert.Equal(t, "0:00", rec.Overtime)
}

func TestBuild_SpecialDays(t *testing.T) {
	t.Run("Seminar", func(t *testing.T) {
		rec, err := Build("mark", Form{Date: "2024-06-03", Seminar: true}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "7:42", rec.Worked)
		assert.Equal(t, "0:00", rec.Overtime)
		assert.Equal(t, models.DayTypeSeminar, rec.DayType)
	})

	t.Run("FullVacation", func(t *testing.T) {
		rec, err := Build("mark", Form{Date: "2024-06-03", FullVacation: true, Start: "garbage"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "0:00", rec.Worked)
		assert.Equal(t, models.DayTypeFull, rec.DayType)
		assert.Equal(t, "garbage", rec.Start)
	})

	t.Run("HalfVacation", func(t *testing.T) {
		rec, err := Build("mark", Form{Date: "2024-06-03", HalfVacation: true}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DayTypeHalf, rec.DayType)
	})

	t.Run("CompLeave", func(t *testing.T) {
		rec, err := Build("mark", Form{Date: "2024-06-03", CompLeave: true}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DayTypeNone, rec.DayType)
		assert.True(t, rec.CompLeave)
		assert.Equal(t, "0:00", rec.Worked)
		assert.Equal(t, "0:00", rec.Overtime)
	})

	t.Run("VacationWithCompLeave", func(t *testing.T) {
		rec, err := Build("mark", Form{Date: "2024-06-03", FullVacation: true, CompLeave: true}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DayTypeFull, rec.DayType)
		assert.False(t, rec.CompLeave)
	})
}

func TestBuild_VacationQuota(t *testing.T) {
	t.Run("FullDayOverQuota", func(t *testing.T) {
		_, err := Build("mark", Form{Date: "2024-12-30", FullVacation: true}, fullDays(26), nil)
		assert.True(t, errors.Is(err, ErrVacationQuotaExceeded))
		assert.Equal(t, ReasonQuotaExceeded, reasonOf(t, err))
	})

	t.Run("HalfDayFillsQuota", func(t *testing.T) {
		existing := append(fullDays(25), models.Record{Login: "mark", DayType: models.DayTypeHalf})
		rec, err := Build("mark", Form{Date: "2024-12-30", HalfVacation: true}, existing, nil)
		require.NoError(t, err)
		total := balance.VacationUsed(append(existing, rec))
		assert.Equal(t, "26", total.String())
	})

	t.Run("EditingOwnVacationDayIsNotDoubleCounted", func(t *testing.T) {
		existing := fullDays(26)
		prev := existing[0]
		_, err := Build("mark", Form{Date: "2024-12-30", FullVacation: true}, existing, &prev)
		assert.NoError(t, err)
	})

	t.Run("FullToHalfAtQuota", func(t *testing.T) {
		existing := fullDays(26)
		prev := existing[3]
		rec, err := Build("mark", Form{Date: "2024-12-30", HalfVacation: true}, existing, &prev)
		require.NoError(t, err)
		assert.Equal(t, models.DayTypeHalf, rec.DayType)
	})

	t.Run("OrdinaryDaySkipsQuota", func(t *testing.T) {
		_, err := Build("mark", Form{Date: "2024-12-30", Start: "08:00", End: "16:00"}, fullDays(30), nil)
		assert.NoError(t, err)
	})

	t.Run("SeminarSkipsQuota", func(t *testing.T) {
		_, err := Build("mark", Form{Date: "2024-12-30", Seminar: true}, fullDays(26), nil)
		assert.NoError(t, err)
	})
}
