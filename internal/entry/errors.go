package entry

import "errors"

var (
	ErrInvalidDate           = errors.New("invalid date, expected YYYY-MM-DD")
	ErrFullAndHalfVacation   = errors.New("cannot be both a full and half vacation day")
	ErrSeminarCombination    = errors.New("seminar day cannot combine with vacation or compensatory leave")
	ErrInvalidClock          = errors.New("invalid start/end time format, expected HH:MM")
	ErrVacationQuotaExceeded = errors.New("vacation day limit exceeded")
)

// Reason labels, stable for metrics.
const (
	ReasonInvalidDate   = "invalid_date"
	ReasonFullAndHalf   = "full_and_half"
	ReasonSeminarCombo  = "seminar_combination"
	ReasonInvalidClock  = "invalid_clock"
	ReasonQuotaExceeded = "quota_exceeded"
)

// ValidationError rejects a save. Nothing has been written when it is returned.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func reject(reason string, err error) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}
