// Package calendar classifies timesheet dates.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the stored date format.
const DateLayout = "2006-01-02"

// IsWeekend reports whether dateText (Y-M-D) falls on a Saturday or Sunday.
// Unparseable or impossible dates are treated as weekdays.
func IsWeekend(dateText string) bool {
	d, ok := decompose(dateText)
	if !ok {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDate strictly parses a YYYY-MM-DD date.
func ParseDate(dateText string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(dateText))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", dateText, err)
	}
	return d, nil
}

func decompose(dateText string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(dateText), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	d := time.Date(n[0], time.Month(n[1]), n[2], 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); such input is invalid.
	if d.Year() != n[0] || int(d.Month()) != n[1] || d.Day() != n[2] {
		return time.Time{}, false
	}
	return d, true
}
