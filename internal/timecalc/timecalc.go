// Package timecalc converts between minute counts and the H:MM strings
// stored in the timesheet. The lenient parsers never fail: malformed input
// yields zero so that imperfect historical rows still fold into balances.
package timecalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned by ParseClock for text that is not a time of day.
var ErrInvalidClock = errors.New("invalid clock time")

// ParseSignedDuration parses "+H:MM", "-H:MM" or "H:MM" into signed minutes.
// Spaces anywhere in the text are ignored. Text without a colon, or with
// non-numeric parts, yields 0.
func ParseSignedDuration(text string) int {
	s := strings.ReplaceAll(text, " ", "")
	sign := 1
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	}
	if !strings.Contains(s, ":") {
		return 0
	}
	h, m, ok := splitHM(s)
	if !ok {
		return 0
	}
	return sign * (h*60 + m)
}

// FormatSignedDuration renders minutes as H:MM with a leading "-" for
// negative values. Positive values carry no sign.
func FormatSignedDuration(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}

// FormatOvertime renders an overtime delta: "+H:MM" when positive, "0:00"
// for zero and "-H:MM" when negative.
func FormatOvertime(minutes int) string {
	if minutes > 0 {
		return "+" + FormatSignedDuration(minutes)
	}
	return FormatSignedDuration(minutes)
}

// FormatBalance renders a running balance with an explicit sign; zero is
// shown as "+0:00".
func FormatBalance(minutes int) string {
	if minutes < 0 {
		return "-" + FormatSignedDuration(-minutes)
	}
	return "+" + FormatSignedDuration(minutes)
}

// ParseClockDuration parses an unsigned "H:MM" into minutes, returning 0 on
// any parse failure.
func ParseClockDuration(text string) int {
	h, m, ok := splitHM(strings.TrimSpace(text))
	if !ok {
		return 0
	}
	return h*60 + m
}

// ParseClock is the strict variant used for newly entered start/end times.
// It accepts H:MM or HH:MM with hours 0-23 and minutes 0-59.
func ParseClock(text string) (int, error) {
	s := strings.TrimSpace(text)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || parts[0] == "" || len(parts[0]) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 || !isDigits(parts[0]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || !isDigits(parts[1]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	return h*60 + m, nil
}

// ParseBreakMinutes reads the break field. Non-numeric and negative input
// count as no break.
func ParseBreakMinutes(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func splitHM(s string) (int, int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
