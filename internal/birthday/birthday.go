// Package birthday implements date parsing and age/remaining-day arithmetic
// for raw birthday strings as found in contact stores.
package birthday

import (
	"errors"
	"math"
	"time"

	"github.com/malotru/jourj/internal/config"
)

// Parse handles the date formats encountered in contact birthday fields.
// It returns the parsed date, whether the birth year is known, and an error
// for unrecognized input. Year-less dates (--MM-DD) are anchored to a leap
// year so Feb 29 survives parsing.
func Parse(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}

// NextOccurrence determines the next birthday date relative to 'now', along
// with the age turned on that date (0 when the birth year is unknown).
// A birthday falling exactly today is never rolled forward.
func NextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	currentYear := now.Year()
	loc := now.Location()

	// Go's time.Date normalizes Feb 29 to March 1st in non-leap years.
	candidate := time.Date(currentYear, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = time.Date(currentYear+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	age := 0
	if yearKnown {
		age = candidate.Year() - birthDate.Year()
	}

	return candidate, age
}

// AgeAndRemaining computes the age at the next birthday and the number of
// calendar days until it, from a raw birthday string. Malformed input
// degrades to (0, 0) so a batch computation never aborts.
func AgeAndRemaining(raw string, today time.Time) (age int, remaining int) {
	birthDate, yearKnown, err := Parse(raw)
	if err != nil {
		return 0, 0
	}

	next, age := NextOccurrence(today, birthDate, yearKnown)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	// Rounding absorbs DST shifts between the two midnights.
	remaining = int(math.Round(next.Sub(todayStart).Hours() / 24))
	return age, remaining
}
