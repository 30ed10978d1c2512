package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ParseError reports a time-of-day string that does not match the
// expected "H:MM" clock format. Validation rejects such strings up
// front, so one surfacing from the builder means the caller bypassed
// validation and the request is dropped.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time of day %q", e.Value)
}

var timeOfDayRe = regexp.MustCompile(`^(\d{1,2}):([0-5]\d)$`)

func parseTimeOfDay(s string) (hour, minute int, err error) {
	m := timeOfDayRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, &ParseError{Value: s}
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 {
		return 0, 0, &ParseError{Value: s}
	}
	return hour, minute, nil
}

// resolveLeavingTime combines the reference date with a zero-padded
// "HH:MM" departure time. The result is the next occurrence of that
// time of day strictly after the reference instant.
func resolveLeavingTime(tod string, ref time.Time) (time.Time, error) {
	if len(tod) != 5 {
		return time.Time{}, &ParseError{Value: tod}
	}
	hour, minute, err := parseTimeOfDay(tod)
	if err != nil {
		return time.Time{}, err
	}
	t := atTimeOfDay(ref, hour, minute)
	if !t.After(ref) {
		t = t.Add(24 * time.Hour)
	}
	return t, nil
}

// resolveTariffWindow places a daily tariff window on the reference
// date. An end at or before the start means the window crosses
// midnight, so the end rolls to the next day. A start before the
// reference is clamped to it: only the remaining portion of a window
// that has already begun is usable.
func resolveTariffWindow(startTod, endTod string, ref time.Time) (start, end time.Time, err error) {
	sh, sm, err := parseTimeOfDay(startTod)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := parseTimeOfDay(endTod)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = atTimeOfDay(ref, sh, sm)
	end = atTimeOfDay(ref, eh, em)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	if start.Before(ref) {
		start = ref
	}
	return start, end, nil
}

func atTimeOfDay(ref time.Time, hour, minute int) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
}
