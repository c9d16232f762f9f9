package timecontext

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is matched by every ParseError.
var ErrUnparseable = errors.New("unparseable time phrase")

// ParseError reports a phrase outside the supported grammar.
type ParseError struct {
	Phrase string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse time: %q", e.Phrase)
}

// Is makes errors.Is(err, ErrUnparseable) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrUnparseable
}

// Variant names the grammar rule that resolved a phrase.
type Variant string

const (
	RelativeOffset Variant = "relative_offset"
	NamedDay       Variant = "named_day"
	Absolute       Variant = "absolute"
	WeekdayRef     Variant = "weekday_ref"
)

type outcome int

const (
	noMatch outcome = iota
	matched
	rejected
)

type rule struct {
	variant Variant
	match   func(text string, now time.Time) (time.Time, outcome)
}

// Rules are tried in order; the first one that matches or rejects wins.
var grammar = []rule{
	{RelativeOffset, matchRelative},
	{NamedDay, matchNamedDay},
	{Absolute, matchTomorrowAt},
	{WeekdayRef, matchWeekday},
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

const (
	defaultHour = 9
	tonightHour = 20
)

// Parse resolves a time phrase against now.
func (r *Resolver) Parse(text string, now time.Time) (time.Time, error) {
	t, _, err := r.Resolve(text, now)
	return t, err
}

// Resolve is Parse that also reports which rule matched.
func (r *Resolver) Resolve(text string, now time.Time) (time.Time, Variant, error) {
	phrase := strings.ToLower(strings.TrimSpace(text))
	now = now.In(r.loc)

	for _, rl := range grammar {
		t, out := rl.match(phrase, now)
		switch out {
		case matched:
			return t, rl.variant, nil
		case rejected:
			return time.Time{}, rl.variant, &ParseError{Phrase: text}
		}
	}
	return time.Time{}, "", &ParseError{Phrase: text}
}

// matchRelative handles "in <N> <unit>". Any "in " prefix is claimed, so a
// malformed offset is rejected rather than handed to later rules.
func matchRelative(text string, now time.Time) (time.Time, outcome) {
	if !strings.HasPrefix(text, "in ") {
		return time.Time{}, noMatch
	}

	parts := strings.Fields(text[len("in "):])
	if len(parts) < 2 {
		return time.Time{}, rejected
	}

	amount, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, rejected
	}

	switch strings.TrimRight(parts[1], "s") {
	case "minute":
		return addClock(now, amount, time.Minute)
	case "hour":
		return addClock(now, amount, time.Hour)
	case "day":
		return addDays(now, amount)
	case "week":
		if amount > maxOffsetDays/7 || amount < -maxOffsetDays/7 {
			return time.Time{}, rejected
		}
		return addDays(now, 7*amount)
	}
	return time.Time{}, rejected
}

// maxOffsetDays keeps day and week offsets well inside the range of time.Time.
const maxOffsetDays = 999_999_999

// addClock rejects offsets that do not fit in a time.Duration.
func addClock(now time.Time, amount int, unit time.Duration) (time.Time, outcome) {
	limit := int64(math.MaxInt64) / int64(unit)
	if int64(amount) > limit || int64(amount) < -limit {
		return time.Time{}, rejected
	}
	return now.Add(time.Duration(amount) * unit), matched
}

func addDays(now time.Time, days int) (time.Time, outcome) {
	if days > maxOffsetDays || days < -maxOffsetDays {
		return time.Time{}, rejected
	}
	return now.AddDate(0, 0, days), matched
}

func matchNamedDay(text string, now time.Time) (time.Time, outcome) {
	switch text {
	case "now":
		return now, matched
	case "today":
		return at(now, defaultHour, 0), matched
	case "tonight":
		return at(now, tonightHour, 0), matched
	case "tomorrow":
		return at(now.AddDate(0, 0, 1), defaultHour, 0), matched
	}
	return time.Time{}, noMatch
}

func matchTomorrowAt(text string, now time.Time) (time.Time, outcome) {
	if !strings.Contains(text, "tomorrow at") {
		return time.Time{}, noMatch
	}
	clock := strings.TrimSpace(strings.ReplaceAll(text, "tomorrow at", ""))
	hour, minute := parseClock(clock)
	return at(now.AddDate(0, 0, 1), hour, minute), matched
}

// matchWeekday resolves to the next occurrence of the named day, never today.
func matchWeekday(text string, now time.Time) (time.Time, outcome) {
	for i, day := range weekdays {
		if !strings.Contains(text, "next "+day) && text != day {
			continue
		}

		daysAhead := i - (ISOWeekday(now) - 1)
		if daysAhead <= 0 {
			daysAhead += 7
		}
		target := now.AddDate(0, 0, daysAhead)

		if strings.Contains(text, " at ") {
			parts := strings.Split(text, " at ")
			hour, minute := parseClock(parts[len(parts)-1])
			return at(target, hour, minute), matched
		}
		return at(target, defaultHour, 0), matched
	}
	return time.Time{}, noMatch
}

// parseClock reads "3pm", "9:30am", "14:45" or "7". An unreadable hour
// falls back to 9:00; an unreadable minute falls back to :00. "0am" is
// midnight, the same as "12am".
func parseClock(s string) (hour, minute int) {
	s = strings.ToLower(strings.TrimSpace(s))

	if strings.Contains(s, "am") || strings.Contains(s, "pm") {
		isPM := strings.Contains(s, "pm")
		s = strings.TrimSpace(strings.NewReplacer("am", "", "pm", "").Replace(s))

		h, m, ok := splitClock(s)
		if !ok || h > 12 || (isPM && h == 0) {
			return defaultHour, 0
		}
		switch {
		case isPM && h != 12:
			h += 12
		case !isPM && h == 12:
			h = 0
		}
		return h, m
	}

	h, m, ok := splitClock(s)
	if !ok || h > 23 {
		return defaultHour, 0
	}
	return h, m
}

func splitClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 {
		return 0, 0, false
	}

	if len(parts) > 1 {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || minute < 0 || minute > 59 {
			minute = 0
		}
	}
	return hour, minute, true
}

func at(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
