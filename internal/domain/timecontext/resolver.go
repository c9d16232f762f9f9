// Package timecontext gives the assistant a sense of "now": descriptive
// renderings of the current time and resolution of short natural-language
// time phrases ("in 2 hours", "tomorrow at 3pm", "next friday").
package timecontext

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone is used when no location is configured.
const DefaultTimezone = "America/Los_Angeles"

// TimeOfDay buckets an hour of the day.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Resolver describes and resolves times in a fixed location.
type Resolver struct {
	loc   *time.Location
	clock func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) {
		r.clock = clock
	}
}

// New creates a resolver for loc. A nil loc means UTC.
func New(loc *time.Location, opts ...Option) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	r := &Resolver{loc: loc, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewForZone loads the named IANA zone and creates a resolver for it.
func NewForZone(name string, opts ...Option) (*Resolver, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc, opts...), nil
}

// Location returns the configured location.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// CurrentTime returns now in the configured location.
func (r *Resolver) CurrentTime() time.Time {
	return r.clock().In(r.loc)
}

// Describe renders now as "It's Wednesday, January 14, 2026 at 10:15 AM PST".
func (r *Resolver) Describe(now time.Time) string {
	now = now.In(r.loc)
	return fmt.Sprintf("It's %s at %s %s",
		now.Format("Monday, January 2, 2006"),
		now.Format("3:04 PM"),
		now.Format("MST"),
	)
}

// TimeOfDay classifies the hour of now.
func (r *Resolver) TimeOfDay(now time.Time) TimeOfDay {
	return timeOfDay(now.In(r.loc).Hour())
}

// Greeting returns "Good <time of day>".
func (r *Resolver) Greeting(now time.Time) string {
	return "Good " + string(r.TimeOfDay(now))
}

func timeOfDay(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Context is a snapshot of "now" with derived classification.
type Context struct {
	Datetime        string    `json:"datetime"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Time12h         string    `json:"time_12h"`
	DayName         string    `json:"day_name"`
	DayOfWeek       int       `json:"day_of_week"`
	MonthName       string    `json:"month_name"`
	Month           int       `json:"month"`
	Day             int       `json:"day"`
	Year            int       `json:"year"`
	Hour            int       `json:"hour"`
	Minute          int       `json:"minute"`
	Timezone        string    `json:"timezone"`
	TimezoneAbbrev  string    `json:"timezone_abbrev"`
	UTCOffset       string    `json:"utc_offset"`
	TimeOfDay       TimeOfDay `json:"time_of_day"`
	Greeting        string    `json:"greeting"`
	IsWeekend       bool      `json:"is_weekend"`
	IsBusinessHours bool      `json:"is_business_hours"`
	NaturalString   string    `json:"natural_string"`
}

// FullContext bundles every rendering of now.
func (r *Resolver) FullContext(now time.Time) Context {
	now = now.In(r.loc)
	weekday := ISOWeekday(now)

	return Context{
		Datetime:        now.Format(time.RFC3339Nano),
		Date:            now.Format("2006-01-02"),
		Time:            now.Format("15:04:05"),
		Time12h:         now.Format("3:04 PM"),
		DayName:         now.Weekday().String(),
		DayOfWeek:       weekday,
		MonthName:       now.Month().String(),
		Month:           int(now.Month()),
		Day:             now.Day(),
		Year:            now.Year(),
		Hour:            now.Hour(),
		Minute:          now.Minute(),
		Timezone:        r.loc.String(),
		TimezoneAbbrev:  now.Format("MST"),
		UTCOffset:       now.Format("-0700"),
		TimeOfDay:       timeOfDay(now.Hour()),
		Greeting:        "Good " + string(timeOfDay(now.Hour())),
		IsWeekend:       weekday >= 6,
		IsBusinessHours: now.Hour() >= 9 && now.Hour() < 17 && weekday < 6,
		NaturalString:   r.Describe(now),
	}
}

// PromptBlock renders a markdown block suitable for a system prompt.
func (r *Resolver) PromptBlock(now time.Time) string {
	ctx := r.FullContext(now)

	lines := []string{
		"## Current Time Context",
		fmt.Sprintf("**%s**", ctx.NaturalString),
		fmt.Sprintf("- Day: %s (Day %d of the week)", ctx.DayName, ctx.DayOfWeek),
		fmt.Sprintf("- Date: %s %d, %d", ctx.MonthName, ctx.Day, ctx.Year),
		fmt.Sprintf("- Time: %s %s", ctx.Time12h, ctx.TimezoneAbbrev),
	}

	switch {
	case ctx.IsWeekend:
		lines = append(lines, "- It's the weekend")
	case ctx.IsBusinessHours:
		lines = append(lines, "- During business hours")
	default:
		lines = append(lines, fmt.Sprintf("- It's %s time", ctx.TimeOfDay))
	}

	return strings.Join(lines, "\n")
}
