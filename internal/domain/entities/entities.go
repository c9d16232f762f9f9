package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Common errors
var (
	ErrReminderNotFound   = NewError(ErrCodeNotFound, "reminder not found")
	ErrSummaryNotFound    = NewError(ErrCodeNotFound, "no reminder summary for user")
	ErrInvalidPriority    = NewError(ErrCodeInvalid, "invalid priority")
	ErrInvalidRecurrence  = NewError(ErrCodeInvalid, "invalid recurrence")
	ErrMissingText        = NewError(ErrCodeInvalid, "reminder text is required")
	ErrMissingRemindAt    = NewError(ErrCodeInvalid, "remind_at is required")
	ErrCompletedWithoutAt = errors.New("completed reminder has no completed_at")
)

// Enums and types
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Recurrence string

const (
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// Valid reports whether r is one of the known recurrence rules.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Next returns the occurrence following t under this rule.
func (r Recurrence) Next(t time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	case RecurrenceYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

const (
	DefaultSource = "aria"
)

// Reminder represents a stored reminder
type Reminder struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	UserID            string         `json:"user_id" db:"user_id"`
	ReminderText      string         `json:"reminder_text" db:"reminder_text"`
	RemindAt          time.Time      `json:"remind_at" db:"remind_at"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	Completed         bool           `json:"completed" db:"completed"`
	CompletedAt       *time.Time     `json:"completed_at" db:"completed_at"`
	SnoozedUntil      *time.Time     `json:"snoozed_until" db:"snoozed_until"`
	SnoozeCount       int            `json:"snooze_count" db:"snooze_count"`
	Recurrence        *Recurrence    `json:"recurrence" db:"recurrence"`
	RecurrenceEndDate *time.Time     `json:"recurrence_end_date" db:"recurrence_end_date"`
	Priority          Priority       `json:"priority" db:"priority"`
	Category          *string        `json:"category" db:"category"`
	Metadata          types.JSONText `json:"metadata" db:"metadata"`
	Source            string         `json:"source" db:"source"`
}

// UpcomingReminder is a reminder due within a look-ahead window
type UpcomingReminder struct {
	Reminder
	TimeUntil time.Duration `json:"time_until"`
}

// OverdueReminder is an incomplete reminder whose fire time has passed
type OverdueReminder struct {
	Reminder
	OverdueBy time.Duration `json:"overdue_by"`
}

// CompletionResult is what the store reports after completing a reminder
type CompletionResult struct {
	Success        bool       `json:"success" db:"success"`
	Message        string     `json:"message" db:"message"`
	NextReminderID *uuid.UUID `json:"next_reminder_id,omitempty" db:"next_reminder_id"`
}

// ReminderSummary holds per-user aggregate counts
type ReminderSummary struct {
	UserID            string `json:"user_id,omitempty" db:"user_id"`
	OverdueCount      int    `json:"overdue_count" db:"overdue_count"`
	UpcomingSoon      int    `json:"upcoming_soon" db:"upcoming_soon"`
	UpcomingToday     int    `json:"upcoming_today" db:"upcoming_today"`
	TotalActive       int    `json:"total_active" db:"total_active"`
	CompletedThisWeek int    `json:"completed_this_week" db:"completed_this_week"`
}

// IsRecurring returns true if this reminder has a recurrence rule
func (r *Reminder) IsRecurring() bool {
	return r.Recurrence != nil
}

// FireTime is the instant the reminder is next due, taking snoozes into account.
func (r *Reminder) FireTime() time.Time {
	if r.SnoozedUntil != nil && r.SnoozedUntil.After(r.RemindAt) {
		return *r.SnoozedUntil
	}
	return r.RemindAt
}

// Validate checks the reminder's invariants
func (r *Reminder) Validate() error {
	if r.ReminderText == "" {
		return ErrMissingText
	}
	if r.RemindAt.IsZero() {
		return ErrMissingRemindAt
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if r.Recurrence != nil && !r.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if r.Completed && r.CompletedAt == nil {
		return ErrCompletedWithoutAt
	}
	return nil
}

// MarkCompleted marks the reminder as completed at the given time
func (r *Reminder) MarkCompleted(at time.Time) {
	r.Completed = true
	r.CompletedAt = &at
}

// Snooze pushes the fire time out and bumps the snooze counter
func (r *Reminder) Snooze(until time.Time) {
	r.SnoozedUntil = &until
	r.SnoozeCount++
}
