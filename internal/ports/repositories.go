package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/aria/reminders/internal/domain/entities"
)

// ReminderRepository is the capability surface of the reminder store.
//
// Each call is a single statement against the store and is atomic there.
// Upcoming, Overdue, Complete, Snooze and Summary delegate to store-side
// procedures; recurrence rollover and snooze bookkeeping happen inside the
// store, not in the caller.
type ReminderRepository interface {
	// Create persists r and fills in the store-assigned fields (ID, CreatedAt).
	Create(ctx context.Context, r *entities.Reminder) error
	// GetByID returns entities.ErrReminderNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Reminder, error)
	// Upcoming lists incomplete reminders firing within [now, now+hours], earliest first.
	Upcoming(ctx context.Context, userID string, hours int) ([]*entities.UpcomingReminder, error)
	// Overdue lists incomplete reminders whose fire time has passed, earliest first.
	Overdue(ctx context.Context, userID string) ([]*entities.OverdueReminder, error)
	// Complete marks the reminder done. For recurring reminders the store
	// spawns the successor and reports its id. An unknown id is reported
	// through CompletionResult.Success, not as an error.
	Complete(ctx context.Context, id uuid.UUID) (*entities.CompletionResult, error)
	// Snooze sets snoozed_until to now+minutes and increments snooze_count.
	Snooze(ctx context.Context, id uuid.UUID, minutes int) (bool, error)
	// Delete hard-deletes the row and reports whether one was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// Summary returns entities.ErrSummaryNotFound when the store has no row for the user.
	Summary(ctx context.Context, userID string) (*entities.ReminderSummary, error)
}
