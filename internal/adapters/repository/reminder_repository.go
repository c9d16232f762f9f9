package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/ports"
)

const reminderColumns = `id, user_id, reminder_text, remind_at, created_at, completed, completed_at,
	snoozed_until, snooze_count, recurrence, recurrence_end_date, priority, category, metadata, source`

// ReminderRepository implements ports.ReminderRepository on Postgres.
// Recurrence rollover and snoozing live in the store's functions
// (see migrations/); this type only calls them.
type ReminderRepository struct {
	db *sqlx.DB
}

// NewReminderRepository creates a new Postgres reminder repository
func NewReminderRepository(db *sqlx.DB) ports.ReminderRepository {
	return &ReminderRepository{db: db}
}

type upcomingRow struct {
	entities.Reminder
	SecondsUntil int64 `db:"seconds_until"`
}

type overdueRow struct {
	entities.Reminder
	SecondsOverdue int64 `db:"seconds_overdue"`
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *entities.Reminder) error {
	query := `
		INSERT INTO aria_reminders (user_id, reminder_text, remind_at, recurrence,
			recurrence_end_date, priority, category, metadata, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + reminderColumns

	err := r.db.QueryRowxContext(ctx, query,
		reminder.UserID, reminder.ReminderText, reminder.RemindAt, reminder.Recurrence,
		reminder.RecurrenceEndDate, reminder.Priority, reminder.Category, reminder.Metadata,
		reminder.Source,
	).StructScan(reminder)
	if err != nil {
		return entities.StoreFailure("create reminder", err)
	}

	return nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM aria_reminders WHERE id = $1`

	var reminder entities.Reminder
	err := r.db.GetContext(ctx, &reminder, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrReminderNotFound
		}
		return nil, entities.StoreFailure("get reminder by id", err)
	}

	return &reminder, nil
}

func (r *ReminderRepository) Upcoming(ctx context.Context, userID string, hours int) ([]*entities.UpcomingReminder, error) {
	query := `
		SELECT ` + reminderColumns + `,
			EXTRACT(EPOCH FROM time_until)::bigint AS seconds_until
		FROM get_upcoming_reminders($1, $2)`

	var rows []upcomingRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, hours); err != nil {
		return nil, entities.StoreFailure("get upcoming reminders", err)
	}

	reminders := make([]*entities.UpcomingReminder, 0, len(rows))
	for _, row := range rows {
		reminders = append(reminders, &entities.UpcomingReminder{
			Reminder:  row.Reminder,
			TimeUntil: time.Duration(row.SecondsUntil) * time.Second,
		})
	}

	return reminders, nil
}

func (r *ReminderRepository) Overdue(ctx context.Context, userID string) ([]*entities.OverdueReminder, error) {
	query := `
		SELECT ` + reminderColumns + `,
			EXTRACT(EPOCH FROM overdue_by)::bigint AS seconds_overdue
		FROM get_overdue_reminders($1)`

	var rows []overdueRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, entities.StoreFailure("get overdue reminders", err)
	}

	reminders := make([]*entities.OverdueReminder, 0, len(rows))
	for _, row := range rows {
		reminders = append(reminders, &entities.OverdueReminder{
			Reminder:  row.Reminder,
			OverdueBy: time.Duration(row.SecondsOverdue) * time.Second,
		})
	}

	return reminders, nil
}

func (r *ReminderRepository) Complete(ctx context.Context, id uuid.UUID) (*entities.CompletionResult, error) {
	query := `SELECT success, message, next_reminder_id FROM complete_reminder($1)`

	var result entities.CompletionResult
	err := r.db.GetContext(ctx, &result, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entities.CompletionResult{Success: false, Message: "Unknown error"}, nil
		}
		return nil, entities.StoreFailure("complete reminder", err)
	}

	return &result, nil
}

func (r *ReminderRepository) Snooze(ctx context.Context, id uuid.UUID, minutes int) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, `SELECT snooze_reminder($1, $2)`, id, minutes); err != nil {
		return false, entities.StoreFailure("snooze reminder", err)
	}

	return ok, nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM aria_reminders WHERE id = $1`, id)
	if err != nil {
		return false, entities.StoreFailure("delete reminder", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, entities.StoreFailure("get rows affected", err)
	}

	return rowsAffected > 0, nil
}

func (r *ReminderRepository) Summary(ctx context.Context, userID string) (*entities.ReminderSummary, error) {
	query := `
		SELECT user_id, overdue_count, upcoming_soon, upcoming_today, total_active, completed_this_week
		FROM aria_reminder_summary
		WHERE user_id = $1`

	var summary entities.ReminderSummary
	err := r.db.GetContext(ctx, &summary, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrSummaryNotFound
		}
		return nil, entities.StoreFailure("get reminder summary", err)
	}

	return &summary, nil
}
