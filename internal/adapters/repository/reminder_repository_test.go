package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria/reminders/internal/domain/entities"
)

var reminderColumnNames = []string{
	"id", "user_id", "reminder_text", "remind_at", "created_at", "completed", "completed_at",
	"snoozed_until", "snooze_count", "recurrence", "recurrence_end_date", "priority", "category",
	"metadata", "source",
}

func newMockRepo(t *testing.T) (*ReminderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &ReminderRepository{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func reminderRow(id uuid.UUID, text string, remindAt, createdAt time.Time, recurrence interface{}) []driver.Value {
	return []driver.Value{
		id.String(), "damon", text, remindAt, createdAt, false, nil,
		nil, 0, recurrence, nil, "normal", nil,
		[]byte(`{}`), "aria",
	}
}

func TestReminderRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	remindAt := time.Date(2026, 1, 14, 11, 15, 0, 0, time.UTC)
	createdAt := time.Date(2026, 1, 14, 10, 15, 0, 0, time.UTC)
	daily := entities.RecurrenceDaily

	mock.ExpectQuery(`INSERT INTO aria_reminders`).
		WithArgs("damon", "water plants", remindAt, sqlmock.AnyArg(), nil, entities.PriorityNormal, nil, sqlmock.AnyArg(), "aria").
		WillReturnRows(sqlmock.NewRows(reminderColumnNames).
			AddRow(reminderRow(id, "water plants", remindAt, createdAt, "daily")...))

	reminder := &entities.Reminder{
		UserID:       "damon",
		ReminderText: "water plants",
		RemindAt:     remindAt,
		Recurrence:   &daily,
		Priority:     entities.PriorityNormal,
		Metadata:     types.JSONText(`{}`),
		Source:       "aria",
	}
	require.NoError(t, repo.Create(context.Background(), reminder))

	assert.Equal(t, id, reminder.ID)
	assert.Equal(t, createdAt, reminder.CreatedAt)
	require.NotNil(t, reminder.Recurrence)
	assert.Equal(t, entities.RecurrenceDaily, *reminder.Recurrence)
	assert.Equal(t, 0, reminder.SnoozeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_CreateStoreFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO aria_reminders`).WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &entities.Reminder{UserID: "damon", ReminderText: "x"})
	require.Error(t, err)
	assert.True(t, entities.IsDomainError(err, entities.ErrCodeStore))
}

func TestReminderRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM aria_reminders WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(reminderColumnNames))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, entities.ErrReminderNotFound)
}

func TestReminderRepository_Upcoming(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	cols := append(append([]string{}, reminderColumnNames...), "seconds_until")
	mock.ExpectQuery(`FROM get_upcoming_reminders\(\$1, \$2\)`).
		WithArgs("damon", 2).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(append(reminderRow(first, "stand up", now.Add(30*time.Minute), now, nil), int64(1800))...).
			AddRow(append(reminderRow(second, "call mom", now.Add(90*time.Minute), now, nil), int64(5400))...))

	upcoming, err := repo.Upcoming(context.Background(), "damon", 2)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, first, upcoming[0].ID)
	assert.Equal(t, 30*time.Minute, upcoming[0].TimeUntil)
	assert.Equal(t, "call mom", upcoming[1].ReminderText)
	assert.Equal(t, 90*time.Minute, upcoming[1].TimeUntil)
}

func TestReminderRepository_Overdue(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)
	id := uuid.New()

	cols := append(append([]string{}, reminderColumnNames...), "seconds_overdue")
	mock.ExpectQuery(`FROM get_overdue_reminders\(\$1\)`).
		WithArgs("damon").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(append(reminderRow(id, "pay rent", now.Add(-time.Hour), now, nil), int64(3600))...))

	overdue, err := repo.Overdue(context.Background(), "damon")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, time.Hour, overdue[0].OverdueBy)
}

func TestReminderRepository_Complete(t *testing.T) {
	t.Run("recurring", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id, next := uuid.New(), uuid.New()

		mock.ExpectQuery(`FROM complete_reminder\(\$1\)`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"success", "message", "next_reminder_id"}).
				AddRow(true, "Reminder completed, next occurrence scheduled", next.String()))

		result, err := repo.Complete(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.NextReminderID)
		assert.Equal(t, next, *result.NextReminderID)
	})

	t.Run("one-off", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectQuery(`FROM complete_reminder\(\$1\)`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"success", "message", "next_reminder_id"}).
				AddRow(true, "Reminder completed", nil))

		result, err := repo.Complete(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Nil(t, result.NextReminderID)
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectQuery(`FROM complete_reminder\(\$1\)`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"success", "message", "next_reminder_id"}))

		result, err := repo.Complete(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Unknown error", result.Message)
	})
}

func TestReminderRepository_Snooze(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT snooze_reminder\(\$1, \$2\)`).
		WithArgs(id, 15).
		WillReturnRows(sqlmock.NewRows([]string{"snooze_reminder"}).AddRow(true))

	ok, err := repo.Snooze(context.Background(), id, 15)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReminderRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)
	present, missing := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM aria_reminders WHERE id = \$1`).
		WithArgs(present).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM aria_reminders WHERE id = \$1`).
		WithArgs(missing).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), present)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), missing)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_Summary(t *testing.T) {
	cols := []string{"user_id", "overdue_count", "upcoming_soon", "upcoming_today", "total_active", "completed_this_week"}

	t.Run("row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM aria_reminder_summary`).
			WithArgs("damon").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("damon", 2, 1, 3, 7, 4))

		summary, err := repo.Summary(context.Background(), "damon")
		require.NoError(t, err)
		assert.Equal(t, &entities.ReminderSummary{
			UserID: "damon", OverdueCount: 2, UpcomingSoon: 1, UpcomingToday: 3, TotalActive: 7, CompletedThisWeek: 4,
		}, summary)
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM aria_reminder_summary`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.Summary(context.Background(), "nobody")
		assert.ErrorIs(t, err, entities.ErrSummaryNotFound)
	})
}
