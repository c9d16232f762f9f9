package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria/reminders/internal/domain/entities"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func seed(t *testing.T, repo *MemoryReminderRepository, user, text string, at time.Time) *entities.Reminder {
	t.Helper()
	r := &entities.Reminder{UserID: user, ReminderText: text, RemindAt: at}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestMemoryRepository_CreateAssignsStoreFields(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)

	r := seed(t, repo, "damon", "water plants", clock.now.Add(time.Hour))
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, clock.now, r.CreatedAt)
	assert.Equal(t, entities.PriorityNormal, r.Priority)
	assert.Equal(t, entities.DefaultSource, r.Source)
	assert.Equal(t, "{}", r.Metadata.String())

	got, err := repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "water plants", got.ReminderText)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entities.ErrReminderNotFound)
}

func TestMemoryRepository_UpcomingAndOverdue(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)
	ctx := context.Background()

	later := seed(t, repo, "damon", "later", clock.now.Add(90*time.Minute))
	soon := seed(t, repo, "damon", "soon", clock.now.Add(10*time.Minute))
	seed(t, repo, "damon", "tomorrow", clock.now.Add(26*time.Hour))
	past := seed(t, repo, "damon", "past", clock.now.Add(-time.Hour))
	seed(t, repo, "someone-else", "not mine", clock.now.Add(5*time.Minute))

	upcoming, err := repo.Upcoming(ctx, "damon", 2)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, 10*time.Minute, upcoming[0].TimeUntil)
	assert.Equal(t, later.ID, upcoming[1].ID)

	overdue, err := repo.Overdue(ctx, "damon")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past.ID, overdue[0].ID)
	assert.Equal(t, time.Hour, overdue[0].OverdueBy)
}

func TestMemoryRepository_CompleteRecurring(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)
	ctx := context.Background()

	weekly := entities.RecurrenceWeekly
	r := &entities.Reminder{UserID: "damon", ReminderText: "trash day", RemindAt: clock.now, Recurrence: &weekly}
	require.NoError(t, repo.Create(ctx, r))

	result, err := repo.Complete(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.NextReminderID)
	assert.NotEqual(t, r.ID, *result.NextReminderID)

	next, err := repo.GetByID(ctx, *result.NextReminderID)
	require.NoError(t, err)
	assert.Equal(t, clock.now.AddDate(0, 0, 7), next.RemindAt)
	assert.False(t, next.Completed)

	done, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)

	again, err := repo.Complete(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, again.Success)
}

func TestMemoryRepository_CompleteRecurrenceEnded(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)
	ctx := context.Background()

	daily := entities.RecurrenceDaily
	end := clock.now.Add(12 * time.Hour)
	r := &entities.Reminder{UserID: "damon", ReminderText: "pill", RemindAt: clock.now, Recurrence: &daily, RecurrenceEndDate: &end}
	require.NoError(t, repo.Create(ctx, r))

	result, err := repo.Complete(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.NextReminderID)
}

func TestMemoryRepository_Snooze(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)
	ctx := context.Background()

	r := seed(t, repo, "damon", "stretch", clock.now.Add(-5*time.Minute))

	ok, err := repo.Snooze(ctx, r.ID, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Snooze(ctx, r.ID, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SnoozeCount)
	require.NotNil(t, got.SnoozedUntil)
	assert.Equal(t, clock.now.Add(30*time.Minute), *got.SnoozedUntil)

	overdue, err := repo.Overdue(ctx, "damon")
	require.NoError(t, err)
	assert.Empty(t, overdue)

	ok, err = repo.Snooze(ctx, uuid.New(), 30)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepository_Delete(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)
	ctx := context.Background()

	r := seed(t, repo, "damon", "x", clock.now)

	deleted, err := repo.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryRepository_Summary(t *testing.T) {
	// Wednesday 10:00
	clock := &fakeClock{now: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryReminderRepository(clock.Now)
	ctx := context.Background()

	_, err := repo.Summary(ctx, "damon")
	assert.ErrorIs(t, err, entities.ErrSummaryNotFound)

	seed(t, repo, "damon", "overdue", clock.now.Add(-time.Hour))
	seed(t, repo, "damon", "soon", clock.now.Add(time.Hour))
	seed(t, repo, "damon", "tonight", clock.now.Add(10*time.Hour))
	seed(t, repo, "damon", "next week", clock.now.Add(7*24*time.Hour))
	done := seed(t, repo, "damon", "done", clock.now.Add(-2*time.Hour))

	_, err = repo.Complete(ctx, done.ID)
	require.NoError(t, err)

	summary, err := repo.Summary(ctx, "damon")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 1, summary.UpcomingSoon)
	assert.Equal(t, 2, summary.UpcomingToday)
	assert.Equal(t, 4, summary.TotalActive)
	assert.Equal(t, 1, summary.CompletedThisWeek)
}
