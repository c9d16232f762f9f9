package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/ports"
)

const soonWindow = 2 * time.Hour

// MemoryReminderRepository keeps reminders in process. It mirrors the
// behaviour of the Postgres functions closely enough for dry runs and tests.
type MemoryReminderRepository struct {
	mu        sync.Mutex
	clock     func() time.Time
	reminders map[uuid.UUID]*entities.Reminder
}

// NewMemoryReminderRepository creates an empty in-memory store; clock
// supplies "now" for the time-relative queries.
func NewMemoryReminderRepository(clock func() time.Time) *MemoryReminderRepository {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryReminderRepository{
		clock:     clock,
		reminders: make(map[uuid.UUID]*entities.Reminder),
	}
}

var _ ports.ReminderRepository = (*MemoryReminderRepository)(nil)

func (m *MemoryReminderRepository) Create(ctx context.Context, reminder *entities.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reminder.ID = uuid.New()
	reminder.CreatedAt = m.clock()
	reminder.Completed = false
	reminder.CompletedAt = nil
	reminder.SnoozedUntil = nil
	reminder.SnoozeCount = 0
	if reminder.Priority == "" {
		reminder.Priority = entities.PriorityNormal
	}
	if reminder.Source == "" {
		reminder.Source = entities.DefaultSource
	}
	if len(reminder.Metadata) == 0 {
		reminder.Metadata = types.JSONText("{}")
	}

	stored := *reminder
	m.reminders[stored.ID] = &stored
	return nil
}

func (m *MemoryReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.reminders[id]
	if !ok {
		return nil, entities.ErrReminderNotFound
	}
	reminder := *stored
	return &reminder, nil
}

func (m *MemoryReminderRepository) Upcoming(ctx context.Context, userID string, hours int) ([]*entities.UpcomingReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	until := now.Add(time.Duration(hours) * time.Hour)

	var upcoming []*entities.UpcomingReminder
	for _, r := range m.active(userID) {
		fire := r.FireTime()
		if fire.Before(now) || fire.After(until) {
			continue
		}
		upcoming = append(upcoming, &entities.UpcomingReminder{Reminder: *r, TimeUntil: fire.Sub(now)})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].FireTime().Before(upcoming[j].FireTime())
	})
	return upcoming, nil
}

func (m *MemoryReminderRepository) Overdue(ctx context.Context, userID string) ([]*entities.OverdueReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()

	var overdue []*entities.OverdueReminder
	for _, r := range m.active(userID) {
		fire := r.FireTime()
		if !fire.Before(now) {
			continue
		}
		overdue = append(overdue, &entities.OverdueReminder{Reminder: *r, OverdueBy: now.Sub(fire)})
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].FireTime().Before(overdue[j].FireTime())
	})
	return overdue, nil
}

func (m *MemoryReminderRepository) Complete(ctx context.Context, id uuid.UUID) (*entities.CompletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reminders[id]
	if !ok {
		return &entities.CompletionResult{Success: false, Message: "Reminder not found"}, nil
	}
	if r.Completed {
		return &entities.CompletionResult{Success: false, Message: "Reminder already completed"}, nil
	}

	now := m.clock()
	r.MarkCompleted(now)

	if !r.IsRecurring() {
		return &entities.CompletionResult{Success: true, Message: "Reminder completed"}, nil
	}

	next := r.Recurrence.Next(r.RemindAt)
	if r.RecurrenceEndDate != nil && next.After(*r.RecurrenceEndDate) {
		return &entities.CompletionResult{Success: true, Message: "Reminder completed, recurrence ended"}, nil
	}

	successor := *r
	successor.ID = uuid.New()
	successor.RemindAt = next
	successor.CreatedAt = now
	successor.Completed = false
	successor.CompletedAt = nil
	successor.SnoozedUntil = nil
	successor.SnoozeCount = 0
	m.reminders[successor.ID] = &successor

	nextID := successor.ID
	return &entities.CompletionResult{
		Success:        true,
		Message:        "Reminder completed, next occurrence scheduled",
		NextReminderID: &nextID,
	}, nil
}

func (m *MemoryReminderRepository) Snooze(ctx context.Context, id uuid.UUID, minutes int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reminders[id]
	if !ok || r.Completed {
		return false, nil
	}
	r.Snooze(m.clock().Add(time.Duration(minutes) * time.Minute))
	return true, nil
}

func (m *MemoryReminderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reminders[id]; !ok {
		return false, nil
	}
	delete(m.reminders, id)
	return true, nil
}

func (m *MemoryReminderRepository) Summary(ctx context.Context, userID string) (*entities.ReminderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	weekStart := startOfWeek(now)

	summary := &entities.ReminderSummary{UserID: userID}
	found := false
	for _, r := range m.reminders {
		if r.UserID != userID {
			continue
		}
		found = true

		if r.Completed {
			if r.CompletedAt != nil && !r.CompletedAt.Before(weekStart) {
				summary.CompletedThisWeek++
			}
			continue
		}

		summary.TotalActive++
		fire := r.FireTime()
		switch {
		case fire.Before(now):
			summary.OverdueCount++
		default:
			if !fire.After(now.Add(soonWindow)) {
				summary.UpcomingSoon++
			}
			if fire.Before(endOfDay) {
				summary.UpcomingToday++
			}
		}
	}

	if !found {
		return nil, entities.ErrSummaryNotFound
	}
	return summary, nil
}

// active returns copies of the user's incomplete reminders; callers hold mu.
func (m *MemoryReminderRepository) active(userID string) []*entities.Reminder {
	var out []*entities.Reminder
	for _, r := range m.reminders {
		if r.UserID == userID && !r.Completed {
			c := *r
			out = append(out, &c)
		}
	}
	return out
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}
