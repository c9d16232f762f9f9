package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/domain/timecontext"
	"github.com/aria/reminders/internal/infrastructure/logger"
	"github.com/aria/reminders/internal/infrastructure/metrics"
	"github.com/aria/reminders/internal/ports"
)

const (
	DefaultUpcomingHours = 24
	DefaultSnoozeMinutes = 30

	proactiveWindowHours = 2
	maxOverdueListed     = 3
	maxUpcomingListed    = 2
)

// ReminderServiceConfig carries the settings the service would otherwise
// read from globals.
type ReminderServiceConfig struct {
	DefaultUser string
}

// ReminderService handles reminder CRUD and proactive notifications
type ReminderService struct {
	repo     ports.ReminderRepository
	resolver *timecontext.Resolver
	validate *validator.Validate
	cfg      ReminderServiceConfig
	logger   *logger.Logger
	metrics  *metrics.Collector
}

// NewReminderService creates a new reminder service
func NewReminderService(repo ports.ReminderRepository, resolver *timecontext.Resolver, cfg ReminderServiceConfig, logger *logger.Logger, collector *metrics.Collector) *ReminderService {
	return &ReminderService{
		repo:     repo,
		resolver: resolver,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger.WithComponent("reminders"),
		metrics:  collector,
	}
}

// Resolver exposes the time resolver the service parses deadlines with
func (s *ReminderService) Resolver() *timecontext.Resolver {
	return s.resolver
}

// CreateReminder validates the request, resolves its fire time and stores it
func (s *ReminderService) CreateReminder(ctx context.Context, req ports.CreateReminderRequest) (*entities.Reminder, error) {
	if err := s.validate.Struct(req); err != nil {
		s.metrics.ObserveOperation("create", "invalid")
		return nil, entities.InvalidInput("invalid reminder request", err)
	}

	remindAt, err := s.resolveRemindAt(req)
	if err != nil {
		s.metrics.ObserveOperation("create", "invalid")
		return nil, err
	}

	metadata := types.JSONText("{}")
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, entities.InvalidInput("invalid metadata", err)
		}
		metadata = raw
	}

	reminder := &entities.Reminder{
		UserID:            s.userOrDefault(req.UserID),
		ReminderText:      strings.TrimSpace(req.Text),
		RemindAt:          remindAt,
		Recurrence:        req.Recurrence,
		RecurrenceEndDate: req.RecurrenceEndDate,
		Priority:          req.Priority,
		Category:          req.Category,
		Metadata:          metadata,
		Source:            req.Source,
	}
	if reminder.Priority == "" {
		reminder.Priority = entities.PriorityNormal
	}
	if reminder.Source == "" {
		reminder.Source = entities.DefaultSource
	}

	if err := reminder.Validate(); err != nil {
		s.metrics.ObserveOperation("create", "invalid")
		return nil, entities.InvalidInput("invalid reminder", err)
	}

	if err := s.repo.Create(ctx, reminder); err != nil {
		s.metrics.ObserveOperation("create", "error")
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.metrics.ObserveOperation("create", "ok")
	s.logger.LogReminderAction(reminder.UserID, reminder.ID.String(), "create", map[string]interface{}{
		"remind_at": reminder.RemindAt.Format(time.RFC3339),
		"priority":  reminder.Priority,
	})

	return reminder, nil
}

// resolveRemindAt prefers an explicit timestamp, then RFC 3339 text, then a
// natural-language phrase evaluated against the current time.
func (s *ReminderService) resolveRemindAt(req ports.CreateReminderRequest) (time.Time, error) {
	if req.RemindAt != nil {
		return *req.RemindAt, nil
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(req.When)); err == nil {
		return t.In(s.resolver.Location()), nil
	}

	t, err := s.resolver.Parse(req.When, s.resolver.CurrentTime())
	if err != nil {
		return time.Time{}, entities.InvalidInput(fmt.Sprintf("could not parse time: %s", req.When), err)
	}
	return t, nil
}

// GetReminder retrieves a reminder by ID
func (s *ReminderService) GetReminder(ctx context.Context, id string) (*entities.Reminder, error) {
	reminderID, err := uuid.Parse(id)
	if err != nil {
		return nil, entities.ErrReminderNotFound
	}

	return s.repo.GetByID(ctx, reminderID)
}

// ListUpcoming returns the user's reminders due within the next hours, earliest first
func (s *ReminderService) ListUpcoming(ctx context.Context, userID string, hours int) ([]*entities.UpcomingReminder, error) {
	if hours <= 0 {
		hours = DefaultUpcomingHours
	}

	reminders, err := s.repo.Upcoming(ctx, s.userOrDefault(userID), hours)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming reminders: %w", err)
	}
	return reminders, nil
}

// ListOverdue returns the user's incomplete reminders that are past due
func (s *ReminderService) ListOverdue(ctx context.Context, userID string) ([]*entities.OverdueReminder, error) {
	reminders, err := s.repo.Overdue(ctx, s.userOrDefault(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue reminders: %w", err)
	}
	return reminders, nil
}

// CompleteReminder marks a reminder done. Unknown ids are a reported
// outcome (Success false), not an error.
func (s *ReminderService) CompleteReminder(ctx context.Context, id string) (*entities.CompletionResult, error) {
	reminderID, err := uuid.Parse(id)
	if err != nil {
		s.metrics.ObserveOperation("complete", "miss")
		return &entities.CompletionResult{Success: false, Message: "Reminder not found"}, nil
	}

	result, err := s.repo.Complete(ctx, reminderID)
	if err != nil {
		s.metrics.ObserveOperation("complete", "error")
		return nil, fmt.Errorf("failed to complete reminder: %w", err)
	}

	if !result.Success {
		s.metrics.ObserveOperation("complete", "miss")
		return result, nil
	}

	s.metrics.ObserveOperation("complete", "ok")
	details := map[string]interface{}{}
	if result.NextReminderID != nil {
		details["next_reminder_id"] = result.NextReminderID.String()
	}
	s.logger.LogReminderAction("", id, "complete", details)

	return result, nil
}

// SnoozeReminder pushes a reminder out by minutes and reports whether the store accepted it
func (s *ReminderService) SnoozeReminder(ctx context.Context, id string, minutes int) (bool, error) {
	if minutes <= 0 {
		minutes = DefaultSnoozeMinutes
	}

	reminderID, err := uuid.Parse(id)
	if err != nil {
		s.metrics.ObserveOperation("snooze", "miss")
		return false, nil
	}

	ok, err := s.repo.Snooze(ctx, reminderID, minutes)
	if err != nil {
		s.metrics.ObserveOperation("snooze", "error")
		return false, fmt.Errorf("failed to snooze reminder: %w", err)
	}

	if ok {
		s.metrics.ObserveOperation("snooze", "ok")
		s.logger.LogReminderAction("", id, "snooze", map[string]interface{}{"minutes": minutes})
	} else {
		s.metrics.ObserveOperation("snooze", "miss")
	}
	return ok, nil
}

// DeleteReminder removes a reminder; deleting a missing id returns false
func (s *ReminderService) DeleteReminder(ctx context.Context, id string) (bool, error) {
	reminderID, err := uuid.Parse(id)
	if err != nil {
		s.metrics.ObserveOperation("delete", "miss")
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, reminderID)
	if err != nil {
		s.metrics.ObserveOperation("delete", "error")
		return false, fmt.Errorf("failed to delete reminder: %w", err)
	}

	if deleted {
		s.metrics.ObserveOperation("delete", "ok")
		s.logger.LogReminderAction("", id, "delete", nil)
	} else {
		s.metrics.ObserveOperation("delete", "miss")
	}
	return deleted, nil
}

// Summary returns the user's aggregate counts, zeroed if the store has none
func (s *ReminderService) Summary(ctx context.Context, userID string) (*entities.ReminderSummary, error) {
	userID = s.userOrDefault(userID)

	summary, err := s.repo.Summary(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrSummaryNotFound) {
			return &entities.ReminderSummary{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get reminder summary: %w", err)
	}
	return summary, nil
}

func (s *ReminderService) userOrDefault(userID string) string {
	if userID == "" {
		return s.cfg.DefaultUser
	}
	return userID
}
