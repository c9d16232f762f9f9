package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aria/reminders/internal/domain/entities"
)

// ProactiveMessage composes a digest of overdue and soon-due reminders for
// the start of a conversation. ok is false when there is nothing to say.
func (s *ReminderService) ProactiveMessage(ctx context.Context, userID string) (message string, ok bool, err error) {
	overdue, err := s.ListOverdue(ctx, userID)
	if err != nil {
		return "", false, err
	}

	upcoming, err := s.ListUpcoming(ctx, userID, proactiveWindowHours)
	if err != nil {
		return "", false, err
	}

	lines := FormatProactive(overdue, upcoming)
	if len(lines) == 0 {
		return "", false, nil
	}
	return strings.Join(lines, "\n"), true, nil
}

// FormatProactive renders the digest lines for the given reminders.
func FormatProactive(overdue []*entities.OverdueReminder, upcoming []*entities.UpcomingReminder) []string {
	var lines []string

	switch {
	case len(overdue) == 1:
		lines = append(lines, fmt.Sprintf("You have an overdue reminder: \"%s\"", overdue[0].ReminderText))
	case len(overdue) > 1:
		lines = append(lines, fmt.Sprintf("You have %d overdue reminders:", len(overdue)))
		for i, r := range overdue {
			if i == maxOverdueListed {
				break
			}
			lines = append(lines, "  - "+r.ReminderText)
		}
		if len(overdue) > maxOverdueListed {
			lines = append(lines, fmt.Sprintf("  ... and %d more", len(overdue)-maxOverdueListed))
		}
	}

	for i, r := range upcoming {
		if i == maxUpcomingListed {
			break
		}
		lines = append(lines, fmt.Sprintf("Reminder coming up %s: \"%s\"", RelativePhrase(r.TimeUntil), r.ReminderText))
	}

	return lines
}

// RelativePhrase renders a positive duration as "in 25 minutes" or "in 2 hours".
func RelativePhrase(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("in %d minutes", minutes)
	}

	hours := minutes / 60
	if hours == 1 {
		return "in 1 hour"
	}
	return fmt.Sprintf("in %d hours", hours)
}
