package ports

import (
	"time"

	"github.com/aria/reminders/internal/domain/entities"
)

// Reminder related types
type CreateReminderRequest struct {
	Text              string                 `json:"text" validate:"required,max=2000"`
	RemindAt          *time.Time             `json:"remind_at"`
	When              string                 `json:"when" validate:"required_without=RemindAt"`
	Recurrence        *entities.Recurrence   `json:"recurrence" validate:"omitempty,oneof=daily weekly monthly yearly"`
	RecurrenceEndDate *time.Time             `json:"recurrence_end_date"`
	Priority          entities.Priority      `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Category          *string                `json:"category" validate:"omitempty,max=100"`
	UserID            string                 `json:"user_id" validate:"omitempty,max=100"`
	Metadata          map[string]interface{} `json:"metadata"`
	Source            string                 `json:"source" validate:"omitempty,max=50"`
}

type SnoozeRequest struct {
	Minutes int `json:"minutes" validate:"omitempty,min=1,max=10080"`
}

type ParseTimeRequest struct {
	Phrase string `json:"phrase" validate:"required"`
}

type ParseTimeResponse struct {
	Phrase     string    `json:"phrase"`
	Variant    string    `json:"variant"`
	ResolvesTo time.Time `json:"resolves_to"`
}

type ProactiveResponse struct {
	Message *string `json:"message"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type SnoozeResponse struct {
	Success bool `json:"success"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
