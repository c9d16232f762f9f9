package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aria/reminders/internal/application/services"
	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/infrastructure/logger"
	"github.com/aria/reminders/internal/ports"
)

// ReminderHandler exposes the reminder service to the authenticated owner
type ReminderHandler struct {
	reminderService *services.ReminderService
	logger          *logger.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *services.ReminderService, logger *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		logger:          logger,
	}
}

// CreateReminder godoc
// @Summary Create a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param request body ports.CreateReminderRequest true "Reminder"
// @Success 201 {object} entities.Reminder
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /reminders [post]
func (h *ReminderHandler) CreateReminder(c echo.Context) error {
	var req ports.CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.UserID = getUserIDFromContext(c)

	reminder, err := h.reminderService.CreateReminder(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Create reminder failed", "error", err, "user_id", req.UserID)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, reminder)
}

// GetReminder godoc
// @Summary Get a reminder
// @Tags reminders
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 200 {object} entities.Reminder
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /reminders/{id} [get]
func (h *ReminderHandler) GetReminder(c echo.Context) error {
	reminder, err := h.ownedReminder(c)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, reminder)
}

// ListUpcoming godoc
// @Summary List reminders due soon
// @Tags reminders
// @Produce json
// @Param hours query int false "Window in hours" default(24)
// @Success 200 {array} entities.UpcomingReminder
// @Security BearerAuth
// @Router /reminders/upcoming [get]
func (h *ReminderHandler) ListUpcoming(c echo.Context) error {
	hours, err := queryInt(c, "hours", services.DefaultUpcomingHours)
	if err != nil {
		return err
	}

	reminders, err := h.reminderService.ListUpcoming(c.Request().Context(), getUserIDFromContext(c), hours)
	if err != nil {
		h.logger.Errorw("List upcoming reminders failed", "error", err)
		return toHTTPError(err)
	}
	if reminders == nil {
		reminders = []*entities.UpcomingReminder{}
	}

	return c.JSON(http.StatusOK, reminders)
}

// ListOverdue godoc
// @Summary List overdue reminders
// @Tags reminders
// @Produce json
// @Success 200 {array} entities.OverdueReminder
// @Security BearerAuth
// @Router /reminders/overdue [get]
func (h *ReminderHandler) ListOverdue(c echo.Context) error {
	reminders, err := h.reminderService.ListOverdue(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("List overdue reminders failed", "error", err)
		return toHTTPError(err)
	}
	if reminders == nil {
		reminders = []*entities.OverdueReminder{}
	}

	return c.JSON(http.StatusOK, reminders)
}

// Summary godoc
// @Summary Reminder counts for the caller
// @Tags reminders
// @Produce json
// @Success 200 {object} entities.ReminderSummary
// @Security BearerAuth
// @Router /reminders/summary [get]
func (h *ReminderHandler) Summary(c echo.Context) error {
	summary, err := h.reminderService.Summary(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("Reminder summary failed", "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Proactive godoc
// @Summary Conversation-start digest of overdue and soon-due reminders
// @Tags reminders
// @Produce json
// @Success 200 {object} ports.ProactiveResponse
// @Security BearerAuth
// @Router /reminders/proactive [get]
func (h *ReminderHandler) Proactive(c echo.Context) error {
	message, ok, err := h.reminderService.ProactiveMessage(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("Proactive message failed", "error", err)
		return toHTTPError(err)
	}

	var resp ports.ProactiveResponse
	if ok {
		resp.Message = &message
	}
	return c.JSON(http.StatusOK, resp)
}

// CompleteReminder godoc
// @Summary Complete a reminder
// @Description Recurring reminders schedule their next occurrence.
// @Tags reminders
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 200 {object} entities.CompletionResult
// @Security BearerAuth
// @Router /reminders/{id}/complete [post]
func (h *ReminderHandler) CompleteReminder(c echo.Context) error {
	if _, err := h.ownedReminder(c); err != nil {
		if errors.Is(err, entities.ErrReminderNotFound) {
			return c.JSON(http.StatusOK, &entities.CompletionResult{Success: false, Message: "Reminder not found"})
		}
		return toHTTPError(err)
	}

	result, err := h.reminderService.CompleteReminder(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Errorw("Complete reminder failed", "error", err, "reminder_id", c.Param("id"))
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// SnoozeReminder godoc
// @Summary Snooze a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param id path string true "Reminder ID"
// @Param request body ports.SnoozeRequest false "Minutes, default 30"
// @Success 200 {object} ports.SnoozeResponse
// @Security BearerAuth
// @Router /reminders/{id}/snooze [post]
func (h *ReminderHandler) SnoozeReminder(c echo.Context) error {
	var req ports.SnoozeRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if _, err := h.ownedReminder(c); err != nil {
		if errors.Is(err, entities.ErrReminderNotFound) {
			return c.JSON(http.StatusOK, ports.SnoozeResponse{Success: false})
		}
		return toHTTPError(err)
	}

	ok, err := h.reminderService.SnoozeReminder(c.Request().Context(), c.Param("id"), req.Minutes)
	if err != nil {
		h.logger.Errorw("Snooze reminder failed", "error", err, "reminder_id", c.Param("id"))
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ports.SnoozeResponse{Success: ok})
}

// DeleteReminder godoc
// @Summary Delete a reminder
// @Tags reminders
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 200 {object} ports.DeleteResponse
// @Security BearerAuth
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(c echo.Context) error {
	if _, err := h.ownedReminder(c); err != nil {
		if errors.Is(err, entities.ErrReminderNotFound) {
			return c.JSON(http.StatusOK, ports.DeleteResponse{Deleted: false})
		}
		return toHTTPError(err)
	}

	deleted, err := h.reminderService.DeleteReminder(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Errorw("Delete reminder failed", "error", err, "reminder_id", c.Param("id"))
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ports.DeleteResponse{Deleted: deleted})
}

// ownedReminder loads the :id reminder, hiding reminders that belong to someone else.
func (h *ReminderHandler) ownedReminder(c echo.Context) (*entities.Reminder, error) {
	reminder, err := h.reminderService.GetReminder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}

	owner := getUserIDFromContext(c)
	if reminder.UserID != owner {
		h.logger.LogSecurityEvent("foreign_reminder_access", owner, c.RealIP(), map[string]interface{}{
			"reminder_id": reminder.ID.String(),
		})
		return nil, entities.ErrReminderNotFound
	}
	return reminder, nil
}
