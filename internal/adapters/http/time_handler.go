package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aria/reminders/internal/domain/timecontext"
	"github.com/aria/reminders/internal/infrastructure/logger"
	"github.com/aria/reminders/internal/ports"
)

// TimeHandler serves the current time context and phrase resolution
type TimeHandler struct {
	resolver *timecontext.Resolver
	logger   *logger.Logger
}

// NewTimeHandler creates a new time handler
func NewTimeHandler(resolver *timecontext.Resolver, logger *logger.Logger) *TimeHandler {
	return &TimeHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// TimeContextResponse is the full time context plus the rendered prompt block
type TimeContextResponse struct {
	Context timecontext.Context `json:"context"`
	Prompt  string              `json:"prompt"`
}

// GetContext godoc
// @Summary Current time context
// @Tags time
// @Produce json
// @Success 200 {object} TimeContextResponse
// @Router /time/context [get]
func (h *TimeHandler) GetContext(c echo.Context) error {
	now := h.resolver.CurrentTime()
	return c.JSON(http.StatusOK, TimeContextResponse{
		Context: h.resolver.FullContext(now),
		Prompt:  h.resolver.PromptBlock(now),
	})
}

// ParsePhrase godoc
// @Summary Resolve a natural-language time phrase
// @Tags time
// @Accept json
// @Produce json
// @Param request body ports.ParseTimeRequest true "Phrase"
// @Success 200 {object} ports.ParseTimeResponse
// @Failure 422 {object} ports.ErrorResponse
// @Router /time/parse [post]
func (h *TimeHandler) ParsePhrase(c echo.Context) error {
	var req ports.ParseTimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resolved, variant, err := h.resolver.Resolve(req.Phrase, h.resolver.CurrentTime())
	if err != nil {
		if errors.Is(err, timecontext.ErrUnparseable) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, ports.ParseTimeResponse{
		Phrase:     req.Phrase,
		Variant:    string(variant),
		ResolvesTo: resolved,
	})
}
