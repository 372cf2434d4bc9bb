package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/services"
)

// LimitHandler handles spending limit requests.
type LimitHandler struct {
	limitService services.LimitServicer
	auditService services.AuditServicer
}

// NewLimitHandler creates a new LimitHandler.
func NewLimitHandler(limitService services.LimitServicer, auditService services.AuditServicer) *LimitHandler {
	return &LimitHandler{limitService: limitService, auditService: auditService}
}

// CreateLimitRequest represents the request payload for creating a category limit.
type CreateLimitRequest struct {
	Category string             `json:"category" binding:"required,expense_category"`
	Amount   string             `json:"amount" binding:"required,decimal_amount"`
	Period   models.LimitPeriod `json:"period" binding:"required,limit_period"`
}

// UpdateLimitRequest represents the request payload for changing a limit amount.
type UpdateLimitRequest struct {
	Amount string `json:"amount" binding:"required,decimal_amount"`
}

// UpdateSettingsRequest represents the global daily and monthly limits.
// "0" disables a limit.
type UpdateSettingsRequest struct {
	DailyLimit   string `json:"daily_limit" binding:"required"`
	MonthlyLimit string `json:"monthly_limit" binding:"required"`
}

// EvaluateRequest represents a prospective payment to check against the limits.
type EvaluateRequest struct {
	Amount   string `json:"amount" binding:"required,decimal_amount"`
	Category string `json:"category" binding:"omitempty,expense_category"`
}

// parseLimitAmount accepts "0" as a disabled limit and otherwise a positive
// decimal.
func parseLimitAmount(s string) (int64, error) {
	if s == "0" {
		return 0, nil
	}
	amount, err := money.Parse(s)
	if err != nil {
		return 0, apperrors.ErrInvalidAmount
	}
	return amount, nil
}

// CreateLimit handles the creation of a category limit.
// @Summary     Create a spending limit
// @Description Create a daily, weekly or monthly spending limit for an expense category
// @Tags        limits
// @Accept      json
// @Produce     json
// @Param       request body CreateLimitRequest true "Limit details"
// @Success     201 {object} models.SpendingLimit "Limit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate limit"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits [post]
func (h *LimitHandler) CreateLimit(c *gin.Context) {
	var req CreateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	limit, err := h.limitService.AddLimit(c.Request.Context(), req.Category, amount, req.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "CREATE_LIMIT", "limit", limit.ID, c.ClientIP(),
		map[string]any{"category": limit.Category, "amount": limit.Amount, "period": limit.Period})

	c.JSON(http.StatusCreated, gin.H{"limit": limit})
}

// GetLimits handles listing category limits.
// @Summary     Get spending limits
// @Description Get all category spending limits
// @Tags        limits
// @Produce     json
// @Success     200 {array} models.SpendingLimit "Limits"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits [get]
func (h *LimitHandler) GetLimits(c *gin.Context) {
	limits, err := h.limitService.ListLimits(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"limits": limits})
}

// UpdateLimit handles changing a limit amount.
// @Summary     Update spending limit
// @Description Change the amount of a category limit
// @Tags        limits
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Limit ID"
// @Param       request body UpdateLimitRequest true "New amount"
// @Success     200 {object} models.SpendingLimit "Updated limit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/{id} [put]
func (h *LimitHandler) UpdateLimit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	limit, err := h.limitService.UpdateLimit(c.Request.Context(), id, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "UPDATE_LIMIT", "limit", limit.ID, c.ClientIP(),
		map[string]any{"amount": limit.Amount})

	c.JSON(http.StatusOK, gin.H{"limit": limit})
}

// DeleteLimit handles deleting a limit.
// @Summary     Delete spending limit
// @Description Delete a category spending limit
// @Tags        limits
// @Produce     json
// @Param       id path string true "Limit ID"
// @Success     200 {object} MessageResponse "Limit deleted"
// @Failure     404 {object} ErrorResponse "Limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/{id} [delete]
func (h *LimitHandler) DeleteLimit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.limitService.DeleteLimit(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "DELETE_LIMIT", "limit", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Limit deleted successfully"})
}

// GetProgress handles spending progress against every active limit.
// @Summary     Get limit progress
// @Description Get spent, remaining and percentage used for the global and category limits in their current windows
// @Tags        limits
// @Produce     json
// @Success     200 {array} services.LimitProgress "Limit progress"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/progress [get]
func (h *LimitHandler) GetProgress(c *gin.Context) {
	progress, err := h.limitService.Progress(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// GetSettings handles reading the global limits.
// @Summary     Get global limits
// @Description Get the daily and monthly spending limits
// @Tags        limits
// @Produce     json
// @Success     200 {object} models.LimitSettings "Global limits"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/settings [get]
func (h *LimitHandler) GetSettings(c *gin.Context) {
	settings, err := h.limitService.GetSettings(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles changing the global limits.
// @Summary     Update global limits
// @Description Set the daily and monthly spending limits; 0 disables a limit
// @Tags        limits
// @Accept      json
// @Produce     json
// @Param       request body UpdateSettingsRequest true "Global limits"
// @Success     200 {object} models.LimitSettings "Updated limits"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/settings [put]
func (h *LimitHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	daily, err := parseLimitAmount(req.DailyLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	monthly, err := parseLimitAmount(req.MonthlyLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.limitService.UpdateSettings(c.Request.Context(), models.LimitSettings{
		DailyLimit:   daily,
		MonthlyLimit: monthly,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "UPDATE_LIMIT_SETTINGS", "limit_settings", "global", c.ClientIP(),
		map[string]any{"daily_limit": settings.DailyLimit, "monthly_limit": settings.MonthlyLimit})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Evaluate handles a dry run of the limit policy.
// @Summary     Evaluate a payment
// @Description Check whether a payment would stay within the limits without recording anything
// @Tags        limits
// @Accept      json
// @Produce     json
// @Param       request body EvaluateRequest true "Prospective payment"
// @Success     200 {object} models.Decision "Decision"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/evaluate [post]
func (h *LimitHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	decision, err := h.limitService.Evaluate(c.Request.Context(), amount, req.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision, "message": decision.Message()})
}
