package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name          string       `json:"name" binding:"required,min=1,max=100"`
	TargetAmount  string       `json:"target_amount" binding:"required,decimal_amount"`
	CurrentAmount string       `json:"current_amount" binding:"omitempty,decimal_amount"`
	Category      string       `json:"category" binding:"required,goal_category"`
	Deadline      *models.Date `json:"deadline"`
}

// ContributeRequest represents the request payload for adding money to a goal.
type ContributeRequest struct {
	Amount string `json:"amount" binding:"required,decimal_amount"`
}

func summarize(goal *models.Goal) services.GoalSummary {
	return services.GoalSummary{Goal: *goal, Progress: goal.Progress(), Remaining: goal.Remaining()}
}

// CreateGoal handles the creation of a new goal.
// @Summary     Create a goal
// @Description Create a new savings goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} services.GoalSummary "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	target, err := money.Parse(req.TargetAmount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}
	var current int64
	if req.CurrentAmount != "" {
		if current, err = money.Parse(req.CurrentAmount); err != nil {
			respondWithError(c, apperrors.ErrInvalidAmount)
			return
		}
	}

	goal, err := h.goalService.AddGoal(c.Request.Context(), models.GoalInput{
		Name:          req.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Category:      req.Category,
		Deadline:      req.Deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": summarize(goal)})
}

// GetGoals handles listing goals.
// @Summary     Get goals
// @Description Get all savings goals with their progress
// @Tags        goals
// @Produce     json
// @Success     200 {array} services.GoalSummary "Goals"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]services.GoalSummary, 0, len(goals))
	for i := range goals {
		out = append(out, summarize(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

// GetGoal handles retrieving a specific goal.
// @Summary     Get goal by ID
// @Description Get a specific goal with its progress
// @Tags        goals
// @Produce     json
// @Param       id path string true "Goal ID"
// @Success     200 {object} services.GoalSummary "Goal details"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": summarize(goal)})
}

// Contribute handles adding money to a goal.
// @Summary     Contribute to a goal
// @Description Add an amount to a goal's saved total
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Goal ID"
// @Param       request body ContributeRequest true "Contribution"
// @Success     200 {object} services.GoalSummary "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/contributions [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	goal, err := h.goalService.Contribute(c.Request.Context(), id, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": summarize(goal)})
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete goal
// @Description Delete a savings goal
// @Tags        goals
// @Produce     json
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}
