package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hissterical/MindfulPay/internal/services"
)

// OverviewHandler handles the home screen summary.
type OverviewHandler struct {
	overviewService services.OverviewServicer
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(overviewService services.OverviewServicer) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

// GetOverview handles the home screen summary.
// @Summary     Get overview
// @Description Get totals, the last seven days of spending, recent expenses, top goals and the amount paid today
// @Tags        overview
// @Produce     json
// @Success     200 {object} services.Overview "Overview"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /overview [get]
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	overview, err := h.overviewService.Overview(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}
