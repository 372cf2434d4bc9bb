package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/services"
)

// DataHandler handles bulk data maintenance and the audit log.
type DataHandler struct {
	dataService  services.DataServicer
	auditService services.AuditServicer
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService services.DataServicer, auditService services.AuditServicer) *DataHandler {
	return &DataHandler{dataService: dataService, auditService: auditService}
}

// Seed handles loading the demo data.
// @Summary     Load demo data
// @Description Replace transactions, goals, limits and blocked payees with demo data
// @Tags        data
// @Produce     json
// @Success     200 {object} MessageResponse "Demo data loaded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /data/seed [post]
func (h *DataHandler) Seed(c *gin.Context) {
	if err := h.dataService.Seed(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "SEED_DATA", "data", "all", c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Demo data loaded"})
}

// ClearAll handles wiping every stored record.
// @Summary     Clear all data
// @Description Delete every stored record, including the audit log
// @Tags        data
// @Produce     json
// @Success     200 {object} MessageResponse "Data cleared"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /data [delete]
func (h *DataHandler) ClearAll(c *gin.Context) {
	if err := h.dataService.ClearAll(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "CLEAR_DATA", "data", "all", c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "All data cleared"})
}

// GetAuditLog handles listing recent audit entries.
// @Summary     Get audit log
// @Description Get recent sensitive operations, newest first
// @Tags        data
// @Produce     json
// @Param       limit query int false "Maximum entries (default 50, max 1000)"
// @Success     200 {array} models.AuditLog "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /audit [get]
func (h *DataHandler) GetAuditLog(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be between 1 and 1000"))
			return
		}
		limit = n
	}

	entries, err := h.auditService.List(c.Request.Context(), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
