package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/services"
)

// BlocklistHandler handles blocked vendor requests.
type BlocklistHandler struct {
	blocklist    services.BlocklistServicer
	auditService services.AuditServicer
}

// NewBlocklistHandler creates a new BlocklistHandler.
func NewBlocklistHandler(blocklist services.BlocklistServicer, auditService services.AuditServicer) *BlocklistHandler {
	return &BlocklistHandler{blocklist: blocklist, auditService: auditService}
}

// BlockPayeeRequest represents the request payload for blocking a payee.
type BlockPayeeRequest struct {
	PayeeID string `json:"payee_id" binding:"required,upi_id"`
}

// GetBlocklist handles listing blocked payees.
// @Summary     Get blocked payees
// @Description Get every blocked UPI id in the order it was added
// @Tags        blocklist
// @Produce     json
// @Success     200 {array} string "Blocked payees"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /blocklist [get]
func (h *BlocklistHandler) GetBlocklist(c *gin.Context) {
	list, err := h.blocklist.List(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": list})
}

// BlockPayee handles adding a payee to the blocklist.
// @Summary     Block a payee
// @Description Block payments to a UPI id. Blocking an already blocked id succeeds.
// @Tags        blocklist
// @Accept      json
// @Produce     json
// @Param       request body BlockPayeeRequest true "Payee"
// @Success     201 {object} MessageResponse "Payee blocked"
// @Failure     400 {object} ErrorResponse "Invalid payee"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /blocklist [post]
func (h *BlocklistHandler) BlockPayee(c *gin.Context) {
	var req BlockPayeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPayee, err.Error()))
		return
	}

	if err := h.blocklist.Add(c.Request.Context(), req.PayeeID); err != nil {
		respondWithError(c, err)
		return
	}

	id := models.NormalizePayee(req.PayeeID)
	h.auditService.Log(c.Request.Context(), "BLOCK_PAYEE", "blocklist", id, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, MessageResponse{Message: "Payments to " + id + " are now blocked"})
}

// UnblockPayee handles removing a payee from the blocklist.
// @Summary     Unblock a payee
// @Description Allow payments to a UPI id again
// @Tags        blocklist
// @Produce     json
// @Param       payee path string true "UPI id"
// @Success     200 {object} MessageResponse "Payee unblocked"
// @Failure     400 {object} ErrorResponse "Invalid payee"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /blocklist/{payee} [delete]
func (h *BlocklistHandler) UnblockPayee(c *gin.Context) {
	payee, err := pathID(c, "payee")
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidPayee)
		return
	}

	if err := h.blocklist.Remove(c.Request.Context(), payee); err != nil {
		respondWithError(c, err)
		return
	}

	id := models.NormalizePayee(payee)
	h.auditService.Log(c.Request.Context(), "UNBLOCK_PAYEE", "blocklist", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Payments to " + id + " are no longer blocked"})
}

// CheckPayee handles checking a single payee.
// @Summary     Check a payee
// @Description Report whether payments to a UPI id are blocked
// @Tags        blocklist
// @Produce     json
// @Param       payee_id query string true "UPI id"
// @Success     200 {object} map[string]any "Blocked flag"
// @Failure     400 {object} ErrorResponse "Invalid payee"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /blocklist/check [get]
func (h *BlocklistHandler) CheckPayee(c *gin.Context) {
	payee := c.Query("payee_id")
	if models.NormalizePayee(payee) == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPayee, "payee_id is required"))
		return
	}

	blocked, err := h.blocklist.IsBlocked(c.Request.Context(), payee)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payee_id": models.NormalizePayee(payee), "blocked": blocked})
}
