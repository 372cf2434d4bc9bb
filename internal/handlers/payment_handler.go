package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/services"
)

// PaymentHandler handles payment gate requests.
type PaymentHandler struct {
	gate         services.PaymentGateServicer
	auditService services.AuditServicer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(gate services.PaymentGateServicer, auditService services.AuditServicer) *PaymentHandler {
	return &PaymentHandler{gate: gate, auditService: auditService}
}

// SubmitPaymentRequest represents the request payload for starting a payment.
// Payee and amount are checked by the gate so that their own error codes
// reach the client.
type SubmitPaymentRequest struct {
	PayeeID   string `json:"payee_id"`
	PayeeName string `json:"payee_name" binding:"max=100"`
	Amount    string `json:"amount"`
	Category  string `json:"category" binding:"omitempty,expense_category"`
	Note      string `json:"note" binding:"max=255"`
}

// SubmitQRPaymentRequest represents the request payload for paying a scanned
// UPI QR code.
type SubmitQRPaymentRequest struct {
	Code     string `json:"code" binding:"required"`
	Amount   string `json:"amount" binding:"omitempty,decimal_amount"`
	Category string `json:"category" binding:"omitempty,expense_category"`
	Note     string `json:"note" binding:"max=255"`
}

// SubmitPayment runs a payment through the blocklist and spending limits.
// @Summary     Submit a payment
// @Description Check a payment against the blocked vendors and spending limits, and hand it to the UPI app when allowed. A blocked payment is returned with its blocked state.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       request body SubmitPaymentRequest true "Payment details"
// @Success     201 {object} models.PaymentAttempt "Payment attempt"
// @Failure     400 {object} ErrorResponse "Invalid payee, amount or category"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Failure     502 {object} ErrorResponse "UPI app could not be launched"
// @Router      /payments [post]
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	attempt, err := h.gate.Submit(c.Request.Context(), services.PaymentRequest{
		PayeeID:   req.PayeeID,
		PayeeName: req.PayeeName,
		Amount:    req.Amount,
		Category:  req.Category,
		Note:      req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": attempt})
}

// SubmitQRPayment runs the payment encoded in a UPI QR code through the gate.
// @Summary     Submit a QR payment
// @Description Parse a scanned upi://pay code and check the payment it describes
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       request body SubmitQRPaymentRequest true "QR code and optional amount"
// @Success     201 {object} models.PaymentAttempt "Payment attempt"
// @Failure     400 {object} ErrorResponse "Invalid QR code or amount"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Failure     502 {object} ErrorResponse "UPI app could not be launched"
// @Router      /payments/qr [post]
func (h *PaymentHandler) SubmitQRPayment(c *gin.Context) {
	var req SubmitQRPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	attempt, err := h.gate.SubmitQR(c.Request.Context(), services.QRPaymentRequest{
		Code:     req.Code,
		Amount:   req.Amount,
		Category: req.Category,
		Note:     req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": attempt})
}

// GetPayment handles retrieving a payment attempt.
// @Summary     Get payment by ID
// @Description Get the current state of a payment attempt
// @Tags        payments
// @Produce     json
// @Param       id path string true "Payment ID"
// @Success     200 {object} models.PaymentAttempt "Payment attempt"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Router      /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	attempt, err := h.gate.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": attempt})
}

// RequestOverride opens the emergency prompt for a blocked payment.
// @Summary     Request an emergency override
// @Description Move a blocked payment to the emergency prompt
// @Tags        payments
// @Produce     json
// @Param       id path string true "Payment ID"
// @Success     200 {object} models.PaymentAttempt "Payment attempt"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     409 {object} ErrorResponse "Payment is not blocked"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Router      /payments/{id}/override [post]
func (h *PaymentHandler) RequestOverride(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	attempt, err := h.gate.RequestOverride(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "REQUEST_EMERGENCY_OVERRIDE", "payment", attempt.ID, c.ClientIP(),
		map[string]any{"payee_id": attempt.PayeeID, "amount": attempt.Amount, "reason": attempt.BlockReason})

	c.JSON(http.StatusOK, gin.H{"payment": attempt})
}

// ConfirmOverride records a blocked payment as an emergency expense and
// hands it to the UPI app.
// @Summary     Confirm an emergency override
// @Description Approve the emergency prompt: the payment is recorded with the emergency tag and launched without re-checking limits
// @Tags        payments
// @Produce     json
// @Param       id path string true "Payment ID"
// @Success     200 {object} models.PaymentAttempt "Payment attempt"
// @Failure     403 {object} ErrorResponse "Override refused for a blocked vendor"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     409 {object} ErrorResponse "No open emergency prompt"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Failure     502 {object} ErrorResponse "UPI app could not be launched"
// @Router      /payments/{id}/override/confirm [post]
func (h *PaymentHandler) ConfirmOverride(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	attempt, err := h.gate.ConfirmOverride(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "EMERGENCY_OVERRIDE", "payment", attempt.ID, c.ClientIP(),
		map[string]any{
			"payee_id":       attempt.PayeeID,
			"amount":         attempt.Amount,
			"reason":         attempt.BlockReason,
			"transaction_id": attempt.TransactionID,
		})

	c.JSON(http.StatusOK, gin.H{"payment": attempt})
}

// CancelPayment abandons a blocked payment.
// @Summary     Cancel a payment
// @Description Cancel a blocked payment or an open emergency prompt
// @Tags        payments
// @Produce     json
// @Param       id path string true "Payment ID"
// @Success     200 {object} models.PaymentAttempt "Payment attempt"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     409 {object} ErrorResponse "Payment cannot be cancelled"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Router      /payments/{id}/cancel [post]
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	attempt, err := h.gate.Cancel(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": attempt})
}
