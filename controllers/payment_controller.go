package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odark007/liq-store/services"
	"go.uber.org/zap"
)

type PaymentController struct {
	paymentService *services.PaymentService
	paystack       *services.PaystackClient
	logger         *zap.Logger
}

func NewPaymentController(paymentService *services.PaymentService, paystack *services.PaystackClient, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		paystack:       paystack,
		logger:         logger,
	}
}

type initializePaymentRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	CallbackURL string    `json:"callback_url"`
}

// Initialize starts a hosted-checkout transaction for a pending order and
// returns the gateway's authorization URL.
func (pc *PaymentController) Initialize(ctx *gin.Context) {
	var req initializePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, svcErr := pc.paymentService.InitializePayment(ctx.Request.Context(), req.OrderID, req.CallbackURL)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Verify confirms a transaction by reference, typically from the gateway's
// redirect back to the storefront.
func (pc *PaymentController) Verify(ctx *gin.Context) {
	reference := ctx.Query("reference")
	if reference == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "reference query parameter is required"})
		return
	}

	order, svcErr := pc.paymentService.VerifyPayment(ctx.Request.Context(), reference)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// Webhook receives gateway events. The signature covers the raw body, so
// the body is read before any JSON decoding; a bad signature reads nothing
// and writes nothing.
func (pc *PaymentController) Webhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	signature := ctx.GetHeader("X-Paystack-Signature")
	if !pc.paystack.VerifyWebhookSignature(body, signature) {
		pc.logger.Warn("webhook signature rejected", zap.String("ip", ctx.ClientIP()))
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var event services.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event"})
		return
	}

	if svcErr := pc.paymentService.HandleWebhook(ctx.Request.Context(), &event); svcErr != nil {
		// Non-2xx so the gateway retries per its own policy.
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
