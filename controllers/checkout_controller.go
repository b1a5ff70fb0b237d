package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/odark007/liq-store/middleware"
	"github.com/odark007/liq-store/services"
)

type CheckoutController struct {
	checkoutService *services.CheckoutService
	cartService     *services.CartService
}

func NewCheckoutController(checkoutService *services.CheckoutService, cartService *services.CartService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		cartService:     cartService,
	}
}

// PlaceOrder handles checkout submissions from guests and signed-in users.
func (cc *CheckoutController) PlaceOrder(ctx *gin.Context) {
	var req services.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)

	result, svcErr := cc.checkoutService.PlaceOrder(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	// The session cart served its purpose; clearing it is best-effort.
	if sessionID := ctx.GetHeader("X-Session-ID"); sessionID != "" {
		_ = cc.cartService.ClearCart(ctx.Request.Context(), sessionID)
	}

	ctx.JSON(http.StatusCreated, result)
}
