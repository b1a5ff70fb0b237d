package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odark007/liq-store/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// sessionID extracts the cart session key; carts are anonymous and keyed by
// a client-generated header, not by user identity.
func sessionID(ctx *gin.Context) (string, bool) {
	id := ctx.GetHeader("X-Session-ID")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return "", false
	}
	return id, true
}

func (cc *CartController) GetCart(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	c, svcErr := cc.cartService.GetCart(ctx.Request.Context(), sid)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

type addCartItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

func (cc *CartController) AddItem(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req addCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	c, svcErr := cc.cartService.AddVariant(ctx.Request.Context(), sid, req.VariantID, req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "details": svcErr.Details})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (cc *CartController) UpdateItem(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	c, svcErr := cc.cartService.UpdateQuantity(ctx.Request.Context(), sid, ctx.Param("variantId"), req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "details": svcErr.Details})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (cc *CartController) RemoveItem(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	c, svcErr := cc.cartService.RemoveLine(ctx.Request.Context(), sid, ctx.Param("variantId"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (cc *CartController) ClearCart(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	if svcErr := cc.cartService.ClearCart(ctx.Request.Context(), sid); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
