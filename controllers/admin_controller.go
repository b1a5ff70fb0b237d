package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/services"
)

// AdminController is the back-office surface: order management, inventory
// adjustments and store configuration. Every route sits behind RequireAdmin.
type AdminController struct {
	orderService    *services.OrderService
	settingsService *services.SettingsService
}

func NewAdminController(orderService *services.OrderService, settingsService *services.SettingsService) *AdminController {
	return &AdminController{
		orderService:    orderService,
		settingsService: settingsService,
	}
}

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}

func parseIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func (ac *AdminController) GetOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	orders, total, svcErr := ac.orderService.ListOrders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (ac *AdminController) GetOrderByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	order, svcErr := ac.orderService.GetOrder(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// UpdateOrderStatus applies payment/delivery status changes, triggering the
// compensating restock and customer notifications as side effects.
func (ac *AdminController) UpdateOrderStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req services.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	order, svcErr := ac.orderService.UpdateStatus(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

type restockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (ac *AdminController) RestockInventory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req restockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	inv, svcErr := ac.orderService.RestockInventory(ctx.Request.Context(), id, req.Delta)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, inv)
}

func (ac *AdminController) GetSettings(ctx *gin.Context) {
	settings, svcErr := ac.settingsService.GetSettings(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, settings)
}

func (ac *AdminController) UpdateSettings(ctx *gin.Context) {
	var fields map[string]interface{}
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	settings, svcErr := ac.settingsService.UpdateSettings(ctx.Request.Context(), fields)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, settings)
}

func (ac *AdminController) ListZones(ctx *gin.Context) {
	zones, svcErr := ac.settingsService.ListZones(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, zones)
}

func (ac *AdminController) SaveZone(ctx *gin.Context) {
	var zone models.DeliveryZone
	if err := ctx.ShouldBindJSON(&zone); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	saved, svcErr := ac.settingsService.SaveZone(ctx.Request.Context(), &zone)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, saved)
}

func (ac *AdminController) DeleteZone(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := ac.settingsService.DeleteZone(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Zone deleted"})
}

func (ac *AdminController) ListTaxes(ctx *gin.Context) {
	taxes, svcErr := ac.settingsService.ListTaxes(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, taxes)
}

func (ac *AdminController) SaveTax(ctx *gin.Context) {
	var tax models.Tax
	if err := ctx.ShouldBindJSON(&tax); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	saved, svcErr := ac.settingsService.SaveTax(ctx.Request.Context(), &tax)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, saved)
}

func (ac *AdminController) DeleteTax(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := ac.settingsService.DeleteTax(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Tax deleted"})
}

func (ac *AdminController) GetTemplate(ctx *gin.Context) {
	tmpl, svcErr := ac.settingsService.GetTemplate(ctx.Request.Context(), ctx.Param("triggerId"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, tmpl)
}

func (ac *AdminController) UpdateTemplate(ctx *gin.Context) {
	var fields map[string]interface{}
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	tmpl, svcErr := ac.settingsService.UpdateTemplate(ctx.Request.Context(), ctx.Param("triggerId"), fields)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, tmpl)
}
