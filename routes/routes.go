package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/odark007/liq-store/controllers"
	"github.com/odark007/liq-store/middleware"
)

// Register wires the full route table. Storefront routes are open (guests
// check out without accounts); the admin group requires a bearer token with
// the admin role.
func Register(
	r *gin.Engine,
	checkoutController *controllers.CheckoutController,
	cartController *controllers.CartController,
	paymentController *controllers.PaymentController,
	adminController *controllers.AdminController,
	jwtSecret []byte,
	limiter *middleware.RateLimiter,
) {
	cartRoutes := r.Group("/cart")
	cartRoutes.GET("", cartController.GetCart)
	cartRoutes.POST("/items", cartController.AddItem)
	cartRoutes.PATCH("/items/:variantId", cartController.UpdateItem)
	cartRoutes.DELETE("/items/:variantId", cartController.RemoveItem)
	cartRoutes.DELETE("", cartController.ClearCart)

	checkoutRoutes := r.Group("/checkout")
	checkoutRoutes.Use(middleware.OptionalIdentity(jwtSecret), limiter.Middleware())
	checkoutRoutes.POST("", checkoutController.PlaceOrder)

	paymentRoutes := r.Group("/payments")
	paymentRoutes.POST("/initialize", limiter.Middleware(), paymentController.Initialize)
	paymentRoutes.GET("/verify", paymentController.Verify)
	paymentRoutes.POST("/webhook", paymentController.Webhook)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.RequireAdmin(jwtSecret))
	adminRoutes.GET("/orders", adminController.GetOrders)
	adminRoutes.GET("/orders/:id", adminController.GetOrderByID)
	adminRoutes.PATCH("/orders/:id/status", adminController.UpdateOrderStatus)
	adminRoutes.POST("/inventory/:id/restock", adminController.RestockInventory)
	adminRoutes.GET("/settings", adminController.GetSettings)
	adminRoutes.PATCH("/settings", adminController.UpdateSettings)
	adminRoutes.GET("/zones", adminController.ListZones)
	adminRoutes.POST("/zones", adminController.SaveZone)
	adminRoutes.DELETE("/zones/:id", adminController.DeleteZone)
	adminRoutes.GET("/taxes", adminController.ListTaxes)
	adminRoutes.POST("/taxes", adminController.SaveTax)
	adminRoutes.DELETE("/taxes/:id", adminController.DeleteTax)
	adminRoutes.GET("/templates/:triggerId", adminController.GetTemplate)
	adminRoutes.PATCH("/templates/:triggerId", adminController.UpdateTemplate)
}
