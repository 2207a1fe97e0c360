package routes

import (
	"marketplace-service/controllers"
	"marketplace-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the order and approval workflow endpoints. Role
// enforcement happens here; the engines re-validate state legality only.
func RegisterRoutes(r *gin.Engine, oc *controllers.OrderController, pc *controllers.ProductController) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	orders.POST("", oc.CreateOrder)
	orders.GET("", oc.GetOrders)
	orders.GET("/:id", oc.GetOrderByID)

	products := r.Group("/products")
	products.Use(middleware.AuthMiddleware(), middleware.RequireRoles(middleware.RoleContractor))
	products.POST("/:id/submit", pc.SubmitForApproval)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleSuperAdmin))
	admin.GET("/orders", oc.GetAllOrders)
	admin.PATCH("/orders/:id/status", oc.UpdateOrderStatus)
	admin.GET("/orders/:id/history", oc.GetOrderHistory)
	admin.GET("/products/pending", pc.PendingProducts)
	admin.POST("/products/:id/approve", pc.Approve)
	admin.POST("/products/:id/reject", pc.Reject)
	admin.POST("/products/:id/request-changes", pc.RequestChanges)
	admin.GET("/products/:id/history", pc.ProductHistory)
}
