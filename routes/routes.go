package routes

import (
	"net/http"

	"ticket-marketplace/controllers"
	"ticket-marketplace/middleware"
	"ticket-marketplace/models"
	"ticket-marketplace/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register wires every endpoint. The payment-success route is the only write
// path left unauthenticated: the gateway session it retrieves is the trust
// source, and the engine behind it is idempotent.
func Register(
	r *gin.Engine,
	jwtSecret string,
	roles *services.RoleService,
	pc *controllers.PaymentController,
	tc *controllers.TicketController,
	oc *controllers.OrderController,
	uc *controllers.UserController,
) {
	auth := middleware.AuthMiddleware(jwtSecret)
	seller := middleware.RequireRole(roles, models.RoleSeller)
	admin := middleware.RequireRole(roles, models.RoleAdmin)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello from Server..")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Payments
	r.POST("/create-checkout-session", pc.CreateCheckoutSession)
	r.POST("/payment-success", pc.PaymentSuccess)

	// Tickets
	r.GET("/tickets", tc.List)
	r.GET("/tickets/:id", tc.Get)
	r.POST("/tickets", auth, seller, tc.Create)
	r.PATCH("/tickets/:id", auth, seller, tc.Update)
	r.DELETE("/tickets/:id", auth, seller, tc.Delete)
	r.GET("/my-inventory/:email", auth, seller, tc.SellerInventory)

	// Orders
	r.POST("/orders", auth, oc.Create)
	r.GET("/my-orders", auth, oc.MyOrders)
	r.GET("/manage-orders/:email", auth, seller, oc.SellerOrders)
	r.PATCH("/orders/:id", auth, oc.UpdateStatus)
	r.DELETE("/orders/:id", auth, oc.Delete)

	// Users
	r.POST("/user", uc.Upsert)
	r.GET("/user/role", auth, uc.Role)
	r.POST("/become-seller", auth, uc.BecomeSeller)
	r.GET("/seller-requests", auth, admin, uc.SellerRequests)
	r.GET("/users", auth, admin, uc.ListUsers)
	r.PATCH("/update-role", auth, admin, uc.UpdateRole)
}
