package httpserver

import (
	"log"
	"time"

	"quickbites-backend/internal/service/cart"
	"quickbites-backend/internal/service/checkout"
	"quickbites-backend/internal/service/menu"
	"quickbites-backend/internal/service/order"
	"quickbites-backend/internal/service/payment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the service dependencies handlers need.
type Deps struct {
	MenuSvc     *menu.Service
	CartSvc     *cart.Service
	CheckoutSvc *checkout.Service
	OrderSvc    *order.Service
	PaymentSvc  *payment.Service
	JWTSecret   string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// The processor authenticates with the event signature, not a session.
	router.POST("/api/payments/webhook", paymentWebhookHandler(deps.PaymentSvc))

	router.GET("/api/menu", listMenuHandler(deps.MenuSvc))
	router.GET("/api/menu/:id", getMenuItemHandler(deps.MenuSvc))

	api := router.Group("/api", authMiddleware(deps.JWTSecret))
	{
		api.GET("/cart", getCartHandler(deps.CartSvc))
		api.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		api.PUT("/cart/items/:itemId", updateCartItemHandler(deps.CartSvc))
		api.DELETE("/cart/items/:itemId", removeCartItemHandler(deps.CartSvc))
		api.DELETE("/cart", clearCartHandler(deps.CartSvc))
		api.GET("/cart/summary", cartSummaryHandler(deps.CartSvc))
		api.GET("/cart/count", cartCountHandler(deps.CartSvc))

		api.POST("/orders", createOrderHandler(deps.CheckoutSvc))
		api.GET("/orders", listOrdersHandler(deps.OrderSvc))
		api.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
		api.PUT("/orders/:id/cancel", cancelOrderHandler(deps.OrderSvc))

		api.POST("/payments/intent", createIntentHandler(deps.PaymentSvc))
		api.POST("/payments/confirm", confirmPaymentHandler(deps.PaymentSvc))

		staff := api.Group("", requireStaff())
		{
			staff.PUT("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
			staff.GET("/menu/all", listFullMenuHandler(deps.MenuSvc))
			staff.POST("/menu", createMenuItemHandler(deps.MenuSvc))
			staff.PUT("/menu/:id", updateMenuItemHandler(deps.MenuSvc))
			staff.PUT("/menu/:id/availability", setMenuAvailabilityHandler(deps.MenuSvc))
		}
	}

	return router
}
