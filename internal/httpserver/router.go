package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), requestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", sessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(attachUser(deps.Tokens))

	h := &handlers{deps: deps, logger: logger}

	router.GET("/health", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", requireAuth, h.me)
		auth.POST("/change-password", requireAuth, h.changePassword)
	}

	users := router.Group("/users", requireAuth)
	{
		users.GET("/me", h.getProfile)
		users.PUT("/me", h.updateProfile)
	}

	cars := router.Group("/cars")
	{
		cars.GET("", h.listCars)
		cars.GET("/search", h.searchCars)
		cars.GET("/facets", h.carFacets)
		cars.GET("/:id", h.getCar)
		cars.POST("", requireAdmin, h.createCar)
		cars.PUT("/:id", requireAdmin, h.updateCar)
		cars.DELETE("/:id", requireAdmin, h.deleteCar)
		cars.PATCH("/:id/image/refresh", requireAdmin, h.refreshCarImage)
	}
	router.POST("/admin/cars/fill-images", requireAdmin, h.fillCarImages)

	cart := router.Group("/cart")
	{
		cart.GET("", h.getCart)
		cart.POST("/add", h.addCartItem)
		cart.DELETE("/item/:id", h.removeCartItem)
		cart.POST("/clear", h.clearCart)
		cart.POST("/reserve", h.reserveCar)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", requireAdmin, h.adminListOrders)
		// "/:id" doubles as "/by-email" because gin cannot register a
		// static sibling next to a path parameter.
		orders.GET("/:id", h.getOrderByID)
		orders.POST("", requireAuth, h.placeOrder)
		orders.DELETE("/:id", h.cancelOrder)
	}

	my := router.Group("/my", requireAuth)
	{
		my.GET("/orders", h.myOrders)
		my.PATCH("/orders/:id/rating", h.rateOrder)
	}

	return router
}
