package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/car-rent-api/controllers"
	"github.com/kendall-kelly/car-rent-api/middleware"
	"github.com/kendall-kelly/car-rent-api/repository"
	"github.com/kendall-kelly/car-rent-api/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds everything the HTTP layer is built from
type application struct {
	db          *gorm.DB
	logger      *zap.Logger
	corsOrigins []string

	// auth validates the bearer token and stores its subject in the context
	auth gin.HandlerFunc

	users           *services.UserService
	userController  *controllers.UserController
	orderController *controllers.OrderController
}

// newApplication wires repositories, services and controllers over db
func newApplication(db *gorm.DB, logger *zap.Logger, auth gin.HandlerFunc, userInfo services.UserInfoProvider, orderOpts ...services.OrderServiceOption) *application {
	userService := services.NewUserService(repository.NewUserRepository(db), userInfo, logger)

	orderOpts = append([]services.OrderServiceOption{services.WithLogger(logger)}, orderOpts...)
	orderService := services.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCatalogStore(db),
		orderOpts...,
	)

	return &application{
		db:              db,
		logger:          logger,
		auth:            auth,
		users:           userService,
		userController:  controllers.NewUserController(userService, logger),
		orderController: controllers.NewOrderController(orderService, logger),
	}
}

// setupRouter creates and configures the router
func setupRouter(app *application) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(app.logger))
	router.Use(middleware.RequestLogger(app.logger))
	router.Use(middleware.Metrics())

	if len(app.corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     app.corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus(app.db))

		// Profiles only need a valid token; the caller may not be registered yet
		users := v1.Group("/users", app.auth)
		{
			users.POST("", app.userController.CreateUser)
			users.GET("/me", app.userController.GetMyProfile)
			users.PUT("/me", app.userController.UpdateMyProfile)
		}

		orders := v1.Group("/orders", app.auth, middleware.LoadCurrentUser(app.users, app.logger))
		{
			orders.POST("", app.orderController.CreateOrder)
			orders.GET("/lessor", app.orderController.ListLessorOrders)
			orders.GET("/renter", app.orderController.ListRenterOrders)
			orders.GET("/:id", app.orderController.GetOrder)
			orders.PATCH("/:id", app.orderController.UpdateOrder)
			orders.POST("/:id/accept", app.orderController.AcceptOrder)
			orders.POST("/:id/reject", app.orderController.RejectOrder)
			orders.POST("/:id/cancel", app.orderController.CancelOrder)
			orders.POST("/:id/start", app.orderController.StartRent)
			orders.POST("/:id/finish", app.orderController.FinishRent)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Car Rent API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
