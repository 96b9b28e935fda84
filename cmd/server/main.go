package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/roamly/experiences-backend/internal/config"
	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/handlers"
	"github.com/roamly/experiences-backend/internal/middleware"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/roamly/experiences-backend/internal/utils"
	"github.com/roamly/experiences-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Roamly Experiences Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	experienceRepo := database.NewExperienceRepository(db)
	reviewRepo := database.NewReviewRepository(db)
	paymentRepo := database.NewPaymentRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	authService := services.NewAuthService(userRepo, jwtService, cfg.Security.BcryptCost, logger)
	bookingService := services.NewBookingService(bookingRepo, experienceRepo, logger)
	experienceService := services.NewExperienceService(experienceRepo)
	reviewService := services.NewReviewService(reviewRepo, experienceRepo)
	paymentService := services.NewPaymentService(paymentRepo, logger)
	searchService := services.NewSearchService(experienceRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	experienceHandler := handlers.NewExperienceHandler(experienceService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	searchHandler := handlers.NewSearchHandler(searchService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	authRequired := middleware.AuthMiddleware(jwtService, logger)

	// Account routes
	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(authRequired)
		{
			protected.GET("/profile", authHandler.Profile)
		}
	}

	// Booking routes (all protected)
	bookings := router.Group("/bookings")
	bookings.Use(authRequired)
	{
		bookings.GET("", bookingHandler.ListBookings)
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PUT("/:id", bookingHandler.UpdateBooking)
		bookings.DELETE("/:id", bookingHandler.DeleteBooking)
		bookings.POST("/:id/reservations", bookingHandler.ManageReservations)
		bookings.DELETE("/:id/reservations", bookingHandler.DeleteReservations)
	}

	// Experience catalog routes
	experiences := router.Group("/experiences")
	{
		experiences.GET("", experienceHandler.ListExperiences)
		experiences.GET("/:id", experienceHandler.GetExperience)
		experiences.GET("/:id/schedules", experienceHandler.ListSchedules)
		experiences.GET("/:id/images", experienceHandler.ListImages)
		experiences.GET("/:id/reviews", middleware.OptionalAuth(jwtService), reviewHandler.ListForExperience)

		// Admin-managed catalog writes
		admin := experiences.Group("")
		admin.Use(authRequired, middleware.RequireAdmin())
		{
			admin.PUT("/:id", experienceHandler.UpdateExperience)
			admin.POST("/:id/schedules", experienceHandler.AddSchedules)
			admin.PUT("/:id/schedules", experienceHandler.UpdateSchedules)
			admin.DELETE("/:id/schedules", experienceHandler.DeleteSchedules)
			admin.POST("/:id/images", experienceHandler.AddImages)
			admin.DELETE("/:id/images", experienceHandler.DeleteImages)
		}
	}

	router.GET("/tags", experienceHandler.ListTags)
	router.GET("/search", searchHandler.Search)

	// Review routes (public reads, protected writes)
	reviews := router.Group("/reviews")
	{
		reviews.GET("", middleware.OptionalAuth(jwtService), reviewHandler.ListReviews)
		reviews.GET("/:id", middleware.OptionalAuth(jwtService), reviewHandler.GetReview)

		reviewWrites := reviews.Group("")
		reviewWrites.Use(authRequired)
		{
			reviewWrites.POST("", reviewHandler.CreateReview)
			reviewWrites.PUT("/:id", reviewHandler.UpdateReview)
			reviewWrites.DELETE("/:id", reviewHandler.DeleteReview)
		}
	}

	// Payment routes (all protected)
	payments := router.Group("/payments")
	payments.Use(authRequired)
	{
		payments.GET("", paymentHandler.ListPayments)
		payments.GET("/:id", paymentHandler.GetPayment)
	}

	paymentMethods := router.Group("/payment_methods")
	paymentMethods.Use(authRequired)
	{
		paymentMethods.GET("", paymentHandler.ListMethods)
		paymentMethods.GET("/:id", paymentHandler.GetMethod)
		paymentMethods.POST("", paymentHandler.CreateMethod)
		paymentMethods.PUT("/:id", paymentHandler.UpdateMethod)
		paymentMethods.DELETE("/:id", paymentHandler.DeleteMethod)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(c.Request.UserAgent())

		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
			"device_type": device.DeviceType,
			"os":          device.OS,
			"browser":     device.Browser,
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		statusCode := http.StatusOK
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   dbStatus,
			"version":  version,
			"database": dbStatus,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
