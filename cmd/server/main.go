package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/cache"
	"github.com/pupskillswap/skillswap-api/internal/config"
	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/handlers"
	"github.com/pupskillswap/skillswap-api/internal/middleware"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/pupskillswap/skillswap-api/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	r := gin.Default()

	// Session middleware backed by Redis
	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisAddr(),
		"", // username
		"", // password
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions("skillswap_session", store))

	// Rating stats cache shares the Redis instance with sessions
	statsCache := cache.New(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()}))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	identity := services.NewIdentityService(userRepo)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, identity)
	ratingService := services.NewRatingService(ratingRepo, taskRepo, identity, statsCache)
	reportService := services.NewReportService(reportRepo, taskRepo, identity)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	reportHandler := handlers.NewReportHandler(reportService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "SkillSwap API is running",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("", userHandler.ListUsers)
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateMe)
			users.DELETE("/me", userHandler.DeactivateMe)
			users.GET("/:id", userHandler.GetUser)
			users.POST("/:id/reactivate", userHandler.ReactivateUser)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/accept", taskHandler.AcceptTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/cancel", taskHandler.CancelTask)
		}

		ratings := api.Group("/ratings")
		{
			ratings.POST("", ratingHandler.SubmitRating)
			ratings.POST("/:id/flag", ratingHandler.FlagRating)
			ratings.GET("/user/:id", ratingHandler.ListRatingsForUser)
			ratings.GET("/my/given", ratingHandler.ListMyGivenRatings)
			ratings.GET("/my/received", ratingHandler.ListMyReceivedRatings)
			ratings.GET("/task/:id", ratingHandler.ListRatingsForTask)
		}

		reports := api.Group("/reports")
		{
			reports.POST("", reportHandler.SubmitReport)
			reports.POST("/:id/withdraw", reportHandler.WithdrawReport)
			reports.GET("/my/sent", reportHandler.ListMySentReports)
			reports.GET("/my/received", reportHandler.ListMyReceivedReports)
			reports.GET("/task/:id", reportHandler.ListReportsForTask)
			reports.GET("/:id", reportHandler.GetReport)
		}
	}

	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
