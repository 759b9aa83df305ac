package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/gin-gonic/gin"

	"github.com/KeshavK2089/tnplots/internal/cache"
	"github.com/KeshavK2089/tnplots/internal/config"
	"github.com/KeshavK2089/tnplots/internal/handler"
	"github.com/KeshavK2089/tnplots/internal/middleware"
	"github.com/KeshavK2089/tnplots/internal/mongo"
	"github.com/KeshavK2089/tnplots/internal/repository"
	"github.com/KeshavK2089/tnplots/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := repository.Migrate(db, "migrations"); err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	mongoClient, err := mongo.NewClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}

	var pageCache *cache.Client
	if cfg.RedisAddr != "" {
		pageCache = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer pageCache.Close()
	}

	plotRepo := repository.NewPlotRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	photoRepo := repository.NewPhotoRepository(mongoClient, cfg.MongoDB)

	listingSvc := service.NewListingService(plotRepo, pageCache)
	submissionSvc := service.NewSubmissionService(plotRepo, plotRepo, sellerRepo, photoRepo)
	reviewSvc := service.NewReviewService(plotRepo)

	plotHandler := &handler.PlotHandler{Listings: listingSvc}
	photoHandler := &handler.PhotoHandler{Media: photoRepo}
	submitHandler := &handler.SubmitHandler{Submissions: submissionSvc}
	adminHandler := &handler.AdminHandler{Reviews: reviewSvc, Config: cfg}

	r := gin.Default()
	api := r.Group("/api")

	plotHandler.RegisterPublicRoutes(api)
	photoHandler.RegisterRoutes(api)
	submitHandler.RegisterRoutes(api)
	adminHandler.RegisterLoginRoute(api)

	protected := api.Group("/")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	plotHandler.RegisterAdminRoutes(protected)
	adminHandler.RegisterRoutes(protected)

	log.Printf("tnplots listing service running on :%s …", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
