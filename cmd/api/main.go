package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"unilib/internal/config"
	"unilib/internal/database"
	"unilib/internal/middleware"
	"unilib/internal/modules/auth"
	"unilib/internal/modules/borrow"
	"unilib/internal/modules/catalog"
	"unilib/internal/modules/notification"
	"unilib/internal/modules/request"
	"unilib/internal/modules/review"
	"unilib/internal/modules/users"
	jwtsvc "unilib/internal/pkg/jwt"
	"unilib/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	store := repository.NewStore(db)
	atomic := repository.NewAtomic(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	cookieSecure := cfg.AppEnv != "dev"

	authService := auth.NewService(store.Users, j)
	authHandler := auth.NewHandler(authService, cookieSecure)

	catalogService := catalog.NewService(store.Books, store.Users)
	catalogHandler := catalog.NewHandler(catalogService)

	borrowService := borrow.NewService(atomic, store.Loans)
	borrowHandler := borrow.NewHandler(borrowService)

	requestService := request.NewService(store.Requests, store.Books, store.Users, borrowService)
	requestHandler := request.NewHandler(requestService)

	notificationService := notification.NewService(store.Notifications, store.Loans)
	dispatcher := notification.NewDispatcher(notificationService)
	notificationHandler := notification.NewHandler(notificationService, dispatcher)

	reviewService := review.NewService(store.Reviews, store.Books, store.Users)
	reviewHandler := review.NewHandler(reviewService)

	usersService := users.NewService(store.Users, store.Reviews)
	usersHandler := users.NewHandler(usersService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopScan := dispatcher.Schedule(ctx, 24*time.Hour)
	defer close(stopScan)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			catalogHandler.RegisterRoutes(protected)
			requestHandler.RegisterRoutes(protected)
			borrowHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)
			usersHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
