package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/realtime-chat/internal/assets"
	"github.com/iliyamo/realtime-chat/internal/config"
	"github.com/iliyamo/realtime-chat/internal/database"
	"github.com/iliyamo/realtime-chat/internal/email"
	"github.com/iliyamo/realtime-chat/internal/handler"
	"github.com/iliyamo/realtime-chat/internal/middleware"
	"github.com/iliyamo/realtime-chat/internal/queue"
	"github.com/iliyamo/realtime-chat/internal/repository"
	"github.com/iliyamo/realtime-chat/internal/router"
	queue_publisher "github.com/iliyamo/realtime-chat/internal/service"
)

func main() {
	_ = godotenv.Load() // local development convenience; real env wins

	cfg := config.Load() // exits here if JWT_SECRET or DB settings are missing

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	messages := repository.NewMessageRepo(db)

	uploader := assets.NewCloudinaryClient(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
	)
	mailer := email.NewResendClient(os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"))

	authHandler := handler.NewAuthHandler(cfg, users, uploader, queue_publisher.AMQPPublisher{})
	msgHandler := handler.NewMessageHandler(users, messages, uploader)

	guard := middleware.SessionGuard(cfg.JWTSecret, users)

	// Redis is optional: with no reachable server the limiter is a no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Welcome-email consumer runs for the life of the process and survives
	// broker restarts on its own.
	go func() {
		if err := queue.StartWelcomeConsumer(mailer); err != nil {
			log.Printf("welcome-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, authHandler, msgHandler, guard, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	// Block until asked to stop, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
