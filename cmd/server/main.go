package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/blindys/blindys-backend/internal/auth"
	"github.com/blindys/blindys-backend/internal/config"
	"github.com/blindys/blindys-backend/internal/es"
	"github.com/blindys/blindys-backend/internal/events"
	"github.com/blindys/blindys-backend/internal/handlers"
	"github.com/blindys/blindys-backend/internal/logging"
	"github.com/blindys/blindys-backend/internal/tokens"
	httpserver "github.com/blindys/blindys-backend/internal/transport/http"
)

const (
	accessTokenTTL  = 5 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

func main() {
	configuration := config.LoadConfig()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	jwtSecret := []byte(configuration.JWT_SECRET)
	issuer := tokens.NewIssuer(jwtSecret, accessTokenTTL, refreshTokenTTL)

	var prod *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	authService := &auth.Service{
		Store:  &auth.Store{DB: db},
		Tokens: issuer,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestMiddleware(logger))

	deps := httpserver.Deps{
		DB:           db,
		JWTSecret:    jwtSecret,
		AuthHandler:  &handlers.AuthHandler{Service: authService, Producer: prod},
		UserHandler:  &handlers.UserHandler{DB: db},
		TrackHandler: &handlers.TrackHandler{DB: db, ES: esClient, Index: "track"},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
