package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/talent-app/auth"
	"github.com/diewo77/talent-app/internal/config"
	"github.com/diewo77/talent-app/internal/db"
	"github.com/diewo77/talent-app/internal/mailer"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		log.Println("Migrations completed successfully")
		return
	}

	// Sessions belonging to deleted accounts must not resolve.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	app := server.NewApp(dbConn, cfg, mailer.New(cfg.Mail))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (env=%s)", cfg.Server.Port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
