package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/db"
	"github.com/renanmoutaa/Portal-Cativo/internal/cache"
	"github.com/renanmoutaa/Portal-Cativo/internal/clients"
	"github.com/renanmoutaa/Portal-Cativo/internal/config"
	"github.com/renanmoutaa/Portal-Cativo/internal/controller"
	"github.com/renanmoutaa/Portal-Cativo/internal/login"
	"github.com/renanmoutaa/Portal-Cativo/internal/web"
	"github.com/renanmoutaa/Portal-Cativo/middleware"
)

// Global loggers for different output streams
var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	infoLogger.Printf("Starting captive portal gateway - Process ID: %d", os.Getpid())

	cfg, err := config.LoadConfig()
	if err != nil {
		errorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		errorLogger.Fatalf("Failed to connect to SQLite: %v", err)
	}

	if err := db.InitializeSchema(sqliteDB); err != nil {
		errorLogger.Fatalf("Failed to initialize database schema: %v", err)
	}

	repoFactory := db.NewRepositoryFactory(sqliteDB, cfg.DatabaseName)
	loginRepo := repoFactory.NewLoginRepository()

	// Database manager for serialized write access
	dbManager := db.NewDBManager()

	// Retention sweep at startup; further sweeps run after every insert
	cutoff := clients.RetentionCutoff(time.Now().UTC())
	if deleted, err := dbManager.DeleteLoginsOlderThan(loginRepo, context.Background(), cutoff); err != nil {
		infoLogger.Printf("Warning: startup retention sweep failed: %v", err)
	} else {
		infoLogger.Printf("Startup retention sweep removed %d login records", deleted)
	}

	// Cache backend is chosen once: redis when reachable, in-process otherwise
	cacheStore := cache.Select(cfg.RedisAddr)
	defer cacheStore.Close()

	controllerClient := controller.NewClient(cfg.UpstreamBaseURL)

	clientsService := clients.NewService(loginRepo, cacheStore, controllerClient, cfg.CacheTTL)
	loginService := login.NewService(loginRepo, dbManager, cacheStore, controllerClient)

	handler := web.NewHandler(loginService, clientsService, cfg)
	router := handler.SetupRoutes()
	corsRouter := middleware.SetupCORS(cfg.CORSOrigin)(router)
	loggedRouter := middleware.LoggingMiddleware(corsRouter)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: loggedRouter,
	}

	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLogger.Fatalf("Server ListenAndServe error: %v", err)
		}
	}()

	waitForShutdown(server, dbManager)
}

func waitForShutdown(server *http.Server, dbManager *db.DBManager) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	sig := <-stop
	infoLogger.Printf("Received shutdown signal: %v", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	infoLogger.Println("Shutting down the server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		errorLogger.Printf("Server Shutdown error: %v", err)
	}
	dbManager.Stop()
	infoLogger.Println("[SUCCESS] Services stopped")
}
