package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/config"
	"taskboard/handlers"
	"taskboard/logging"
	"taskboard/repositories"
	"taskboard/services"
	"taskboard/utils"
)

func main() {
	cfg := config.Load()
	logging.InitLogger(logging.Options{
		SystemName: "taskboard-api",
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		Stdout:     true,
	})

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting taskboard API...")
	if cfg.UsesDefaultSecret() {
		logging.Logger.Warn("Event ID: CONFIG_WARNING, Description: JWT_SECRET is not set, using the development default")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	stores, err := repositories.Open(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoUseTransactions)
	cancel()
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer stores.Close(context.Background())

	var blacklist repositories.TokenBlacklist = repositories.NewMemoryTokenBlacklist()
	if redisBlacklist := repositories.NewRedisTokenBlacklist(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); redisBlacklist != nil {
		blacklist = redisBlacklist
		defer redisBlacklist.Close()
	}

	var notificationRepo repositories.NotificationRepository = repositories.NopNotificationRepository{}
	if cfg.CassandraHosts != "" {
		cassandra, err := repositories.NewNotificationRepo(cfg.CassandraHosts)
		if err != nil {
			logging.Logger.Errorf("Event ID: CASSANDRA_UNAVAILABLE, Description: Notifications disabled: %v", err)
		} else {
			notificationRepo = cassandra
		}
	}
	defer notificationRepo.Close()

	jwtService := services.NewJWTService(cfg.JWTSecret)
	authService := services.NewAuthService(stores.Members, jwtService, blacklist)
	if cfg.PasswordBlacklist != "" {
		passwords, err := utils.LoadPasswordBlacklist(cfg.PasswordBlacklist)
		if err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: Failed to load password blacklist: %v", err)
		}
		authService.SetPasswordBlacklist(passwords)
		logging.Logger.Infof("Event ID: BLACKLIST_LOADED, Description: Loaded %d blacklisted passwords", len(passwords))
	}

	notificationService := services.NewNotificationService(notificationRepo)
	router := handlers.NewRouter(handlers.Services{
		Auth:          authService,
		Tasks:         services.NewTaskService(stores.Tasks, stores.Members, stores.Projects, notificationService),
		Projects:      services.NewProjectService(stores.Projects, stores.Tasks, stores.Tx),
		Members:       services.NewMemberService(stores.Members, stores.Tasks, stores.Tx),
		Notifications: notificationService,
	}, cfg.CORSOrigin)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Logger.Info("Event ID: SERVICE_STOP, Description: Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SHUTDOWN_ERROR, Description: Graceful shutdown failed: %v", err)
	}
}
