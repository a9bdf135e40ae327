package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/taxdesk/receipt-engine/internal/api"
	"github.com/taxdesk/receipt-engine/internal/config"
	"github.com/taxdesk/receipt-engine/internal/database"
	"github.com/taxdesk/receipt-engine/internal/repository"
	"github.com/taxdesk/receipt-engine/internal/smtp"
	"github.com/taxdesk/receipt-engine/internal/storage"
	"github.com/taxdesk/receipt-engine/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting receipt engine")
	cfg.LogConfig(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	store, err := storage.NewLocalStore(cfg.EvidenceStoragePath)
	if err != nil {
		logger.Error("failed to initialize evidence storage", slog.Any("error", err))
		os.Exit(1)
	}

	hub := websocket.NewHub(logger)
	go hub.Run()

	var allowedOrigins []string
	if cfg.AllowedOrigins != "" {
		allowedOrigins = strings.Split(cfg.AllowedOrigins, ",")
	}

	e := api.NewRouter(&api.RouterConfig{
		DB:             db,
		FileStorage:    store,
		Hub:            hub,
		Logger:         logger,
		APIKey:         cfg.APIKey,
		AllowedOrigins: allowedOrigins,
		RateLimit:      int(cfg.RateLimitRequests),
		RateBurst:      cfg.RateLimitBurst,
		EnableAuth:     cfg.APIKey != "",
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.Info("HTTP server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("HTTP server stopped", slog.Any("error", err))
		}
	}()

	var smtpServer interface{ Close() error }
	if cfg.SMTPIngestEnabled {
		backend := smtp.NewBackend(&smtp.BackendConfig{
			TxnRepo:      repository.NewTransactionRepository(db),
			EvidenceRepo: repository.NewEvidenceFileRepository(db, store),
			Store:        store,
			WSHub:        hub,
			Logger:       logger,
		})

		serverCfg := smtp.LoadServerConfigFromEnv()
		serverCfg.Addr = fmt.Sprintf(":%d", cfg.SMTPPort)
		server := smtp.NewSecureServer(backend, serverCfg)
		smtpServer = server

		go func() {
			logger.Info("SMTP ingest listening", slog.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil {
				logger.Info("SMTP server stopped", slog.Any("error", err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if smtpServer != nil {
		if err := smtpServer.Close(); err != nil {
			logger.Error("SMTP shutdown error", slog.Any("error", err))
		}
	}
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
