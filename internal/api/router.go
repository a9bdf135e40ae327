package api

import (
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/taxdesk/receipt-engine/internal/api/handlers"
	"github.com/taxdesk/receipt-engine/internal/api/middleware"
	"github.com/taxdesk/receipt-engine/internal/repository"
	"github.com/taxdesk/receipt-engine/internal/storage"
	"github.com/taxdesk/receipt-engine/internal/websocket"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.EvidenceStore
	Hub         *websocket.Hub
	Logger      *slog.Logger
	// Security configuration
	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      int      // Requests per second (0 = use env default)
	RateBurst      int      // Burst size for rate limiter
	EnableAuth     bool     // Enable API key authentication
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security Middleware (applied in correct order)
	// 1. Recover from panics
	e.Use(middleware.Recover())

	// 2. Security headers (applied to all responses)
	e.Use(middleware.SecureHeaders())

	// 3. CORS - Set environment variable if origins provided in config
	if len(cfg.AllowedOrigins) > 0 {
		os.Setenv("ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	}
	e.Use(middleware.SecureCORS())

	// 4. Rate limiting - use RateLimiterWithConfig if custom values provided
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(float64(cfg.RateLimit), cfg.RateBurst, cfg.Logger))
	} else {
		e.Use(middleware.RateLimiter(cfg.Logger))
	}

	// 5. Request logging
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Initialize repositories
	txnRepo := repository.NewTransactionRepository(cfg.DB)
	evidenceRepo := repository.NewEvidenceFileRepository(cfg.DB, cfg.FileStorage)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	parseHandler := handlers.NewParseHandler()
	txnHandler := handlers.NewTransactionHandler(txnRepo, cfg.Hub)
	evidenceHandler := handlers.NewEvidenceHandler(evidenceRepo, txnRepo, cfg.FileStorage)
	wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.Logger)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket endpoint (origin-checked in the upgrader)
	if cfg.Hub != nil {
		e.GET("/ws", wsHandler.Connect)
	}

	// API routes
	api := e.Group("/api")

	// Apply API key authentication if enabled
	// Set API_KEY env var if provided in config
	if cfg.EnableAuth && cfg.APIKey != "" {
		os.Setenv("API_KEY", cfg.APIKey)
	}
	api.Use(middleware.APIKeyAuth(cfg.Logger))

	// Parse routes (stateless extraction)
	parse := api.Group("/parse")
	parse.POST("/text", parseHandler.ParseText)
	parse.POST("/eml", parseHandler.ParseEML)

	// Transaction draft routes
	transactions := api.Group("/transactions")
	transactions.POST("", txnHandler.Create)
	transactions.GET("", txnHandler.List)
	transactions.GET("/:id", txnHandler.Get)
	transactions.PATCH("/:id", txnHandler.Update)
	transactions.DELETE("/:id", txnHandler.Delete)

	// Population routes (merge a source into a draft)
	transactions.POST("/:id/populate/email", txnHandler.PopulateFromEmail)
	transactions.POST("/:id/populate/ocr", txnHandler.PopulateFromOCR)
	transactions.POST("/:id/apply-subtotal", txnHandler.ApplySubtotal)

	// Line item routes (nested under transactions)
	transactions.POST("/:id/items", txnHandler.AddItem)
	transactions.POST("/:id/items/select-all", txnHandler.SelectAllItems)
	transactions.PATCH("/:id/items/:item_id", txnHandler.UpdateItem)
	transactions.DELETE("/:id/items/:item_id", txnHandler.DeleteItem)

	// Evidence routes (nested under transactions)
	transactions.POST("/:id/evidence", evidenceHandler.Upload)
	transactions.GET("/:id/evidence", evidenceHandler.List)

	// Evidence routes (standalone)
	evidence := api.Group("/evidence")
	evidence.GET("/:id/download", evidenceHandler.Download)
	evidence.DELETE("/:id", evidenceHandler.Delete)

	return e
}
