package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"bookhub/database"
	"bookhub/internal/config"
	"bookhub/internal/httpapi/handler"
	"bookhub/internal/httpapi/repository"
	"bookhub/internal/httpapi/service"
	"bookhub/internal/ingestion/openlibrary"
	"bookhub/internal/ownership"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed["*"] || allowed[origin] {
			if allowed["*"] {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// the response cache is optional: without Redis the gateway just
	// hits the catalogue for every request
	var cache *openlibrary.ResponseCache
	if cfg.RedisURL != "" {
		cache, err = openlibrary.NewResponseCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("redis unavailable, catalogue responses will not be cached", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	catalogue := openlibrary.NewClient(openlibrary.Options{
		BaseURL:     cfg.CatalogueAPIURL,
		MinInterval: cfg.CatalogueMinInterval,
		MaxRetries:  cfg.CatalogueMaxRetries,
		BackoffBase: cfg.CatalogueBackoffBase,
		Cache:       cache,
		Logger:      logger,
	})

	index := ownership.NewIndex(cfg.LibraryRoot, cfg.OwnershipCacheTTL, logger)

	bookRepo := repository.NewBookRepository(db)
	authorRepo := repository.NewAuthorRepository(db)

	guard := &service.ReconcileGuard{}
	importSvc := service.NewImportService(catalogue, index, bookRepo, authorRepo, logger)
	authorSvc := service.NewAuthorService(authorRepo, guard, logger)
	bookSvc := service.NewBookService(bookRepo, logger)
	librarySvc := service.NewLibraryService(index, bookRepo, guard, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	handler.NewAuthorHandler(authorSvc, importSvc).RegisterRoutes(api.Group("/authors"))
	handler.NewBookHandler(bookSvc, importSvc).RegisterRoutes(api.Group("/books"))
	handler.NewLibraryHandler(librarySvc).RegisterRoutes(api.Group("/library"))
	handler.NewSearchHandler(importSvc).RegisterRoutes(api.Group("/search"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("api server listening", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
