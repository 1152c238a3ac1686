package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_console/internal/cache"
	"github.com/GTDGit/gtd_console/internal/config"
	"github.com/GTDGit/gtd_console/internal/handler"
	"github.com/GTDGit/gtd_console/internal/middleware"
	"github.com/GTDGit/gtd_console/internal/sse"
	"github.com/GTDGit/gtd_console/internal/store"
	"github.com/GTDGit/gtd_console/internal/worker"
	"github.com/GTDGit/gtd_console/pkg/catalog"
)

// main is the entrypoint for the shop admin console.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting gtd console")

	// 3. Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Session credentials
	var tokens catalog.TokenSource = catalog.StaticToken(cfg.Session.Token)
	var redisPinger handler.Pinger
	if cfg.RedisEnabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")

		sessions := cache.NewSessionCache(redisClient, cfg.Session.Key)
		if cfg.Session.Token != "" {
			if err := sessions.Store(ctx, cfg.Session.Token, 0); err != nil {
				log.Warn().Err(err).Msg("Configured CATALOG_TOKEN not stored in session cache")
			}
		}
		tokens = sessions
		redisPinger = redisClient
	} else if cfg.Session.Token == "" {
		log.Warn().Msg("No CATALOG_TOKEN and no Redis session store - requests will be unauthenticated")
	}

	// 5. Product service client
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
		Tokens:  tokens,
		Debug:   cfg.Env != "production",
	})

	// 6. Store
	productStore := store.NewStore(catalogClient,
		store.WithRequestTimeout(cfg.Catalog.Timeout),
		store.WithContext(ctx),
	)

	// 7. Snapshot streaming
	hub := sse.NewHub()
	var notifier sse.StateNotifier = sse.NopNotifier{}
	if cfg.Console.StreamEnabled {
		notifier = sse.NewHubNotifier(hub, cfg.Console.PageWindowRadius)
	}
	unsubscribe := productStore.Subscribe(notifier.NotifyStateChanged)
	defer unsubscribe()
	notifier.NotifyStateChanged(productStore.GetState())

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(productStore, hub, redisPinger),
		Console: handler.NewConsoleHandler(productStore, cfg.Console.PageWindowRadius),
	}
	if cfg.Console.StreamEnabled {
		handlers.SSE = handler.NewSSEHandler(hub)
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.AllowHosts(cfg.Console.AllowedHosts...)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	writeLimiter := middleware.NewWriteRateLimiter(cfg.Console.WriteRateLimit, time.Minute)
	go writeLimiter.StartCleanup(ctx)
	setupRoutes(router, handlers, writeLimiter)

	// 10. Initial load and workers
	productStore.Dispatch(store.DefaultListRequested())
	if cfg.Worker.RefreshInterval > 0 {
		go worker.NewRefreshWorker(productStore, cfg.Worker.RefreshInterval).Start(ctx)
	}

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// 14. Stop workers and in-flight effects
	cancel()
	productStore.Close()
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Console *handler.ConsoleHandler
	SSE     *handler.SSEHandler // nil when streaming is disabled
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, writeLimiter *middleware.WriteRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/v1/console/categories", handlers.Console.ListCategories)

	products := router.Group("/v1/console/products")
	{
		products.GET("", handlers.Console.GetSnapshot)
		if handlers.SSE != nil {
			products.GET("/stream", handlers.SSE.Stream)
		}
		products.POST("/list", handlers.Console.RequestList)
		products.POST("", writeLimiter.Handle(), handlers.Console.CreateProduct)
		products.PUT("/:id", writeLimiter.Handle(), handlers.Console.UpdateProduct)
		products.DELETE("/:id", writeLimiter.Handle(), handlers.Console.DeleteProduct)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
