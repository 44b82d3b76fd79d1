package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"djp.chapter42.de/printerbridge/internal/cache"
	"djp.chapter42.de/printerbridge/internal/config"
	"djp.chapter42.de/printerbridge/internal/data"
	"djp.chapter42.de/printerbridge/internal/external"
	"djp.chapter42.de/printerbridge/internal/handlers"
	"djp.chapter42.de/printerbridge/internal/logger"
	"djp.chapter42.de/printerbridge/internal/printer"
	"djp.chapter42.de/printerbridge/internal/processor"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Konfiguration laden
	bootLogger, _ := zap.NewProduction()
	config.InitConfig(bootLogger)
	cfg := config.Config

	// Logger initialisieren
	logger.InitLogger(cfg.Debug, cfg.LogFile)
	defer logger.Log.Sync()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rest := external.NewClient(&cfg.HomeAssistant)

	if cfg.Cache.Enabled {
		rc := cache.NewRedis(cfg.Cache)
		if err := rc.Ping(ctx); err != nil {
			logger.Log.Warn("Redis not reachable, state cache disabled:", zap.String("address", cfg.Cache.Address), zap.Error(err))
			rc.Close()
		} else {
			defer rc.Close()
			rest.WithStateCache(rc)
		}
	}

	var dispatcher printer.Dispatcher = rest
	if cfg.HomeAssistant.Transport == config.TransportWebSocket {
		ws, err := external.NewWSClient(&cfg.HomeAssistant)
		if err != nil {
			logger.Log.Fatal("Error while creating websocket client:", zap.Error(err))
		}
		defer ws.Close()
		dispatcher = ws
	}

	svc := printer.NewService(cfg.Printer, cfg.HomeAssistant.Domain, dispatcher, rest)

	// Queue mit genau einem Verbraucher
	if cfg.Queue.Enabled {
		q := processor.NewQueue(svc.DispatchJob, processor.Options{
			Delay:    cfg.Queue.Delay,
			Capacity: cfg.Queue.Capacity,
			History:  processor.NewHistory(cfg.Queue.History),
		})
		svc.UseQueue(q)
		q.Start(ctx)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: newRouter(cfg, svc),
	}

	go func() {
		<-ctx.Done()
		logger.Log.Info("Server shutting down...", zap.Int("dropped_jobs", svc.ClearQueue()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Server shutdown failed:", zap.Error(err))
		}
	}()

	// Server starten (blockierend)
	logger.Log.Info("Server starting...",
		zap.String("port", cfg.Port),
		zap.String("entity", cfg.Printer.Entity),
		zap.String("transport", cfg.HomeAssistant.Transport),
		zap.Bool("queue", cfg.Queue.Enabled),
	)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("Error while starting server:", zap.Error(err))
	}
	logger.Log.Info("Server stopped.")
}

func newRouter(cfg *data.BridgeConfig, p handlers.Printer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowOrigins) == 0 || slices.Contains(cfg.CORS.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	}
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	api := router.Group("/api")
	api.POST("/print/:kind", handlers.NewPrintHandler(p))
	api.POST("/actions/:action", handlers.NewActionHandler(p))
	api.GET("/queue", handlers.NewQueueHandler(p))
	api.DELETE("/queue", handlers.NewClearQueueHandler(p))
	api.GET("/status", handlers.NewStatusHandler(p))

	router.GET("/health", handlers.NewHealthHandler(p))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
