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

	"github.com/gin-gonic/gin"

	"poe2guide/internal/completion"
	"poe2guide/internal/guide"
	"poe2guide/internal/normalize"
	synchub "poe2guide/internal/sync"
	"poe2guide/pkg/database"
	"poe2guide/pkg/utils"
)

func main() {
	cfg := utils.LoadGuideConfig()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	doc, err := normalize.LoadFile(cfg.DataPath)
	if err != nil {
		log.Fatalf("load master document %s: %v", cfg.DataPath, err)
	}
	nctx := normalize.NewContext(doc, log.Default())
	log.Printf("loaded master document %s (revision %d)", cfg.DataPath, nctx.Revision())

	if os.Getenv("POE2GUIDE_VALIDATE") != "" {
		normalize.LogDiagnostics(normalize.Validate(doc), log.Default())
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path, "revision": nctx.Revision()})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	// Guide (public, read-only)
	guideHandler := guide.NewHandler(nctx, cfg.GameInfoPath)
	guideHandler.RegisterRoutes(router.Group("/guide"))

	// Completion sync (anonymous device blobs)
	completionRepo := completion.NewRepo(db)
	completionHandler := completion.NewHandler(completionRepo, hub, nctx.Revision())
	completionHandler.RegisterRoutes(router.Group("/sync"))

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
