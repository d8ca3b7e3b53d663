package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/config"
	"github.com/peka1011-dev/peka-blog/internal/db"
	"github.com/peka1011-dev/peka-blog/internal/handler"
	"github.com/peka1011-dev/peka-blog/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// One-time admin bootstrap from ADMIN_EMAIL / ADMIN_PASSWORD.
	if err := db.EnsureAdmin(gdb, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}

	api := handler.NewAPI(gdb)
	engine := router.SetupRouter(api, cfg.SessionSecret, cfg.TemplateGlob)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
