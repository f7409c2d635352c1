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
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
	"github.com/BruksfildServices01/salon-manager/internal/password"
	"github.com/BruksfildServices01/salon-manager/internal/routes"
	"github.com/BruksfildServices01/salon-manager/internal/throttle"
	"github.com/BruksfildServices01/salon-manager/internal/token"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}

		hasher := password.NewBcryptHasher()
		if created, err := dbpkg.SeedAdmin(db, cfg, hasher); err != nil {
			return err
		} else if created {
			log.Printf("default admin %q created", cfg.AdminUsername)
		}

		dispatcher := audit.NewDispatcher(audit.New(db))

		r := gin.New()
		r.Use(gin.Logger())
		routes.RegisterRoutes(r, routes.Deps{
			DB:      db,
			Config:  cfg,
			Tokens:  token.NewService(cfg.JWTSecret, cfg.TokenTTL),
			Hasher:  hasher,
			Limiter: newLimiter(cmd.Context(), cfg),
			Audit:   dispatcher,
		})

		srv := &http.Server{
			Addr:    cfg.Addr(),
			Handler: r,
		}

		go func() {
			log.Printf("Server running on %s", cfg.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server forced to shutdown: %v", err)
		}
		if err := dispatcher.Close(ctx); err != nil {
			log.Printf("audit queue not drained: %v", err)
		}

		log.Println("server exited")
		return nil
	},
}

// newLimiter falls back to no throttling when Redis is not configured or
// not reachable.
func newLimiter(ctx context.Context, cfg *config.Config) throttle.Limiter {
	if cfg.RedisURL == "" {
		return throttle.Noop{}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	client, err := throttle.Dial(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("login throttling disabled: %v", err)
		return throttle.Noop{}
	}
	return throttle.NewRedisLimiter(client, cfg.LoginMaxAttempts, cfg.LoginLockout)
}
