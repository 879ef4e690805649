package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modifikasi/partsdesk/handlers"
	"github.com/modifikasi/partsdesk/storage"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	avatarBucket  = "avatars"
	purgeInterval = time.Hour
)

// serveCmd runs the HTTP API until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.serve(ctx)
	},
}

func (a *app) serve(ctx context.Context) error {
	avatars, err := storage.NewFSBucket(a.cfg.Storage.Root, avatarBucket, a.cfg.Storage.PublicBaseURL)
	if err != nil {
		return err
	}

	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handlers.Handler{
		Store:   a.store,
		JWT:     utils.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.GetTokenTTL()),
		Avatars: avatars,
		Codes:   handlers.LogCodeSender{Log: a.log},
		Log:     a.log,
		Opts: handlers.Options{
			ResetCodeTTL:      a.cfg.GetResetCodeTTL(),
			ResetMaxAttempts:  a.cfg.Auth.ResetMaxAttempts,
			ExposeResetCodes:  a.cfg.Auth.ExposeResetCodes,
			MaxUploadBytes:    a.cfg.MaxUploadBytes(),
			LowStockThreshold: a.cfg.Inventory.LowStockThreshold,
		},
	}
	router := handlers.NewRouter(h, handlers.RouterOptions{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		MediaDir:       a.cfg.Storage.Root,
	})

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GetShutdownTimeout())
		defer cancel()
		a.log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		purgeLoop(ctx, a.store, a.log, purgeInterval)
		return nil
	})

	return g.Wait()
}

// purgeLoop drops expired revoked tokens and reset codes until ctx ends
func purgeLoop(ctx context.Context, st *store.Store, log *zap.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := st.PurgeExpired(ctx)
			if err != nil {
				log.Warn("failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged expired sessions", zap.Int64("rows", n))
			}
		}
	}
}
