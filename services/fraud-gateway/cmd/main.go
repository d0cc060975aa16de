package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/services/fraud-gateway/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout covers the slowest in-flight analysis (client timeout is 10s by default).
const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger
	pkg.InitLogger()
	logger := pkg.Logger
	defer func() { _ = logger.Sync() }()

	// SIGINT/SIGTERM cancel ctx, for a K8s pod termination grace period
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := app.NewApp(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}
	defer cleanup()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("fraud gateway started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
}
