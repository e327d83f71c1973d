package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/handler"
	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newStubCmd(a *app) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run an in-memory commerce backend for local use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenKey, err := hex.DecodeString(a.cfg.StubTokenKey)
			if err != nil {
				return fmt.Errorf("stub token key: %w", err)
			}

			stub := handler.New(repository.New(), auth.NewAuthToken(tokenKey), logger.Log)
			if seed {
				if err := stub.Seed(cmd.Context()); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg.StubAddr, stub)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "create demo accounts, products and an order")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Running server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("stub server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown stub server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Log.Info("Server stopped")
	return nil
}
