// Package server exposes the document operations of a wallet over HTTP, for front ends that
// cannot link the library. It is meant to listen on a local interface only: requests carry
// seeds and the responses carry the identity randomness.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet"
)

type ServeConfig struct {
	Host string
	Port int

	MaxRequestSize  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	EnableCORS  bool
	CorsOrigins []string
}

// DefaultServeConfig listens on localhost:8080.
func DefaultServeConfig() ServeConfig {
	return ServeConfig{
		Host:            "localhost",
		Port:            8080,
		MaxRequestSize:  1 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CorsOrigins:     []string{"*"},
	}
}

func (cfg *ServeConfig) validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.MaxRequestSize < 1 {
		return errors.Errorf("invalid maximum request size: %d", cfg.MaxRequestSize)
	}
	return nil
}

// Run serves the wallet until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *ServeConfig, wallet *idwallet.Wallet, logger logrus.FieldLogger) error {
	if err := cfg.validate(); err != nil {
		return errors.WrapPrefix(err, "invalid configuration", 0)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        NewRouter(wallet, cfg, logger),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 16,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return errors.WrapPrefix(err, "server error", 0)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.WrapPrefix(err, "server shutdown failed", 0)
	}
	logger.Info("Server stopped")
	return nil
}
