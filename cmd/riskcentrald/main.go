// Command riskcentrald is a development stand-in for the external risk
// central. It answers POST /risk-evaluation with a score derived
// deterministically from the document.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/coopcredit/coopcredit/pkg/observability"
	"github.com/coopcredit/coopcredit/pkg/tlsutil"
)

type config struct {
	Port      int    `mapstructure:"RISK_CENTRAL_PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	// Both set switches the listener to HTTPS.
	TLSCertFile string `mapstructure:"RISK_CENTRAL_TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"RISK_CENTRAL_TLS_KEY_FILE"`
}

func loadConfig() (config, error) {
	v := viper.New()
	v.SetDefault("RISK_CENTRAL_PORT", 8081)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RISK_CENTRAL_TLS_CERT_FILE", "")
	v.SetDefault("RISK_CENTRAL_TLS_KEY_FILE", "")
	v.AutomaticEnv()

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("config: decode: %w", err)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return config{}, fmt.Errorf("config: RISK_CENTRAL_TLS_CERT_FILE and RISK_CENTRAL_TLS_KEY_FILE must be set together")
	}
	return cfg, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "risk-central",
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.TLSCertFile != "" {
		tlsCfg, err := tlsutil.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load TLS key pair", "error", err)
			os.Exit(1)
		}
		srv.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("risk central listening", "port", cfg.Port, "tls", srv.TLSConfig != nil)
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("risk central stopped")
}
