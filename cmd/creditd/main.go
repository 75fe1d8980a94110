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

	"github.com/coopcredit/coopcredit/internal/application/usecase"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/service"
	"github.com/coopcredit/coopcredit/internal/infrastructure/adapter"
	"github.com/coopcredit/coopcredit/internal/infrastructure/config"
	"github.com/coopcredit/coopcredit/internal/infrastructure/kafka"
	"github.com/coopcredit/coopcredit/internal/infrastructure/messaging"
	"github.com/coopcredit/coopcredit/internal/infrastructure/metrics"
	pgRepo "github.com/coopcredit/coopcredit/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/coopcredit/coopcredit/internal/presentation/grpc"
	"github.com/coopcredit/coopcredit/internal/presentation/rest"
	"github.com/coopcredit/coopcredit/migrations"
	"github.com/coopcredit/coopcredit/pkg/auth"
	pkgkafka "github.com/coopcredit/coopcredit/pkg/kafka"
	"github.com/coopcredit/coopcredit/pkg/observability"
	pkgpostgres "github.com/coopcredit/coopcredit/pkg/postgres"
	"github.com/coopcredit/coopcredit/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting credit-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing is best-effort.
	if cfg.Tracing.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.OTLPEndpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush
	creditMetrics, err := metrics.NewCreditMetrics(meterProvider)
	if err != nil {
		logger.Error("failed to register credit metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCfg := pkgpostgres.Config{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Password,
		Database:        cfg.DB.Name,
		SSLMode:         cfg.DB.SSLMode,
		MaxConns:        cfg.DB.MaxConns,
		ConnectAttempts: 10,
		RetryInterval:   2 * time.Second,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 30*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.DB.MigrationsPath != "" {
		err = pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.DB.MigrationsPath)
	} else {
		err = pkgpostgres.RunMigrationsFS(dbCfg.DSN(), migrations.FS)
	}
	if err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Wire infrastructure adapters.
	affiliateRepo := pgRepo.NewAffiliateRepo(pool)
	appRepo := pgRepo.NewCreditApplicationRepo(pool)
	scorer, err := newRiskScorer(cfg.RiskCentral, logger)
	if err != nil {
		logger.Error("failed to configure risk central client", "error", err)
		os.Exit(1)
	}

	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.BrokerList(),
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLUsername != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	var publisher port.EventPublisher
	if len(kafkaCfg.Brokers) > 0 {
		producer, err := pkgkafka.NewProducer(kafkaCfg)
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = kafka.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events are only logged")
		publisher = messaging.NewLogEventPublisher(cfg.Kafka.EventsTopic, logger)
	}

	policy := service.CreditPolicy{
		MinTenureMonths:         cfg.Policy.MinTenureMonths,
		SalaryMultiplier:        cfg.Policy.SalaryMultiplier,
		MinScore:                cfg.Policy.MinScore,
		MaxPaymentToIncomeRatio: cfg.Policy.MaxPaymentToIncomeRatio,
	}
	evaluator := service.NewCreditEvaluator(policy, scorer)

	// Wire use cases.
	evaluateUC := usecase.NewEvaluateCreditApplicationUseCase(appRepo, affiliateRepo, evaluator, publisher, creditMetrics, logger)
	handler := grpcPresentation.NewHandler(grpcPresentation.UseCases{
		RegisterAffiliate:     usecase.NewRegisterAffiliateUseCase(affiliateRepo, publisher),
		UpdateAffiliate:       usecase.NewUpdateAffiliateUseCase(affiliateRepo, publisher),
		ChangeAffiliateStatus: usecase.NewChangeAffiliateStatusUseCase(affiliateRepo, publisher),
		GetAffiliate:          usecase.NewGetAffiliateUseCase(affiliateRepo),
		ListAffiliates:        usecase.NewListAffiliatesUseCase(affiliateRepo),
		SubmitApplication:     usecase.NewSubmitCreditApplicationUseCase(appRepo, affiliateRepo, publisher, creditMetrics, logger),
		EvaluateApplication:   evaluateUC,
		GetApplication:        usecase.NewGetApplicationUseCase(appRepo),
		ListApplications:      usecase.NewListApplicationsUseCase(appRepo),
		GetPaymentPlan:        usecase.NewGetPaymentPlanUseCase(appRepo, affiliateRepo),
	}, logger)

	// gRPC server.
	serverOpts := grpcPresentation.ServerOptions{
		TLSCertFile: cfg.TLS.CertFile,
		TLSKeyFile:  cfg.TLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
	}
	if !cfg.Auth.Disabled {
		jwtSvc, err := newJWTService(cfg.Auth)
		if err != nil {
			logger.Error("failed to initialize JWT service", "error", err)
			os.Exit(1)
		}
		serverOpts.Validator = jwtSvc
	}
	grpcServer, err := grpcPresentation.NewServer(handler, logger, serverOpts)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, pool, metricsHandler, logger).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers and the evaluation request consumer.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if len(kafkaCfg.Brokers) > 0 && cfg.Kafka.EvaluationTopic != "" {
		requests := kafka.NewEvaluationRequestHandler(evaluateUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.EvaluationTopic, requests.Handle, logger)
		if err != nil {
			logger.Error("failed to create kafka consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("evaluation consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
		cancel()
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-service stopped")
}

// newRiskScorer returns the HTTP risk central client, or the deterministic
// stub when no URL is configured.
func newRiskScorer(cfg config.RiskCentralConfig, logger *slog.Logger) (port.RiskScorer, error) {
	if cfg.URL == "" {
		logger.Warn("RISK_CENTRAL_URL not set, using the in-process stub scorer")
		return adapter.NewStubRiskCentral(), nil
	}

	var opts []adapter.ClientOption
	if cfg.CAFile != "" {
		tlsCfg, err := tlsutil.ClientConfig(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, adapter.WithTLSConfig(tlsCfg))
	}
	logger.Info("using risk central", "url", cfg.URL, "timeout", cfg.Timeout, "private_ca", cfg.CAFile != "")
	return adapter.NewRiskCentralClient(cfg.URL, cfg.Timeout, opts...), nil
}

// newJWTService builds a verification-only JWT service. A public key file
// takes precedence over the shared secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	return auth.NewJWTService(auth.JWTConfig{
		Secret:        cfg.JWTSecret,
		PublicKeyFile: cfg.JWTPublicKey,
		Issuer:        cfg.JWTIssuer,
		Leeway:        cfg.JWTLeeway,
	})
}
