package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mythribanda/ClaimWatch/internal/application/usecase"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
	"github.com/mythribanda/ClaimWatch/internal/domain/service"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/cache"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/config"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/kafka"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/ml"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/postgres"
	grpcpresentation "github.com/mythribanda/ClaimWatch/internal/presentation/grpc"
	"github.com/mythribanda/ClaimWatch/internal/presentation/rest"
	pkgkafka "github.com/mythribanda/ClaimWatch/pkg/kafka"
	"github.com/mythribanda/ClaimWatch/pkg/observability"
	pkgpostgres "github.com/mythribanda/ClaimWatch/pkg/postgres"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, migrate)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&migrate, "migrate", true, "apply pending schema migrations before serving")
	flags.String("http-port", "", "HTTP listen port (overrides PORT)")
	flags.String("grpc-port", "", "gRPC listen port")
	flags.String("scorer-mode", "", "scorer mode: http or heuristic")
	_ = opts.v.BindPFlag("http_port", flags.Lookup("http-port"))
	_ = opts.v.BindPFlag("grpc_port", flags.Lookup("grpc-port"))
	_ = opts.v.BindPFlag("scorer.mode", flags.Lookup("scorer-mode"))

	return cmd
}

func runServe(ctx context.Context, opts *options, migrate bool) error {
	cfg, logger := opts.cfg, opts.logger

	logger.Info("starting claimwatchd",
		slog.String("version", Version),
		slog.String("http_address", cfg.HTTPAddress()),
		slog.String("grpc_address", cfg.GRPCAddress()),
		slog.String("scorer_mode", cfg.Scorer.Mode),
		slog.String("environment", cfg.Environment),
	)

	metrics, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "claimwatch", GoCollectors: true})
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Shutdown(context.Background()) }()

	intakeMetrics, err := observability.NewIntakeMetrics(metrics.Provider)
	if err != nil {
		return err
	}

	if migrate {
		if err := pkgpostgres.RunMigrations(cfg.DatabaseURL, postgres.Migrations, postgres.MigrationsDir); err != nil {
			return err
		}
		logger.Info("schema migrations applied")
	}

	pool, err := pkgpostgres.NewPool(ctx, pkgpostgres.Config{URL: cfg.DatabaseURL, ConnectAttempts: 5}, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Wire infrastructure adapters.
	var repo port.ClaimRepository = postgres.NewClaimRepository(pool)
	if cfg.History.TTL > 0 {
		repo = cache.NewHistoryCache(repo, cfg.History.TTL)
	}

	scorer := newPredictionClient(cfg, logger, intakeMetrics)

	publisher, closePublisher := newEventPublisher(cfg, logger)
	defer closePublisher()

	// Wire use cases.
	submitClaim := usecase.NewSubmitClaim(
		service.NewNormalizer(service.NormalizerConfig{LenientNumbers: cfg.Normalizer.LenientNumbers}),
		scorer, repo, publisher, intakeMetrics, logger,
		usecase.SubmitClaimConfig{
			RelaxedDurability: cfg.Intake.RelaxedDurability,
			ScorerTimeout:     cfg.Scorer.Timeout,
			StoreTimeout:      cfg.Store.Timeout,
		},
	)
	listClaims := usecase.NewListClaims(repo)

	// gRPC server.
	grpcServer, err := grpcpresentation.NewServer(
		grpcpresentation.NewClaimServiceHandler(submitClaim, listClaims, logger),
		cfg.GRPCAddress(),
		grpcpresentation.ServerConfig{
			TLSCertFile: cfg.GRPC.TLSCertFile,
			TLSKeyFile:  cfg.GRPC.TLSKeyFile,
			Reflection:  cfg.GRPC.Reflection,
		},
		logger,
	)
	if err != nil {
		return err
	}

	// HTTP server.
	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(
			rest.NewClaimHandler(submitClaim, listClaims, logger),
			rest.NewHealthHandler(pool, logger),
			logger,
			rest.RouterConfig{
				AllowedOrigin:  cfg.CORS.AllowedOrigin,
				Metrics:        observability.NewHTTPMetrics(metrics.Registry),
				MetricsHandler: metrics.Handler,
			},
		),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Scorer.Timeout + cfg.Store.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Start(); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down claimwatchd")

		grpcServer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("claimwatchd stopped")
	return err
}

func newPredictionClient(cfg *config.Config, logger *slog.Logger, metrics ml.LatencyRecorder) port.PredictionClient {
	if cfg.Scorer.Mode == config.ScorerModeHeuristic {
		logger.Warn("using the built-in heuristic scorer")
		return ml.NewHeuristicClient(service.NewHeuristicScorer(), logger)
	}
	return ml.NewHTTPPredictionClient(cfg.Scorer.URL, cfg.Scorer.Timeout, logger, metrics)
}

// newEventPublisher returns the Kafka publisher when brokers are configured,
// otherwise one that only logs.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, func()) {
	if !cfg.KafkaEnabled() {
		return kafka.NewLogPublisher(logger), func() {}
	}

	producer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: "claimwatchd",
	})
	logger.Info("publishing claim events", slog.String("topic", cfg.Kafka.Topic))

	return kafka.NewPublisher(producer, cfg.Kafka.Topic, logger), func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
}
