package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/stacklok/toolhive-gateway/pkg/aggregator"
	"github.com/stacklok/toolhive-gateway/pkg/classifier"
	"github.com/stacklok/toolhive-gateway/pkg/config"
	"github.com/stacklok/toolhive-gateway/pkg/embedding"
	"github.com/stacklok/toolhive-gateway/pkg/logger"
	"github.com/stacklok/toolhive-gateway/pkg/mcpserver"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	"github.com/stacklok/toolhive-gateway/pkg/search"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
	"github.com/stacklok/toolhive-gateway/pkg/sync"
	"github.com/stacklok/toolhive-gateway/pkg/telemetry"
	"github.com/stacklok/toolhive-gateway/pkg/vectorindex"
	v1 "github.com/stacklok/toolhive-gateway/pkg/api/v1"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway's HTTP and MCP servers",
		Long:  "Starts the external-server health-probe loop and listens for HTTP API and MCP requests. No background sync sweep is started.",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	configPath, _ := cmd.Flags().GetString("config")
	provider, err := config.NewProvider(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := provider.GetConfig()

	embedder, err := embedding.NewFromConfig(cfg, os.Getenv("OPENAI_API_KEY"))
	if err != nil {
		return fmt.Errorf("building embedding client: %w", err)
	}
	invalidator, ok := embedder.(sync.Invalidator)
	if !ok {
		return errors.New("embedding client does not implement sync.Invalidator")
	}

	vectorDSN := vectorDatabaseDSN(cfg)
	index, err := vectorindex.NewPostgresIndex(ctx, vectorDSN, cfg.VectorDim)
	if err != nil {
		return fmt.Errorf("connecting vector index: %w", err)
	}
	defer index.Close()

	reg, err := registry.NewPostgres(ctx, vectorDSN)
	if err != nil {
		return fmt.Errorf("connecting registry: %w", err)
	}
	defer reg.Close()

	clf := classifier.New(embedder, cfg.ClassificationTimeout())
	syncSvc := sync.New(reg, clf, embedder, index, invalidator, cfg.SyncConcurrency, cfg.SyncQueueDepth)

	skillStore := registry.NewSkillStore(reg, func(ctx context.Context, toolID string) error {
		return syncSvc.SyncCapability(ctx, sync.CapabilityRef{ID: toolID, Kind: sync.KindTool})
	})
	skillSvc := skills.NewService(skillStore)

	searchSvc := search.New(embedder, index, reg, cfg.IncludeSchemaTokenCap)

	// mcp is assigned below, after agg exists; forwardToMCP defers the nil
	// check to call time so the two can be wired despite the circular
	// dependency (agg needs a sink to relay backend notifications through,
	// mcpserver.New needs agg to forward tools/call to).
	var mcp *mcpserver.Server
	forwardToMCP := func(orgID, stage, message string) {
		if mcp != nil {
			mcp.Notify(orgID, stage, message)
		}
	}

	agg := aggregator.New(reg, syncSvc, aggregator.DefaultSessionFactory, cfg.ProbeInterval(), forwardToMCP)
	defer func() {
		if err := agg.Close(); err != nil {
			logger.Errorf("closing aggregator: %v", err)
		}
	}()
	go agg.RunHealthProbes(ctx)

	mcp = mcpserver.New(reg, agg, nil, Version)

	telemetryProviders, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:                 "gatewayd",
		ServiceVersion:              Version,
		TracingEnabled:              true,
		EnablePrometheusMetricsPath: true,
		IncludeRuntimeMetrics:       true,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telemetryProviders.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutting down telemetry: %v", err)
		}
	}()

	httpMiddleware := telemetry.NewHTTPMiddleware(
		telemetry.Config{ServiceName: "gatewayd"},
		telemetryProviders.TracerProvider,
		telemetryProviders.MeterProvider,
		"gatewayd", "http",
	)

	root := chi.NewRouter()
	root.Use(httpMiddleware)
	root.Mount("/api/v1beta", v1.Router(v1.Deps{
		Search:       searchSvc,
		Registry:     reg,
		Aggregator:   agg,
		SkillService: skillSvc,
		Version:      Version,
	}))
	root.Mount("/mcp", mcp.Handler())
	if telemetryProviders.MetricsHandler != nil {
		root.Handle("/metrics", telemetryProviders.MetricsHandler)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("gatewayd listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gatewayd")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serveErr:
		return err
	}
}

// vectorDatabaseDSN resolves the Postgres connection string shared by the
// capability registry and the vector index. GATEWAY_DATABASE_URL takes
// precedence; otherwise one is built from the configured vector host/port.
func vectorDatabaseDSN(cfg *config.Config) string {
	if dsn := os.Getenv("GATEWAY_DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%d/gateway?sslmode=disable", cfg.VectorHost, cfg.VectorPort)
}
