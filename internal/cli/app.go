package cli

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/vin2grow/storefront-go/internal/api"
	"github.com/vin2grow/storefront-go/internal/cart"
	"github.com/vin2grow/storefront-go/internal/config"
	"github.com/vin2grow/storefront-go/internal/session"
	"github.com/vin2grow/storefront-go/pkg/httpclient"
	"github.com/vin2grow/storefront-go/pkg/logger"
	"github.com/vin2grow/storefront-go/pkg/tracing"
)

// App holds the wired client components shared by all commands.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *session.Manager
	API     *api.Client
	Store   *cart.Store
	Sync    *cart.Synchronizer

	shutdownTracer func(context.Context) error
}

// NewApp loads configuration and wires the client dependency graph.
func NewApp() (*App, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New("storefront", cfg.LogLevel)

	traceCfg := tracing.DefaultConfig("storefront")
	traceCfg.Enabled = cfg.TracingEnabled
	traceCfg.OTLPEndpoint = cfg.OTLPEndpoint
	traceCfg.Environment = cfg.Environment
	shutdownTracer, err := tracing.InitTracer(context.Background(), traceCfg)
	if err != nil {
		return nil, err
	}

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	sess := session.NewManager(sessionPath)

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout()
	httpCfg.MaxRetries = cfg.HTTPMaxRetries
	httpCfg.MinRequestInterval = cfg.MinRequestInterval()

	httpClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("storefront-api"),
		log,
	)

	apiClient := api.NewClient(cfg.APIBaseURL, httpClient, sess, log)

	store := cart.NewStore()
	sync := cart.NewSynchronizer(apiClient, sess, store, log)

	return &App{
		Config:  cfg,
		Logger:  log,
		Session: sess,
		API:     apiClient,
		Store:   store,
		Sync:    sync,

		shutdownTracer: shutdownTracer,
	}, nil
}

// Close flushes pending telemetry. Safe to call on a partially built App.
func (a *App) Close(ctx context.Context) error {
	if a.shutdownTracer == nil {
		return nil
	}
	return a.shutdownTracer(ctx)
}
