package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oornnery/site/internal/api"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/auth"
	"github.com/oornnery/site/internal/config"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/oornnery/site/internal/domain/analytics"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/domain/settings"
	"github.com/oornnery/site/internal/email"
	"github.com/oornnery/site/internal/metrics"
	"github.com/oornnery/site/internal/session"
	"github.com/oornnery/site/internal/storage/postgres"
	"github.com/oornnery/site/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
	appFlag    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start one of the site applications",
	Long: `Start the HTTP server for the selected application.

The server will:
- Load configuration from env vars (plus --config file when given)
- Run pending database migrations
- Bootstrap the admin account if ADMIN_* env vars are set
- Serve HTML pages and the /api JSON surface
- Shut down gracefully on SIGINT/SIGTERM, draining the pageview queue

Examples:
  server serve --app blog
  server serve --app admin --port 9090
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
	serveCmd.Flags().StringVar(&appFlag, "app", "", "application to serve: portfolio, blog, admin (default: SITE_APP)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging).With().Str("app", string(cfg.App)).Logger()
	logger.Info().Msg("starting site server")

	metrics.Init(Version, GitCommit, BuildDate, string(cfg.App))

	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	if err := postgres.MigrateUp(cfg.Database.URL, postgres.DefaultMigrationsPath); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	logger.Info().Msg("migrations applied")

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database.URL)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	accountsSvc := accounts.NewService(repo.Accounts())

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrapAdmin(bootstrapCtx, cfg, accountsSvc, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	bootstrapCancel()

	notifier, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("email init failed: %w", err)
	}

	recorder := analytics.NewRecorder(
		repo.PageViews(),
		cfg.Analytics.QueueSize,
		cfg.Analytics.Workers,
		analytics.RecorderMetrics{
			Recorded: metrics.PageviewsRecorded,
			Dropped:  metrics.PageviewsDropped,
			Failed:   metrics.PageviewsFailed,
		},
		logger,
	)
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("pageview recorder shutdown error")
		} else {
			logger.Info().Msg("pageview recorder drained")
		}
	}()

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, cfg.Auth.Audience)
	auditLog := audit.NewLogger(repo.Audit(), logger)

	router := api.NewRouter(api.RouterParams{
		Config: cfg,
		Logger: logger,
		Services: api.Services{
			Accounts:  accountsSvc,
			Posts:     blog.NewService(repo.Posts()),
			Projects:  projects.NewService(repo.Projects()),
			Comments:  comments.NewService(repo.Comments()),
			Profiles:  profiles.NewService(repo.Profiles()),
			Contact:   contact.NewService(repo.Contact(), notifier),
			Settings:  settings.NewService(repo.Settings()),
			Analytics: analytics.NewService(repo.PageViews()),
		},
		Audit:     auditLog,
		Codec:     codec,
		Resolver:  session.NewResolver(codec, accountsSvc),
		Recorder:  recorder,
		Pool:      pool,
		Version:   Version,
		GitCommit: GitCommit,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		if err := config.ApplyFile(configPath); err != nil {
			return config.Config{}, err
		}
	}
	if appFlag != "" {
		if err := os.Setenv("SITE_APP", appFlag); err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// bootstrapAdmin creates the admin account on first boot. An existing
// account with the configured email wins; the password is not rotated.
func bootstrapAdmin(ctx context.Context, cfg config.Config, svc *accounts.Service, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if bootstrap.Email == "" || bootstrap.Password == "" {
		logger.Debug().Msg("admin bootstrap env vars not set; skipping")
		return nil
	}

	if _, err := svc.GetByEmail(ctx, bootstrap.Email); err == nil {
		return nil
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	name := bootstrap.Name
	if name == "" {
		name = "Admin"
	}
	if _, err := svc.Create(ctx, accounts.CreateAccountParams{
		Email:    bootstrap.Email,
		Name:     name,
		Password: bootstrap.Password,
		IsAdmin:  true,
	}); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	if cfg.IsProduction() {
		logger.Info().Msg("bootstrapped admin account")
	} else {
		logger.Info().Str("email", bootstrap.Email).Msg("bootstrapped admin account")
	}
	return nil
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
