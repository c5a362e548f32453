package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"trip-guide/internal/client"
	"trip-guide/internal/config"
	"trip-guide/internal/db"
	"trip-guide/internal/guide"
	"trip-guide/internal/handlers"
	"trip-guide/internal/jobs"
	"trip-guide/internal/logging"
	"trip-guide/internal/models"
	"trip-guide/internal/wizard"
	"trip-guide/pkg/metrics"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "trip-guide",
		Short:         "Trip guide web service and CMS wizard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults to $TRIPGUIDE_CONFIG)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newHashPasswordCmd())
	return root
}

// setup loads config and builds the logger every command needs.
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	cfg.SetLogger(logger)
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			conn, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			applied, err := db.RunMigrations(cmd.Context(), conn, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to use as admin_password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the guide web server and snapshot refresher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply migrations on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if migrate {
		if _, err := db.RunMigrations(ctx, conn, logger); err != nil {
			return err
		}
	}
	repo := models.NewRepository(conn)

	m := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithHistogramBuckets(cfg.HTTPLatencyBuckets),
	)
	cms, err := client.New(cfg.CMSBaseURL,
		client.WithToken(cfg.CMSToken),
		client.WithTimeout(cfg.CMSTimeout),
		client.WithRecorder(m),
		client.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	builder := guide.NewBuilder(cms, guide.Options{
		Location:    loc,
		DefaultHero: cfg.DefaultHeroImage,
		Logger:      logger,
		Recorder:    m,
		Snapshots:   repo,
	})
	editor := wizard.NewEditor(cms, wizard.NewAuditLog(repo, logger), logger, m)
	sessions := wizard.NewSessions(repo, logger, wizard.WithMaxSessions(cfg.WizardMaxSessions))

	handlers.SetConfig(cfg)
	if err := handlers.InitTemplates(); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	server := &handlers.Server{
		Config:         cfg,
		Logger:         logger,
		Metrics:        m,
		MetricsHandler: m.Handler(),
		Auth:           handlers.NewAuthHandler(cfg, logger),
		Guide:          handlers.NewGuideHandler(builder, repo, logger),
		Admin:          handlers.NewAdminHandler(editor, sessions, cms, repo, loc, logger),
		Health:         handlers.NewHealthHandler(repo, logger),
	}

	refresher := jobs.NewRefresher(cms, builder, repo, m, jobs.Options{Location: loc, Logger: logger})
	if err := refresher.Start(cfg.RefreshCron); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr), zap.String("cms", cfg.CMSBaseURL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = refresher.Stop(context.Background())
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := refresher.Stop(shutdownCtx); err != nil {
		logger.Warn("refresher shutdown", zap.Error(err))
	}
	return nil
}
