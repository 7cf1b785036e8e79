package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/worklog-hq/worklog/internal/api"
	"github.com/worklog-hq/worklog/internal/api/health"
	"github.com/worklog-hq/worklog/internal/metrics"
	"github.com/worklog-hq/worklog/internal/storage"
	"github.com/worklog-hq/worklog/pkg/config"
)

var (
	configFile string
	httpAddr   string
	dbPath     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "worklog-server",
	Short: "WorkLog Server - Timesheet tracking API",
	Long: `WorkLog Server provides the timesheet REST API: employees log
work reports against clients and projects, admins manage accounts and
export filtered timesheets.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("worklog-server %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	// Load configuration from file if provided
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	// Override with CLI flags
	if httpAddr != "" {
		cfg.Server.Address = httpAddr
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	cfg.Verbose = verbose

	// Get JWT secret from environment
	jwtSecret := os.Getenv("WORKLOG_JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("WORKLOG_JWT_SECRET environment variable is required")
	}

	// Auto-create data directory
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Initialize storage
	store := storage.NewSQLiteStorage(cfg.Database.Path)
	if err := store.Open(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Create default admin user on first run
	if err := store.EnsureAdminUser(); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	log.Printf("database initialized at %s", cfg.Database.Path)

	apiCfg := &api.Config{
		Address:          cfg.Server.Address,
		JWTSecret:        []byte(jwtSecret),
		AccessTokenTTL:   duration(cfg.Auth.AccessTokenTTL),
		RefreshTokenTTL:  duration(cfg.Auth.RefreshTokenTTL),
		RateLimitPerIP:   cfg.Server.RateLimitPerIP,
		RateLimitPerUser: cfg.Server.RateLimitPerUser,
		LockoutThreshold: cfg.Auth.LockoutThreshold,
		LockoutDuration:  duration(cfg.Auth.LockoutDuration),
		Verbose:          cfg.Verbose,
	}

	srv, err := api.New(apiCfg, store)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	srv.RegisterHealthChecker(health.NewSQLiteChecker(store.DB()))

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	// Optional Prometheus endpoint on its own port
	if cfg.Server.MetricsAddress != "" {
		metrics.SetBuildInfo(config.Version, config.Commit, config.BuildTime)
		metricsSrv := metrics.NewServer(cfg.Server.MetricsAddress)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				log.Printf("metrics server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	log.Printf("starting worklog-server %s", config.Version)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Printf("server stopped")
	return nil
}
