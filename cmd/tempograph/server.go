package tempograph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempograph/tempograph"
	"github.com/tempograph/tempograph/pkg/config"
	"github.com/tempograph/tempograph/pkg/factstore"
	tglogger "github.com/tempograph/tempograph/pkg/logger"
	"github.com/tempograph/tempograph/pkg/parser"
	"github.com/tempograph/tempograph/pkg/server"
	"github.com/tempograph/tempograph/pkg/telemetry"
	"github.com/tempograph/tempograph/pkg/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Tempograph HTTP server",
	Long: `Start the Tempograph HTTP server to provide REST API access to the
temporal reasoner.

The server provides endpoints for:
- Ingesting events and asserting relations
- Ordering events and inferring relations
- Recording temporal facts and querying their validity
- Consistency reports and health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Store flags
	serverCmd.Flags().String("store-type", "memory", "Fact store backend (memory, badger)")
	serverCmd.Flags().String("store-path", "", "Fact store data directory (badger only)")

	// Parser flags
	serverCmd.Flags().String("parser-provider", "pattern", "Temporal parser provider (pattern, remote)")
	serverCmd.Flags().String("parser-base-url", "", "Remote parser base URL")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry output")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, flush, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	reasoner, err := buildReasoner(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize reasoner: %w", err)
	}
	defer reasoner.Close(context.Background())

	// Create and setup server
	srv := server.New(cfg, reasoner)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	utils.SafeGo(func() {
		logger.Info("server listening", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}, func(err error) {
		serverErrChan <- err
	})

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Store flags
	if cmd.Flags().Changed("store-type") {
		cfg.Store.Type, _ = cmd.Flags().GetString("store-type")
	}
	if cmd.Flags().Changed("store-path") {
		cfg.Store.Path, _ = cmd.Flags().GetString("store-path")
	}

	// Parser flags
	if cmd.Flags().Changed("parser-provider") {
		cfg.Parser.Provider, _ = cmd.Flags().GetString("parser-provider")
	}
	if cmd.Flags().Changed("parser-base-url") {
		cfg.Parser.BaseURL, _ = cmd.Flags().GetString("parser-base-url")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Store.Type == string(factstore.StoreTypeBadger) && cfg.Store.Path == "" {
		return fmt.Errorf("store path is required for the badger backend")
	}
	if cfg.Parser.Provider == "remote" && cfg.Parser.BaseURL == "" {
		return fmt.Errorf("parser base URL is required for the remote provider")
	}
	return nil
}

// buildLogger creates the application logger, wrapping it with Parquet
// telemetry when a path is configured. The returned flush func drains
// buffered telemetry on shutdown.
func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	return buildLoggerTo(os.Stderr, cfg)
}

func buildLoggerTo(out io.Writer, cfg *config.Config) (*slog.Logger, func(), error) {
	base := tglogger.NewHandler(out, tglogger.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(base), func() {}, nil
	}

	parquetHandler, err := telemetry.NewParquetHandler(base, cfg.Telemetry.ParquetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	flush := func() {
		if err := parquetHandler.Flush(); err != nil {
			fmt.Fprintln(os.Stderr, "telemetry flush failed:", err)
		}
	}
	return slog.New(parquetHandler), flush, nil
}

// buildParser constructs the temporal parser collaborator from config.
func buildParser(cfg *config.Config) (parser.Parser, error) {
	switch cfg.Parser.Provider {
	case "pattern", "":
		return parser.NewPatternParser(), nil
	case "remote":
		httpClient := &http.Client{Timeout: time.Duration(cfg.Parser.Timeout) * time.Second}
		remote := parser.NewRemoteParser(cfg.Parser.BaseURL, httpClient)
		if !cfg.CircuitBreaker.Enabled {
			return remote, nil
		}
		return parser.NewBreakerParser(remote, parser.BreakerConfig{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, "remote-parser"), nil
	default:
		return nil, fmt.Errorf("unsupported parser provider: %s", cfg.Parser.Provider)
	}
}

// buildReasoner wires the store and parser collaborators into a client.
func buildReasoner(cfg *config.Config, logger *slog.Logger) (*tempograph.Client, error) {
	p, err := buildParser(cfg)
	if err != nil {
		return nil, err
	}

	store, err := factstore.NewStore(&factstore.Config{
		Type: factstore.StoreType(cfg.Store.Type),
		Path: cfg.Store.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open fact store: %w", err)
	}

	client, err := tempograph.NewClient(p, store, &tempograph.Config{
		Epsilon:       cfg.Reasoner.Epsilon,
		MinConfidence: cfg.Reasoner.MinConfidence,
	}, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}
