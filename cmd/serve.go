package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/constants"
	"github.com/kozaktomas/inspection-report/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Inspection Report HTTP API.
The API manages ships, findings and finding photos, previews optimized
photos and compiles PDF reports on demand.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", constants.DefaultWebPort, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", constants.DefaultWebHost, "Host to bind to (overrides WEB_HOST)")
}

// resolveServeHostPort applies explicitly set --port and --host flags on top
// of the environment configuration.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.WebConfig) {
	if cmd.Flags().Changed("port") {
		cfg.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = mustGetString(cmd, "host")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, &cfg.Web)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, _, err := openFindingStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	fmt.Printf("Using PostgreSQL backend\n")

	store, err := newPhotoStore(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize photo storage: %w", err)
	}
	if cfg.Storage.URL != "" {
		fmt.Printf("Photo uploads go to %s\n", cfg.Storage.URL)
	} else {
		fmt.Printf("Photo uploads go to %s\n", cfg.Storage.Dir)
	}

	server := web.NewServer(cfg, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Inspection Report API on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
