package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/database/mariadb"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy",
	Short: "Import ships and findings from the legacy MariaDB database",
	Long: `Copy ships and findings from the legacy MariaDB database into PostgreSQL.
Photo columns are copied verbatim. Findings whose sequence number already
exists for the ship are skipped, so the import can be re-run safely.

Examples:
  inspection-report import-legacy
  inspection-report import-legacy --ship SB01,SB02`,
	Args: cobra.NoArgs,
	RunE: runImportLegacy,
}

func init() {
	rootCmd.AddCommand(importLegacyCmd)

	importLegacyCmd.Flags().StringSlice("ship", nil, "Ship codes to import (default: all)")
	importLegacyCmd.Flags().String("legacy-dsn", "", "MariaDB DSN (overrides LEGACY_DATABASE_URL)")
}

func runImportLegacy(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	dsn := mustGetString(cmd, "legacy-dsn")
	if dsn == "" {
		dsn = cfg.LegacyDatabase.URL
	}
	if dsn == "" {
		return errors.New("LEGACY_DATABASE_URL environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connecting to legacy MariaDB database...\n")
	legacyPool, err := mariadb.NewPool(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	defer legacyPool.Close()

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, repo, err := openFindingStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Importing findings"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("findings"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	start := time.Now()
	stats, err := database.ImportFindings(ctx, mariadb.NewLegacyReader(legacyPool), repo,
		mustGetStringSlice(cmd, "ship"), func(database.Finding) { _ = bar.Add(1) })
	_ = bar.Finish()
	fmt.Println()

	printImportSummary(stats, time.Since(start))
	if err != nil {
		fmt.Printf("%s import stopped: %v\n", failedLabel, err)
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

func printImportSummary(stats database.ImportStats, elapsed time.Duration) {
	fmt.Printf("Ships:    %d created, %d already present\n", stats.ShipsCreated, stats.ShipsExisting)
	fmt.Printf("Findings: %d imported\n", stats.Findings)
	if stats.Skipped > 0 {
		fmt.Printf("%s %d findings skipped (already imported or invalid)\n", warnLabel, stats.Skipped)
	}
	fmt.Printf("%s Import finished in %s\n", okLabel, formatDuration(elapsed))
}
