package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inspection-report",
	Short: "Compile ship inspection findings into PDF reports",
	Long: `Inspection Report keeps the findings recorded during ship inspections,
together with their before and after photos, and compiles them into a
paginated PDF report per ship.

It can run as an HTTP API (serve), compile a report directly from the
database (report), and migrate findings from the legacy MariaDB store
(import-legacy).`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
