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
	"github.com/kozaktomas/inspection-report/internal/imageopt"
	"github.com/kozaktomas/inspection-report/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <ship-code>",
	Short: "Compile the PDF inspection report of a ship",
	Long: `Compile the PDF inspection report of a ship from the findings stored in
PostgreSQL. Photos are fetched and optimized in parallel; photos that cannot
be loaded are drawn as placeholders and listed in the summary.

By default the PDF is written to the current directory as
Report_<ship name>_<date>.pdf.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("output", "o", "", "Output PDF path (default: generated file name)")
	reportCmd.Flags().String("report-file", "", "Also write the export report as JSON to this path")
	reportCmd.Flags().Bool("json", false, "Print the export report as JSON instead of a summary")
	reportCmd.Flags().Int("concurrency", 0, "Parallel image optimizations (default: REPORT_CONCURRENCY)")
}

func runReport(cmd *cobra.Command, args []string) error {
	shipCode := args[0]
	jsonOutput := mustGetBool(cmd, "json")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, repo, err := openFindingStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := newPhotoStore(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	concurrency := mustGetInt(cmd, "concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Report.Concurrency
	}
	compiler := report.NewCompiler(imageopt.NewOptimizer(store, cfg.Report.FetchTimeout), concurrency)

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		compiler.OnPlan = func(n int) {
			if n == 0 {
				return
			}
			bar = progressbar.NewOptions(n,
				progressbar.OptionSetDescription("Optimizing photos"),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("photos"),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionFullWidth(),
			)
		}
		compiler.OnImage = func(imageopt.Key, imageopt.Result) {
			_ = bar.Add(1)
		}
	}

	start := time.Now()
	res, err := compiler.CompileShip(ctx, repo, shipCode)
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("ship %s not found", shipCode)
	}
	if err != nil {
		return fmt.Errorf("PDF generation failed: %w", err)
	}

	output := mustGetString(cmd, "output")
	if output == "" {
		output = res.Filename
	}
	if err := os.WriteFile(output, res.PDF, 0600); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}

	if reportFile := mustGetString(cmd, "report-file"); reportFile != "" {
		if err := writeJSONFile(reportFile, res.Report); err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(res.Report)
	}
	printReportSummary(res, output, time.Since(start))
	return nil
}

func printReportSummary(res *report.Result, output string, elapsed time.Duration) {
	r := res.Report
	fmt.Printf("Report for %s (%s)\n", r.ShipName, r.ShipCode)
	fmt.Printf("  Findings: %d\n", r.FindingCount)
	fmt.Printf("  Pages:    %d\n", r.PageCount)
	fmt.Printf("  Images:   %s\n", imageSummary(r))

	for _, f := range r.Failures {
		fmt.Printf("  %s %s (%s): %s: %s\n", failedLabel, f.URI, f.Preset, f.Kind, f.Reason)
	}
	for _, w := range r.Warnings {
		fmt.Printf("  %s %s\n", warnLabel, w)
	}

	fmt.Printf("%s Wrote %s (%d bytes) in %s\n", okLabel, output, len(res.PDF), formatDuration(elapsed))
}

// imageSummary splits the unique images of a report into optimized and failed.
func imageSummary(r *report.ExportReport) string {
	return fmt.Sprintf("%d optimized, %d failed", r.ImageCount-r.FailedImages, r.FailedImages)
}
