package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/imageopt"
	"github.com/kozaktomas/inspection-report/internal/storage"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [file-or-uri]",
	Short: "Resize and re-encode one photo with a report preset",
	Long: `Resize and re-encode one photo the same way the report does.
The argument is a local file or a photo URI resolved through the configured
photo storage.

Use --list to show the available presets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().String("preset", string(imageopt.PresetFullPage), "Preset to apply")
	optimizeCmd.Flags().StringP("output", "o", "", "Output JPEG path (default: <name>_<preset>.jpg)")
	optimizeCmd.Flags().Bool("list", false, "List available presets and exit")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if mustGetBool(cmd, "list") {
		for _, p := range imageopt.Presets() {
			fmt.Printf("%-10s max %dx%d px, quality %.0f%%\n", p.Name, p.MaxWidth, p.MaxHeight, p.Quality*100)
		}
		return nil
	}
	if len(args) == 0 {
		return errors.New("a file or photo URI is required")
	}

	preset := imageopt.PresetName(mustGetString(cmd, "preset"))
	if _, ok := imageopt.Lookup(preset); !ok {
		return fmt.Errorf("unknown preset %q", preset)
	}

	cfg := config.Load()
	store, err := newPhotoStore(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	optimizer := imageopt.NewOptimizer(localFirstFetcher(store), cfg.Report.FetchTimeout)
	res := optimizer.Run(context.Background(), imageopt.Key{URI: args[0], Preset: preset})

	switch r := res.(type) {
	case *imageopt.Optimized:
		output := mustGetString(cmd, "output")
		if output == "" {
			output = optimizedName(args[0], preset)
		}
		if err := os.WriteFile(output, r.Data, 0600); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("%s %s: %dx%d, %d bytes\n", okLabel, output, r.Width, r.Height, len(r.Data))
		return nil
	case *imageopt.Failed:
		fmt.Printf("%s %s\n", failedLabel, r)
		return fmt.Errorf("%s failed", r.Kind)
	default:
		return fmt.Errorf("unexpected result %T", res)
	}
}

// localFirstFetcher reads existing local files directly and hands every
// other argument to the photo store.
func localFirstFetcher(store storage.Store) imageopt.Fetcher {
	return imageopt.FetcherFunc(func(ctx context.Context, uri string) ([]byte, error) {
		if info, err := os.Stat(uri); err == nil && !info.IsDir() {
			data, err := os.ReadFile(uri) //nolint:gosec // path given on the command line
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", uri, err)
			}
			return data, nil
		}
		return store.Fetch(ctx, uri)
	})
}

// optimizedName derives the default output file name from the source.
func optimizedName(source string, preset imageopt.PresetName) string {
	base := filepath.Base(strings.TrimRight(source, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "photo"
	}
	return fmt.Sprintf("%s_%s.jpg", base, preset)
}
