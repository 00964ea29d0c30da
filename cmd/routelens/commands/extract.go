package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchapi-dev/routelens/pkg/config"
	"github.com/watchapi-dev/routelens/pkg/extractor"
)

var extractTsconfigPath string

var extractCmd = &cobra.Command{
	Use:   "extract [dir]",
	Short: "Extract and print the route catalogue",
	Long: `Extract statically walks a project's TypeScript AST and prints every
Next.js App Router, Pages Router, and tRPC route it finds.

Examples:
  routelens extract
  routelens extract ./apps/web
  routelens extract --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractTsconfigPath, "tsconfig", "", "Path to tsconfig.json, relative to the project root")
}

func runExtract(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	log := newLogger()
	opts, err := loadExtractorOptions(dir, extractTsconfigPath)
	if err != nil {
		if jsonOutput {
			printJSONError(err)
			os.Exit(1)
		}
		return err
	}
	opts.Logger = log

	res, err := extractor.Run(context.Background(), opts)
	if err != nil {
		if jsonOutput {
			printJSONError(err)
			os.Exit(1)
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	reportExtractionSummary(res)
	return nil
}

// loadExtractorOptions reads routelens.yaml from dir (tolerant of it being
// absent) and layers the --tsconfig flag on top.
func loadExtractorOptions(dir, tsconfigFlag string) (extractor.Options, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return extractor.Options{}, fmt.Errorf("loading routelens.yaml: %w", err)
	}
	if tsconfigFlag != "" {
		cfg.TsconfigPath = tsconfigFlag
	}
	return cfg.ExtractorOptions(dir)
}
