package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/watchapi-dev/routelens/pkg/extractor"
	"github.com/watchapi-dev/routelens/pkg/rlog"
)

// JSONResponse is the standard response wrapper for JSON output.
type JSONResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func printJSONError(err error) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(JSONResponse{Success: false, Error: err.Error()})
}

func printSuccess(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(JSONResponse{Success: true, Data: data})
}

// newLogger builds the process-wide logger, honoring --verbose and --json
// (JSON mode suppresses console color codes so stdout stays machine-readable).
func newLogger() *rlog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if jsonOutput {
		return rlog.New(level, rlog.JSONHandler, os.Stderr)
	}
	return rlog.New(level, rlog.ConsoleHandler, os.Stderr)
}

func reportExtractionSummary(res extractor.Result) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if jsonOutput {
		printSuccess(res)
		return
	}
	fmt.Printf("\n  %s %d route(s), %d tRPC router(s)\n", cyan("routelens"), len(res.Routes), len(res.Routers))
	for _, r := range res.Routes {
		fmt.Printf("    %s %-6s %s\n", green("•"), r.Method, r.Path)
	}
	if len(res.Warnings) > 0 {
		fmt.Printf("\n  %s %d warning(s)\n", yellow("!"), len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Printf("    %s %s (%s)\n", yellow("-"), w.Message, w.FilePath)
		}
	}
	fmt.Println()
}
