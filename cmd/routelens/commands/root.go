// Package commands provides the CLI commands for routelens.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "routelens",
	Short: "Statically extract HTTP routes from a Next.js / tRPC project",
	Long: `routelens reads a TypeScript project's source with the TypeScript
compiler's AST (never runs or imports the project) and reports every HTTP
endpoint it can find: Next.js App Router route handlers, Pages Router API
routes, and tRPC procedures.

Quick Start:
  routelens extract          Print the extracted route catalogue (JSON with --json)
  routelens openapi          Emit an OpenAPI document for the catalogue
  routelens serve            Serve the catalogue over HTTP with an HTML report
  routelens watch            Re-extract on every source file change
  routelens mcp               Expose extraction as an MCP tool over stdio
  routelens init             Write a routelens.yaml with sane defaults

Documentation: https://github.com/watchapi-dev/routelens`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for automation and LLM agents)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(openapiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(initCmd)
}
