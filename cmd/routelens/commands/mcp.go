package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchapi-dev/routelens/pkg/mcpserver"
)

var mcpWorkdir string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose extraction as an MCP tool over stdio",
	Long: `Starts an MCP server advertising a single tool, extract_routes, so an
editor or agent runtime can pull the route catalogue without shelling out to
"routelens extract" itself.

Examples:
  routelens mcp
  routelens mcp --workdir ./apps/web`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpWorkdir, "workdir", ".", "Project root the extract_routes tool defaults to")
}

func runMCP(cmd *cobra.Command, args []string) error {
	log := newLogger()
	srv := mcpserver.NewServer(mcpWorkdir).WithLogger(log)
	if err := srv.Serve(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}
