package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/watchapi-dev/routelens/pkg/catalogueserver"
	"github.com/watchapi-dev/routelens/pkg/extractor"
	"github.com/watchapi-dev/routelens/pkg/openapi"
)

var (
	servePort     string
	serveTsconfig string
	serveOpen     bool
	serveTitle    string
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve the route catalogue over HTTP",
	Long: `Extracts routes once per request and serves them at /routes (JSON),
/openapi.json, and / (an HTML report), so the catalogue always reflects the
project's current source on disk.

Examples:
  routelens serve
  routelens serve --port 9000 --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "4873", "Port to serve on")
	serveCmd.Flags().StringVar(&serveTsconfig, "tsconfig", "", "Path to tsconfig.json, relative to the project root")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the report in a browser once the server starts")
	serveCmd.Flags().StringVar(&serveTitle, "title", "", "API title used in the OpenAPI document")
}

func runServe(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	log := newLogger()

	source := func() catalogueserver.Catalogue {
		opts, err := loadExtractorOptions(dir, serveTsconfig)
		if err != nil {
			log.Error("loading config", "error", err)
			return catalogueserver.Catalogue{}
		}
		opts.Logger = log
		res, err := extractor.Run(context.Background(), opts)
		if err != nil {
			log.Error("extraction failed", "error", err)
			return catalogueserver.Catalogue{}
		}
		return catalogueserver.Catalogue{Routes: res.Routes, Routers: res.Routers}
	}

	srv := catalogueserver.New(source, openapi.Config{Title: serveTitle}, log)

	addr := ":" + servePort
	url := "http://localhost:" + servePort + "/"
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("\n  %s serving catalogue at %s\n\n", cyan("routelens"), url)

	if serveOpen {
		go func() { _ = browser.OpenURL(url) }()
	}
	return http.ListenAndServe(addr, srv)
}
