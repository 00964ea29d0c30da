package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/watchapi-dev/routelens/pkg/extractor"
)

var watchTsconfig string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-extract the route catalogue on every source change",
	Long: `Watches the project tree and re-runs the extractor whenever a .ts or
.tsx file is written, created, or removed, printing a fresh summary each time.

Examples:
  routelens watch
  routelens watch ./apps/web`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchTsconfig, "tsconfig", "", "Path to tsconfig.json, relative to the project root")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	log := newLogger()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if base == "node_modules" || base == ".git" || base == "dist" || base == ".next" {
				return filepath.SkipDir
			}
			_ = watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", dir, err)
	}

	run := func() {
		opts, err := loadExtractorOptions(dir, watchTsconfig)
		if err != nil {
			log.Error("loading config", "error", err)
			return
		}
		opts.Logger = log
		res, err := extractor.Run(context.Background(), opts)
		if err != nil {
			log.Error("extraction failed", "error", err)
			return
		}
		reportExtractionSummary(res)
	}

	fmt.Printf("\n  %s watching %s\n", cyan("routelens"), dir)
	run()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".ts") && !strings.HasSuffix(event.Name, ".tsx") {
				continue
			}
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("  %s watcher error: %v\n", yellow("!"), err)

		case <-signals:
			fmt.Println("\n  shutting down...")
			return nil
		}
	}
}
