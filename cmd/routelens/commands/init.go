package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/watchapi-dev/routelens/pkg/config"
)

var initSkipPrompts bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a routelens.yaml with sane defaults",
	Long: `Writes routelens.yaml in the current directory. Unless --skip-prompts
is given, asks a few questions about the project layout first.

Examples:
  routelens init
  routelens init --skip-prompts`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initSkipPrompts, "skip-prompts", false, "Skip interactive prompts and write defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if _, err := os.Stat("routelens.yaml"); err == nil {
		if jsonOutput {
			printJSONError(fmt.Errorf("routelens.yaml already exists"))
			os.Exit(1)
		}
		fmt.Printf("  %s routelens.yaml already exists\n", red("Error:"))
		os.Exit(1)
	}

	cfg := config.Config{
		TsconfigPath: "tsconfig.json",
		Include:      []string{"app/**/*.ts", "app/**/*.tsx", "pages/**/*.ts", "pages/**/*.tsx"},
	}

	if !initSkipPrompts && !jsonOutput {
		fmt.Printf("\n  %s Setting up routelens\n\n", cyan("routelens"))

		var useTRPC bool
		var routerIDPattern string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("tsconfig.json path").
					Value(&cfg.TsconfigPath),
				huh.NewConfirm().
					Title("Does this project use tRPC?").
					Value(&useTRPC).
					Affirmative("Yes").
					Negative("No"),
			),
		)
		if err := form.Run(); err != nil {
			if err.Error() == "user aborted" {
				fmt.Println("\n  Cancelled.")
				os.Exit(0)
			}
		}
		if useTRPC {
			idForm := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Router identifier regex (blank to skip)").
						Description("Used when router() factory calls aren't auto-detected").
						Value(&routerIDPattern),
				),
			)
			_ = idForm.Run()
			cfg.RouterIdentifierPattern = routerIDPattern
		}
		fmt.Println()
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding routelens.yaml: %w", err)
	}
	if err := os.WriteFile("routelens.yaml", body, 0o644); err != nil {
		return fmt.Errorf("writing routelens.yaml: %w", err)
	}

	if jsonOutput {
		printSuccess(cfg)
		return nil
	}
	fmt.Printf("  %s wrote routelens.yaml\n\n", cyan("✓"))
	return nil
}
