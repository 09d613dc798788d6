package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/verolang/verogen/internal/generator"
	"github.com/verolang/verogen/internal/scanner"
	"github.com/verolang/verogen/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Playwright test files from Vero programs",
	Long:  `Scans program files, compiles pages, features and fixtures, and writes the Playwright test suite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log.Info("Configuration loaded successfully")
		log.WithField("directories", cfg.Input.Directories).Info("Scanning directories")
		log.WithField("path", cfg.Output.Directory).Info("Output directory")

		recursive := true
		if cfg.Input.Recursive != nil {
			recursive = *cfg.Input.Recursive
		}
		s := scanner.NewScanner(recursive)

		gen := generator.NewGenerator(s, log)
		result, err := gen.Generate(cfg)
		if err != nil {
			return err
		}

		for _, file := range result.Files {
			ui.GenLine(os.Stdout, file.Kind, file.Path)
		}
		for _, warning := range result.Warnings {
			ui.WarnLine(os.Stdout, warning)
		}
		ui.SummaryLine(os.Stdout, result.Programs, len(result.Files), len(result.Warnings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
