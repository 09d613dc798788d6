package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verolang/verogen/internal/ast"
	"github.com/verolang/verogen/internal/plan"
	"github.com/verolang/verogen/internal/scanner"
)

var (
	planFormat string
	planOutput string
	planTitle  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Render a human-readable test plan from Vero programs",
	Long:  `Scans program files and renders a test plan document describing every feature, scenario and fixture, without generating any test code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		format := cfg.Plan.Format
		if planFormat != "" {
			format = planFormat
		}
		output := cfg.Plan.Output
		if planOutput != "" {
			output = planOutput
		}

		recursive := true
		if cfg.Input.Recursive != nil {
			recursive = *cfg.Input.Recursive
		}
		s := scanner.NewScanner(recursive)

		doc := plan.Document{Title: planTitle}
		for _, dir := range cfg.Input.Directories {
			files, err := s.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
			if err != nil {
				return err
			}
			for _, path := range files {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				program, err := ast.DecodeProgram(data)
				if err != nil {
					return err
				}
				doc.Sources = append(doc.Sources, plan.Source{Path: path, Program: program})
			}
		}

		var rendered string
		switch format {
		case "html":
			rendered, err = plan.HTML(doc)
			if err != nil {
				return err
			}
		default:
			rendered = plan.Markdown(doc)
		}

		if output == "-" {
			fmt.Print(rendered)
			return nil
		}
		if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write plan: %w", err)
		}
		log.WithField("path", output).Info("Test plan written")
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "", "plan format: markdown or html (default from config)")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "plan output path, or - for stdout (default from config)")
	planCmd.Flags().StringVar(&planTitle, "title", "", "plan document title")
	rootCmd.AddCommand(planCmd)
}
