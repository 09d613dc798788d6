package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/verolang/verogen/internal/scaffold"
	"github.com/verolang/verogen/internal/ui"
)

var scaffoldTemplateDir string

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Write the Playwright project shell around the generated tests",
	Long: `Writes playwright.config.ts and package.json into the output directory
so the generated test suite can be installed and run. Existing files are
never overwritten; a template directory can override the built-in templates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := scaffold.NewEngine(scaffoldTemplateDir)
		if err != nil {
			return err
		}

		written, err := engine.Write(cfg.Output.Directory, scaffold.DataFromConfig(cfg))
		if err != nil {
			return err
		}
		for _, path := range written {
			ui.GenLine(os.Stdout, "scaffold", path)
		}
		if len(written) == 0 {
			log.Info("Scaffold already present, nothing written")
		}
		return nil
	},
}

func init() {
	scaffoldCmd.Flags().StringVar(&scaffoldTemplateDir, "templates", "", "directory of .tmpl overrides for scaffold files")
	rootCmd.AddCommand(scaffoldCmd)
}
