package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verolang/verogen/internal/tablestore"
)

var tablesFile string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage the seeded data tables backing generated tests",
}

var tablesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tables from the store to the JSON data file",
	Long:  `Writes every table in the store to the JSON data file that generated tests preload at runtime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := tablestore.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		data, err := store.ExportJSON()
		if err != nil {
			return err
		}

		target := cfg.Generate.DataFile
		if tablesFile != "" {
			target = tablesFile
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("failed to write data file: %w", err)
		}

		names, err := store.Names()
		if err != nil {
			return err
		}
		log.WithField("tables", len(names)).WithField("path", target).Info("Tables exported")
		return nil
	},
}

var tablesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tables from the JSON data file into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		source := cfg.Generate.DataFile
		if tablesFile != "" {
			source = tablesFile
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read data file: %w", err)
		}

		store, err := tablestore.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ImportJSON(data); err != nil {
			return err
		}

		names, err := store.Names()
		if err != nil {
			return err
		}
		log.WithField("tables", len(names)).WithField("path", cfg.Store.Path).Info("Tables imported")
		return nil
	},
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the table keys present in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := tablestore.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		names, err := store.Names()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	tablesCmd.PersistentFlags().StringVarP(&tablesFile, "file", "f", "", "JSON data file (default from config)")
	tablesCmd.AddCommand(tablesExportCmd)
	tablesCmd.AddCommand(tablesImportCmd)
	tablesCmd.AddCommand(tablesListCmd)
	rootCmd.AddCommand(tablesCmd)
}
