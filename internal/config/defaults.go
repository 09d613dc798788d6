package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"."},
			Include:     []string{"*.vero.yaml"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Output: OutputConfig{
			Directory:           "e2e",
			PagesDir:            "pages",
			TestsDir:            "tests",
			FixturesDir:         "fixtures",
			CleanBeforeGenerate: true,
		},
		Generate: GenerateConfig{
			DataFile: "vero-data.json",
		},
		Plan: PlanConfig{
			Format: "markdown",
			Output: "test-plan.md",
		},
		Store: StoreConfig{
			Path: "vero.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
