package config

import (
	"fmt"
	"strings"

	"github.com/verolang/verogen/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}

	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	if cfg.Output.PagesDir == "" {
		errs = append(errs, "output.pages_dir must not be empty")
	}
	if cfg.Output.TestsDir == "" {
		errs = append(errs, "output.tests_dir must not be empty")
	}

	if cfg.Plan.Format != "" {
		validFormats := map[string]bool{"markdown": true, "html": true}
		if !validFormats[cfg.Plan.Format] {
			errs = append(errs, fmt.Sprintf("plan.format must be one of: markdown, html (got %q)", cfg.Plan.Format))
		}
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
