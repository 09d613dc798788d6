package generator

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/verolang/verogen/internal/ast"
	"github.com/verolang/verogen/internal/compiler"
	"github.com/verolang/verogen/internal/config"
	"github.com/verolang/verogen/internal/domain"
	"github.com/verolang/verogen/internal/scanner"
)

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(cfg *config.Config) (*domain.GenerationResult, error)
}

// DefaultGenerator implements Generator by wiring scanner, decoder and
// compiler together.
type DefaultGenerator struct {
	scanner scanner.Scanner
	log     *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator.
func NewGenerator(s scanner.Scanner, log *logrus.Logger) *DefaultGenerator {
	return &DefaultGenerator{scanner: s, log: log}
}

// Generate runs the full pipeline: scan, decode, compile, write.
func (g *DefaultGenerator) Generate(cfg *config.Config) (*domain.GenerationResult, error) {
	if cfg.Output.CleanBeforeGenerate && !cfg.DryRun {
		g.log.Debugf("Cleaning output directory: %s", cfg.Output.Directory)
		if err := cleanOutputDir(cfg.Output.Directory); err != nil {
			return nil, domain.NewErrorWithSuggestion("write", cfg.Output.Directory, 0,
				"failed to clean output directory",
				"check file permissions or set output.clean_before_generate to false in verogen.yaml",
				err)
		}
	}

	var allFiles []string
	for _, dir := range cfg.Input.Directories {
		g.log.Debugf("Scanning directory: %s", dir)
		files, err := g.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			g.log.Warnf("Failed to scan directory %s: %v", dir, err)
			continue
		}
		allFiles = append(allFiles, files...)
	}

	result := &domain.GenerationResult{}
	if len(allFiles) == 0 {
		g.log.Warn("No program files found")
		return result, nil
	}

	g.log.Infof("Found %d program file(s)", len(allFiles))

	opts := compiler.Options{
		Debug:          cfg.Generate.Debug,
		BaseURL:        cfg.Generate.BaseURL,
		DataFile:       cfg.Generate.DataFile,
		PagesImport:    relImport(cfg.Output.TestsDir, cfg.Output.PagesDir),
		FixturesImport: relImport(cfg.Output.TestsDir, cfg.Output.FixturesDir),
	}

	for _, filePath := range allFiles {
		g.log.Debugf("Compiling: %s", filePath)

		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, domain.NewErrorWithSuggestion("load", filePath, 0,
				"failed to read program file",
				"check that the file exists and has read permissions",
				err)
		}

		program, err := ast.DecodeProgram(data)
		if err != nil {
			return nil, domain.NewError("load", filePath, 0, "failed to decode program", err)
		}

		out := compiler.Compile(program, opts)
		for _, warning := range out.Warnings {
			g.log.Warnf("%s: %s", filePath, warning)
		}
		result.Warnings = append(result.Warnings, out.Warnings...)
		result.Programs++

		if err := g.writeOutput(cfg, out, result); err != nil {
			return nil, err
		}
	}

	g.log.Infof("Generation complete: %d program(s), %d file(s)", result.Programs, len(result.Files))
	return result, nil
}

// relImport builds the relative module specifier feature files use to reach
// a sibling output directory, climbing out of every segment of fromDir.
// Generated imports always use forward slashes regardless of platform.
func relImport(fromDir, toDir string) string {
	from := path.Clean(filepath.ToSlash(fromDir))
	up := strings.Count(from, "/") + 1
	if from == "." || from == "" {
		up = 0
	}
	prefix := strings.Repeat("../", up)
	if prefix == "" {
		prefix = "./"
	}
	return prefix + path.Clean(filepath.ToSlash(toDir))
}

// writeOutput places each compiled unit under the configured directory
// layout: pages and action groups together, features in the tests directory,
// fixtures plus their index in the fixtures directory.
func (g *DefaultGenerator) writeOutput(cfg *config.Config, out *compiler.Output, result *domain.GenerationResult) error {
	for _, unit := range out.Pages {
		if err := g.writeUnit(cfg, cfg.Output.PagesDir, unit, result); err != nil {
			return err
		}
	}
	for _, unit := range out.Actions {
		if err := g.writeUnit(cfg, cfg.Output.PagesDir, unit, result); err != nil {
			return err
		}
	}
	for _, unit := range out.Features {
		if err := g.writeUnit(cfg, cfg.Output.TestsDir, unit, result); err != nil {
			return err
		}
	}
	for _, unit := range out.Fixtures {
		if err := g.writeUnit(cfg, cfg.Output.FixturesDir, unit, result); err != nil {
			return err
		}
	}
	if out.FixtureIndex != nil {
		index := *out.FixtureIndex
		// The index is the fixtures directory's entry point so feature files
		// can import the directory itself.
		index.FileName = "index.ts"
		if err := g.writeUnit(cfg, cfg.Output.FixturesDir, index, result); err != nil {
			return err
		}
	}
	return nil
}

func (g *DefaultGenerator) writeUnit(cfg *config.Config, subDir string, unit compiler.Unit, result *domain.GenerationResult) error {
	dir := filepath.Join(cfg.Output.Directory, subDir)
	path := filepath.Join(dir, unit.FileName)

	if cfg.DryRun {
		g.log.Infof("[DRY-RUN] Would write: %s", path)
		g.log.Debugf("[DRY-RUN] Content:\n%s", unit.Code)
		result.Files = append(result.Files, domain.GeneratedFile{Path: path, Kind: string(unit.Kind), Size: len(unit.Code)})
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.NewErrorWithSuggestion("write", dir, 0,
			"failed to create output directory",
			"check that the parent directory exists and has write permissions",
			err)
	}

	g.log.Infof("Writing: %s", path)
	if err := os.WriteFile(path, []byte(unit.Code), 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", path, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}
	result.Files = append(result.Files, domain.GeneratedFile{Path: path, Kind: string(unit.Kind), Size: len(unit.Code)})
	return nil
}

// cleanOutputDir removes previously generated TypeScript files from the
// output tree. Only generated extensions are touched.
func cleanOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".ts") {
			return os.Remove(path)
		}
		return nil
	})
}
