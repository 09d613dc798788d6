package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/verolang/verogen/internal/config"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		writeConfig := func(content string) string {
			path := filepath.Join(GinkgoT().TempDir(), "verogen.yaml")
			Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
			return path
		}

		It("should apply defaults over a minimal config", func() {
			path := writeConfig("input:\n  directories: [specs]\n")
			cfg, err := config.Load(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Input.Directories).To(ConsistOf("specs"))
			Expect(cfg.Input.Include).To(ContainElement("*.vero.yaml"))
			Expect(cfg.Output.Directory).To(Equal("e2e"))
			Expect(cfg.Generate.DataFile).To(Equal("vero-data.json"))
		})

		It("should load a full config", func() {
			path := writeConfig(`
input:
  directories: [specs, shared]
  exclude: ["vendor/**"]
output:
  directory: generated
  pages_dir: pom
  tests_dir: suites
  clean_before_generate: false
generate:
  base_url: https://staging.example.com
  debug: true
plan:
  format: html
  output: plan.html
store:
  path: runs.db
logging:
  level: debug
`)
			cfg, err := config.Load(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Input.Directories).To(HaveLen(2))
			Expect(cfg.Output.PagesDir).To(Equal("pom"))
			Expect(cfg.Output.CleanBeforeGenerate).To(BeFalse())
			Expect(cfg.Generate.BaseURL).To(Equal("https://staging.example.com"))
			Expect(cfg.Generate.Debug).To(BeTrue())
			Expect(cfg.Plan.Format).To(Equal("html"))
			Expect(cfg.Store.Path).To(Equal("runs.db"))
			Expect(cfg.Logging.Level).To(Equal("debug"))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			path := writeConfig("{{invalid yaml}}")
			_, err := config.Load(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Include).To(ContainElement("*.vero.yaml"))
			Expect(*cfg.Input.Recursive).To(BeTrue())
			Expect(cfg.Output.PagesDir).To(Equal("pages"))
			Expect(cfg.Output.TestsDir).To(Equal("tests"))
			Expect(cfg.Plan.Format).To(Equal("markdown"))
			Expect(cfg.Store.Path).To(Equal("vero.db"))
			Expect(cfg.Logging.Level).To(Equal("info"))
			Expect(cfg.DryRun).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		It("should accept the default config", func() {
			Expect(config.Validate(config.DefaultConfig())).To(Succeed())
		})

		It("should reject empty input directories", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Directories = nil
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("input.directories"))
		})

		It("should reject an unknown plan format", func() {
			cfg := config.DefaultConfig()
			cfg.Plan.Format = "pdf"
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("plan.format"))
		})

		It("should reject an unknown logging level", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = "verbose"
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logging.level"))
		})
	})
})
