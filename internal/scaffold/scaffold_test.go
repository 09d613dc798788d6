package scaffold_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/verolang/verogen/internal/config"
	"github.com/verolang/verogen/internal/scaffold"
)

func TestScaffold(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scaffold Suite")
}

var _ = Describe("Engine", func() {
	var data scaffold.Data

	BeforeEach(func() {
		data = scaffold.Data{
			ProjectName: "Shop-E2E",
			TestsDir:    "tests",
			PagesDir:    "pages",
			FixturesDir: "fixtures",
			BaseURL:     "https://shop.example.com",
			DataFile:    "vero-data.json",
		}
	})

	Describe("ListTemplates", func() {
		It("should list the built-in templates sorted", func() {
			engine, err := scaffold.NewEngine("")
			Expect(err).ToNot(HaveOccurred())
			Expect(engine.ListTemplates()).To(Equal([]string{"package.json", "playwright.config.ts"}))
		})
	})

	Describe("Render", func() {
		It("should render the Playwright config with the configured dirs", func() {
			engine, err := scaffold.NewEngine("")
			Expect(err).ToNot(HaveOccurred())

			result, err := engine.Render("playwright.config.ts", data)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(ContainSubstring("testDir: './tests'"))
			Expect(result).To(ContainSubstring("baseURL: 'https://shop.example.com'"))
		})

		It("should omit baseURL when none is configured", func() {
			engine, err := scaffold.NewEngine("")
			Expect(err).ToNot(HaveOccurred())

			data.BaseURL = ""
			result, err := engine.Render("playwright.config.ts", data)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).ToNot(ContainSubstring("baseURL"))
		})

		It("should lowercase the project name in package.json", func() {
			engine, err := scaffold.NewEngine("")
			Expect(err).ToNot(HaveOccurred())

			result, err := engine.Render("package.json", data)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(ContainSubstring(`"name": "shop-e2e"`))
			Expect(result).To(ContainSubstring("@verolang/runtime"))
		})

		It("should fail for an unknown template name", func() {
			engine, err := scaffold.NewEngine("")
			Expect(err).ToNot(HaveOccurred())

			_, err = engine.Render("tsconfig.json", data)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not found"))
		})
	})

	Describe("template overrides", func() {
		It("should let a template directory override built-ins and add files", func() {
			dir := GinkgoT().TempDir()
			err := os.WriteFile(filepath.Join(dir, "package.json.tmpl"),
				[]byte(`{"name": "{{ .ProjectName }}-custom"}`), 0644)
			Expect(err).ToNot(HaveOccurred())
			err = os.WriteFile(filepath.Join(dir, ".gitignore.tmpl"),
				[]byte("node_modules/\ntest-results/\n"), 0644)
			Expect(err).ToNot(HaveOccurred())

			engine, err := scaffold.NewEngine(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(engine.ListTemplates()).To(ContainElement(".gitignore"))

			result, err := engine.Render("package.json", data)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(`{"name": "Shop-E2E-custom"}`))
		})

		It("should fail for a nonexistent template directory", func() {
			_, err := scaffold.NewEngine(filepath.Join(GinkgoT().TempDir(), "missing"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Write", func() {
		It("should write all scaffold files and keep existing ones", func() {
			dir := GinkgoT().TempDir()
			engine, err := scaffold.NewEngine("")
			Expect(err).ToNot(HaveOccurred())

			written, err := engine.Write(dir, data)
			Expect(err).ToNot(HaveOccurred())
			Expect(written).To(HaveLen(2))

			// Re-running must not clobber local edits.
			marker := []byte("{ /* edited */ }")
			Expect(os.WriteFile(filepath.Join(dir, "package.json"), marker, 0644)).To(Succeed())

			written, err = engine.Write(dir, data)
			Expect(err).ToNot(HaveOccurred())
			Expect(written).To(BeEmpty())

			content, err := os.ReadFile(filepath.Join(dir, "package.json"))
			Expect(err).ToNot(HaveOccurred())
			Expect(content).To(Equal(marker))
		})
	})

	Describe("DataFromConfig", func() {
		It("should derive the project name from the output directory", func() {
			cfg := config.DefaultConfig()
			cfg.Output.Directory = "build/acme-e2e"
			cfg.Generate.BaseURL = "https://acme.example.com"

			got := scaffold.DataFromConfig(cfg)
			Expect(got.ProjectName).To(Equal("acme-e2e"))
			Expect(got.TestsDir).To(Equal("tests"))
			Expect(got.BaseURL).To(Equal("https://acme.example.com"))
		})
	})
})
