package generator_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/verolang/verogen/internal/config"
	"github.com/verolang/verogen/internal/generator"
	"github.com/verolang/verogen/internal/scanner"
)

func TestGenerator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Generator Suite")
}

const loginProgramYAML = `
pages:
  - name: LoginPage
    fields:
      - name: emailInput
        selector: { kind: label, value: Email }
    actions:
      - name: logIn
        params:
          - { name: email, type: text }
        statements:
          - kind: fill
            target: { field: emailInput }
            value: { kind: var, name: email }
features:
  - name: Login
    scenarios:
      - name: valid credentials
        statements:
          - kind: open
            url: { kind: string, value: /login }
          - kind: callAction
            page: LoginPage
            action: logIn
            args:
              - { kind: string, value: a@b.c }
fixtures:
  - name: seededUser
    scope: test
    setup:
      - kind: log
        value: { kind: string, value: seeding }
`

var _ = Describe("Generator", func() {
	var (
		gen       *generator.DefaultGenerator
		cfg       *config.Config
		inputDir  string
		outputDir string
	)

	BeforeEach(func() {
		log := logrus.New()
		log.SetOutput(io.Discard)

		inputDir = GinkgoT().TempDir()
		outputDir = filepath.Join(GinkgoT().TempDir(), "e2e")
		Expect(os.WriteFile(filepath.Join(inputDir, "login.vero.yaml"), []byte(loginProgramYAML), 0644)).To(Succeed())

		cfg = config.DefaultConfig()
		cfg.Input.Directories = []string{inputDir}
		cfg.Output.Directory = outputDir

		gen = generator.NewGenerator(scanner.NewScanner(true), log)
	})

	It("should generate page, feature and fixture files", func() {
		result, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Programs).To(Equal(1))

		page, err := os.ReadFile(filepath.Join(outputDir, "pages", "LoginPage.ts"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(page)).To(ContainSubstring("export class LoginPage"))

		spec, err := os.ReadFile(filepath.Join(outputDir, "tests", "login.spec.ts"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(spec)).To(ContainSubstring(`test.describe("Login"`))
		Expect(string(spec)).To(ContainSubstring("import { test, expect } from '../fixtures';"))

		fixture, err := os.ReadFile(filepath.Join(outputDir, "fixtures", "seeded-user.fixture.ts"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(fixture)).To(ContainSubstring("seededUserFixture"))

		index, err := os.ReadFile(filepath.Join(outputDir, "fixtures", "index.ts"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(index)).To(ContainSubstring("export const test = base.extend"))
	})

	It("should derive feature imports from a custom directory layout", func() {
		cfg.Output.PagesDir = "pom"
		cfg.Output.TestsDir = "suites"
		cfg.Output.FixturesDir = "fx"

		_, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())

		spec, err := os.ReadFile(filepath.Join(outputDir, "suites", "login.spec.ts"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(spec)).To(ContainSubstring("import { test, expect } from '../fx';"))
		Expect(string(spec)).To(ContainSubstring("import { LoginPage } from '../pom/LoginPage';"))

		_, err = os.Stat(filepath.Join(outputDir, "fx", "index.ts"))
		Expect(err).ToNot(HaveOccurred())
	})

	It("should climb out of a nested tests directory", func() {
		cfg.Output.TestsDir = "suites/e2e"

		_, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())

		spec, err := os.ReadFile(filepath.Join(outputDir, "suites", "e2e", "login.spec.ts"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(spec)).To(ContainSubstring("import { test, expect } from '../../fixtures';"))
		Expect(string(spec)).To(ContainSubstring("import { LoginPage } from '../../pages/LoginPage';"))
	})

	It("should report generated files in the result", func() {
		result, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.CountByKind("page")).To(Equal(1))
		Expect(result.CountByKind("feature")).To(Equal(1))
		Expect(result.CountByKind("fixture")).To(Equal(1))
		Expect(result.CountByKind("fixture-index")).To(Equal(1))
	})

	It("should not write files in dry-run mode", func() {
		cfg.DryRun = true
		result, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Files).ToNot(BeEmpty())
		_, statErr := os.Stat(outputDir)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("should clean previously generated files before regenerating", func() {
		stale := filepath.Join(outputDir, "tests", "stale.spec.ts")
		Expect(os.MkdirAll(filepath.Dir(stale), 0755)).To(Succeed())
		Expect(os.WriteFile(stale, []byte("// old"), 0644)).To(Succeed())

		_, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())
		_, statErr := os.Stat(stale)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("should surface compiler warnings", func() {
		bad := `
features:
  - name: Weird
    scenarios:
      - name: uses unknown statement
        statements:
          - kind: teleport
`
		Expect(os.WriteFile(filepath.Join(inputDir, "weird.vero.yaml"), []byte(bad), 0644)).To(Succeed())

		result, err := gen.Generate(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Warnings).ToNot(BeEmpty())
		Expect(result.Warnings[0]).To(ContainSubstring("teleport"))
	})

	It("should return an error for an unreadable program", func() {
		Expect(os.WriteFile(filepath.Join(inputDir, "broken.vero.yaml"), []byte("pages: [unclosed"), 0644)).To(Succeed())
		_, err := gen.Generate(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to decode program"))
	})
})
