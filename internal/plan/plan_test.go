package plan_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/verolang/verogen/internal/ast"
	"github.com/verolang/verogen/internal/plan"
)

func TestPlan(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Plan Suite")
}

func sampleDocument() plan.Document {
	return plan.Document{
		Title: "Checkout Suite",
		Sources: []plan.Source{
			{
				Path: "checkout.vero.yaml",
				Program: &ast.Program{
					Pages: []*ast.Page{
						{
							Name:   "CartPage",
							Fields: []ast.Field{{Name: "total"}},
							Actions: []*ast.Action{
								{Name: "addItem"},
							},
						},
					},
					Features: []*ast.Feature{
						{
							Name:        "Checkout",
							Annotations: ast.FeatureAnnotations{Serial: true},
							Hooks: []*ast.Hook{
								{Kind: ast.BeforeEach, Statements: []ast.Statement{&ast.Reload{}}},
							},
							Scenarios: []*ast.Scenario{
								{
									Name: "pay with card",
									Tags: []string{"smoke"},
									Statements: []ast.Statement{
										&ast.Click{},
										&ast.Repeat{Count: 2, Body: []ast.Statement{&ast.Click{}, &ast.Click{}}},
									},
								},
								{
									Name:        "pay later",
									Annotations: ast.ScenarioAnnotations{Skip: true},
								},
							},
						},
					},
					Fixtures: []*ast.Fixture{
						{Name: "seededCart", Scope: ast.ScopeTest, Auto: true},
					},
				},
			},
		},
	}
}

var _ = Describe("Plan", func() {
	Describe("Markdown", func() {
		It("should render a document with per-feature sections", func() {
			md := plan.Markdown(sampleDocument())
			Expect(md).To(ContainSubstring("# Checkout Suite"))
			Expect(md).To(ContainSubstring("1 program(s), 2 scenario(s)."))
			Expect(md).To(ContainSubstring("## checkout.vero.yaml"))
			Expect(md).To(ContainSubstring("### Feature: Checkout [serial]"))
			Expect(md).To(ContainSubstring("- hook `beforeEach` (1 step(s))"))
			Expect(md).To(ContainSubstring("Pages: CartPage (1 field(s), 1 action(s))."))
			Expect(md).To(ContainSubstring("Fixture: seededCart (scope test, auto)"))
		})

		It("should count nested steps", func() {
			md := plan.Markdown(sampleDocument())
			// click + repeat + two nested clicks
			Expect(md).To(ContainSubstring("- pay with card (4 step(s)) (tags: smoke)"))
		})

		It("should mark skipped scenarios", func() {
			md := plan.Markdown(sampleDocument())
			Expect(md).To(ContainSubstring("- pay later [skip] (0 step(s))"))
		})

		It("should fall back to a default title", func() {
			md := plan.Markdown(plan.Document{})
			Expect(md).To(HavePrefix("# Test Plan"))
		})
	})

	Describe("HTML", func() {
		It("should render markdown into HTML", func() {
			html, err := plan.HTML(sampleDocument())
			Expect(err).ToNot(HaveOccurred())
			Expect(html).To(ContainSubstring("<h1>Checkout Suite</h1>"))
			Expect(html).To(ContainSubstring("<h3>Feature: Checkout [serial]</h3>"))
			Expect(html).To(ContainSubstring("<li>"))
		})
	})
})
