// Package plan renders a human-readable test plan from decoded programs:
// markdown for review in a repository, HTML for sharing outside it.
package plan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/verolang/verogen/internal/ast"
	"github.com/verolang/verogen/internal/domain"
)

// Source is one program file contributing to the plan.
type Source struct {
	Path    string
	Program *ast.Program
}

// Document is the input to a plan rendering.
type Document struct {
	Title   string
	Sources []Source
}

// Markdown renders the plan as a markdown document.
func Markdown(doc Document) string {
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = "Test Plan"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	totalScenarios := 0
	for _, src := range doc.Sources {
		for _, f := range src.Program.Features {
			totalScenarios += len(f.Scenarios)
		}
	}
	fmt.Fprintf(&b, "%d program(s), %d scenario(s).\n", len(doc.Sources), totalScenarios)

	for _, src := range doc.Sources {
		fmt.Fprintf(&b, "\n## %s\n", src.Path)
		renderProgram(&b, src.Program)
	}
	return b.String()
}

// HTML renders the plan as a standalone HTML document.
func HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", domain.NewError("plan", "", 0, "failed to render plan as HTML", err)
	}
	return buf.String(), nil
}

func renderProgram(b *strings.Builder, p *ast.Program) {
	if len(p.Pages) > 0 {
		fmt.Fprintf(b, "\nPages: ")
		names := make([]string, len(p.Pages))
		for i, page := range p.Pages {
			names[i] = fmt.Sprintf("%s (%d field(s), %d action(s))", page.Name, len(page.Fields), len(page.Actions))
		}
		fmt.Fprintf(b, "%s.\n", strings.Join(names, ", "))
	}

	for _, f := range p.Features {
		fmt.Fprintf(b, "\n### Feature: %s%s\n\n", f.Name, featureFlags(f))
		for _, h := range f.Hooks {
			fmt.Fprintf(b, "- hook `%s` (%d step(s))\n", h.Kind, len(h.Statements))
		}
		for _, s := range f.Scenarios {
			fmt.Fprintf(b, "- %s%s (%d step(s))%s\n", s.Name, scenarioFlags(s), countSteps(s.Statements), tagSuffix(s.Tags))
		}
	}

	for _, fx := range p.Fixtures {
		auto := ""
		if fx.Auto {
			auto = ", auto"
		}
		fmt.Fprintf(b, "\nFixture: %s (scope %s%s)\n", fx.Name, fx.Scope, auto)
	}
}

func featureFlags(f *ast.Feature) string {
	var flags []string
	if f.Annotations.Serial {
		flags = append(flags, "serial")
	}
	if f.Annotations.Skip {
		flags = append(flags, "skip")
	}
	if f.Annotations.Only {
		flags = append(flags, "only")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

func scenarioFlags(s *ast.Scenario) string {
	var flags []string
	if s.Annotations.Skip {
		flags = append(flags, "skip")
	}
	if s.Annotations.Only {
		flags = append(flags, "only")
	}
	if s.Annotations.Slow {
		flags = append(flags, "slow")
	}
	if s.Annotations.Fixme {
		flags = append(flags, "fixme")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " (tags: " + strings.Join(tags, ", ") + ")"
}

// countSteps counts statements including nested bodies, so the plan reflects
// real scenario size rather than top-level statement count.
func countSteps(stmts []ast.Statement) int {
	n := 0
	for _, st := range stmts {
		n++
		switch s := st.(type) {
		case *ast.IfElse:
			n += countSteps(s.Then) + countSteps(s.Else)
		case *ast.Repeat:
			n += countSteps(s.Body)
		case *ast.ForEachRow:
			n += countSteps(s.Body)
		case *ast.TryCatch:
			n += countSteps(s.Try) + countSteps(s.Catch)
		}
	}
	return n
}
