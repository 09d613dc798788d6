package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// roleShorthands maps shorthand selector kinds to ARIA roles.
var roleShorthands = map[ast.SelectorKind]string{
	ast.SelButton:   "button",
	ast.SelLink:     "link",
	ast.SelTextbox:  "textbox",
	ast.SelCheckbox: "checkbox",
	ast.SelRadio:    "radio",
	ast.SelHeading:  "heading",
	ast.SelOption:   "option",
}

// resolveSelector compiles one selector into a locator expression rooted at
// the pass's current locator base. Modifiers apply left to right in
// declaration order.
func (p *pass) resolveSelector(sel ast.Selector) string {
	expr := p.locatorBase() + "." + p.selectorCall(sel)
	for _, mod := range sel.Modifiers {
		expr += p.modifierCall(mod)
	}
	return expr
}

// selectorCall is the base lookup without modifiers.
func (p *pass) selectorCall(sel ast.Selector) string {
	if role, ok := roleShorthands[sel.Kind]; ok {
		if sel.Value != "" {
			return fmt.Sprintf("getByRole('%s', { name: %s })", role, tsString(sel.Value))
		}
		return fmt.Sprintf("getByRole('%s')", role)
	}

	switch sel.Kind {
	case ast.SelRole:
		if sel.Qualifier != "" {
			return fmt.Sprintf("getByRole('%s', { name: %s })", sel.Value, tsString(sel.Qualifier))
		}
		return fmt.Sprintf("getByRole('%s')", sel.Value)
	case ast.SelLabel:
		return fmt.Sprintf("getByLabel(%s)", tsString(sel.Value))
	case ast.SelPlaceholder:
		return fmt.Sprintf("getByPlaceholder(%s)", tsString(sel.Value))
	case ast.SelTestID:
		return fmt.Sprintf("getByTestId(%s)", tsString(sel.Value))
	case ast.SelText:
		return fmt.Sprintf("getByText(%s)", tsString(sel.Value))
	case ast.SelAlt:
		return fmt.Sprintf("getByAltText(%s)", tsString(sel.Value))
	case ast.SelTitle:
		return fmt.Sprintf("getByTitle(%s)", tsString(sel.Value))
	case ast.SelCSS:
		return fmt.Sprintf("locator(%s)", tsString(sel.Value))
	case ast.SelXPath:
		return fmt.Sprintf("locator(%s)", tsString("xpath="+sel.Value))
	case ast.SelAuto:
		if looksStructural(sel.Value) {
			return fmt.Sprintf("locator(%s)", tsString(sel.Value))
		}
		return fmt.Sprintf("getByText(%s)", tsString(sel.Value))
	default:
		// No rule for this selector kind; treat the raw value as visible
		// text so the locator still resolves to something plausible.
		p.warnf("selector kind %q has no resolution rule, treating value as text", sel.Kind)
		return fmt.Sprintf("getByText(%s)", tsString(sel.Value))
	}
}

// modifierCall renders one modifier as a locator suffix. Has/HasNot recurse
// through the full resolver for their inner selector.
func (p *pass) modifierCall(mod ast.SelectorModifier) string {
	switch mod.Kind {
	case ast.ModFirst:
		return ".first()"
	case ast.ModLast:
		return ".last()"
	case ast.ModNth:
		return fmt.Sprintf(".nth(%d)", mod.Index)
	case ast.ModHasText:
		return fmt.Sprintf(".filter({ hasText: %s })", tsString(mod.Text))
	case ast.ModHasNotText:
		return fmt.Sprintf(".filter({ hasNotText: %s })", tsString(mod.Text))
	case ast.ModHas:
		if mod.Inner == nil {
			return ""
		}
		return fmt.Sprintf(".filter({ has: %s })", p.resolveSelector(*mod.Inner))
	case ast.ModHasNot:
		if mod.Inner == nil {
			return ""
		}
		return fmt.Sprintf(".filter({ hasNot: %s })", p.resolveSelector(*mod.Inner))
	default:
		p.warnf("selector modifier %q has no resolution rule, ignoring it", mod.Kind)
		return ""
	}
}

var (
	pseudoRe  = regexp.MustCompile(`:[a-z-]+(\(|$|\s)`)
	tagPlusRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*[.#\[]`)
)

// looksStructural classifies a legacy auto selector: ID/class/attribute
// prefixes, structural-path prefixes, combinator characters, pseudo-selector
// syntax or a leading tag plus selector all route to a structural locator;
// anything else is visible text.
func looksStructural(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" {
		return false
	}
	switch s[0] {
	case '#', '.', '[', '/', '*':
		return true
	}
	if strings.ContainsAny(s, "><~+") {
		return true
	}
	if pseudoRe.MatchString(s) {
		return true
	}
	if tagPlusRe.MatchString(s) {
		return true
	}
	return false
}

// resolveTarget compiles a target into a locator expression. A page-qualified
// field resolves against that page's instance; the page being compiled
// resolves to a self-reference.
func (p *pass) resolveTarget(t ast.Target) string {
	switch {
	case t.Selector != nil:
		return p.resolveSelector(*t.Selector)
	case t.Page != "" && t.Field != "":
		if p.current != nil && t.Page == p.current.Name {
			return "this." + tsIdent(t.Field)
		}
		return lowerFirst(tsIdent(t.Page)) + "." + tsIdent(t.Field)
	case t.Field != "":
		if p.current != nil {
			return "this." + tsIdent(t.Field)
		}
		// A bare field in a scenario binds to the only page in scope when
		// there is exactly one; otherwise it degrades to a text lookup.
		if len(p.pages) == 1 {
			for name := range p.pages {
				return lowerFirst(tsIdent(name)) + "." + tsIdent(t.Field)
			}
		}
		return p.resolveSelector(ast.Selector{Kind: ast.SelAuto, Value: t.Field})
	default:
		return p.resolveSelector(ast.Selector{Kind: ast.SelAuto, Value: t.Text})
	}
}

// describeTarget is the best-effort human description used by debug
// instrumentation.
func describeTarget(t ast.Target) string {
	switch {
	case t.Page != "" && t.Field != "":
		return t.Page + "." + t.Field
	case t.Field != "":
		return t.Field
	case t.Selector != nil:
		return t.Selector.Value
	default:
		return t.Text
	}
}
