// Package ast defines the typed node tree the compiler consumes. The tree is
// produced by the upstream Vero parser and serialized as YAML; this package
// only models and decodes it, it never parses DSL source.
package ast

// Program is one compilation unit: every page, action group, feature and
// fixture of a project. Nodes are built once upstream and never mutated.
type Program struct {
	Pages    []*Page
	Actions  []*ActionGroup
	Features []*Feature
	Fixtures []*Fixture
}

// Page is a page-object declaration: named fields bound to selectors,
// typed constants and reusable actions.
type Page struct {
	Name      string
	Fields    []Field
	Variables []Variable
	Actions   []*Action
}

// Field binds a name to a selector inside a page.
type Field struct {
	Name     string
	Selector Selector
}

// Variable is a typed literal declared on a page.
type Variable struct {
	Name  string
	Type  string // "text", "number", "flag"
	Value Expr
}

// Action is a reusable statement block on a page or in an action group.
type Action struct {
	Name       string
	Params     []Param
	Returns    string // empty when the action returns nothing
	Statements []Statement
}

// Param is a declared action parameter.
type Param struct {
	Name string
	Type string
}

// ActionGroup is a standalone collection of page-action helpers.
type ActionGroup struct {
	Name    string
	Actions []*Action
}

// Feature is a test suite: hooks plus scenarios. Page and fixture
// dependencies are implicit, inferred from statement use.
type Feature struct {
	Name        string
	Annotations FeatureAnnotations
	Hooks       []*Hook
	Scenarios   []*Scenario
}

// FeatureAnnotations carry suite-level execution flags.
type FeatureAnnotations struct {
	Serial bool
	Skip   bool
	Only   bool
}

// HookKind discriminates the four hook positions.
type HookKind string

const (
	BeforeAll  HookKind = "beforeAll"
	BeforeEach HookKind = "beforeEach"
	AfterAll   HookKind = "afterAll"
	AfterEach  HookKind = "afterEach"
)

// Hook is a feature-level setup/teardown block.
type Hook struct {
	Kind       HookKind
	Statements []Statement
}

// Scenario is a single test case.
type Scenario struct {
	Name        string
	Tags        []string
	Annotations ScenarioAnnotations
	Statements  []Statement
}

// ScenarioAnnotations carry test-level execution flags.
type ScenarioAnnotations struct {
	Skip  bool
	Only  bool
	Slow  bool
	Fixme bool
}

// FixtureScope is the lifetime of a fixture instance.
type FixtureScope string

const (
	ScopeTest   FixtureScope = "test"
	ScopeWorker FixtureScope = "worker"
)

// Fixture is a reusable setup/teardown unit injected into generated tests.
type Fixture struct {
	Name     string
	Scope    FixtureScope
	Deps     []string
	Auto     bool
	Options  []FixtureOption
	Setup    []Statement
	Teardown []Statement
}

// FixtureOption is a declared, overridable fixture option.
type FixtureOption struct {
	Name    string
	Default Expr
}

// SelectorKind classifies how a selector value is interpreted.
type SelectorKind string

const (
	SelRole        SelectorKind = "role" // generic role, Value = role name
	SelButton      SelectorKind = "button"
	SelLink        SelectorKind = "link"
	SelTextbox     SelectorKind = "textbox"
	SelCheckbox    SelectorKind = "checkbox"
	SelRadio       SelectorKind = "radio"
	SelHeading     SelectorKind = "heading"
	SelOption      SelectorKind = "option"
	SelLabel       SelectorKind = "label"
	SelPlaceholder SelectorKind = "placeholder"
	SelTestID      SelectorKind = "testid"
	SelText        SelectorKind = "text"
	SelAlt         SelectorKind = "alt"
	SelTitle       SelectorKind = "title"
	SelCSS         SelectorKind = "css"
	SelXPath       SelectorKind = "xpath"
	SelAuto        SelectorKind = "auto" // legacy: classified structurally or as text
)

// Selector describes one element lookup with an ordered modifier chain.
type Selector struct {
	Kind      SelectorKind
	Value     string
	Qualifier string // accessible-name qualifier for role selectors
	Modifiers []SelectorModifier
}

// ModifierKind discriminates selector modifiers.
type ModifierKind string

const (
	ModFirst      ModifierKind = "first"
	ModLast       ModifierKind = "last"
	ModNth        ModifierKind = "nth"
	ModHasText    ModifierKind = "hasText"
	ModHasNotText ModifierKind = "hasNotText"
	ModHas        ModifierKind = "has"
	ModHasNot     ModifierKind = "hasNot"
)

// SelectorModifier refines a base locator. Modifiers apply left to right in
// declaration order. Has/HasNot carry an inner selector resolved through the
// same resolver.
type SelectorModifier struct {
	Kind  ModifierKind
	Index int
	Text  string
	Inner *Selector
}

// Target identifies what a statement acts on: free text, an inline selector,
// a page-qualified field or a bare field of the page being compiled.
type Target struct {
	Text     string
	Selector *Selector
	Page     string
	Field    string
}

// IsZero reports whether no target was given.
func (t Target) IsZero() bool {
	return t.Text == "" && t.Selector == nil && t.Page == "" && t.Field == ""
}

// TableAccessKind discriminates table accessors.
type TableAccessKind string

const (
	AccessColumn TableAccessKind = "column"
	AccessRow    TableAccessKind = "row"
	AccessRange  TableAccessKind = "range"
	AccessCell   TableAccessKind = "cell"
)

// TableAccess narrows a table reference to a column, row, range or cell.
type TableAccess struct {
	Kind   TableAccessKind
	Column string
	Row    int
	From   int
	To     int
}

// TableReference names a fixture table, optionally qualified by another
// project and narrowed by an accessor.
type TableReference struct {
	Project string
	Table   string
	Access  *TableAccess
}

// Key is the preload accessor key: "project.table" when cross-project.
func (r TableReference) Key() string {
	if r.Project != "" {
		return r.Project + "." + r.Table
	}
	return r.Table
}

// CompareOp is a comparison operator inside a WHERE tree.
type CompareOp string

const (
	OpEq         CompareOp = "=="
	OpNe         CompareOp = "!="
	OpLt         CompareOp = "<"
	OpLe         CompareOp = "<="
	OpGt         CompareOp = ">"
	OpGe         CompareOp = ">="
	OpContains   CompareOp = "contains"
	OpStartsWith CompareOp = "startsWith"
	OpEndsWith   CompareOp = "endsWith"
	OpMatches    CompareOp = "matches"
	OpIsNull     CompareOp = "isNull"
	OpNotNull    CompareOp = "isNotNull"
	OpIsEmpty    CompareOp = "isEmpty"
	OpNotEmpty   CompareOp = "isNotEmpty"
	OpIn         CompareOp = "in"
	OpNotIn      CompareOp = "notIn"
)

// DataCondition is the recursive WHERE-clause tree over named columns.
type DataCondition interface{ condNode() }

// AndCond keeps rows matching every child condition.
type AndCond struct{ Conds []DataCondition }

// OrCond keeps rows matching any child condition.
type OrCond struct{ Conds []DataCondition }

// NotCond inverts its child condition.
type NotCond struct{ Cond DataCondition }

// Comparison applies one operator to a named column.
type Comparison struct {
	Column string
	Op     CompareOp
	Value  Expr
	Values []Expr // for in / notIn
}

func (*AndCond) condNode()    {}
func (*OrCond) condNode()     {}
func (*NotCond) condNode()    {}
func (*Comparison) condNode() {}
