package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeProgram unmarshals a serialized program produced by the upstream
// parser. Unknown statement or expression kinds decode to Unknown nodes so a
// newer DSL never makes decoding fail.
func DecodeProgram(data []byte) (*Program, error) {
	var raw rawProgram
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	return raw.build(), nil
}

type rawProgram struct {
	Pages    []rawPage    `yaml:"pages"`
	Actions  []rawGroup   `yaml:"actions"`
	Features []rawFeature `yaml:"features"`
	Fixtures []rawFixture `yaml:"fixtures"`
}

func (r *rawProgram) build() *Program {
	p := &Program{}
	for i := range r.Pages {
		p.Pages = append(p.Pages, r.Pages[i].build())
	}
	for i := range r.Actions {
		p.Actions = append(p.Actions, r.Actions[i].build())
	}
	for i := range r.Features {
		p.Features = append(p.Features, r.Features[i].build())
	}
	for i := range r.Fixtures {
		p.Fixtures = append(p.Fixtures, r.Fixtures[i].build())
	}
	return p
}

type rawPage struct {
	Name      string        `yaml:"name"`
	Fields    []rawField    `yaml:"fields"`
	Variables []rawVariable `yaml:"variables"`
	Actions   []rawAction   `yaml:"actions"`
}

func (r *rawPage) build() *Page {
	page := &Page{Name: r.Name}
	for _, f := range r.Fields {
		page.Fields = append(page.Fields, Field{Name: f.Name, Selector: f.Selector.build()})
	}
	for _, v := range r.Variables {
		page.Variables = append(page.Variables, Variable{Name: v.Name, Type: v.Type, Value: v.Value.build()})
	}
	for i := range r.Actions {
		page.Actions = append(page.Actions, r.Actions[i].build())
	}
	return page
}

type rawField struct {
	Name     string      `yaml:"name"`
	Selector rawSelector `yaml:"selector"`
}

type rawVariable struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Value *rawExpr `yaml:"value"`
}

type rawAction struct {
	Name       string    `yaml:"name"`
	Params     []Param   `yaml:"params"`
	Returns    string    `yaml:"returns"`
	Statements []rawStmt `yaml:"statements"`
}

func (r *rawAction) build() *Action {
	return &Action{
		Name:       r.Name,
		Params:     r.Params,
		Returns:    r.Returns,
		Statements: buildStmts(r.Statements),
	}
}

type rawGroup struct {
	Name    string      `yaml:"name"`
	Actions []rawAction `yaml:"actions"`
}

func (r *rawGroup) build() *ActionGroup {
	g := &ActionGroup{Name: r.Name}
	for i := range r.Actions {
		g.Actions = append(g.Actions, r.Actions[i].build())
	}
	return g
}

type rawFeature struct {
	Name        string             `yaml:"name"`
	Annotations FeatureAnnotations `yaml:"annotations"`
	Hooks       []rawHook          `yaml:"hooks"`
	Scenarios   []rawScenario      `yaml:"scenarios"`
}

func (r *rawFeature) build() *Feature {
	f := &Feature{Name: r.Name, Annotations: r.Annotations}
	for _, h := range r.Hooks {
		f.Hooks = append(f.Hooks, &Hook{Kind: HookKind(h.Kind), Statements: buildStmts(h.Statements)})
	}
	for _, s := range r.Scenarios {
		f.Scenarios = append(f.Scenarios, &Scenario{
			Name:        s.Name,
			Tags:        s.Tags,
			Annotations: s.Annotations,
			Statements:  buildStmts(s.Statements),
		})
	}
	return f
}

type rawHook struct {
	Kind       string    `yaml:"kind"`
	Statements []rawStmt `yaml:"statements"`
}

type rawScenario struct {
	Name        string              `yaml:"name"`
	Tags        []string            `yaml:"tags"`
	Annotations ScenarioAnnotations `yaml:"annotations"`
	Statements  []rawStmt           `yaml:"statements"`
}

type rawFixture struct {
	Name     string      `yaml:"name"`
	Scope    string      `yaml:"scope"`
	Deps     []string    `yaml:"deps"`
	Auto     bool        `yaml:"auto"`
	Options  []rawOption `yaml:"options"`
	Setup    []rawStmt   `yaml:"setup"`
	Teardown []rawStmt   `yaml:"teardown"`
}

type rawOption struct {
	Name    string   `yaml:"name"`
	Default *rawExpr `yaml:"default"`
}

func (r *rawFixture) build() *Fixture {
	scope := ScopeTest
	if r.Scope == string(ScopeWorker) {
		scope = ScopeWorker
	}
	fx := &Fixture{
		Name:     r.Name,
		Scope:    scope,
		Deps:     r.Deps,
		Auto:     r.Auto,
		Setup:    buildStmts(r.Setup),
		Teardown: buildStmts(r.Teardown),
	}
	for _, o := range r.Options {
		fx.Options = append(fx.Options, FixtureOption{Name: o.Name, Default: o.Default.build()})
	}
	return fx
}

type rawSelector struct {
	Kind      string        `yaml:"kind"`
	Value     string        `yaml:"value"`
	Qualifier string        `yaml:"qualifier"`
	Modifiers []rawModifier `yaml:"modifiers"`
}

type rawModifier struct {
	Kind  string       `yaml:"kind"`
	Index int          `yaml:"index"`
	Text  string       `yaml:"text"`
	Inner *rawSelector `yaml:"inner"`
}

func (r *rawSelector) build() Selector {
	if r == nil {
		return Selector{Kind: SelAuto}
	}
	sel := Selector{Kind: SelectorKind(r.Kind), Value: r.Value, Qualifier: r.Qualifier}
	if sel.Kind == "" {
		sel.Kind = SelAuto
	}
	for _, m := range r.Modifiers {
		mod := SelectorModifier{Kind: ModifierKind(m.Kind), Index: m.Index, Text: m.Text}
		if m.Inner != nil {
			inner := m.Inner.build()
			mod.Inner = &inner
		}
		sel.Modifiers = append(sel.Modifiers, mod)
	}
	return sel
}

type rawTarget struct {
	Text     string       `yaml:"text"`
	Selector *rawSelector `yaml:"selector"`
	Page     string       `yaml:"page"`
	Field    string       `yaml:"field"`
}

func (r *rawTarget) build() Target {
	if r == nil {
		return Target{}
	}
	t := Target{Text: r.Text, Page: r.Page, Field: r.Field}
	if r.Selector != nil {
		sel := r.Selector.build()
		t.Selector = &sel
	}
	return t
}

type rawTableRef struct {
	Project string `yaml:"project"`
	Table   string `yaml:"table"`
	Access  *struct {
		Kind   string `yaml:"kind"`
		Column string `yaml:"column"`
		Row    int    `yaml:"row"`
		From   int    `yaml:"from"`
		To     int    `yaml:"to"`
	} `yaml:"access"`
}

func (r *rawTableRef) build() TableReference {
	if r == nil {
		return TableReference{}
	}
	ref := TableReference{Project: r.Project, Table: r.Table}
	if r.Access != nil {
		ref.Access = &TableAccess{
			Kind:   TableAccessKind(r.Access.Kind),
			Column: r.Access.Column,
			Row:    r.Access.Row,
			From:   r.Access.From,
			To:     r.Access.To,
		}
	}
	return ref
}

type rawCond struct {
	Kind   string    `yaml:"kind"` // and, or, not, cmp
	Conds  []rawCond `yaml:"conds"`
	Cond   *rawCond  `yaml:"cond"`
	Column string    `yaml:"column"`
	Op     string    `yaml:"op"`
	Value  *rawExpr  `yaml:"value"`
	Values []rawExpr `yaml:"values"`
}

func (r *rawCond) build() DataCondition {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case "and":
		c := &AndCond{}
		for i := range r.Conds {
			c.Conds = append(c.Conds, r.Conds[i].build())
		}
		return c
	case "or":
		c := &OrCond{}
		for i := range r.Conds {
			c.Conds = append(c.Conds, r.Conds[i].build())
		}
		return c
	case "not":
		return &NotCond{Cond: r.Cond.build()}
	default:
		cmp := &Comparison{Column: r.Column, Op: CompareOp(r.Op), Value: r.Value.build()}
		for i := range r.Values {
			cmp.Values = append(cmp.Values, r.Values[i].build())
		}
		return cmp
	}
}

type rawUtility struct {
	Fn    string     `yaml:"fn"`
	Args  []rawExpr  `yaml:"args"`
	Chain []rawChain `yaml:"chain"`
}

type rawChain struct {
	Fn   string    `yaml:"fn"`
	Args []rawExpr `yaml:"args"`
}

func (r *rawUtility) build() *UtilityCall {
	if r == nil {
		return nil
	}
	call := &UtilityCall{Fn: UtilityFn(r.Fn)}
	for i := range r.Args {
		call.Args = append(call.Args, r.Args[i].build())
	}
	for _, link := range r.Chain {
		l := ChainLink{Fn: UtilityFn(link.Fn)}
		for i := range link.Args {
			l.Args = append(l.Args, link.Args[i].build())
		}
		call.Chain = append(call.Chain, l)
	}
	return call
}

// rawExpr carries the literal payload as a yaml.Node value so scalars keep
// their tag; yaml.v3 only intercepts value-typed Node fields.
type rawExpr struct {
	Kind    string       `yaml:"kind"`
	Value   yaml.Node    `yaml:"value"`
	Name    string       `yaml:"name"`
	Default string       `yaml:"default"`
	Parts   []rawExpr    `yaml:"parts"`
	Items   []rawExpr    `yaml:"items"`
	Ref     *rawTableRef `yaml:"ref"`
	Fn      string       `yaml:"fn"`
	Args    []rawExpr    `yaml:"args"`
	Chain   []rawChain   `yaml:"chain"`
}

func (r *rawExpr) build() Expr {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case "string":
		var s string
		if !r.Value.IsZero() {
			_ = r.Value.Decode(&s)
		}
		return &StringLit{Value: s}
	case "number":
		var n float64
		if !r.Value.IsZero() {
			_ = r.Value.Decode(&n)
		}
		return &NumberLit{Value: n}
	case "bool":
		var b bool
		if !r.Value.IsZero() {
			_ = r.Value.Decode(&b)
		}
		return &BoolLit{Value: b}
	case "null":
		return &NullLit{}
	case "list":
		l := &ListLit{}
		for i := range r.Items {
			l.Items = append(l.Items, r.Items[i].build())
		}
		return l
	case "var":
		return &VarRef{Name: r.Name}
	case "env":
		return &EnvRef{Name: r.Name, Default: r.Default}
	case "concat":
		c := &Concat{}
		for i := range r.Parts {
			c.Parts = append(c.Parts, r.Parts[i].build())
		}
		return c
	case "cell":
		return &TableCellRef{Ref: r.Ref.build()}
	case "utility":
		u := rawUtility{Fn: r.Fn, Args: r.Args, Chain: r.Chain}
		return u.build()
	default:
		return &UnknownExpr{Kind: r.Kind}
	}
}

type rawQueryOp struct {
	Kind    string   `yaml:"kind"`
	Cond    *rawCond `yaml:"cond"`
	Column  string   `yaml:"column"`
	N       int      `yaml:"n"`
	Desc    bool     `yaml:"desc"`
	Default *rawExpr `yaml:"default"`
}

// rawStmt is the field superset of every statement kind; build picks the
// fields the kind uses.
type rawStmt struct {
	Kind string `yaml:"kind"`
	Line int    `yaml:"line"`

	Target   *rawTarget `yaml:"target"`
	From     *rawTarget `yaml:"from"`
	To       *rawTarget `yaml:"to"`
	Value    *rawExpr   `yaml:"value"`
	URL      *rawExpr   `yaml:"url"`
	Message  *rawExpr   `yaml:"message"`
	Name     string     `yaml:"name"`
	Key      string     `yaml:"key"`
	State    string     `yaml:"state"`
	Check    string     `yaml:"check"`
	Negated  bool       `yaml:"negated"`
	Seconds  float64    `yaml:"seconds"`
	Count    int        `yaml:"count"`
	Index    int        `yaml:"index"`
	Last     bool       `yaml:"last"`
	Delay    int        `yaml:"delay"`
	FullPage bool       `yaml:"full_page"`
	Files    []rawExpr  `yaml:"files"`
	Prompt   string     `yaml:"prompt"`

	Table    *rawTableRef `yaml:"table"`
	Where    *rawCond     `yaml:"where"`
	OrderBy  string       `yaml:"order_by"`
	Desc     bool         `yaml:"desc"`
	Limit    int          `yaml:"limit"`
	Position string       `yaml:"position"`
	Column   string       `yaml:"column"`
	Ops      []rawQueryOp `yaml:"ops"`
	Call     *rawUtility  `yaml:"call"`

	Cond     *rawScenarioCond `yaml:"cond"`
	Then     []rawStmt        `yaml:"then"`
	Else     []rawStmt        `yaml:"else"`
	Body     []rawStmt        `yaml:"body"`
	Try      []rawStmt        `yaml:"try"`
	Catch    []rawStmt        `yaml:"catch"`
	CatchVar string           `yaml:"catch_var"`

	Assign   string      `yaml:"assign"`
	Page     string      `yaml:"page"`
	Action   string      `yaml:"action"`
	Args     []rawExpr   `yaml:"args"`
	Method   string      `yaml:"method"`
	BodyExpr *rawExpr    `yaml:"body_expr"`
	Headers  []rawHeader `yaml:"headers"`

	Selector *rawSelector `yaml:"selector"`
}

type rawHeader struct {
	Name  string   `yaml:"name"`
	Value *rawExpr `yaml:"value"`
}

type rawScenarioCond struct {
	Kind    string     `yaml:"kind"`
	Target  *rawTarget `yaml:"target"`
	State   string     `yaml:"state"`
	Negated bool       `yaml:"negated"`
	Left    *rawExpr   `yaml:"left"`
	Op      string     `yaml:"op"`
	Right   *rawExpr   `yaml:"right"`
}

func (r *rawScenarioCond) build() Condition {
	if r == nil {
		return Condition{}
	}
	return Condition{
		Kind:    ConditionKind(r.Kind),
		Target:  r.Target.build(),
		State:   VerifyKind(r.State),
		Negated: r.Negated,
		Left:    r.Left.build(),
		Op:      CompareOp(r.Op),
		Right:   r.Right.build(),
	}
}

func buildStmts(raws []rawStmt) []Statement {
	var out []Statement
	for i := range raws {
		out = append(out, raws[i].buildStmt())
	}
	return out
}

func buildExprs(raws []rawExpr) []Expr {
	var out []Expr
	for i := range raws {
		out = append(out, raws[i].build())
	}
	return out
}

func (r *rawStmt) buildStmt() Statement {
	line := Line{Num: r.Line}
	switch r.Kind {
	case "open":
		return &Open{Line: line, URL: r.URL.build()}
	case "reload":
		return &Reload{Line: line}
	case "goBack":
		return &GoBack{Line: line}
	case "goForward":
		return &GoForward{Line: line}
	case "click":
		return &Click{Line: line, Target: r.Target.build()}
	case "doubleClick":
		return &DoubleClick{Line: line, Target: r.Target.build()}
	case "rightClick":
		return &RightClick{Line: line, Target: r.Target.build()}
	case "hover":
		return &Hover{Line: line, Target: r.Target.build()}
	case "focus":
		return &Focus{Line: line, Target: r.Target.build()}
	case "clear":
		return &Clear{Line: line, Target: r.Target.build()}
	case "scrollTo":
		return &ScrollTo{Line: line, Target: r.Target.build()}
	case "fill":
		return &Fill{Line: line, Target: r.Target.build(), Value: r.Value.build()}
	case "type":
		return &TypeText{Line: line, Target: r.Target.build(), Value: r.Value.build(), DelayMs: r.Delay}
	case "press":
		return &Press{Line: line, Key: r.Key}
	case "check":
		return &Check{Line: line, Target: r.Target.build()}
	case "uncheck":
		return &Uncheck{Line: line, Target: r.Target.build()}
	case "select":
		return &SelectOption{Line: line, Target: r.Target.build(), Value: r.Value.build()}
	case "upload":
		return &Upload{Line: line, Target: r.Target.build(), Files: buildExprs(r.Files)}
	case "drag":
		return &Drag{Line: line, From: r.From.build(), To: r.To.build()}
	case "screenshot":
		return &Screenshot{Line: line, Name: r.Name, FullPage: r.FullPage}
	case "verify":
		return &Verify{Line: line, Target: r.Target.build(), Check: VerifyKind(r.Check), Value: r.Value.build(), Negated: r.Negated}
	case "verifyUrl":
		return &VerifyURL{Line: line, Value: r.Value.build()}
	case "verifyTitle":
		return &VerifyTitle{Line: line, Value: r.Value.build()}
	case "wait":
		return &Wait{Line: line, Seconds: r.Seconds}
	case "waitFor":
		return &WaitFor{Line: line, Target: r.Target.build(), State: r.State}
	case "log":
		return &LogMessage{Line: line, Value: r.Value.build()}
	case "fail":
		return &Fail{Line: line, Message: r.Message.build()}
	case "set":
		return &SetVariable{Line: line, Name: r.Name, Value: r.Value.build()}
	case "utility":
		return &UtilityAssignment{Line: line, Name: r.Name, Call: r.Call.build()}
	case "query":
		q := &QueryAssignment{Line: line, Name: r.Name, Table: r.Table.build()}
		for _, op := range r.Ops {
			q.Ops = append(q.Ops, QueryOp{
				Kind:    QueryOpKind(op.Kind),
				Cond:    op.Cond.build(),
				Column:  op.Column,
				N:       op.N,
				Desc:    op.Desc,
				Default: op.Default.build(),
			})
		}
		return q
	case "row":
		return &RowAssignment{
			Line: line, Name: r.Name, Table: r.Table.build(),
			Where: r.Where.build(), Position: RowPosition(r.Position),
			OrderBy: r.OrderBy, Desc: r.Desc,
		}
	case "rows":
		return &RowsAssignment{
			Line: line, Name: r.Name, Table: r.Table.build(),
			Where: r.Where.build(), OrderBy: r.OrderBy, Desc: r.Desc, Limit: r.Limit,
		}
	case "columnAccess":
		return &ColumnAssignment{Line: line, Name: r.Name, Table: r.Table.build(), Column: r.Column, Where: r.Where.build()}
	case "countAccess":
		return &CountAssignment{Line: line, Name: r.Name, Table: r.Table.build(), Where: r.Where.build()}
	case "if":
		return &IfElse{Line: line, Cond: r.Cond.build(), Then: buildStmts(r.Then), Else: buildStmts(r.Else)}
	case "repeat":
		return &Repeat{Line: line, Count: r.Count, Body: buildStmts(r.Body)}
	case "forEachRow":
		return &ForEachRow{Line: line, Name: r.Name, Table: r.Table.build(), Where: r.Where.build(), Body: buildStmts(r.Body)}
	case "tryCatch":
		return &TryCatch{Line: line, Try: buildStmts(r.Try), CatchVar: r.CatchVar, Catch: buildStmts(r.Catch)}
	case "callAction":
		return &CallAction{Line: line, Assign: r.Assign, Page: r.Page, Action: r.Action, Args: buildExprs(r.Args)}
	case "return":
		return &Return{Line: line, Value: r.Value.build()}
	case "apiRequest":
		req := &ApiRequest{Line: line, Assign: r.Assign, Method: r.Method, URL: r.URL.build(), Body: r.BodyExpr.build()}
		for _, h := range r.Headers {
			req.Headers = append(req.Headers, Header{Name: h.Name, Value: h.Value.build()})
		}
		return req
	case "openTab":
		return &OpenTab{Line: line, URL: r.URL.build()}
	case "switchTab":
		return &SwitchTab{Line: line, Index: r.Index, Last: r.Last}
	case "closeTab":
		return &CloseTab{Line: line}
	case "switchFrame":
		sel := r.Selector.build()
		return &SwitchFrame{Line: line, Selector: &sel}
	case "switchToMainFrame":
		return &SwitchToMainFrame{Line: line}
	case "acceptDialog":
		return &AcceptDialog{Line: line, Prompt: r.Prompt}
	case "dismissDialog":
		return &DismissDialog{Line: line}
	default:
		return &Unknown{Line: line, Kind: r.Kind}
	}
}
