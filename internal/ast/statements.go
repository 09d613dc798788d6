package ast

// Statement is the closed union of DSL statement nodes. Every variant maps to
// exactly one compiler rule; Unknown absorbs node kinds this version does not
// recognize so compilation stays total.
type Statement interface {
	stmtNode()
	// Pos returns the 1-based source line of the statement.
	Pos() int
}

// Line provides the common source position. Embedded by every statement.
type Line struct {
	Num int `yaml:"line"`
}

// Pos returns the 1-based source line.
func (l Line) Pos() int { return l.Num }

// Navigation.

// Open navigates to a URL or a path under the configured base URL.
type Open struct {
	Line `yaml:",inline"`
	URL  Expr
}

// Reload reloads the current page.
type Reload struct{ Line }

// GoBack navigates one entry back in history.
type GoBack struct{ Line }

// GoForward navigates one entry forward in history.
type GoForward struct{ Line }

// Element interaction.

// Click clicks a target.
type Click struct {
	Line
	Target Target
}

// DoubleClick double-clicks a target.
type DoubleClick struct {
	Line
	Target Target
}

// RightClick right-clicks a target.
type RightClick struct {
	Line
	Target Target
}

// Hover moves the pointer over a target.
type Hover struct {
	Line
	Target Target
}

// Focus focuses a target.
type Focus struct {
	Line
	Target Target
}

// Clear empties an input target.
type Clear struct {
	Line
	Target Target
}

// ScrollTo scrolls a target into view.
type ScrollTo struct {
	Line
	Target Target
}

// Fill sets an input's value.
type Fill struct {
	Line
	Target Target
	Value  Expr
}

// TypeText types a value key by key.
type TypeText struct {
	Line
	Target  Target
	Value   Expr
	DelayMs int
}

// Press sends a keyboard key or chord.
type Press struct {
	Line
	Key string
}

// Check checks a checkbox or radio target.
type Check struct {
	Line
	Target Target
}

// Uncheck unchecks a checkbox target.
type Uncheck struct {
	Line
	Target Target
}

// SelectOption picks an option from a select target.
type SelectOption struct {
	Line
	Target Target
	Value  Expr
}

// Upload attaches files to a file input.
type Upload struct {
	Line
	Target Target
	Files  []Expr
}

// Drag drags one target onto another.
type Drag struct {
	Line
	From Target
	To   Target
}

// Screenshot captures the page or viewport.
type Screenshot struct {
	Line
	Name     string
	FullPage bool
}

// Assertions.

// VerifyKind is the element assertion being made.
type VerifyKind string

const (
	VerifyVisible   VerifyKind = "visible"
	VerifyHidden    VerifyKind = "hidden"
	VerifyEnabled   VerifyKind = "enabled"
	VerifyDisabled  VerifyKind = "disabled"
	VerifyChecked   VerifyKind = "checked"
	VerifyUnchecked VerifyKind = "unchecked"
	VerifyContains  VerifyKind = "contains"
	VerifyHasValue  VerifyKind = "hasValue"
	VerifyCount     VerifyKind = "count"
)

// Verify asserts element state or content.
type Verify struct {
	Line
	Target  Target
	Check   VerifyKind
	Value   Expr
	Negated bool
}

// VerifyURL asserts the current page URL.
type VerifyURL struct {
	Line
	Value Expr
}

// VerifyTitle asserts the current page title.
type VerifyTitle struct {
	Line
	Value Expr
}

// Waiting and diagnostics.

// Wait pauses for a fixed number of seconds.
type Wait struct {
	Line
	Seconds float64
}

// WaitFor waits until a target reaches a state (visible, hidden, attached,
// detached).
type WaitFor struct {
	Line
	Target Target
	State  string
}

// LogMessage writes a message to the test log.
type LogMessage struct {
	Line
	Value Expr
}

// Fail aborts the test with a message.
type Fail struct {
	Line
	Message Expr
}

// Variables and data.

// SetVariable binds a value to a scenario-local name.
type SetVariable struct {
	Line
	Name  string
	Value Expr
}

// UtilityAssignment binds the result of a utility transform chain.
type UtilityAssignment struct {
	Line
	Name string
	Call *UtilityCall
}

// QueryOpKind discriminates fluent query-chain operations.
type QueryOpKind string

const (
	QWhere    QueryOpKind = "where"
	QOrderBy  QueryOpKind = "orderBy"
	QLimit    QueryOpKind = "limit"
	QOffset   QueryOpKind = "offset"
	QFirst    QueryOpKind = "first"
	QLast     QueryOpKind = "last"
	QRandom   QueryOpKind = "random"
	QDistinct QueryOpKind = "distinct"
	QColumn   QueryOpKind = "column"
	QCount    QueryOpKind = "count"
	QSum      QueryOpKind = "sum"
	QAverage  QueryOpKind = "average"
	QMin      QueryOpKind = "min"
	QMax      QueryOpKind = "max"
	QRows     QueryOpKind = "rows"
	QColumns  QueryOpKind = "columns"
	QHeaders  QueryOpKind = "headers"
	QDefault  QueryOpKind = "default"
)

// QueryOp is one link of a fluent query chain.
type QueryOp struct {
	Kind    QueryOpKind
	Cond    DataCondition
	Column  string
	N       int
	Desc    bool
	Default Expr
}

// QueryAssignment binds the result of a fluent query chain over a table.
type QueryAssignment struct {
	Line
	Name  string
	Table TableReference
	Ops   []QueryOp
}

// RowPosition selects one row out of a filtered set.
type RowPosition string

const (
	RowFirst  RowPosition = "first"
	RowLast   RowPosition = "last"
	RowRandom RowPosition = "random"
)

// RowAssignment binds a single row selected from a table.
type RowAssignment struct {
	Line
	Name     string
	Table    TableReference
	Where    DataCondition
	Position RowPosition
	OrderBy  string
	Desc     bool
}

// RowsAssignment binds a filtered, optionally sorted and limited row set.
type RowsAssignment struct {
	Line
	Name    string
	Table   TableReference
	Where   DataCondition
	OrderBy string
	Desc    bool
	Limit   int
}

// ColumnAssignment binds the values of one column.
type ColumnAssignment struct {
	Line
	Name   string
	Table  TableReference
	Column string
	Where  DataCondition
}

// CountAssignment binds the number of matching rows.
type CountAssignment struct {
	Line
	Name  string
	Table TableReference
	Where DataCondition
}

// Control flow.

// ConditionKind discriminates scenario-level conditions.
type ConditionKind string

const (
	CondElementState ConditionKind = "element"
	CondComparison   ConditionKind = "comparison"
)

// Condition guards an IfElse branch: either an element-state check or a value
// comparison.
type Condition struct {
	Kind    ConditionKind
	Target  Target
	State   VerifyKind
	Negated bool
	Left    Expr
	Op      CompareOp
	Right   Expr
}

// IfElse branches on a condition.
type IfElse struct {
	Line
	Cond Condition
	Then []Statement
	Else []Statement
}

// Repeat runs its body a fixed number of times.
type Repeat struct {
	Line
	Count int
	Body  []Statement
}

// ForEachRow runs its body once per matching table row.
type ForEachRow struct {
	Line
	Name  string
	Table TableReference
	Where DataCondition
	Body  []Statement
}

// TryCatch runs its body and recovers in the catch block.
type TryCatch struct {
	Line
	Try      []Statement
	CatchVar string
	Catch    []Statement
}

// Actions and composition.

// CallAction invokes a page action or an action-group helper, optionally
// binding its return value.
type CallAction struct {
	Line
	Assign string
	Page   string
	Action string
	Args   []Expr
}

// Return yields a value from inside an action.
type Return struct {
	Line
	Value Expr
}

// ApiRequest performs an HTTP call through the runtime's request fixture.
type ApiRequest struct {
	Line
	Assign  string
	Method  string
	URL     Expr
	Body    Expr
	Headers []Header
}

// Header is one HTTP header on an ApiRequest.
type Header struct {
	Name  string
	Value Expr
}

// Tabs, frames, dialogs.

// OpenTab opens a new tab, optionally navigating it.
type OpenTab struct {
	Line
	URL Expr
}

// SwitchTab rebinds the active page handle to another tab.
type SwitchTab struct {
	Line
	Index int
	Last  bool
}

// CloseTab closes the active tab and falls back to the last remaining one.
type CloseTab struct{ Line }

// SwitchFrame scopes subsequent locators to an iframe.
type SwitchFrame struct {
	Line
	Selector *Selector
}

// SwitchToMainFrame clears the frame scope.
type SwitchToMainFrame struct{ Line }

// AcceptDialog accepts the next dialog, optionally with prompt text.
type AcceptDialog struct {
	Line
	Prompt string
}

// DismissDialog dismisses the next dialog.
type DismissDialog struct{ Line }

// Unknown preserves a statement kind this compiler version has no rule for.
type Unknown struct {
	Line
	Kind string
}

func (*Open) stmtNode()              {}
func (*Reload) stmtNode()            {}
func (*GoBack) stmtNode()            {}
func (*GoForward) stmtNode()         {}
func (*Click) stmtNode()             {}
func (*DoubleClick) stmtNode()       {}
func (*RightClick) stmtNode()        {}
func (*Hover) stmtNode()             {}
func (*Focus) stmtNode()             {}
func (*Clear) stmtNode()             {}
func (*ScrollTo) stmtNode()          {}
func (*Fill) stmtNode()              {}
func (*TypeText) stmtNode()          {}
func (*Press) stmtNode()             {}
func (*Check) stmtNode()             {}
func (*Uncheck) stmtNode()           {}
func (*SelectOption) stmtNode()      {}
func (*Upload) stmtNode()            {}
func (*Drag) stmtNode()              {}
func (*Screenshot) stmtNode()        {}
func (*Verify) stmtNode()            {}
func (*VerifyURL) stmtNode()         {}
func (*VerifyTitle) stmtNode()       {}
func (*Wait) stmtNode()              {}
func (*WaitFor) stmtNode()           {}
func (*LogMessage) stmtNode()        {}
func (*Fail) stmtNode()              {}
func (*SetVariable) stmtNode()       {}
func (*UtilityAssignment) stmtNode() {}
func (*QueryAssignment) stmtNode()   {}
func (*RowAssignment) stmtNode()     {}
func (*RowsAssignment) stmtNode()    {}
func (*ColumnAssignment) stmtNode()  {}
func (*CountAssignment) stmtNode()   {}
func (*IfElse) stmtNode()            {}
func (*Repeat) stmtNode()            {}
func (*ForEachRow) stmtNode()        {}
func (*TryCatch) stmtNode()          {}
func (*CallAction) stmtNode()        {}
func (*Return) stmtNode()            {}
func (*ApiRequest) stmtNode()        {}
func (*OpenTab) stmtNode()           {}
func (*SwitchTab) stmtNode()         {}
func (*CloseTab) stmtNode()          {}
func (*SwitchFrame) stmtNode()       {}
func (*SwitchToMainFrame) stmtNode() {}
func (*AcceptDialog) stmtNode()      {}
func (*DismissDialog) stmtNode()     {}
func (*Unknown) stmtNode()           {}
