package ast

// Expr is the closed union of expression nodes.
type Expr interface{ exprNode() }

// StringLit is a literal string.
type StringLit struct{ Value string }

// NumberLit is a literal number.
type NumberLit struct{ Value float64 }

// BoolLit is a literal flag.
type BoolLit struct{ Value bool }

// NullLit is the absent value.
type NullLit struct{}

// ListLit is a literal list.
type ListLit struct{ Items []Expr }

// VarRef references a scenario-local variable or action parameter.
type VarRef struct{ Name string }

// EnvRef references an environment variable with an optional default.
type EnvRef struct {
	Name    string
	Default string
}

// Concat joins parts into one string.
type Concat struct{ Parts []Expr }

// TableCellRef reads a table cell as a value.
type TableCellRef struct{ Ref TableReference }

// UtilityFn names a value-transform function.
type UtilityFn string

const (
	FnTrim           UtilityFn = "trim"
	FnUppercase      UtilityFn = "uppercase"
	FnLowercase      UtilityFn = "lowercase"
	FnCapitalize     UtilityFn = "capitalize"
	FnToNumber       UtilityFn = "toNumber"
	FnToText         UtilityFn = "toText"
	FnSubstring      UtilityFn = "substring"
	FnReplace        UtilityFn = "replace"
	FnSplit          UtilityFn = "split"
	FnJoin           UtilityFn = "join"
	FnLength         UtilityFn = "length"
	FnPadStart       UtilityFn = "padStart"
	FnPadEnd         UtilityFn = "padEnd"
	FnNow            UtilityFn = "now"
	FnToday          UtilityFn = "today"
	FnDateAdd        UtilityFn = "dateAdd"
	FnDateSubtract   UtilityFn = "dateSubtract"
	FnFormatDate     UtilityFn = "formatDate"
	FnFormatCurrency UtilityFn = "formatCurrency"
	FnFormatPercent  UtilityFn = "formatPercent"
	FnDatePart       UtilityFn = "datePart"
	FnRound          UtilityFn = "round"
	FnCeil           UtilityFn = "ceil"
	FnFloor          UtilityFn = "floor"
	FnAbs            UtilityFn = "abs"
	FnPattern        UtilityFn = "pattern"
	FnUUID           UtilityFn = "uuid"
	FnRandomInt      UtilityFn = "randomInt"
)

// ChainLink is one downstream transform in a utility chain; its implicit
// first argument is the compiled output of the link before it.
type ChainLink struct {
	Fn   UtilityFn
	Args []Expr
}

// UtilityCall applies a transform function and threads the result through an
// arbitrary left-to-right chain of further transforms.
type UtilityCall struct {
	Fn    UtilityFn
	Args  []Expr
	Chain []ChainLink
}

// UnknownExpr preserves an expression kind this compiler version has no rule
// for. It compiles to the null literal.
type UnknownExpr struct{ Kind string }

func (*StringLit) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*ListLit) exprNode()      {}
func (*VarRef) exprNode()       {}
func (*EnvRef) exprNode()       {}
func (*Concat) exprNode()       {}
func (*TableCellRef) exprNode() {}
func (*UtilityCall) exprNode()  {}
func (*UnknownExpr) exprNode()  {}
