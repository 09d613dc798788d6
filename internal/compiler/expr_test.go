package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verolang/verogen/internal/ast"
)

func TestCompileExprLiterals(t *testing.T) {
	p := newPass(Options{}, nil)

	assert.Equal(t, `"hello"`, p.compileExpr(str("hello")))
	assert.Equal(t, "42", p.compileExpr(num(42)))
	assert.Equal(t, "9.5", p.compileExpr(num(9.5)))
	assert.Equal(t, "true", p.compileExpr(&ast.BoolLit{Value: true}))
	assert.Equal(t, "null", p.compileExpr(&ast.NullLit{}))
	assert.Equal(t, "null", p.compileExpr(nil))
	assert.Equal(t, `["a", 1]`, p.compileExpr(&ast.ListLit{Items: []ast.Expr{str("a"), num(1)}}))
	assert.Equal(t, "userName", p.compileExpr(&ast.VarRef{Name: "userName"}))
}

func TestCompileExprEnvAndConcat(t *testing.T) {
	p := newPass(Options{}, nil)

	assert.Equal(t, `(process.env["API_KEY"] ?? '')`, p.compileExpr(&ast.EnvRef{Name: "API_KEY"}))
	assert.Equal(t, `(process.env["HOST"] ?? "localhost")`, p.compileExpr(&ast.EnvRef{Name: "HOST", Default: "localhost"}))

	concat := &ast.Concat{Parts: []ast.Expr{str("user-"), &ast.VarRef{Name: "id"}}}
	assert.Equal(t, `(String("user-") + String(id))`, p.compileExpr(concat))
}

func TestCompileExprStringEscaping(t *testing.T) {
	p := newPass(Options{}, nil)

	assert.Equal(t, `"he said \"hi\"\n"`, p.compileExpr(str("he said \"hi\"\n")))
	assert.Equal(t, `"back\\slash\ttab"`, p.compileExpr(str(`back\slash`+"\ttab")))
}

func TestCompileUtilityChainThreading(t *testing.T) {
	p := newPass(Options{}, nil)

	call := &ast.UtilityCall{
		Fn:   ast.FnTrim,
		Args: []ast.Expr{str("  abc ")},
		Chain: []ast.ChainLink{
			{Fn: ast.FnUppercase},
		},
	}
	assert.Equal(t, `String(String("  abc ").trim()).toUpperCase()`, p.compileUtilityCall(call))

	// A three-link chain stays linear: each link wraps the previous output.
	call.Chain = append(call.Chain, ast.ChainLink{Fn: ast.FnSubstring, Args: []ast.Expr{num(0), num(2)}})
	assert.Equal(t,
		`String(String(String("  abc ").trim()).toUpperCase()).substring(0, 2)`,
		p.compileUtilityCall(call))
}

func TestCompileUtilityTransforms(t *testing.T) {
	p := newPass(Options{}, nil)

	cases := []struct {
		name string
		call *ast.UtilityCall
		want string
	}{
		{"replace", &ast.UtilityCall{Fn: ast.FnReplace, Args: []ast.Expr{str("a-b"), str("-"), str("_")}},
			`String("a-b").split("-").join("_")`},
		{"capitalize", &ast.UtilityCall{Fn: ast.FnCapitalize, Args: []ast.Expr{str("bob")}},
			`vero.capitalize("bob")`},
		{"dateAdd", &ast.UtilityCall{Fn: ast.FnDateAdd, Args: []ast.Expr{&ast.VarRef{Name: "start"}, num(3), str("days")}},
			`vero.dateAdd(start, 3, "days")`},
		{"dateSubtract negates", &ast.UtilityCall{Fn: ast.FnDateSubtract, Args: []ast.Expr{&ast.VarRef{Name: "start"}, num(1), str("months")}},
			`vero.dateAdd(start, -(1), "months")`},
		{"round with digits", &ast.UtilityCall{Fn: ast.FnRound, Args: []ast.Expr{num(3.14159), num(2)}},
			`Number(Number(3.14159).toFixed(2))`},
		{"round bare", &ast.UtilityCall{Fn: ast.FnRound, Args: []ast.Expr{num(3.7)}},
			`Math.round(Number(3.7))`},
		{"uuid", &ast.UtilityCall{Fn: ast.FnUUID},
			`crypto.randomUUID()`},
		{"randomInt", &ast.UtilityCall{Fn: ast.FnRandomInt, Args: []ast.Expr{num(1), num(10)}},
			`vero.randomInt(Number(1), 10)`},
		{"pattern", &ast.UtilityCall{Fn: ast.FnPattern, Args: []ast.Expr{str("###-??")}},
			`vero.pattern("###-??")`},
		{"currency", &ast.UtilityCall{Fn: ast.FnFormatCurrency, Args: []ast.Expr{num(19.99), str("EUR")}},
			`new Intl.NumberFormat('en-US', { style: 'currency', currency: "EUR" }).format(Number(19.99))`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.compileUtilityCall(tc.call))
		})
	}
}

func TestCompileUnknownTransformPassesThrough(t *testing.T) {
	var warnings []string
	p := newPass(Options{}, &warnings)

	call := &ast.UtilityCall{
		Fn:    ast.FnTrim,
		Args:  []ast.Expr{str("x")},
		Chain: []ast.ChainLink{{Fn: "reticulate"}, {Fn: ast.FnUppercase}},
	}
	// The unknown link is transparent; the chain still produces a value.
	assert.Equal(t, `String(String("x").trim()).toUpperCase()`, p.compileUtilityCall(call))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "reticulate")
}

func TestCompileCellRef(t *testing.T) {
	p := newPass(Options{}, nil)

	ref := tbl("shop.orders")
	assert.Equal(t, `tables["shop.orders"]`, p.compileExpr(&ast.TableCellRef{Ref: ref}))

	ref.Access = &ast.TableAccess{Kind: ast.AccessCell, Row: 2, Column: "total"}
	assert.Equal(t, `tables["shop.orders"][2]?.["total"]`, p.compileExpr(&ast.TableCellRef{Ref: ref}))
	assert.Contains(t, p.usedTables, "shop.orders")
}

func TestCompileUnknownExpr(t *testing.T) {
	var warnings []string
	p := newPass(Options{}, &warnings)

	assert.Equal(t, "null", p.compileExpr(&ast.UnknownExpr{Kind: "lambda"}))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "lambda")
}
