package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// compileExpr renders a value expression. It is total: a nil or unrecognized
// expression compiles to the null literal rather than failing the unit.
func (p *pass) compileExpr(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return "null"
	case *ast.StringLit:
		return tsString(x.Value)
	case *ast.NumberLit:
		return tsNumber(x.Value)
	case *ast.BoolLit:
		return strconv.FormatBool(x.Value)
	case *ast.NullLit:
		return "null"
	case *ast.ListLit:
		parts := make([]string, len(x.Items))
		for i, item := range x.Items {
			parts[i] = p.compileExpr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.VarRef:
		return tsIdent(x.Name)
	case *ast.EnvRef:
		if x.Default != "" {
			return fmt.Sprintf("(process.env[%s] ?? %s)", tsString(x.Name), tsString(x.Default))
		}
		return fmt.Sprintf("(process.env[%s] ?? '')", tsString(x.Name))
	case *ast.Concat:
		parts := make([]string, len(x.Parts))
		for i, part := range x.Parts {
			parts[i] = "String(" + p.compileExpr(part) + ")"
		}
		if len(parts) == 0 {
			return "''"
		}
		return "(" + strings.Join(parts, " + ") + ")"
	case *ast.TableCellRef:
		return p.compileCellRef(x.Ref)
	case *ast.UtilityCall:
		return p.compileUtilityCall(x)
	case *ast.UnknownExpr:
		p.warnf("expression kind %q has no compilation rule, emitting null", x.Kind)
		return "null"
	default:
		p.warnf("expression %T has no compilation rule, emitting null", e)
		return "null"
	}
}

func tsNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// compileCellRef reads a table cell (or narrowed slice) through the shared
// preloaded accessor.
func (p *pass) compileCellRef(ref ast.TableReference) string {
	table := p.useTable(ref)
	if ref.Access == nil {
		return table
	}
	a := ref.Access
	switch a.Kind {
	case ast.AccessColumn:
		return fmt.Sprintf("%s.map((row) => row[%s])", table, tsString(a.Column))
	case ast.AccessRow:
		return fmt.Sprintf("%s[%d]", table, a.Row)
	case ast.AccessRange:
		return fmt.Sprintf("%s.slice(%d, %d)", table, a.From, a.To)
	case ast.AccessCell:
		return fmt.Sprintf("%s[%d]?.[%s]", table, a.Row, tsString(a.Column))
	default:
		return table
	}
}

// compileUtilityCall compiles a transform and its chain. Each link receives
// the previous link's compiled output as its implicit first argument, so the
// generated code stays linear in chain length.
func (p *pass) compileUtilityCall(call *ast.UtilityCall) string {
	if call == nil {
		return "null"
	}
	expr := p.compileTransform(call.Fn, p.firstArg(call.Args), p.restArgs(call.Args))
	for _, link := range call.Chain {
		expr = p.compileTransform(link.Fn, expr, p.allArgs(link.Args))
	}
	return expr
}

// firstArg compiles the subject of a head transform; generators (now, uuid,
// pattern, randomInt) have no subject and ignore it.
func (p *pass) firstArg(args []ast.Expr) string {
	if len(args) == 0 {
		return "''"
	}
	return p.compileExpr(args[0])
}

func (p *pass) restArgs(args []ast.Expr) []string {
	if len(args) <= 1 {
		return nil
	}
	return p.allArgs(args[1:])
}

func (p *pass) allArgs(args []ast.Expr) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = p.compileExpr(a)
	}
	return out
}

func argOr(args []string, i int, fallback string) string {
	if i < len(args) {
		return args[i]
	}
	return fallback
}

// compileTransform emits one transform applied to an already-compiled
// subject expression.
func (p *pass) compileTransform(fn ast.UtilityFn, subject string, args []string) string {
	switch fn {
	case ast.FnTrim:
		return fmt.Sprintf("String(%s).trim()", subject)
	case ast.FnUppercase:
		return fmt.Sprintf("String(%s).toUpperCase()", subject)
	case ast.FnLowercase:
		return fmt.Sprintf("String(%s).toLowerCase()", subject)
	case ast.FnCapitalize:
		return fmt.Sprintf("vero.capitalize(%s)", subject)
	case ast.FnToNumber:
		return fmt.Sprintf("Number(%s)", subject)
	case ast.FnToText:
		return fmt.Sprintf("String(%s)", subject)
	case ast.FnSubstring:
		return fmt.Sprintf("String(%s).substring(%s, %s)", subject, argOr(args, 0, "0"), argOr(args, 1, "undefined"))
	case ast.FnReplace:
		return fmt.Sprintf("String(%s).split(%s).join(%s)", subject, argOr(args, 0, "''"), argOr(args, 1, "''"))
	case ast.FnSplit:
		return fmt.Sprintf("String(%s).split(%s)", subject, argOr(args, 0, "','"))
	case ast.FnJoin:
		return fmt.Sprintf("(%s).join(%s)", subject, argOr(args, 0, "','"))
	case ast.FnLength:
		return fmt.Sprintf("(%s).length", subject)
	case ast.FnPadStart:
		return fmt.Sprintf("String(%s).padStart(%s, %s)", subject, argOr(args, 0, "0"), argOr(args, 1, "' '"))
	case ast.FnPadEnd:
		return fmt.Sprintf("String(%s).padEnd(%s, %s)", subject, argOr(args, 0, "0"), argOr(args, 1, "' '"))
	case ast.FnNow:
		return "new Date()"
	case ast.FnToday:
		return "vero.today()"
	case ast.FnDateAdd:
		return fmt.Sprintf("vero.dateAdd(%s, %s, %s)", subject, argOr(args, 0, "0"), argOr(args, 1, "'days'"))
	case ast.FnDateSubtract:
		return fmt.Sprintf("vero.dateAdd(%s, -(%s), %s)", subject, argOr(args, 0, "0"), argOr(args, 1, "'days'"))
	case ast.FnFormatDate:
		return fmt.Sprintf("vero.formatDate(%s, %s)", subject, argOr(args, 0, "'yyyy-MM-dd'"))
	case ast.FnFormatCurrency:
		return fmt.Sprintf("new Intl.NumberFormat('en-US', { style: 'currency', currency: %s }).format(Number(%s))", argOr(args, 0, "'USD'"), subject)
	case ast.FnFormatPercent:
		return fmt.Sprintf("new Intl.NumberFormat('en-US', { style: 'percent', maximumFractionDigits: %s }).format(Number(%s))", argOr(args, 0, "2"), subject)
	case ast.FnDatePart:
		return fmt.Sprintf("vero.datePart(%s, %s)", subject, argOr(args, 0, "'year'"))
	case ast.FnRound:
		if len(args) > 0 {
			return fmt.Sprintf("Number(Number(%s).toFixed(%s))", subject, args[0])
		}
		return fmt.Sprintf("Math.round(Number(%s))", subject)
	case ast.FnCeil:
		return fmt.Sprintf("Math.ceil(Number(%s))", subject)
	case ast.FnFloor:
		return fmt.Sprintf("Math.floor(Number(%s))", subject)
	case ast.FnAbs:
		return fmt.Sprintf("Math.abs(Number(%s))", subject)
	case ast.FnPattern:
		return fmt.Sprintf("vero.pattern(%s)", subject)
	case ast.FnUUID:
		return "crypto.randomUUID()"
	case ast.FnRandomInt:
		return fmt.Sprintf("vero.randomInt(Number(%s), %s)", subject, argOr(args, 0, "100"))
	default:
		// Unknown transform: pass the subject through unchanged so the chain
		// keeps producing a usable value.
		p.warnf("utility function %q has no compilation rule, passing value through", fn)
		return subject
	}
}
