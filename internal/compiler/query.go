package compiler

import (
	"fmt"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// compileCondition renders a WHERE tree as a row predicate body over rowVar.
// The function is pure over the tree structure: compiling the same condition
// twice yields identical output.
func (p *pass) compileCondition(cond ast.DataCondition, rowVar string) string {
	switch c := cond.(type) {
	case nil:
		return "true"
	case *ast.AndCond:
		if len(c.Conds) == 0 {
			return "true"
		}
		parts := make([]string, len(c.Conds))
		for i, child := range c.Conds {
			parts[i] = p.compileCondition(child, rowVar)
		}
		return "(" + strings.Join(parts, " && ") + ")"
	case *ast.OrCond:
		if len(c.Conds) == 0 {
			return "true"
		}
		parts := make([]string, len(c.Conds))
		for i, child := range c.Conds {
			parts[i] = p.compileCondition(child, rowVar)
		}
		return "(" + strings.Join(parts, " || ") + ")"
	case *ast.NotCond:
		return "!" + p.compileCondition(c.Cond, rowVar)
	case *ast.Comparison:
		return p.compileComparison(c, rowVar)
	default:
		// A condition shape with no rule must not fail the unit; an
		// always-true predicate keeps every row.
		p.warnf("condition %T has no compilation rule, keeping all rows", cond)
		return "true"
	}
}

// compileComparison routes one comparison through the operator table.
// Null/empty checks are specialized; they never fall back to equality.
func (p *pass) compileComparison(cmp *ast.Comparison, rowVar string) string {
	cell := fmt.Sprintf("%s[%s]", rowVar, tsString(cmp.Column))
	cellStr := fmt.Sprintf("String(%s ?? '')", cell)
	cellNum := fmt.Sprintf("Number(%s)", cell)

	switch cmp.Op {
	case ast.OpEq:
		if isNumeric(cmp.Value) {
			return fmt.Sprintf("%s === %s", cellNum, p.compileExpr(cmp.Value))
		}
		return fmt.Sprintf("%s === String(%s)", cellStr, p.compileExpr(cmp.Value))
	case ast.OpNe:
		if isNumeric(cmp.Value) {
			return fmt.Sprintf("%s !== %s", cellNum, p.compileExpr(cmp.Value))
		}
		return fmt.Sprintf("%s !== String(%s)", cellStr, p.compileExpr(cmp.Value))
	case ast.OpLt:
		return fmt.Sprintf("%s < Number(%s)", cellNum, p.compileExpr(cmp.Value))
	case ast.OpLe:
		return fmt.Sprintf("%s <= Number(%s)", cellNum, p.compileExpr(cmp.Value))
	case ast.OpGt:
		return fmt.Sprintf("%s > Number(%s)", cellNum, p.compileExpr(cmp.Value))
	case ast.OpGe:
		return fmt.Sprintf("%s >= Number(%s)", cellNum, p.compileExpr(cmp.Value))
	case ast.OpContains:
		return fmt.Sprintf("%s.includes(String(%s))", cellStr, p.compileExpr(cmp.Value))
	case ast.OpStartsWith:
		return fmt.Sprintf("%s.startsWith(String(%s))", cellStr, p.compileExpr(cmp.Value))
	case ast.OpEndsWith:
		return fmt.Sprintf("%s.endsWith(String(%s))", cellStr, p.compileExpr(cmp.Value))
	case ast.OpMatches:
		return fmt.Sprintf("new RegExp(String(%s)).test(%s)", p.compileExpr(cmp.Value), cellStr)
	case ast.OpIsNull:
		return fmt.Sprintf("(%s === null || %s === undefined)", cell, cell)
	case ast.OpNotNull:
		return fmt.Sprintf("(%s !== null && %s !== undefined)", cell, cell)
	case ast.OpIsEmpty:
		return fmt.Sprintf("(%s === null || %s === undefined || String(%s) === '')", cell, cell, cell)
	case ast.OpNotEmpty:
		return fmt.Sprintf("(%s !== null && %s !== undefined && String(%s) !== '')", cell, cell, cell)
	case ast.OpIn:
		return fmt.Sprintf("%s.map(String).includes(%s)", p.compileValueList(cmp), cellStr)
	case ast.OpNotIn:
		return fmt.Sprintf("!%s.map(String).includes(%s)", p.compileValueList(cmp), cellStr)
	default:
		p.warnf("comparison operator %q has no compilation rule, keeping all rows", cmp.Op)
		return "true"
	}
}

func (p *pass) compileValueList(cmp *ast.Comparison) string {
	if len(cmp.Values) > 0 {
		parts := make([]string, len(cmp.Values))
		for i, v := range cmp.Values {
			parts[i] = p.compileExpr(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if list, ok := cmp.Value.(*ast.ListLit); ok {
		return p.compileExpr(list)
	}
	return "[" + p.compileExpr(cmp.Value) + "]"
}

func isNumeric(e ast.Expr) bool {
	_, ok := e.(*ast.NumberLit)
	return ok
}

// predicate renders a WHERE tree as an arrow-function predicate.
func (p *pass) predicate(cond ast.DataCondition) string {
	return fmt.Sprintf("(row) => %s", p.compileCondition(cond, "row"))
}

// sortCall renders a sort comparator over a column. Numeric cells compare
// numerically, everything else lexically.
func sortCall(column string, desc bool) string {
	a, b := "a", "b"
	if desc {
		a, b = "b", "a"
	}
	col := tsString(column)
	return fmt.Sprintf(".slice().sort((a, b) => vero.compare(%s[%s], %s[%s]))", a, col, b, col)
}

// compileRowSet renders the shared filter step of the direct-access family.
func (p *pass) compileRowSet(table ast.TableReference, where ast.DataCondition) string {
	expr := p.useTable(table)
	if where != nil {
		expr += fmt.Sprintf(".filter(%s)", p.predicate(where))
	}
	return expr
}

// compileRowAssignment compiles single-row access: filter, optional sort,
// first/last/random position, reference resolution, and an explicit failure
// when nothing matched so absent data surfaces as a test failure rather than
// a silent wrong answer.
func (p *pass) compileRowAssignment(w *writer, s *ast.RowAssignment) {
	expr := p.compileRowSet(s.Table, s.Where)
	if s.OrderBy != "" {
		expr += sortCall(s.OrderBy, s.Desc)
	}
	rows := p.nextTmp("rows")
	w.line("const %s = vero.resolveRefs(tables, %s);", rows, expr)
	name := tsIdent(s.Name)
	switch s.Position {
	case ast.RowLast:
		w.line("const %s = %s[%s.length - 1];", name, rows, rows)
	case ast.RowRandom:
		w.line("const %s = %s[Math.floor(Math.random() * %s.length)];", name, rows, rows)
	default:
		w.line("const %s = %s[0];", name, rows)
	}
	w.line("if (%s === undefined) {", name)
	w.push()
	w.line("throw new Error(%s);", tsString(fmt.Sprintf("no row in table %q matched", s.Table.Key())))
	w.pop()
	w.line("}")
	p.reportVariable(w, s.Name)
}

// compileRowsAssignment compiles multi-row access as a filter-sort-slice
// pipeline with reference resolution.
func (p *pass) compileRowsAssignment(w *writer, s *ast.RowsAssignment) {
	expr := p.compileRowSet(s.Table, s.Where)
	if s.OrderBy != "" {
		expr += sortCall(s.OrderBy, s.Desc)
	}
	if s.Limit > 0 {
		expr += fmt.Sprintf(".slice(0, %d)", s.Limit)
	}
	w.line("const %s = vero.resolveRefs(tables, %s);", tsIdent(s.Name), expr)
	p.reportVariable(w, s.Name)
}

// compileColumnAssignment binds one column's values.
func (p *pass) compileColumnAssignment(w *writer, s *ast.ColumnAssignment) {
	expr := p.compileRowSet(s.Table, s.Where)
	w.line("const %s = %s.map((row) => row[%s]);", tsIdent(s.Name), expr, tsString(s.Column))
	p.reportVariable(w, s.Name)
}

// compileCountAssignment binds the matching-row count.
func (p *pass) compileCountAssignment(w *writer, s *ast.CountAssignment) {
	expr := p.compileRowSet(s.Table, s.Where)
	w.line("const %s = %s.length;", tsIdent(s.Name), expr)
	p.reportVariable(w, s.Name)
}

// compileQueryAssignment compiles the fluent query-chain family into one
// pipeline expression over the shared preloaded accessor.
func (p *pass) compileQueryAssignment(w *writer, s *ast.QueryAssignment) {
	expr := p.useTable(s.Table)
	rowsLike := true // whether expr still denotes a row set
	var defaultExpr string

	for _, op := range s.Ops {
		switch op.Kind {
		case ast.QWhere:
			expr += fmt.Sprintf(".filter(%s)", p.predicate(op.Cond))
		case ast.QOrderBy:
			expr += sortCall(op.Column, op.Desc)
		case ast.QLimit:
			expr += fmt.Sprintf(".slice(0, %d)", op.N)
		case ast.QOffset:
			expr += fmt.Sprintf(".slice(%d)", op.N)
		case ast.QDistinct:
			expr = fmt.Sprintf("vero.distinct(%s)", expr)
		case ast.QFirst:
			expr = fmt.Sprintf("(%s)[0]", expr)
			rowsLike = false
		case ast.QLast:
			expr = fmt.Sprintf("((rows) => rows[rows.length - 1])(%s)", expr)
			rowsLike = false
		case ast.QRandom:
			expr = fmt.Sprintf("((rows) => rows[Math.floor(Math.random() * rows.length)])(%s)", expr)
			rowsLike = false
		case ast.QColumn:
			if rowsLike {
				expr += fmt.Sprintf(".map((row) => row[%s])", tsString(op.Column))
				// Projection yields scalars, not rows.
				rowsLike = false
			} else {
				expr = fmt.Sprintf("(%s)?.[%s]", expr, tsString(op.Column))
			}
		case ast.QCount:
			expr = fmt.Sprintf("(%s).length", expr)
			rowsLike = false
		case ast.QSum:
			expr = fmt.Sprintf("(%s).reduce((acc, row) => acc + Number(row[%s] ?? 0), 0)", expr, tsString(op.Column))
			rowsLike = false
		case ast.QAverage:
			expr = fmt.Sprintf("((rows) => rows.length === 0 ? 0 : rows.reduce((acc, row) => acc + Number(row[%s] ?? 0), 0) / rows.length)(%s)", tsString(op.Column), expr)
			rowsLike = false
		case ast.QMin:
			expr = fmt.Sprintf("Math.min(...(%s).map((row) => Number(row[%s] ?? 0)))", expr, tsString(op.Column))
			rowsLike = false
		case ast.QMax:
			expr = fmt.Sprintf("Math.max(...(%s).map((row) => Number(row[%s] ?? 0)))", expr, tsString(op.Column))
			rowsLike = false
		case ast.QRows:
			expr = fmt.Sprintf("(%s).length", expr)
			rowsLike = false
		case ast.QColumns:
			expr = fmt.Sprintf("Object.keys((%s)[0] ?? {}).length", expr)
			rowsLike = false
		case ast.QHeaders:
			expr = fmt.Sprintf("Object.keys((%s)[0] ?? {})", expr)
			rowsLike = false
		case ast.QDefault:
			defaultExpr = p.compileExpr(op.Default)
		default:
			p.warnf("query operation %q has no compilation rule, skipping it", op.Kind)
		}
	}

	if rowsLike {
		expr = fmt.Sprintf("vero.resolveRefs(tables, %s)", expr)
	}
	if defaultExpr != "" {
		expr = fmt.Sprintf("((%s) ?? %s)", expr, defaultExpr)
	}
	w.line("const %s = %s;", tsIdent(s.Name), expr)
	p.reportVariable(w, s.Name)
}

// reportVariable emits debug-mode variable reporting after an assignment.
func (p *pass) reportVariable(w *writer, name string) {
	if !p.opts.Debug || !p.inFeature {
		return
	}
	w.line("await __stepper.variable(%s, %s);", tsString(name), tsIdent(name))
}
