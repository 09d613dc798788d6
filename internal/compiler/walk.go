package compiler

import "github.com/verolang/verogen/internal/ast"

// Inspect is the single structural fold every pre-scan is built on. It visits
// each statement, expression, condition tree and table reference reachable
// from stmts, including positions nested inside loops, conditionals,
// try/catch blocks and WHERE clauses, calling visit for every node. The
// recursion must stay exhaustive over the closed unions: a node shape missed
// here surfaces as a missing import or an unguarded failure in the generated
// program.
func Inspect(stmts []ast.Statement, visit func(node any)) {
	for _, st := range stmts {
		inspectStmt(st, visit)
	}
}

func inspectStmt(st ast.Statement, visit func(node any)) {
	if st == nil {
		return
	}
	visit(st)
	switch s := st.(type) {
	case *ast.Open:
		inspectExpr(s.URL, visit)
	case *ast.Reload, *ast.GoBack, *ast.GoForward:
	case *ast.Click:
		inspectTarget(s.Target, visit)
	case *ast.DoubleClick:
		inspectTarget(s.Target, visit)
	case *ast.RightClick:
		inspectTarget(s.Target, visit)
	case *ast.Hover:
		inspectTarget(s.Target, visit)
	case *ast.Focus:
		inspectTarget(s.Target, visit)
	case *ast.Clear:
		inspectTarget(s.Target, visit)
	case *ast.ScrollTo:
		inspectTarget(s.Target, visit)
	case *ast.Fill:
		inspectTarget(s.Target, visit)
		inspectExpr(s.Value, visit)
	case *ast.TypeText:
		inspectTarget(s.Target, visit)
		inspectExpr(s.Value, visit)
	case *ast.Press:
	case *ast.Check:
		inspectTarget(s.Target, visit)
	case *ast.Uncheck:
		inspectTarget(s.Target, visit)
	case *ast.SelectOption:
		inspectTarget(s.Target, visit)
		inspectExpr(s.Value, visit)
	case *ast.Upload:
		inspectTarget(s.Target, visit)
		for _, f := range s.Files {
			inspectExpr(f, visit)
		}
	case *ast.Drag:
		inspectTarget(s.From, visit)
		inspectTarget(s.To, visit)
	case *ast.Screenshot:
	case *ast.Verify:
		inspectTarget(s.Target, visit)
		inspectExpr(s.Value, visit)
	case *ast.VerifyURL:
		inspectExpr(s.Value, visit)
	case *ast.VerifyTitle:
		inspectExpr(s.Value, visit)
	case *ast.Wait:
	case *ast.WaitFor:
		inspectTarget(s.Target, visit)
	case *ast.LogMessage:
		inspectExpr(s.Value, visit)
	case *ast.Fail:
		inspectExpr(s.Message, visit)
	case *ast.SetVariable:
		inspectExpr(s.Value, visit)
	case *ast.UtilityAssignment:
		if s.Call != nil {
			inspectExpr(s.Call, visit)
		}
	case *ast.QueryAssignment:
		visit(s.Table)
		for _, op := range s.Ops {
			inspectCond(op.Cond, visit)
			inspectExpr(op.Default, visit)
		}
	case *ast.RowAssignment:
		visit(s.Table)
		inspectCond(s.Where, visit)
	case *ast.RowsAssignment:
		visit(s.Table)
		inspectCond(s.Where, visit)
	case *ast.ColumnAssignment:
		visit(s.Table)
		inspectCond(s.Where, visit)
	case *ast.CountAssignment:
		visit(s.Table)
		inspectCond(s.Where, visit)
	case *ast.IfElse:
		inspectCondition(s.Cond, visit)
		Inspect(s.Then, visit)
		Inspect(s.Else, visit)
	case *ast.Repeat:
		Inspect(s.Body, visit)
	case *ast.ForEachRow:
		visit(s.Table)
		inspectCond(s.Where, visit)
		Inspect(s.Body, visit)
	case *ast.TryCatch:
		Inspect(s.Try, visit)
		Inspect(s.Catch, visit)
	case *ast.CallAction:
		for _, a := range s.Args {
			inspectExpr(a, visit)
		}
	case *ast.Return:
		inspectExpr(s.Value, visit)
	case *ast.ApiRequest:
		inspectExpr(s.URL, visit)
		inspectExpr(s.Body, visit)
		for _, h := range s.Headers {
			inspectExpr(h.Value, visit)
		}
	case *ast.OpenTab:
		inspectExpr(s.URL, visit)
	case *ast.SwitchTab, *ast.CloseTab:
	case *ast.SwitchFrame:
		if s.Selector != nil {
			visit(*s.Selector)
		}
	case *ast.SwitchToMainFrame:
	case *ast.AcceptDialog, *ast.DismissDialog:
	case *ast.Unknown:
	}
}

func inspectTarget(t ast.Target, visit func(node any)) {
	visit(t)
	if t.Selector != nil {
		visit(*t.Selector)
	}
}

func inspectExpr(e ast.Expr, visit func(node any)) {
	if e == nil {
		return
	}
	visit(e)
	switch x := e.(type) {
	case *ast.Concat:
		for _, part := range x.Parts {
			inspectExpr(part, visit)
		}
	case *ast.ListLit:
		for _, item := range x.Items {
			inspectExpr(item, visit)
		}
	case *ast.TableCellRef:
		visit(x.Ref)
	case *ast.UtilityCall:
		for _, a := range x.Args {
			inspectExpr(a, visit)
		}
		for _, link := range x.Chain {
			for _, a := range link.Args {
				inspectExpr(a, visit)
			}
		}
	}
}

func inspectCond(c ast.DataCondition, visit func(node any)) {
	if c == nil {
		return
	}
	visit(c)
	switch n := c.(type) {
	case *ast.AndCond:
		for _, child := range n.Conds {
			inspectCond(child, visit)
		}
	case *ast.OrCond:
		for _, child := range n.Conds {
			inspectCond(child, visit)
		}
	case *ast.NotCond:
		inspectCond(n.Cond, visit)
	case *ast.Comparison:
		inspectExpr(n.Value, visit)
		for _, v := range n.Values {
			inspectExpr(v, visit)
		}
	}
}

func inspectCondition(c ast.Condition, visit func(node any)) {
	inspectTarget(c.Target, visit)
	inspectExpr(c.Left, visit)
	inspectExpr(c.Right, visit)
}

// anyStatement reports whether pred holds for any statement reachable from
// stmts, however deeply nested.
func anyStatement(stmts []ast.Statement, pred func(ast.Statement) bool) bool {
	found := false
	Inspect(stmts, func(node any) {
		if found {
			return
		}
		if st, ok := node.(ast.Statement); ok && pred(st) {
			found = true
		}
	})
	return found
}

// usesTabContext reports whether any tab-switching statement appears.
func usesTabContext(stmts []ast.Statement) bool {
	return anyStatement(stmts, func(st ast.Statement) bool {
		switch st.(type) {
		case *ast.OpenTab, *ast.SwitchTab, *ast.CloseTab:
			return true
		}
		return false
	})
}

// usesFrameContext reports whether any frame-switching statement appears.
func usesFrameContext(stmts []ast.Statement) bool {
	return anyStatement(stmts, func(st ast.Statement) bool {
		switch st.(type) {
		case *ast.SwitchFrame, *ast.SwitchToMainFrame:
			return true
		}
		return false
	})
}

// usesAPIContext reports whether any API request appears.
func usesAPIContext(stmts []ast.Statement) bool {
	return anyStatement(stmts, func(st ast.Statement) bool {
		_, ok := st.(*ast.ApiRequest)
		return ok
	})
}
