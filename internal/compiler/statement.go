package compiler

import (
	"fmt"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// compileStatements compiles a statement list at the writer's current depth.
// topLevel marks direct scenario children, which get debug instrumentation.
func (p *pass) compileStatements(w *writer, stmts []ast.Statement, topLevel bool) {
	for _, st := range stmts {
		p.compileStatement(w, st, topLevel)
	}
}

// compileStatement is the central dispatch: one statement node, one rule.
// The switch is exhaustive over the closed union; a kind with no rule emits
// an inert placeholder comment so one unsupported construct never blocks the
// rest of the unit.
func (p *pass) compileStatement(w *writer, st ast.Statement, topLevel bool) {
	if p.opts.Debug && topLevel && p.inFeature {
		p.compileInstrumented(w, st)
		return
	}
	p.emitStatement(w, st)
}

// compileInstrumented wraps one top-level scenario statement with paired
// before/after stepper calls. The wrapper re-raises any failure from the
// wrapped statement after reporting it.
func (p *pass) compileInstrumented(w *writer, st ast.Statement) {
	line := st.Pos()
	kind, target := describeStatement(st)
	w.line("await __stepper.before(%d, %s, %s);", line, tsString(kind), tsString(target))
	w.line("try {")
	w.push()
	p.emitStatement(w, st)
	w.pop()
	w.line("} catch (err) {")
	w.push()
	w.line("await __stepper.after(%d, 'failed', String(err));", line)
	w.line("throw err;")
	w.pop()
	w.line("}")
	w.line("await __stepper.after(%d, 'passed');", line)
}

func (p *pass) emitStatement(w *writer, st ast.Statement) {
	switch s := st.(type) {
	case *ast.Open:
		p.emitOpen(w, s)
	case *ast.Reload:
		w.line("await %s.reload();", p.pageHandle())
	case *ast.GoBack:
		w.line("await %s.goBack();", p.pageHandle())
	case *ast.GoForward:
		w.line("await %s.goForward();", p.pageHandle())
	case *ast.Click:
		w.line("await %s.click();", p.resolveTarget(s.Target))
	case *ast.DoubleClick:
		w.line("await %s.dblclick();", p.resolveTarget(s.Target))
	case *ast.RightClick:
		w.line("await %s.click({ button: 'right' });", p.resolveTarget(s.Target))
	case *ast.Hover:
		w.line("await %s.hover();", p.resolveTarget(s.Target))
	case *ast.Focus:
		w.line("await %s.focus();", p.resolveTarget(s.Target))
	case *ast.Clear:
		w.line("await %s.clear();", p.resolveTarget(s.Target))
	case *ast.ScrollTo:
		w.line("await %s.scrollIntoViewIfNeeded();", p.resolveTarget(s.Target))
	case *ast.Fill:
		w.line("await %s.fill(String(%s));", p.resolveTarget(s.Target), p.compileExpr(s.Value))
	case *ast.TypeText:
		if s.DelayMs > 0 {
			w.line("await %s.pressSequentially(String(%s), { delay: %d });", p.resolveTarget(s.Target), p.compileExpr(s.Value), s.DelayMs)
		} else {
			w.line("await %s.pressSequentially(String(%s));", p.resolveTarget(s.Target), p.compileExpr(s.Value))
		}
	case *ast.Press:
		w.line("await %s.keyboard.press(%s);", p.pageHandle(), tsString(s.Key))
	case *ast.Check:
		w.line("await %s.check();", p.resolveTarget(s.Target))
	case *ast.Uncheck:
		w.line("await %s.uncheck();", p.resolveTarget(s.Target))
	case *ast.SelectOption:
		w.line("await %s.selectOption(String(%s));", p.resolveTarget(s.Target), p.compileExpr(s.Value))
	case *ast.Upload:
		files := make([]string, len(s.Files))
		for i, f := range s.Files {
			files[i] = "String(" + p.compileExpr(f) + ")"
		}
		w.line("await %s.setInputFiles([%s]);", p.resolveTarget(s.Target), joinArgs(files))
	case *ast.Drag:
		w.line("await %s.dragTo(%s);", p.resolveTarget(s.From), p.resolveTarget(s.To))
	case *ast.Screenshot:
		p.emitScreenshot(w, s)
	case *ast.Verify:
		p.emitVerify(w, s)
	case *ast.VerifyURL:
		w.line("await expect(%s).toHaveURL(String(%s));", p.pageHandle(), p.compileExpr(s.Value))
	case *ast.VerifyTitle:
		w.line("await expect(%s).toHaveTitle(String(%s));", p.pageHandle(), p.compileExpr(s.Value))
	case *ast.Wait:
		w.line("await %s.waitForTimeout(%s);", p.pageHandle(), tsNumber(s.Seconds*1000))
	case *ast.WaitFor:
		state := s.State
		if state == "" {
			state = "visible"
		}
		w.line("await %s.waitFor({ state: '%s' });", p.resolveTarget(s.Target), state)
	case *ast.LogMessage:
		w.line("console.log(%s);", p.compileExpr(s.Value))
	case *ast.Fail:
		w.line("throw new Error(String(%s));", p.compileExpr(s.Message))
	case *ast.SetVariable:
		w.line("const %s = %s;", tsIdent(s.Name), p.compileExpr(s.Value))
		p.reportVariable(w, s.Name)
	case *ast.UtilityAssignment:
		w.line("const %s = %s;", tsIdent(s.Name), p.compileUtilityCall(s.Call))
		p.reportVariable(w, s.Name)
	case *ast.QueryAssignment:
		p.compileQueryAssignment(w, s)
	case *ast.RowAssignment:
		p.compileRowAssignment(w, s)
	case *ast.RowsAssignment:
		p.compileRowsAssignment(w, s)
	case *ast.ColumnAssignment:
		p.compileColumnAssignment(w, s)
	case *ast.CountAssignment:
		p.compileCountAssignment(w, s)
	case *ast.IfElse:
		p.emitIfElse(w, s)
	case *ast.Repeat:
		idx := p.nextTmp("i")
		w.line("for (let %s = 0; %s < %d; %s++) {", idx, idx, s.Count, idx)
		w.push()
		p.compileStatements(w, s.Body, false)
		w.pop()
		w.line("}")
	case *ast.ForEachRow:
		expr := fmt.Sprintf("vero.resolveRefs(tables, %s)", p.compileRowSet(s.Table, s.Where))
		w.line("for (const %s of %s) {", tsIdent(s.Name), expr)
		w.push()
		p.compileStatements(w, s.Body, false)
		w.pop()
		w.line("}")
	case *ast.TryCatch:
		w.line("try {")
		w.push()
		p.compileStatements(w, s.Try, false)
		w.pop()
		catchVar := s.CatchVar
		if catchVar == "" {
			catchVar = "err"
		}
		w.line("} catch (%s) {", tsIdent(catchVar))
		w.push()
		p.compileStatements(w, s.Catch, false)
		w.pop()
		w.line("}")
	case *ast.CallAction:
		p.emitCallAction(w, s)
	case *ast.Return:
		if s.Value == nil {
			w.line("return;")
		} else {
			w.line("return %s;", p.compileExpr(s.Value))
		}
	case *ast.ApiRequest:
		p.emitAPIRequest(w, s)
	case *ast.OpenTab:
		w.line("page = await context.newPage();")
		if s.URL != nil {
			w.line("await page.goto(%s);", p.openURL(s.URL))
		}
	case *ast.SwitchTab:
		if s.Last {
			w.line("page = context.pages()[context.pages().length - 1];")
		} else {
			w.line("page = context.pages()[%d];", s.Index)
		}
		w.line("await page.bringToFront();")
	case *ast.CloseTab:
		w.line("await page.close();")
		w.line("page = context.pages()[context.pages().length - 1];")
		w.line("await page.bringToFront();")
	case *ast.SwitchFrame:
		sel := ast.Selector{Kind: ast.SelAuto}
		if s.Selector != nil {
			sel = *s.Selector
		}
		w.line("frame = %s.contentFrame();", p.resolveSelector(sel))
	case *ast.SwitchToMainFrame:
		w.line("frame = null;")
	case *ast.AcceptDialog:
		if s.Prompt != "" {
			w.line("%s.once('dialog', (dialog) => dialog.accept(%s));", p.pageHandle(), tsString(s.Prompt))
		} else {
			w.line("%s.once('dialog', (dialog) => dialog.accept());", p.pageHandle())
		}
	case *ast.DismissDialog:
		w.line("%s.once('dialog', (dialog) => dialog.dismiss());", p.pageHandle())
	case *ast.Unknown:
		p.warnf("statement kind %q at line %d has no compilation rule", s.Kind, s.Pos())
		w.line("// vero: unsupported statement %q", s.Kind)
	default:
		// Defensive arm for a future variant added upstream before a rule
		// exists here; mirrors the Unknown placeholder policy.
		p.warnf("statement %T has no compilation rule", st)
		w.line("// vero: unsupported statement")
	}
}

func (p *pass) openURL(url ast.Expr) string {
	compiled := p.compileExpr(url)
	if p.opts.BaseURL != "" {
		if lit, ok := url.(*ast.StringLit); ok && len(lit.Value) > 0 && lit.Value[0] == '/' {
			return tsString(p.opts.BaseURL) + " + " + compiled
		}
	}
	return compiled
}

func (p *pass) emitOpen(w *writer, s *ast.Open) {
	w.line("await %s.goto(String(%s));", p.pageHandle(), p.openURL(s.URL))
}

func (p *pass) emitScreenshot(w *writer, s *ast.Screenshot) {
	name := s.Name
	if name == "" {
		name = "screenshot"
	}
	if s.FullPage {
		w.line("await %s.screenshot({ path: %s, fullPage: true });", p.pageHandle(), tsString(name+".png"))
		return
	}
	w.line("await %s.screenshot({ path: %s });", p.pageHandle(), tsString(name+".png"))
}

func (p *pass) emitVerify(w *writer, s *ast.Verify) {
	loc := p.resolveTarget(s.Target)
	expectCall := "expect(" + loc + ")"
	if s.Negated {
		expectCall += ".not"
	}
	switch s.Check {
	case ast.VerifyHidden:
		w.line("await %s.toBeHidden();", expectCall)
	case ast.VerifyEnabled:
		w.line("await %s.toBeEnabled();", expectCall)
	case ast.VerifyDisabled:
		w.line("await %s.toBeDisabled();", expectCall)
	case ast.VerifyChecked:
		w.line("await %s.toBeChecked();", expectCall)
	case ast.VerifyUnchecked:
		w.line("await %s.toBeChecked({ checked: false });", expectCall)
	case ast.VerifyContains:
		w.line("await %s.toContainText(String(%s));", expectCall, p.compileExpr(s.Value))
	case ast.VerifyHasValue:
		w.line("await %s.toHaveValue(String(%s));", expectCall, p.compileExpr(s.Value))
	case ast.VerifyCount:
		w.line("await %s.toHaveCount(Number(%s));", expectCall, p.compileExpr(s.Value))
	default:
		// visible is the default assertion, matching the DSL's bare
		// `verify ... is visible` form.
		w.line("await %s.toBeVisible();", expectCall)
	}
}

func (p *pass) emitCallAction(w *writer, s *ast.CallAction) {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = p.compileExpr(a)
	}
	var call string
	switch {
	case s.Page != "" && p.current != nil && s.Page == p.current.Name:
		call = fmt.Sprintf("this.%s(%s)", tsIdent(s.Action), joinArgs(args))
	case s.Page != "":
		if _, ok := p.groups[s.Page]; ok {
			// Action-group helpers are free functions taking the page handle.
			helperArgs := append([]string{p.pageHandle()}, args...)
			call = fmt.Sprintf("%s(%s)", tsIdent(s.Action), joinArgs(helperArgs))
		} else {
			call = fmt.Sprintf("%s.%s(%s)", lowerFirst(tsIdent(s.Page)), tsIdent(s.Action), joinArgs(args))
		}
	default:
		call = fmt.Sprintf("%s(%s)", tsIdent(s.Action), joinArgs(args))
	}
	if s.Assign != "" {
		w.line("const %s = await %s;", tsIdent(s.Assign), call)
		p.reportVariable(w, s.Assign)
		return
	}
	w.line("await %s;", call)
}

func (p *pass) emitAPIRequest(w *writer, s *ast.ApiRequest) {
	method := strings.ToLower(s.Method)
	switch method {
	case "get", "post", "put", "patch", "delete", "head":
	default:
		method = "get"
	}
	opts := ""
	if s.Body != nil || len(s.Headers) > 0 {
		parts := []string{}
		if s.Body != nil {
			parts = append(parts, "data: "+p.compileExpr(s.Body))
		}
		if len(s.Headers) > 0 {
			hdrs := make([]string, len(s.Headers))
			for i, h := range s.Headers {
				hdrs[i] = fmt.Sprintf("%s: String(%s)", tsString(h.Name), p.compileExpr(h.Value))
			}
			parts = append(parts, "headers: { "+joinArgs(hdrs)+" }")
		}
		opts = ", { " + joinArgs(parts) + " }"
	}
	assign := s.Assign
	if assign == "" {
		assign = p.nextTmp("res")
	}
	w.line("const %s = await request.%s(String(%s)%s);", tsIdent(assign), method, p.compileExpr(s.URL), opts)
	if s.Assign != "" {
		p.reportVariable(w, s.Assign)
	}
}

func (p *pass) emitIfElse(w *writer, s *ast.IfElse) {
	w.line("if (%s) {", p.compileScenarioCondition(w, s.Cond))
	w.push()
	p.compileStatements(w, s.Then, false)
	w.pop()
	if len(s.Else) > 0 {
		w.line("} else {")
		w.push()
		p.compileStatements(w, s.Else, false)
		w.pop()
	}
	w.line("}")
}

// compileScenarioCondition renders an IfElse guard. Element-state checks
// probe the live page without asserting.
func (p *pass) compileScenarioCondition(w *writer, c ast.Condition) string {
	if c.Kind == ast.CondElementState || !c.Target.IsZero() {
		loc := p.resolveTarget(c.Target)
		var probe string
		switch c.State {
		case ast.VerifyEnabled:
			probe = fmt.Sprintf("await %s.isEnabled()", loc)
		case ast.VerifyDisabled:
			probe = fmt.Sprintf("await %s.isDisabled()", loc)
		case ast.VerifyChecked:
			probe = fmt.Sprintf("await %s.isChecked()", loc)
		case ast.VerifyHidden:
			probe = fmt.Sprintf("await %s.isHidden()", loc)
		default:
			probe = fmt.Sprintf("await %s.isVisible()", loc)
		}
		if c.Negated {
			return "!(" + probe + ")"
		}
		return probe
	}
	left := p.compileExpr(c.Left)
	right := p.compileExpr(c.Right)
	op := string(c.Op)
	switch c.Op {
	case ast.OpEq:
		op = "==="
	case ast.OpNe:
		op = "!=="
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return fmt.Sprintf("Number(%s) %s Number(%s)", left, op, right)
	case ast.OpContains:
		return fmt.Sprintf("String(%s).includes(String(%s))", left, right)
	default:
		op = "==="
	}
	cond := fmt.Sprintf("String(%s) %s String(%s)", left, op, right)
	if c.Negated {
		return "!(" + cond + ")"
	}
	return cond
}

// describeStatement yields the statement kind and best-effort target
// description for debug instrumentation.
func describeStatement(st ast.Statement) (kind, target string) {
	switch s := st.(type) {
	case *ast.Open:
		return "open", ""
	case *ast.Reload:
		return "reload", ""
	case *ast.GoBack:
		return "goBack", ""
	case *ast.GoForward:
		return "goForward", ""
	case *ast.Click:
		return "click", describeTarget(s.Target)
	case *ast.DoubleClick:
		return "doubleClick", describeTarget(s.Target)
	case *ast.RightClick:
		return "rightClick", describeTarget(s.Target)
	case *ast.Hover:
		return "hover", describeTarget(s.Target)
	case *ast.Focus:
		return "focus", describeTarget(s.Target)
	case *ast.Clear:
		return "clear", describeTarget(s.Target)
	case *ast.ScrollTo:
		return "scrollTo", describeTarget(s.Target)
	case *ast.Fill:
		return "fill", describeTarget(s.Target)
	case *ast.TypeText:
		return "type", describeTarget(s.Target)
	case *ast.Press:
		return "press", s.Key
	case *ast.Check:
		return "check", describeTarget(s.Target)
	case *ast.Uncheck:
		return "uncheck", describeTarget(s.Target)
	case *ast.SelectOption:
		return "select", describeTarget(s.Target)
	case *ast.Upload:
		return "upload", describeTarget(s.Target)
	case *ast.Drag:
		return "drag", describeTarget(s.From)
	case *ast.Screenshot:
		return "screenshot", s.Name
	case *ast.Verify:
		return "verify", describeTarget(s.Target)
	case *ast.VerifyURL:
		return "verifyUrl", ""
	case *ast.VerifyTitle:
		return "verifyTitle", ""
	case *ast.Wait:
		return "wait", ""
	case *ast.WaitFor:
		return "waitFor", describeTarget(s.Target)
	case *ast.LogMessage:
		return "log", ""
	case *ast.Fail:
		return "fail", ""
	case *ast.SetVariable:
		return "set", s.Name
	case *ast.UtilityAssignment:
		return "utility", s.Name
	case *ast.QueryAssignment:
		return "query", s.Table.Key()
	case *ast.RowAssignment:
		return "row", s.Table.Key()
	case *ast.RowsAssignment:
		return "rows", s.Table.Key()
	case *ast.ColumnAssignment:
		return "columnAccess", s.Table.Key()
	case *ast.CountAssignment:
		return "countAccess", s.Table.Key()
	case *ast.IfElse:
		return "if", ""
	case *ast.Repeat:
		return "repeat", ""
	case *ast.ForEachRow:
		return "forEachRow", s.Table.Key()
	case *ast.TryCatch:
		return "tryCatch", ""
	case *ast.CallAction:
		return "callAction", s.Page + "." + s.Action
	case *ast.Return:
		return "return", ""
	case *ast.ApiRequest:
		return "apiRequest", s.Method
	case *ast.OpenTab:
		return "openTab", ""
	case *ast.SwitchTab:
		return "switchTab", ""
	case *ast.CloseTab:
		return "closeTab", ""
	case *ast.SwitchFrame:
		return "switchFrame", ""
	case *ast.SwitchToMainFrame:
		return "switchToMainFrame", ""
	case *ast.AcceptDialog:
		return "acceptDialog", ""
	case *ast.DismissDialog:
		return "dismissDialog", ""
	case *ast.Unknown:
		return s.Kind, ""
	default:
		return "unknown", ""
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
