package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// tsType maps a DSL value type to its TypeScript counterpart.
func tsType(t string) string {
	switch t {
	case "text":
		return "string"
	case "number":
		return "number"
	case "flag":
		return "boolean"
	case "":
		return "void"
	default:
		return "unknown"
	}
}

type pageField struct {
	Name    string
	Locator string
}

type pageVariable struct {
	Name  string
	Type  string
	Value string
}

type pageAction struct {
	Name    string
	Params  string
	Returns string
	Body    string
}

type pageData struct {
	Name        string
	ClassName   string
	Variables   []pageVariable
	Fields      []pageField
	Actions     []pageAction
	UsesRuntime bool
	UsesTables  bool
}

// compilePage emits one page-object unit. Each compilation gets a fresh pass
// so state never leaks between pages.
func compilePage(page *ast.Page, opts Options, warnings *[]string) Unit {
	p := newPass(opts, warnings)
	p.current = page

	data := pageData{Name: page.Name, ClassName: tsIdent(page.Name)}
	for _, v := range page.Variables {
		data.Variables = append(data.Variables, pageVariable{
			Name:  tsIdent(v.Name),
			Type:  tsType(v.Type),
			Value: p.compileExpr(v.Value),
		})
	}
	for _, f := range page.Fields {
		data.Fields = append(data.Fields, pageField{
			Name:    tsIdent(f.Name),
			Locator: p.resolveSelector(f.Selector),
		})
	}
	for _, action := range page.Actions {
		data.Actions = append(data.Actions, compilePageAction(p, action))
	}

	data.UsesTables = len(p.usedTables) > 0
	data.UsesRuntime = data.UsesTables || usesRuntimeHelpers(allActionStmts(page.Actions))

	var buf bytes.Buffer
	_ = pageShell.Execute(&buf, data)
	return Unit{
		Name:     page.Name,
		FileName: tsIdent(page.Name) + ".ts",
		Kind:     UnitPage,
		Code:     buf.String(),
	}
}

// compilePageAction compiles one action body. Tab and frame switches inside
// the action are detected by the structural pre-scan and shape the local
// bindings before any code is emitted.
func compilePageAction(p *pass, action *ast.Action) pageAction {
	p.usesTabs = usesTabContext(action.Statements)
	p.usesFrames = usesFrameContext(action.Statements)
	defer func() { p.usesTabs, p.usesFrames = false, false }()

	w := &writer{indent: 2}
	if p.usesTabs {
		w.line("const context = this.page.context();")
		w.line("let page = this.page;")
	}
	if p.usesFrames {
		w.line("let frame: ReturnType<Page['frameLocator']> | null = null;")
	}
	p.compileStatements(w, action.Statements, false)

	params := make([]string, len(action.Params))
	for i, param := range action.Params {
		params[i] = fmt.Sprintf("%s: %s", tsIdent(param.Name), tsType(param.Type))
	}
	return pageAction{
		Name:    tsIdent(action.Name),
		Params:  strings.Join(params, ", "),
		Returns: tsType(action.Returns),
		Body:    w.String(),
	}
}

type groupData struct {
	Name        string
	Actions     []pageAction
	UsesRuntime bool
	UsesTables  bool
}

// compileGroup emits one page-action helper unit: free functions taking the
// page handle as their first parameter.
func compileGroup(group *ast.ActionGroup, opts Options, warnings *[]string) Unit {
	p := newPass(opts, warnings)

	data := groupData{Name: group.Name}
	for _, action := range group.Actions {
		p.usesTabs = usesTabContext(action.Statements)
		p.usesFrames = usesFrameContext(action.Statements)

		w := &writer{indent: 1}
		if p.usesTabs {
			w.line("const context = page.context();")
		}
		if p.usesFrames {
			w.line("let frame: ReturnType<Page['frameLocator']> | null = null;")
		}
		p.compileStatements(w, action.Statements, false)

		params := []string{"page: Page"}
		for _, param := range action.Params {
			params = append(params, fmt.Sprintf("%s: %s", tsIdent(param.Name), tsType(param.Type)))
		}
		data.Actions = append(data.Actions, pageAction{
			Name:    tsIdent(action.Name),
			Params:  strings.Join(params, ", "),
			Returns: tsType(action.Returns),
			Body:    w.String(),
		})
		p.usesTabs, p.usesFrames = false, false
	}

	data.UsesTables = len(p.usedTables) > 0
	data.UsesRuntime = data.UsesTables || usesRuntimeHelpers(allActionStmts(group.Actions))

	var buf bytes.Buffer
	_ = groupShell.Execute(&buf, data)
	return Unit{
		Name:     group.Name,
		FileName: kebab(group.Name) + ".actions.ts",
		Kind:     UnitActions,
		Code:     buf.String(),
	}
}

func allActionStmts(actions []*ast.Action) []ast.Statement {
	var out []ast.Statement
	for _, a := range actions {
		out = append(out, a.Statements...)
	}
	return out
}

// usesRuntimeHelpers reports whether compiled code will call into the vero
// runtime helper module (date/number helpers, row expansion, sorting).
func usesRuntimeHelpers(stmts []ast.Statement) bool {
	found := false
	Inspect(stmts, func(node any) {
		switch node.(type) {
		case *ast.UtilityCall, *ast.UtilityAssignment,
			*ast.QueryAssignment, *ast.RowAssignment, *ast.RowsAssignment,
			*ast.ColumnAssignment, *ast.CountAssignment, *ast.ForEachRow,
			ast.TableReference:
			found = true
		}
	})
	return found
}
