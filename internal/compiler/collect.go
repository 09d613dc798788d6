package compiler

import (
	"sort"

	"github.com/verolang/verogen/internal/ast"
)

// FeatureRefs is the result of scanning a feature before compiling it: which
// tables it touches, whether it needs environment or utility support, and
// which page and action-group identifiers it references.
type FeatureRefs struct {
	Tables   []string
	UsesEnv  bool
	UsesUtil bool
	UsesAPI  bool
	Pages    []string
	Groups   []string
}

// refScan accumulates references across a feature, following action calls
// into page and group action bodies so the preload set stays complete even
// when a table is only touched inside a called action.
type refScan struct {
	pages  map[string]*ast.Page
	groups map[string]*ast.ActionGroup

	tables   map[string]struct{}
	pageRefs map[string]struct{}
	groupRef map[string]struct{}
	visited  map[string]struct{}
	refs     FeatureRefs
}

// CollectRefs walks every hook and scenario of a feature, through every
// nesting level and through called actions, and returns the reference sets
// the assembler needs for imports and the per-feature preload block.
func CollectRefs(f *ast.Feature, pages map[string]*ast.Page, groups map[string]*ast.ActionGroup) FeatureRefs {
	sc := &refScan{
		pages:    pages,
		groups:   groups,
		tables:   map[string]struct{}{},
		pageRefs: map[string]struct{}{},
		groupRef: map[string]struct{}{},
		visited:  map[string]struct{}{},
	}

	for _, h := range f.Hooks {
		sc.scan(h.Statements)
	}
	for _, s := range f.Scenarios {
		sc.scan(s.Statements)
	}

	sc.refs.Tables = sortedKeys(sc.tables)
	sc.refs.Pages = sortedKeys(sc.pageRefs)
	sc.refs.Groups = sortedKeys(sc.groupRef)
	return sc.refs
}

func (sc *refScan) scan(stmts []ast.Statement) {
	Inspect(stmts, func(node any) {
		switch n := node.(type) {
		case ast.TableReference:
			sc.tables[n.Key()] = struct{}{}
		case ast.Target:
			if n.Page != "" {
				sc.pageRefs[n.Page] = struct{}{}
			}
		case *ast.CallAction:
			sc.scanCall(n)
		case *ast.EnvRef:
			sc.refs.UsesEnv = true
		case *ast.UtilityCall:
			sc.refs.UsesUtil = true
		case *ast.UtilityAssignment:
			sc.refs.UsesUtil = true
		case *ast.ApiRequest:
			sc.refs.UsesAPI = true
		}
	})
}

// scanCall records the call target and descends into its body exactly once,
// so mutually recursive actions cannot loop the scan.
func (sc *refScan) scanCall(call *ast.CallAction) {
	if call.Page == "" {
		return
	}
	key := call.Page + "." + call.Action
	if _, seen := sc.visited[key]; seen {
		return
	}
	sc.visited[key] = struct{}{}

	if group, ok := sc.groups[call.Page]; ok {
		sc.groupRef[call.Page] = struct{}{}
		for _, a := range group.Actions {
			if a.Name == call.Action {
				sc.scan(a.Statements)
			}
		}
		return
	}
	sc.pageRefs[call.Page] = struct{}{}
	if page, ok := sc.pages[call.Page]; ok {
		for _, a := range page.Actions {
			if a.Name == call.Action {
				sc.scan(a.Statements)
			}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
