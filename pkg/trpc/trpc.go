// Package trpc implements the tRPC Router Parser and Composition Resolver
// (spec §4.6): it finds router-factory call sites, walks their object-literal
// shape into procedures and nested-router mount edges, then resolves the
// mount graph into each procedure's fully-qualified dotted router path.
package trpc

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"
	"github.com/watchapi-dev/routelens/pkg/astutil"
	"github.com/watchapi-dev/routelens/pkg/rlog"
	"github.com/watchapi-dev/routelens/pkg/route"
	"github.com/watchapi-dev/routelens/pkg/schema"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

// Options configures router-factory recognition (spec §4.6.1); callers that
// use an unconventional factory name (instead of the default "router" /
// "createTRPCRouter" / "t.router") can add it here.
type Options struct {
	// ExtraFactoryNames are additional identifiers (or "t.router"-style
	// dotted chains) that count as a router factory call.
	ExtraFactoryNames []string
	// IdentifierPattern, if set, additionally matches any call whose callee
	// chain's last segment matches this regexp.
	IdentifierPattern *regexp.Regexp
}

var defaultFactoryNames = map[string]bool{
	"router":          true,
	"createTRPCRouter": true,
}

// Result is everything the tRPC parser + composition resolver produces.
type Result struct {
	Procedures []route.TrpcProcedure
	Routers    []route.TrpcRouter
	Warnings   []route.Warning
}

// routerDecl is one discovered `const X = router({...})` declaration.
type routerDecl struct {
	name        string
	file        string
	line        int
	linesOfCode int
	sf          *ast.SourceFile
	shape       *ast.Node
}

// mountEdge is a raw (unresolved) RouterMountEdge discovered while walking a
// router's shape.
type mountEdge struct {
	parent   string
	property string
	target   string // name of the router it mounts, resolved against routerDecls
}

type rawProcedure struct {
	routerName string
	proc       route.TrpcProcedure
}

// Parse walks proj's source files, collects router declarations, and
// resolves their composition graph into the fully-qualified procedure list
// (spec §4.6.3, §4.6.4).
func Parse(ctx context.Context, proj *tsproject.Project, opts Options) (Result, error) {
	return ParseWithLogger(ctx, proj, opts, rlog.Discard())
}

// ParseWithLogger is Parse with the spec §6 logging surface wired in.
func ParseWithLogger(ctx context.Context, proj *tsproject.Project, opts Options, log *rlog.Logger) (Result, error) {
	log.Debug("Parsing trpc routes with AST")
	var (
		res     Result
		decls   []*routerDecl
		byName  = map[string]*routerDecl{}
		edges   []mountEdge
		procs   []rawProcedure
	)

	isFactory := func(chain []string) bool {
		if len(chain) == 0 {
			return false
		}
		last := chain[len(chain)-1]
		if defaultFactoryNames[last] {
			return true
		}
		for _, n := range opts.ExtraFactoryNames {
			if n == last || n == strings.Join(chain, ".") {
				return true
			}
		}
		if opts.IdentifierPattern != nil && opts.IdentifierPattern.MatchString(last) {
			return true
		}
		return false
	}

	for _, sf := range proj.SourceFiles() {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		if sf.Statements == nil {
			continue
		}
		log.Debug("Scanning file", "file", proj.RelPath(sf.FileName()))
		for _, stmt := range sf.Statements.Nodes {
			if stmt.Kind != ast.KindVariableStatement {
				continue
			}
			for _, decl := range stmt.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
				name, ok := astutil.DeclaredName(decl)
				if !ok {
					continue
				}
				init := astutil.VariableInitializer(decl)
				if init == nil || init.Kind != ast.KindCallExpression {
					continue
				}
				ce := init.AsCallExpression()
				chain := astutil.CalleeChain(ce.Expression)
				if !isFactory(chain) {
					continue
				}
				if ce.Arguments == nil || len(ce.Arguments.Nodes) == 0 {
					continue
				}
				startLine, _ := shimscanner.GetECMALineAndCharacterOfPosition(sf, decl.Pos())
				endLine, _ := shimscanner.GetECMALineAndCharacterOfPosition(sf, init.End())
				rd := &routerDecl{
					name:        name,
					file:        proj.RelPath(sf.FileName()),
					line:        startLine + 1,
					linesOfCode: endLine - startLine + 1,
					sf:          sf,
					shape:       ce.Arguments.Nodes[0],
				}
				decls = append(decls, rd)
				byName[name] = rd
			}
		}
	}

	resolveTargetName := func(value *ast.Node, property string) (string, bool) {
		value = astutil.Unparen(value)
		if value == nil {
			return "", false
		}
		if value.Kind == ast.KindIdentifier {
			if _, ok := byName[value.Text()]; ok {
				return value.Text(), true
			}
			return "", false
		}
		if value.Kind == ast.KindCallExpression {
			ce := value.AsCallExpression()
			if isFactory(astutil.CalleeChain(ce.Expression)) {
				// Inline nested router literal: synthesize a name from the
				// mount property, the closest available identity (spec §4.6.2
				// fallback chain: property key, since there is no variable).
				return property, true
			}
		}
		return "", false
	}

	// Indexed loop: inline decls appended below are walked in turn.
	for i := 0; i < len(decls); i++ {
		rd := decls[i]
		for _, prop := range astutil.ObjectLiteralProperties(rd.shape) {
			if target, ok := resolveTargetName(prop.Value, prop.Key); ok {
				edges = append(edges, mountEdge{parent: rd.name, property: prop.Key, target: target})
				// An inline nested router needs its own decl entry so the
				// resolver can recurse into its shape.
				if _, known := byName[target]; !known && astutil.Unparen(prop.Value).Kind == ast.KindCallExpression {
					inline := &routerDecl{
						name:  target,
						file:  rd.file,
						shape: astutil.Unparen(prop.Value).AsCallExpression().Arguments.Nodes[0],
						sf:    rd.sf,
					}
					decls = append(decls, inline)
					byName[target] = inline
				}
				continue
			}
			proc, ok := extractProcedure(rd.sf, rd.file, prop.Key, prop.Value)
			if !ok {
				continue
			}
			procs = append(procs, rawProcedure{routerName: rd.name, proc: proc})
		}
	}

	paths := resolveRouterPaths(decls, edges)

	for _, rp := range procs {
		p := rp.proc
		if dotted, ok := paths[rp.routerName]; ok {
			p.Router = dotted
		} else {
			p.Router = rp.routerName
		}
		log.Debug("Found handler", "method", strings.ToUpper(p.Method), "router", p.Router, "procedure", p.Procedure, "line", p.Line)
		res.Procedures = append(res.Procedures, p)
	}
	for _, rd := range decls {
		if rd.shape == nil || rd.line == 0 {
			continue // inline synthesized decls carry no source position of their own
		}
		name := presentationalName(rd)
		if dotted, ok := paths[rd.name]; ok {
			// Composition Resolver has the final say on every router's name
			// (spec §4.6.3 point 4). resolveRouterPaths assigns a path to
			// every declared router, so this always replaces the
			// presentational name ("" for a root router).
			name = dotted
		}
		res.Routers = append(res.Routers, route.TrpcRouter{
			Name:        name,
			File:        rd.file,
			Line:        rd.line,
			LinesOfCode: rd.linesOfCode,
		})
	}
	log.Info("Parsed trpc routes", "count", len(res.Procedures))
	return res, nil
}

// resolveRouterPaths performs the cycle-tolerant DFS of spec §4.6.3: the
// root(s) are routers that are never the target of a mount edge. Each
// router's value is the dotted path from its root ("" for the root itself).
// A cycle is broken by refusing to revisit a router already on the current
// DFS stack; edges are walked in source-scan order so ties resolve
// deterministically.
func resolveRouterPaths(decls []*routerDecl, edges []mountEdge) map[string]string {
	children := map[string][]mountEdge{}
	targets := map[string]bool{}
	for _, e := range edges {
		children[e.parent] = append(children[e.parent], e)
		targets[e.target] = true
	}

	paths := map[string]string{}
	var roots []string
	for _, rd := range decls {
		if !targets[rd.name] {
			roots = append(roots, rd.name)
		}
	}

	var dfs func(name, prefix string, stack map[string]bool)
	dfs = func(name, prefix string, stack map[string]bool) {
		if _, done := paths[name]; done {
			return
		}
		if stack[name] {
			return // cycle: stop here rather than recurse forever
		}
		paths[name] = prefix
		stack[name] = true
		for _, e := range children[name] {
			childPrefix := e.property
			if prefix != "" {
				childPrefix = prefix + "." + e.property
			}
			dfs(e.target, childPrefix, stack)
		}
		delete(stack, name)
	}

	for _, root := range roots {
		dfs(root, "", map[string]bool{})
	}
	// Any router unreachable from a root (e.g. only reachable via a cycle
	// among non-roots) still gets a best-effort path of its own name.
	for _, rd := range decls {
		if _, ok := paths[rd.name]; !ok {
			paths[rd.name] = rd.name
		}
	}
	return paths
}

// trailingRouterRe strips a trailing "Router" from a declared identifier
// (spec §4.6.2 "router-name derivation").
var trailingRouterRe = regexp.MustCompile(`Router$`)

// presentationalName implements spec §4.6.2: normalize the declared
// identifier (strip trailing "Router", lowercase the first letter); if that
// yields nothing, fall back to the file basename, then the containing
// directory's basename, then the raw identifier. ParseWithLogger replaces it
// with the Composition Resolver's path whenever one exists, and
// resolveRouterPaths gives one to every declared router (its own raw
// identifier when no root reaches it).
func presentationalName(rd *routerDecl) string {
	stripped := trailingRouterRe.ReplaceAllString(rd.name, "")
	if stripped != "" {
		return strings.ToLower(stripped[:1]) + stripped[1:]
	}
	if base := strings.TrimSuffix(filepath.Base(rd.file), filepath.Ext(rd.file)); base != "" && base != "." {
		return base
	}
	if dir := filepath.Base(filepath.Dir(rd.file)); dir != "" && dir != "." {
		return dir
	}
	return rd.name
}

// procedureVisibility maps a procedure chain's base identifier to a
// human-readable visibility label (spec §4.6.2 "visibility by base
// identifier"), e.g. publicProcedure -> "public".
func procedureVisibility(baseName string) string {
	lower := strings.ToLower(baseName)
	switch {
	case strings.Contains(lower, "public"):
		return "public"
	case strings.Contains(lower, "protected"):
		return "protected"
	case strings.Contains(lower, "private"):
		return "private"
	case strings.Contains(lower, "admin"):
		return "admin"
	}
	return baseName
}

// extractProcedure interprets a shape property's value as a tRPC procedure
// builder chain, e.g. `publicProcedure.input(s).query(fn)` or
// `t.procedure.query(fn)` (spec §4.6.2). file is the project-relative path of
// the file declaring the router.
func extractProcedure(sf *ast.SourceFile, file, key string, value *ast.Node) (route.TrpcProcedure, bool) {
	value = astutil.Unparen(value)
	if value == nil {
		return route.TrpcProcedure{}, false
	}
	links, base := astutil.CallChainLinks(value)
	if len(links) == 0 || base == nil {
		return route.TrpcProcedure{}, false
	}
	baseChain := astutil.CalleeChain(base)
	if len(baseChain) == 0 {
		return route.TrpcProcedure{}, false
	}

	var method string
	var hasInput, hasOutput bool
	var inputExample []byte

	for _, l := range links {
		switch l.Name {
		case "query":
			method = "query"
		case "mutation":
			method = "mutation"
		case "input":
			hasInput = true
			if len(l.Args) > 0 {
				if ex, ok := schema.Interpret(sf, l.Args[0]); ok {
					inputExample = ex
				}
			}
		case "output":
			hasOutput = true
		}
	}
	if method == "" {
		return route.TrpcProcedure{}, false
	}

	line, _ := shimscanner.GetECMALineAndCharacterOfPosition(sf, value.Pos())
	return route.TrpcProcedure{
		Procedure:   key,
		Method:      method,
		Visibility:  procedureVisibility(baseChain[len(baseChain)-1]),
		File:        file,
		Line:        line + 1,
		HasInput:    hasInput,
		HasOutput:   hasOutput,
		InputSchema: inputExample,
	}, true
}
