// Package nextapp implements the Next.js App-Router Parser (spec §4.4): it
// discovers `route.ts`/`route.js` handler files under an `app` directory,
// derives each one's URL pattern from its directory path, and extracts the
// exported HTTP-verb handlers they define.
package nextapp

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"
	"github.com/watchapi-dev/routelens/pkg/astutil"
	"github.com/watchapi-dev/routelens/pkg/patterns"
	"github.com/watchapi-dev/routelens/pkg/rlog"
	"github.com/watchapi-dev/routelens/pkg/route"
	"github.com/watchapi-dev/routelens/pkg/schema"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

// Result is everything the App-Router parser produces from one project scan.
type Result struct {
	Handlers []route.NextHandlerRecord
	Warnings []route.Warning
}

// Parse walks proj's source files and extracts every App-Router route
// handler file (spec §4.4).
func Parse(ctx context.Context, proj *tsproject.Project) (Result, error) {
	return ParseWithLogger(ctx, proj, rlog.Discard())
}

// ParseWithLogger is Parse with the per-file scan lines of spec §6's logging
// surface ("Parsing <name> routes with AST", "Scanning file <rel>", "Found
// <method> handler at <path> (line N)", "Parsed <N> <name> routes").
func ParseWithLogger(ctx context.Context, proj *tsproject.Project, log *rlog.Logger) (Result, error) {
	log.Debug("Parsing nextjs-app routes with AST")
	var res Result
	for _, sf := range proj.SourceFiles() {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if !isRouteFileName(sf.FileName()) {
			continue
		}
		log.Debug("Scanning file", "file", proj.RelPath(sf.FileName()))
		if patterns.IsTRPCAdapterFile(sf) {
			continue
		}

		relDir, ok := appRelativeDir(proj.RootDir, sf.FileName())
		if !ok {
			res.Warnings = append(res.Warnings, route.Warning{
				FilePath: sf.FileName(),
				Message:  "route.ts found outside any app/ directory, skipped",
			})
			continue
		}

		segments := patterns.SplitPath(relDir)
		urlPattern, dyn := patterns.BuildRoutePattern(segments)
		hasMiddleware := patterns.HasMiddlewareExport(sf)
		isServerAction := patterns.IsServerActionFile(sf)

		seen := map[route.Method]bool{}
		emit := func(rec route.NextHandlerRecord) {
			if seen[rec.Method] {
				return // a verb covered by both an explicit export and `methods` counts once
			}
			seen[rec.Method] = true
			rec.URLPattern = urlPattern
			rec.FilePath = proj.RelPath(sf.FileName())
			rec.DynamicSegments = dyn
			rec.IsDynamic = len(dyn) > 0
			rec.HasMiddleware = hasMiddleware
			rec.IsServerAction = isServerAction
			rec.Type = route.TypeNextApp
			log.Debug("Found handler", "method", string(rec.Method), "path", urlPattern, "line", rec.StartLine)
			res.Handlers = append(res.Handlers, rec)
		}

		for _, stmt := range sf.Statements.Nodes {
			for _, rec := range handlersFromStatement(sf, stmt) {
				emit(rec)
			}
		}
		for _, rec := range methodsArrayHandlers(sf) {
			emit(rec)
		}
		for _, rec := range reExportedVerbHandlers(sf) {
			emit(rec)
		}
	}
	log.Info("Parsed nextjs-app routes", "count", len(res.Handlers))
	return res, nil
}

func isRouteFileName(path string) bool {
	base := filepath.Base(path)
	return base == "route.ts" || base == "route.js" || base == "route.tsx"
}

// appRelativeDir returns the path of the directory holding file, relative to
// the first "app" directory on its path below rootDir (e.g. src/app or app).
// The file name itself is dropped; route-group directories are left in place
// for the caller to strip via patterns.BuildRoutePattern.
func appRelativeDir(rootDir, file string) (string, bool) {
	dir := filepath.Dir(file)
	rel, err := filepath.Rel(rootDir, dir)
	if err != nil {
		rel = dir
	}
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		if p == "app" {
			return strings.Join(parts[i+1:], "/"), true
		}
	}
	return "", false
}

// handlersFromStatement extracts zero or more NextHandlerRecord values from
// a single top-level statement: an exported verb-named function declaration
// or an exported verb-named arrow/function-expression variable (spec §4.4
// "handler discovery"). Named re-exports are handled by reExportedVerbHandlers.
func handlersFromStatement(sf *ast.SourceFile, stmt *ast.Node) []route.NextHandlerRecord {
	switch stmt.Kind {
	case ast.KindFunctionDeclaration:
		if !astutil.Exported(stmt) {
			return nil
		}
		name, ok := astutil.DeclaredName(stmt)
		if !ok {
			return nil
		}
		method, ok := patterns.MethodFromName(name)
		if !ok {
			return nil
		}
		fn := stmt.AsFunctionDeclaration()
		return []route.NextHandlerRecord{buildRecord(sf, method, stmt, fn.Body, fn.Parameters)}

	case ast.KindVariableStatement:
		if !astutil.Exported(stmt) {
			return nil
		}
		var out []route.NextHandlerRecord
		for _, decl := range stmt.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
			name, ok := astutil.DeclaredName(decl)
			if !ok {
				continue
			}
			method, ok := patterns.MethodFromName(name)
			if !ok {
				continue
			}
			init := astutil.VariableInitializer(decl)
			if init == nil {
				continue
			}
			body, params := functionLikeParts(init)
			out = append(out, buildRecord(sf, method, decl, body, params))
		}
		return out
	}
	return nil
}

// methodsArrayHandlers implements the "methods array export" bullet of spec
// §4.4 step 3: `export const methods = ['GET', 'POST']` is an implicit
// multi-method handler whose handler node is the source file itself, so body
// inference walks the whole file rather than one function's body.
func methodsArrayHandlers(sf *ast.SourceFile) []route.NextHandlerRecord {
	decl := astutil.FindTopLevelDeclaration(sf, "methods")
	if decl == nil {
		return nil
	}
	init := astutil.VariableInitializer(decl)
	if init == nil {
		return nil
	}
	var out []route.NextHandlerRecord
	for _, el := range astutil.ArrayLiteralElements(init) {
		method, ok := patterns.MethodLiteral(el)
		if !ok {
			continue
		}
		rec := buildRecord(sf, method, decl, fileBody(sf), nil)
		out = append(out, rec)
	}
	return out
}

// reExportedVerbHandlers implements the "named re-exports of the same verb
// names" bullet of spec §4.4 step 3, e.g. `export { GET, POST } from
// "./shared"`. The target module is not followed (spec §1 non-goal: no
// cross-package resolution), so the record carries no body inference.
func reExportedVerbHandlers(sf *ast.SourceFile) []route.NextHandlerRecord {
	if sf.Statements == nil {
		return nil
	}
	var out []route.NextHandlerRecord
	for _, stmt := range sf.Statements.Nodes {
		if stmt.Kind != ast.KindExportDeclaration {
			continue
		}
		ed := stmt.AsExportDeclaration()
		if ed.ExportClause == nil || ed.ExportClause.Kind != ast.KindNamedExports {
			continue
		}
		for _, el := range ed.ExportClause.AsNamedExports().Elements.Nodes {
			spec := el.AsExportSpecifier()
			name := spec.Name()
			if name == nil {
				continue
			}
			method, ok := patterns.MethodFromName(name.Text())
			if !ok {
				continue
			}
			out = append(out, buildRecord(sf, method, stmt, nil, nil))
		}
	}
	return out
}

// fileBody returns a synthetic body node to walk when a handler has no
// single function of its own (the `methods` array case) — the whole file's
// statement list, the closest stand-in typescript-go exposes for "the
// handler node is the source file itself".
func fileBody(sf *ast.SourceFile) *ast.Node {
	return sf.AsNode()
}

func functionLikeParts(expr *ast.Node) (*ast.Node, *ast.NodeList) {
	switch expr.Kind {
	case ast.KindArrowFunction:
		fn := expr.AsArrowFunction()
		return fn.Body, fn.Parameters
	case ast.KindFunctionExpression:
		fn := expr.AsFunctionExpression()
		return fn.Body, fn.Parameters
	}
	return nil, nil
}

func buildRecord(sf *ast.SourceFile, method route.Method, declNode, body *ast.Node, params *ast.NodeList) route.NextHandlerRecord {
	rec := route.NextHandlerRecord{Method: method}
	rec.StartLine, _ = lineOf(sf, declNode)

	if body != nil {
		astutil.WalkCallExpressions(body, func(call *ast.Node) bool {
			inspectCall(sf, call, &rec)
			return true
		})
	}
	return rec
}

// inspectCall recognizes the handful of call shapes that feed a handler's
// body-schema inference and diagnostic flags (spec §4.4 "body inference").
func inspectCall(sf *ast.SourceFile, call *ast.Node, rec *route.NextHandlerRecord) {
	ce := call.AsCallExpression()
	chain := astutil.CalleeChain(ce.Expression)
	if len(chain) == 0 {
		return
	}
	last := chain[len(chain)-1]

	switch last {
	case "parse", "safeParse":
		if len(chain) < 2 {
			return
		}
		if rec.BodyExample != nil {
			return
		}
		// The schema is the receiver of .parse/.safeParse, e.g. `schema.parse(body)`.
		if ce.Expression.Kind == ast.KindPropertyAccessExpression {
			pa := ce.Expression.AsPropertyAccessExpression()
			if example, ok := schema.Interpret(sf, pa.Expression); ok {
				rec.BodyExample = example
				rec.HasValidation = true
			}
		}
	case "query", "execute", "findMany", "findFirst", "findUnique", "insert", "update", "delete":
		rec.UsesDB = true
	case "json":
		// res.json(...) / NextResponse.json(...) — not itself validation,
		// but a strong signal the handler is a JSON endpoint.
	}

	if strings.Contains(strings.Join(chain, "."), "catch") {
		rec.HasErrorHandling = true
	}
}

func lineOf(sf *ast.SourceFile, node *ast.Node) (int, error) {
	if node == nil {
		return 0, nil
	}
	line, _ := shimscanner.GetECMALineAndCharacterOfPosition(sf, node.Pos())
	return line + 1, nil
}
