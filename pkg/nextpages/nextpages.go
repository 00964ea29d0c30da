// Package nextpages implements the Next.js Pages-Router Parser (spec §4.5):
// it discovers `pages/api/**/*.{ts,js}` single-dispatcher handler files,
// derives each one's URL pattern from its file path, and infers the set of
// HTTP methods the default-exported dispatcher accepts from how it branches
// on `req.method`.
package nextpages

import (
	"context"
	"encoding/json"
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

// Result is everything the Pages-Router parser produces from one project scan.
type Result struct {
	Handlers []route.NextHandlerRecord
	Warnings []route.Warning
}

// Parse walks proj's source files and extracts every Pages-Router API file
// (spec §4.5).
func Parse(ctx context.Context, proj *tsproject.Project) (Result, error) {
	return ParseWithLogger(ctx, proj, rlog.Discard())
}

// ParseWithLogger is Parse with the spec §6 logging surface wired in.
func ParseWithLogger(ctx context.Context, proj *tsproject.Project, log *rlog.Logger) (Result, error) {
	log.Debug("Parsing nextjs-page routes with AST")
	var res Result
	for _, sf := range proj.SourceFiles() {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if filepath.Base(sf.FileName()) == "route.ts" || filepath.Base(sf.FileName()) == "route.js" {
			continue // App-Router's file, not ours
		}
		relPath, ok := pagesAPIRelativePath(sf.FileName())
		if !ok {
			continue
		}
		log.Debug("Scanning file", "file", proj.RelPath(sf.FileName()))
		if patterns.IsTRPCAdapterFile(sf) {
			continue
		}

		urlPattern, dyn := urlPatternForPagesFile(relPath)
		hasMiddleware := patterns.HasMiddlewareExport(sf)

		dispatcher := findDispatcher(sf)
		if dispatcher == nil {
			res.Warnings = append(res.Warnings, route.Warning{
				FilePath: sf.FileName(),
				Message:  "no default export or named `handler` dispatcher found",
			})
			continue
		}

		methods := methodsAccepted(dispatcher)
		methods = append(methods, methodsArrayExport(sf)...)
		if len(methods) == 0 {
			methods = []route.Method{route.MethodGet}
		}

		bodyExample, hasValidation := bodySchemaFromDispatcher(sf, dispatcher)

		line, _ := shimscanner.GetECMALineAndCharacterOfPosition(sf, dispatcher.Pos())
		seen := map[route.Method]bool{}
		for _, m := range methods {
			if seen[m] {
				continue
			}
			seen[m] = true
			rec := route.NextHandlerRecord{
				URLPattern:      urlPattern,
				Method:          m,
				FilePath:        proj.RelPath(sf.FileName()),
				StartLine:       line + 1,
				DynamicSegments: dyn,
				IsDynamic:       len(dyn) > 0,
				HasMiddleware:   hasMiddleware,
				HasValidation:   hasValidation,
				Type:            route.TypeNextPage,
			}
			if m.CarriesBody() {
				rec.BodyExample = bodyExample
			}
			log.Debug("Found handler", "method", string(rec.Method), "path", urlPattern, "line", rec.StartLine)
			res.Handlers = append(res.Handlers, rec)
		}
	}
	log.Info("Parsed nextjs-page routes", "count", len(res.Handlers))
	return res, nil
}

// pagesAPIRelativePath returns the file path relative to the nearest
// "pages/api" directory (tolerating a "src/" prefix), or ("", false) if the
// file isn't under one.
func pagesAPIRelativePath(file string) (string, bool) {
	norm := filepath.ToSlash(file)
	idx := strings.Index(norm, "/pages/api/")
	if idx < 0 {
		if strings.HasPrefix(norm, "pages/api/") {
			return strings.TrimPrefix(norm, "pages/api/"), true
		}
		return "", false
	}
	return norm[idx+len("/pages/api/"):], true
}

// urlPatternForPagesFile derives the URL pattern from a pages/api-relative
// file path: strip the extension, strip a trailing "/index", convert
// bracket segments, and special-case the bare index file (spec §9:
// "pages/api/index.ts" maps to "/api", not "/api/" or "").
func urlPatternForPagesFile(relPath string) (string, []route.DynamicSegment) {
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	if relPath == "index" {
		return "/api", nil
	}
	relPath = strings.TrimSuffix(relPath, "/index")

	segments := patterns.SplitPath(relPath)
	urlPattern, dyn := patterns.BuildRoutePattern(segments)
	if urlPattern == "/" {
		return "/api", dyn
	}
	return route.NormalizePath("/api" + urlPattern), dyn
}

// findDispatcher locates the file's request handler: `export default`
// function/arrow, or an exported variable/function named "handler".
func findDispatcher(sf *ast.SourceFile) *ast.Node {
	if sf.Statements == nil {
		return nil
	}
	for _, stmt := range sf.Statements.Nodes {
		switch stmt.Kind {
		case ast.KindFunctionDeclaration:
			if astutil.IsDefaultExport(stmt) {
				return stmt
			}
			if astutil.Exported(stmt) {
				if n, ok := astutil.DeclaredName(stmt); ok && n == "handler" {
					return stmt
				}
			}
		case ast.KindVariableStatement:
			if !astutil.Exported(stmt) {
				continue
			}
			for _, decl := range stmt.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
				if n, ok := astutil.DeclaredName(decl); ok && n == "handler" {
					return decl
				}
			}
		case ast.KindExportAssignment:
			return stmt.AsExportAssignment().Expression
		}
	}
	return nil
}

// methodsAccepted inspects a dispatcher body for `req.method === "X"`
// comparisons and the case labels of `switch (req.method)` statements,
// returning the set of HTTP verbs it handles (spec §4.5 "method inference").
// An exported `methods` array is read separately by methodsArrayExport.
func methodsAccepted(dispatcher *ast.Node) []route.Method {
	var found []route.Method
	seen := map[route.Method]bool{}
	add := func(m route.Method) {
		if !seen[m] {
			seen[m] = true
			found = append(found, m)
		}
	}

	var body *ast.Node
	var params *ast.NodeList
	switch dispatcher.Kind {
	case ast.KindFunctionDeclaration:
		fn := dispatcher.AsFunctionDeclaration()
		body, params = fn.Body, fn.Parameters
	case ast.KindVariableDeclaration:
		init := astutil.VariableInitializer(dispatcher)
		if init == nil {
			return nil
		}
		switch init.Kind {
		case ast.KindArrowFunction:
			fn := init.AsArrowFunction()
			body, params = fn.Body, fn.Parameters
		case ast.KindFunctionExpression:
			fn := init.AsFunctionExpression()
			body, params = fn.Body, fn.Parameters
		}
	default:
		switch dispatcher.Kind {
		case ast.KindArrowFunction:
			fn := dispatcher.AsArrowFunction()
			body, params = fn.Body, fn.Parameters
		case ast.KindFunctionExpression:
			fn := dispatcher.AsFunctionExpression()
			body, params = fn.Body, fn.Parameters
		}
	}
	if body == nil {
		return nil
	}
	reqNames := requestReceiverNames(params)

	var walk func(n *ast.Node, methodSwitch bool)
	walk = func(n *ast.Node, methodSwitch bool) {
		if n == nil {
			return
		}
		switch n.Kind {
		case ast.KindBinaryExpression:
			be := n.AsBinaryExpression()
			if isReqMethodAccess(be.Left, reqNames) {
				if m, ok := astutil.StringLiteralText(be.Right); ok {
					if method, ok := patterns.MethodFromName(m); ok {
						add(method)
					}
				}
			} else if isReqMethodAccess(be.Right, reqNames) {
				if m, ok := astutil.StringLiteralText(be.Left); ok {
					if method, ok := patterns.MethodFromName(m); ok {
						add(method)
					}
				}
			}
		case ast.KindSwitchStatement:
			methodSwitch = isReqMethodAccess(n.AsSwitchStatement().Expression, reqNames)
		case ast.KindCaseClause:
			if methodSwitch {
				cc := n.AsCaseClause()
				if m, ok := astutil.StringLiteralText(cc.Expression); ok {
					if method, ok := patterns.MethodFromName(m); ok {
						add(method)
					}
				}
			}
		}
		n.ForEachChild(func(child *ast.Node) bool {
			walk(child, methodSwitch)
			return false
		})
	}
	walk(body, false)
	return found
}

// requestReceiverNames builds the set of identifiers spec §4.5 step 4 allows
// as the receiver of a `.method` access: the literal names "req"/"request",
// plus the dispatcher's own first parameter name (however it's spelled).
func requestReceiverNames(params *ast.NodeList) map[string]bool {
	names := map[string]bool{"req": true, "request": true}
	if params == nil || len(params.Nodes) == 0 {
		return names
	}
	first := params.Nodes[0]
	if first.Kind != ast.KindParameter {
		return names
	}
	if name := first.AsParameterDeclaration().Name(); name != nil && name.Kind == ast.KindIdentifier {
		names[name.Text()] = true
	}
	return names
}

// methodsArrayExport implements the "exported methods array" bullet of spec
// §4.5 step 4 (same rule as the App parser, spec §4.4 step 3).
func methodsArrayExport(sf *ast.SourceFile) []route.Method {
	decl := astutil.FindTopLevelDeclaration(sf, "methods")
	if decl == nil {
		return nil
	}
	init := astutil.VariableInitializer(decl)
	if init == nil {
		return nil
	}
	var out []route.Method
	for _, el := range astutil.ArrayLiteralElements(init) {
		if method, ok := patterns.MethodLiteral(el); ok {
			out = append(out, method)
		}
	}
	return out
}

// bodySchemaFromDispatcher implements spec §4.5 step 5's "body inference as
// in §4.4": find a `<schema>.parse(...)`/`.safeParse(...)` call in the
// dispatcher body and interpret its receiver as a schema expression.
func bodySchemaFromDispatcher(sf *ast.SourceFile, dispatcher *ast.Node) (json.RawMessage, bool) {
	var body *ast.Node
	switch dispatcher.Kind {
	case ast.KindFunctionDeclaration:
		body = dispatcher.AsFunctionDeclaration().Body
	case ast.KindVariableDeclaration:
		if init := astutil.VariableInitializer(dispatcher); init != nil {
			switch init.Kind {
			case ast.KindArrowFunction:
				body = init.AsArrowFunction().Body
			case ast.KindFunctionExpression:
				body = init.AsFunctionExpression().Body
			}
		}
	case ast.KindArrowFunction:
		body = dispatcher.AsArrowFunction().Body
	case ast.KindFunctionExpression:
		body = dispatcher.AsFunctionExpression().Body
	}
	if body == nil {
		return nil, false
	}

	var example json.RawMessage
	var found bool
	astutil.WalkCallExpressions(body, func(call *ast.Node) bool {
		if found {
			return false
		}
		ce := call.AsCallExpression()
		if ce.Expression.Kind != ast.KindPropertyAccessExpression {
			return true
		}
		pa := ce.Expression.AsPropertyAccessExpression()
		name := pa.Name()
		if name == nil || (name.Text() != "parse" && name.Text() != "safeParse") {
			return true
		}
		if ex, ok := schema.Interpret(sf, pa.Expression); ok {
			example, found = ex, true
			return false
		}
		return true
	})
	return example, found
}

// isReqMethodAccess reports whether expr is `<x>.method` where `<x>` is one
// of the recognized request-parameter names (spec §4.5 step 4: "`<req>` is
// any identifier in the set {req, request, first-parameter-name-if-any}").
// An unrelated `foo.method` comparison is not matched.
func isReqMethodAccess(expr *ast.Node, reqNames map[string]bool) bool {
	chain := astutil.CalleeChain(expr)
	return len(chain) == 2 && chain[len(chain)-1] == "method" && reqNames[chain[0]]
}
