package patterns

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/watchapi-dev/routelens/pkg/astutil"
	"github.com/watchapi-dev/routelens/pkg/route"
)

// httpVerbs maps an upper-cased handler export name to whether it is a
// recognized HTTP verb (spec §4.2 "method-literal extraction" table).
var httpVerbs = map[route.Method]bool{
	route.MethodGet: true, route.MethodPost: true, route.MethodPut: true, route.MethodPatch: true,
	route.MethodDelete: true, route.MethodHead: true, route.MethodOptions: true,
}

// MethodFromName reports whether name (e.g. a function identifier "GET"),
// upper-cased, is a recognized HTTP verb, and returns the upper-cased method.
// Letter case of name does not matter: "post" yields POST.
func MethodFromName(name string) (route.Method, bool) {
	upper := route.Method(strings.ToUpper(name))
	if httpVerbs[upper] {
		return upper, true
	}
	return "", false
}

// MethodLiteral extracts the upper-cased HTTP method name from an
// expression node if it is a string literal / no-substitution template
// whose value is a recognized verb (spec §4.2 "method-literal extraction").
func MethodLiteral(expr *ast.Node) (route.Method, bool) {
	text, ok := astutil.StringLiteralText(expr)
	if !ok {
		return "", false
	}
	return MethodFromName(text)
}

// trpcAdapterSymbols are import/reference names that mark a file as a tRPC
// HTTP adapter (the glue between a framework's request object and a tRPC
// router), rather than a user-authored endpoint (spec §4.2).
var trpcAdapterSymbols = map[string]bool{
	"fetchRequestHandler":    true,
	"createNextApiHandler":   true,
	"createHTTPHandler":      true,
	"appRouter":              false, // the router itself is not an adapter marker
	"trpcExpress":            true,
}

// HasMiddlewareExport reports whether sf declares an exported symbol named
// "middleware" (function or variable) — spec §4.2 "middleware detection",
// used only as a metadata flag.
func HasMiddlewareExport(sf *ast.SourceFile) bool {
	if sf == nil || sf.Statements == nil {
		return false
	}
	for _, stmt := range sf.Statements.Nodes {
		switch stmt.Kind {
		case ast.KindFunctionDeclaration:
			if !astutil.Exported(stmt) {
				continue
			}
			if n, ok := astutil.DeclaredName(stmt); ok && n == "middleware" {
				return true
			}
		case ast.KindVariableStatement:
			if !astutil.Exported(stmt) {
				continue
			}
			for _, decl := range stmt.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
				if n, ok := astutil.DeclaredName(decl); ok && n == "middleware" {
					return true
				}
			}
		}
	}
	return false
}

// IsServerActionFile reports whether the file's first directive prologue
// entry is the literal "use server" (spec §4.2 "server-action detection").
func IsServerActionFile(sf *ast.SourceFile) bool {
	text, ok := astutil.FirstDirective(sf)
	return ok && text == "use server"
}

// IsTRPCAdapterFile reports whether sf imports a known tRPC HTTP-adapter
// symbol (spec §4.2 "tRPC-handler detection"); such files are excluded from
// Next.js App/Pages parsing — they are adapters, not user endpoints.
func IsTRPCAdapterFile(sf *ast.SourceFile) bool {
	if sf == nil || sf.Statements == nil {
		return false
	}
	for _, stmt := range sf.Statements.Nodes {
		if stmt.Kind != ast.KindImportDeclaration {
			continue
		}
		imp := stmt.AsImportDeclaration()
		spec, ok := astutil.StringLiteralText(imp.ModuleSpecifier)
		if !ok {
			continue
		}
		if strings.Contains(spec, "@trpc/server") && strings.Contains(spec, "adapters") {
			return true
		}
		if imp.ImportClause == nil {
			continue
		}
		named := imp.ImportClause.AsImportClause().NamedBindings
		if named == nil || named.Kind != ast.KindNamedImports {
			continue
		}
		for _, el := range named.AsNamedImports().Elements.Nodes {
			name := el.AsImportSpecifier().Name()
			if name == nil {
				continue
			}
			if trpcAdapterSymbols[name.Text()] {
				return true
			}
		}
	}
	return false
}
