// Package astutil provides small, dependency-light helpers for walking a
// TypeScript syntax tree produced by github.com/microsoft/typescript-go's
// compiler shim. It is the "per-file syntactic navigation" and
// "identifier-to-declaration resolution within a file" facet of the
// TypeScript source project abstraction described in spec §2 — kept
// separate from pkg/tsproject so every parser package can depend on it
// without pulling in the Project Loader itself.
package astutil

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
)

// Exported reports whether a declaration node carries the `export` modifier.
func Exported(node *ast.Node) bool {
	return hasModifier(node, ast.KindExportKeyword)
}

// IsDefaultExport reports whether a declaration node carries `export default`.
func IsDefaultExport(node *ast.Node) bool {
	return hasModifier(node, ast.KindDefaultKeyword)
}

func hasModifier(node *ast.Node, kind ast.Kind) bool {
	if node == nil {
		return false
	}
	mods := node.Modifiers()
	if mods == nil {
		return false
	}
	for _, m := range mods.Nodes {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// DeclaredName returns the identifier a declaration binds, for the handful
// of declaration kinds the parsers care about (function/variable/class).
func DeclaredName(node *ast.Node) (string, bool) {
	switch node.Kind {
	case ast.KindFunctionDeclaration:
		fn := node.AsFunctionDeclaration()
		if fn.Name() == nil {
			return "", false
		}
		return fn.Name().Text(), true
	case ast.KindVariableDeclaration:
		vd := node.AsVariableDeclaration()
		if vd.Name() == nil {
			return "", false
		}
		return vd.Name().Text(), true
	case ast.KindClassDeclaration:
		cd := node.AsClassDeclaration()
		if cd.Name() == nil {
			return "", false
		}
		return cd.Name().Text(), true
	}
	return "", false
}

// StringLiteralText returns the literal text of a string literal or
// no-substitution template literal node, else ("", false). Interpolated
// templates are never matched — that would be guessing (spec §7).
func StringLiteralText(node *ast.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind {
	case ast.KindStringLiteral:
		return node.AsStringLiteral().Text, true
	case ast.KindNoSubstitutionTemplateLiteral:
		return node.AsNoSubstitutionTemplateLiteral().Text, true
	}
	return "", false
}

// NumericLiteralText returns the literal text of a numeric literal.
func NumericLiteralText(node *ast.Node) (string, bool) {
	if node == nil || node.Kind != ast.KindNumericLiteral {
		return "", false
	}
	return node.AsNumericLiteral().Text, true
}

// IsBooleanLiteral reports whether node is `true` or `false`, returning its value.
func IsBooleanLiteral(node *ast.Node) (bool, bool) {
	if node == nil {
		return false, false
	}
	switch node.Kind {
	case ast.KindTrueKeyword:
		return true, true
	case ast.KindFalseKeyword:
		return false, true
	}
	return false, false
}

// FirstDirective returns the text of the file's first expression-statement
// string literal (the directive prologue slot), e.g. "use server".
func FirstDirective(sf *ast.SourceFile) (string, bool) {
	if sf == nil || sf.Statements == nil || len(sf.Statements.Nodes) == 0 {
		return "", false
	}
	first := sf.Statements.Nodes[0]
	if first.Kind != ast.KindExpressionStatement {
		return "", false
	}
	return StringLiteralText(first.AsExpressionStatement().Expression)
}

// CalleeChain flattens a (possibly chained) call/property-access expression
// into its dotted identifier path, outermost-first. For `a.b.c(x)` it
// returns ["a","b","c"]. Returns nil if any link in the chain isn't a plain
// identifier or property access (computed member access, etc. are not
// matched — per spec §7, ambiguous shapes are omitted, never guessed).
func CalleeChain(expr *ast.Node) []string {
	var parts []string
	cur := expr
	for cur != nil {
		switch cur.Kind {
		case ast.KindIdentifier:
			parts = append([]string{cur.Text()}, parts...)
			return parts
		case ast.KindPropertyAccessExpression:
			pa := cur.AsPropertyAccessExpression()
			if pa.Name() == nil {
				return nil
			}
			parts = append([]string{pa.Name().Text()}, parts...)
			cur = pa.Expression
		default:
			return nil
		}
	}
	return nil
}

// CallChainLinks walks a fluent builder chain such as
// `publicProcedure.input(s).mutation(fn)` and returns each `.method(args)`
// link from outermost (last called) to innermost, plus the base expression
// at the end of the chain (here, the `publicProcedure` identifier node).
type ChainLink struct {
	Name string
	Call *ast.Node // the CallExpression node for this link
	Args []*ast.Node
}

func CallChainLinks(expr *ast.Node) ([]ChainLink, *ast.Node) {
	var links []ChainLink
	cur := expr
	for cur != nil && cur.Kind == ast.KindCallExpression {
		ce := cur.AsCallExpression()
		if ce.Expression.Kind != ast.KindPropertyAccessExpression {
			// Not a `.method(...)` call — the chain ends here, with `cur`
			// itself as the base (e.g. a bare factory call like router({...})).
			return links, cur
		}
		pa := ce.Expression.AsPropertyAccessExpression()
		var args []*ast.Node
		if ce.Arguments != nil {
			args = ce.Arguments.Nodes
		}
		links = append(links, ChainLink{Name: pa.Name().Text(), Call: cur, Args: args})
		cur = pa.Expression
	}
	return links, cur
}

// ObjectProperty is one `key: value` entry of an object literal, in source order.
type ObjectProperty struct {
	Key   string
	Value *ast.Node
}

// ObjectLiteralProperties returns the key/value pairs of an object literal in
// source order. Shorthand (`{ x }`) and computed (`{ [x]: y }`) properties
// are skipped — their key cannot be read statically without guessing.
func ObjectLiteralProperties(node *ast.Node) []ObjectProperty {
	if node == nil || node.Kind != ast.KindObjectLiteralExpression {
		return nil
	}
	ol := node.AsObjectLiteralExpression()
	var props []ObjectProperty
	for _, p := range ol.Properties.Nodes {
		if p.Kind != ast.KindPropertyAssignment {
			continue
		}
		pa := p.AsPropertyAssignment()
		key := propertyKeyName(pa.Name())
		if key == "" {
			continue
		}
		props = append(props, ObjectProperty{Key: key, Value: pa.Initializer})
	}
	return props
}

func propertyKeyName(name *ast.Node) string {
	if name == nil {
		return ""
	}
	switch name.Kind {
	case ast.KindIdentifier:
		return name.Text()
	case ast.KindStringLiteral:
		return name.AsStringLiteral().Text
	}
	return ""
}

// ArrayLiteralElements returns the element expressions of an array literal.
func ArrayLiteralElements(node *ast.Node) []*ast.Node {
	if node == nil || node.Kind != ast.KindArrayLiteralExpression {
		return nil
	}
	return node.AsArrayLiteralExpression().Elements.Nodes
}

// FindTopLevelDeclaration searches a source file's top-level statements for
// a function, class, or (const/let/var) variable declaration bound to name,
// returning the node that holds its initializer/body. This is file-local,
// syntactic resolution only (spec §2c) — it never crosses file boundaries.
func FindTopLevelDeclaration(sf *ast.SourceFile, name string) *ast.Node {
	if sf == nil || sf.Statements == nil {
		return nil
	}
	for _, stmt := range sf.Statements.Nodes {
		switch stmt.Kind {
		case ast.KindFunctionDeclaration, ast.KindClassDeclaration:
			if n, ok := DeclaredName(stmt); ok && n == name {
				return stmt
			}
		case ast.KindVariableStatement:
			for _, decl := range stmt.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
				if n, ok := DeclaredName(decl); ok && n == name {
					return decl
				}
			}
		}
	}
	return nil
}

// VariableInitializer returns the initializer expression of a
// VariableDeclaration node, unwrapping `as const`/parenthesized wrappers.
func VariableInitializer(decl *ast.Node) *ast.Node {
	if decl == nil || decl.Kind != ast.KindVariableDeclaration {
		return nil
	}
	return Unparen(decl.AsVariableDeclaration().Initializer)
}

// Unparen strips enclosing parenthesized-expression and `as`/`satisfies`
// type-assertion wrappers down to the underlying expression.
func Unparen(node *ast.Node) *ast.Node {
	for node != nil {
		switch node.Kind {
		case ast.KindParenthesizedExpression:
			node = node.AsParenthesizedExpression().Expression
		case ast.KindAsExpression:
			node = node.AsAsExpression().Expression
		case ast.KindSatisfiesExpression:
			node = node.AsSatisfiesExpression().Expression
		default:
			return node
		}
	}
	return node
}

// WalkCallExpressions runs visit on every CallExpression node reachable from
// root, depth-first. visit returning false stops descending into that call's
// own subtree (its arguments are still not searched further), true continues
// the normal full walk.
func WalkCallExpressions(root *ast.Node, visit func(*ast.Node) bool) {
	if root == nil {
		return
	}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.KindCallExpression {
			if !visit(n) {
				return
			}
		}
		n.ForEachChild(func(child *ast.Node) bool {
			walk(child)
			return false
		})
	}
	walk(root)
}

// TrimQuotes is a defensive helper for literal text that may still carry
// its surrounding quote characters depending on shim version; StringLiteralText
// normally already returns the unquoted value.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"'`+"`")
}
