// Package schema implements the Input-Schema Interpreter (spec §4.3): it
// walks a validator-schema expression tree (an object-shape builder,
// primitive-leaf builders, and optional/default/enum wrappers) and
// synthesizes an example JSON value. Unrecognized constructs are omitted,
// never guessed (spec §7).
package schema

import (
	"bytes"
	"encoding/json"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/watchapi-dev/routelens/pkg/astutil"
)

// maxResolveDepth bounds identifier-to-declaration resolution so a
// self-referential or mutually-recursive schema alias can't loop forever.
const maxResolveDepth = 8

// Interpret walks expr (a schema expression found in source file sf) and
// returns its JSON-serializable example value. ok is false when the
// expression is not a recognized schema shape — callers must omit the
// corresponding field rather than substitute a placeholder.
func Interpret(sf *ast.SourceFile, expr *ast.Node) (json.RawMessage, bool) {
	return interpretDepth(sf, expr, 0)
}

func interpretDepth(sf *ast.SourceFile, expr *ast.Node, depth int) (json.RawMessage, bool) {
	if expr == nil || depth > maxResolveDepth {
		return nil, false
	}
	expr = astutil.Unparen(expr)

	links, base := astutil.CallChainLinks(expr)
	if len(links) == 0 {
		return resolveIdentifier(sf, expr, depth)
	}

	leaf := links[len(links)-1]
	value, ok := leafValue(sf, leaf, depth)
	_ = base // the namespace identifier (commonly "z") is not otherwise validated

	// Apply modifiers from innermost to outermost, i.e. every link except
	// the leaf, walked in reverse source order.
	for i := len(links) - 2; i >= 0; i-- {
		mod := links[i]
		switch mod.Name {
		case "optional", "nullable", "describe", "catch":
			// Pass the wrapped value through unchanged.
		case "default":
			if len(mod.Args) == 0 {
				break
			}
			if dv, dok := literalValue(mod.Args[0]); dok {
				value, ok = dv, true
			}
		default:
			// Unrecognized modifier: omit the whole sub-tree.
			return nil, false
		}
	}

	return value, ok
}

func leafValue(sf *ast.SourceFile, leaf astutil.ChainLink, depth int) (json.RawMessage, bool) {
	switch leaf.Name {
	case "string", "email", "url", "uuid", "cuid", "datetime", "date":
		return json.RawMessage(`"string"`), true
	case "number", "int", "bigint":
		return json.RawMessage(`0`), true
	case "boolean":
		return json.RawMessage(`false`), true
	case "literal":
		if len(leaf.Args) == 0 {
			return nil, false
		}
		return literalValue(leaf.Args[0])
	case "enum", "nativeEnum":
		if len(leaf.Args) == 0 {
			return nil, false
		}
		elems := astutil.ArrayLiteralElements(leaf.Args[0])
		for _, el := range elems {
			if text, ok := astutil.StringLiteralText(el); ok {
				b, _ := json.Marshal(text)
				return b, true
			}
		}
		return nil, false
	case "array":
		if len(leaf.Args) == 0 {
			return nil, false
		}
		elem, ok := interpretDepth(sf, leaf.Args[0], depth+1)
		if !ok {
			return nil, false
		}
		var buf bytes.Buffer
		buf.WriteByte('[')
		buf.Write(elem)
		buf.WriteByte(']')
		return buf.Bytes(), true
	case "object", "strictObject":
		if len(leaf.Args) == 0 {
			return nil, false
		}
		return objectValue(sf, leaf.Args[0], depth)
	}
	return nil, false
}

// objectValue interprets an object-literal schema shape builder's argument,
// preserving key order (spec §4.3 table).
func objectValue(sf *ast.SourceFile, shape *ast.Node, depth int) (json.RawMessage, bool) {
	props := astutil.ObjectLiteralProperties(shape)
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, p := range props {
		val, ok := interpretDepth(sf, p.Value, depth+1)
		if !ok {
			// Unrecognized sub-schema: omit this key, not the whole object.
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(p.Key)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), true
}

// resolveIdentifier handles a schema expression that is itself a plain
// identifier referencing another schema declared earlier in the same file
// (e.g. an object property whose value is `userSchema`).
func resolveIdentifier(sf *ast.SourceFile, expr *ast.Node, depth int) (json.RawMessage, bool) {
	if expr.Kind != ast.KindIdentifier {
		return literalValue(expr)
	}
	decl := astutil.FindTopLevelDeclaration(sf, expr.Text())
	if decl == nil {
		return nil, false
	}
	init := astutil.VariableInitializer(decl)
	if init == nil {
		return nil, false
	}
	return interpretDepth(sf, init, depth+1)
}

// literalValue interprets a plain JS literal expression (used for `.default(v)`
// and `.literal(v)` arguments, and as a fallback for non-chain expressions).
func literalValue(node *ast.Node) (json.RawMessage, bool) {
	node = astutil.Unparen(node)
	if node == nil {
		return nil, false
	}
	if text, ok := astutil.StringLiteralText(node); ok {
		b, _ := json.Marshal(text)
		return b, true
	}
	if text, ok := astutil.NumericLiteralText(node); ok {
		return json.RawMessage(text), true
	}
	if b, ok := astutil.IsBooleanLiteral(node); ok {
		if b {
			return json.RawMessage(`true`), true
		}
		return json.RawMessage(`false`), true
	}
	switch node.Kind {
	case ast.KindNullKeyword:
		return json.RawMessage(`null`), true
	case ast.KindArrayLiteralExpression:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, el := range astutil.ArrayLiteralElements(node) {
			v, ok := literalValue(el)
			if !ok {
				return nil, false
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(v)
		}
		buf.WriteByte(']')
		return buf.Bytes(), true
	case ast.KindObjectLiteralExpression:
		var buf bytes.Buffer
		buf.WriteByte('{')
		first := true
		for _, p := range astutil.ObjectLiteralProperties(node) {
			v, ok := literalValue(p.Value)
			if !ok {
				return nil, false
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, _ := json.Marshal(p.Key)
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), true
	}
	return nil, false
}
