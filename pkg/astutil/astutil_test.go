package astutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

func TestTrimQuotes(t *testing.T) {
	tests := map[string]string{
		`"hello"`:   "hello",
		"`world`":   "world",
		"'quoted'":  "quoted",
		"no-quotes": "no-quotes",
	}
	for in, want := range tests {
		if got := TrimQuotes(in); got != want {
			t.Errorf("TrimQuotes(%q) = %q, want %q", in, got, want)
		}
	}
}

// loadSourceFile parses a single fixture file through the real project
// loader and returns its one *ast.SourceFile, for exercising the AST
// helpers against genuine parser output rather than hand-built nodes.
func loadSourceFile(t *testing.T, src string) *ast.SourceFile {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "fixture.ts"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	proj, err := tsproject.Load(context.Background(), tsproject.Options{RootDir: root})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	files := proj.SourceFiles()
	for _, sf := range files {
		if filepath.Base(sf.FileName()) == "fixture.ts" {
			return sf
		}
	}
	t.Fatal("fixture.ts not found among parsed source files")
	return nil
}

func TestExportedAndDeclaredName(t *testing.T) {
	sf := loadSourceFile(t, `export function handler() {}
function helper() {}
`)

	decl := FindTopLevelDeclaration(sf, "handler")
	if decl == nil {
		t.Fatal("expected to find top-level declaration \"handler\"")
	}
	if !Exported(decl) {
		t.Error("expected handler to be reported as exported")
	}
	name, ok := DeclaredName(decl)
	if !ok || name != "handler" {
		t.Errorf("DeclaredName() = (%q, %v), want (\"handler\", true)", name, ok)
	}

	other := FindTopLevelDeclaration(sf, "helper")
	if other == nil {
		t.Fatal("expected to find top-level declaration \"helper\"")
	}
	if Exported(other) {
		t.Error("expected helper to not be reported as exported")
	}
}

func TestFindTopLevelDeclaration_Missing(t *testing.T) {
	sf := loadSourceFile(t, `export function handler() {}
`)
	if decl := FindTopLevelDeclaration(sf, "doesNotExist"); decl != nil {
		t.Errorf("expected nil for an undeclared name, got %v", decl)
	}
}

func TestVariableInitializerAndCalleeChain(t *testing.T) {
	sf := loadSourceFile(t, `import { router } from "./trpc"

export const appRouter = router({})
`)
	decl := FindTopLevelDeclaration(sf, "appRouter")
	if decl == nil {
		t.Fatal("expected to find variable declaration \"appRouter\"")
	}
	init := VariableInitializer(decl)
	if init == nil || init.Kind != ast.KindCallExpression {
		t.Fatalf("expected a CallExpression initializer, got %v", init)
	}
	ce := init.AsCallExpression()
	chain := CalleeChain(ce.Expression)
	if len(chain) != 1 || chain[0] != "router" {
		t.Errorf("CalleeChain() = %v, want [router]", chain)
	}
}

func TestStringLiteralText(t *testing.T) {
	sf := loadSourceFile(t, `const x = "hello"
`)
	decl := FindTopLevelDeclaration(sf, "x")
	if decl == nil {
		t.Fatal("expected to find variable declaration \"x\"")
	}
	init := VariableInitializer(decl)
	text, ok := StringLiteralText(init)
	if !ok || text != "hello" {
		t.Errorf("StringLiteralText() = (%q, %v), want (\"hello\", true)", text, ok)
	}
}

func TestObjectLiteralProperties(t *testing.T) {
	sf := loadSourceFile(t, `const config = { path: "/users", method: "GET" }
`)
	decl := FindTopLevelDeclaration(sf, "config")
	if decl == nil {
		t.Fatal("expected to find variable declaration \"config\"")
	}
	init := VariableInitializer(decl)
	props := ObjectLiteralProperties(init)
	if len(props) != 2 {
		t.Fatalf("expected 2 object properties, got %d", len(props))
	}
	if props[0].Key != "path" || props[1].Key != "method" {
		t.Errorf("unexpected property order/keys: %+v", props)
	}
}

func TestFirstDirective(t *testing.T) {
	sf := loadSourceFile(t, `"use server"

export function handler() {}
`)
	directive, ok := FirstDirective(sf)
	if !ok || directive != "use server" {
		t.Errorf("FirstDirective() = (%q, %v), want (\"use server\", true)", directive, ok)
	}
}

func TestFirstDirective_None(t *testing.T) {
	sf := loadSourceFile(t, `export function handler() {}
`)
	if _, ok := FirstDirective(sf); ok {
		t.Error("expected no directive when the file doesn't start with a string literal statement")
	}
}
