package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/watchapi-dev/routelens/pkg/astutil"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

func schemaExpr(t *testing.T, src, declName string) (*ast.SourceFile, *ast.Node) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "fixture.ts"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	proj, err := tsproject.Load(context.Background(), tsproject.Options{RootDir: root})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	var sf *ast.SourceFile
	for _, f := range proj.SourceFiles() {
		if filepath.Base(f.FileName()) == "fixture.ts" {
			sf = f
		}
	}
	if sf == nil {
		t.Fatal("fixture.ts not found among parsed source files")
	}
	decl := astutil.FindTopLevelDeclaration(sf, declName)
	if decl == nil {
		t.Fatalf("declaration %q not found", declName)
	}
	return sf, astutil.VariableInitializer(decl)
}

func TestInterpret_Primitives(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"string", `const s = z.string()`, `"string"`},
		{"number", `const s = z.number()`, `0`},
		{"boolean", `const s = z.boolean()`, `false`},
		{"literal", `const s = z.literal("ready")`, `"ready"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf, expr := schemaExpr(t, tt.src, "s")
			got, ok := Interpret(sf, expr)
			if !ok {
				t.Fatal("Interpret() returned ok=false")
			}
			if string(got) != tt.want {
				t.Errorf("Interpret() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInterpret_Object(t *testing.T) {
	sf, expr := schemaExpr(t, `const s = z.object({ name: z.string(), age: z.number() })`, "s")
	got, ok := Interpret(sf, expr)
	if !ok {
		t.Fatal("Interpret() returned ok=false")
	}
	want := `{"name":"string","age":0}`
	if string(got) != want {
		t.Errorf("Interpret() = %s, want %s", got, want)
	}
}

func TestInterpret_Array(t *testing.T) {
	sf, expr := schemaExpr(t, `const s = z.array(z.string())`, "s")
	got, ok := Interpret(sf, expr)
	if !ok {
		t.Fatal("Interpret() returned ok=false")
	}
	if string(got) != `["string"]` {
		t.Errorf("Interpret() = %s, want [\"string\"]", got)
	}
}

func TestInterpret_OptionalPassesThrough(t *testing.T) {
	sf, expr := schemaExpr(t, `const s = z.string().optional()`, "s")
	got, ok := Interpret(sf, expr)
	if !ok {
		t.Fatal("Interpret() returned ok=false")
	}
	if string(got) != `"string"` {
		t.Errorf("Interpret() = %s, want \"string\"", got)
	}
}

func TestInterpret_DefaultOverridesValue(t *testing.T) {
	sf, expr := schemaExpr(t, `const s = z.number().default(42)`, "s")
	got, ok := Interpret(sf, expr)
	if !ok {
		t.Fatal("Interpret() returned ok=false")
	}
	if string(got) != `42` {
		t.Errorf("Interpret() = %s, want 42", got)
	}
}

func TestInterpret_UnrecognizedModifierOmitsSubtree(t *testing.T) {
	sf, expr := schemaExpr(t, `const s = z.string().refine(fn)`, "s")
	if _, ok := Interpret(sf, expr); ok {
		t.Error("expected Interpret() to omit a value behind an unrecognized modifier")
	}
}

func TestInterpret_ObjectOmitsUnrecognizedField(t *testing.T) {
	sf, expr := schemaExpr(t, `const s = z.object({ name: z.string(), weird: z.string().refine(fn) })`, "s")
	got, ok := Interpret(sf, expr)
	if !ok {
		t.Fatal("Interpret() returned ok=false")
	}
	if string(got) != `{"name":"string"}` {
		t.Errorf("Interpret() = %s, want only the recognized field to survive", got)
	}
}

func TestInterpret_ResolvesIdentifierAlias(t *testing.T) {
	sf, expr := schemaExpr(t, `const inner = z.string()
const s = inner
`, "s")
	got, ok := Interpret(sf, expr)
	if !ok {
		t.Fatal("Interpret() returned ok=false")
	}
	if string(got) != `"string"` {
		t.Errorf("Interpret() = %s, want \"string\"", got)
	}
}
