package nextapp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/watchapi-dev/routelens/pkg/route"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func loadProject(t *testing.T, root string) *tsproject.Project {
	t.Helper()
	proj, err := tsproject.Load(context.Background(), tsproject.Options{RootDir: root})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return proj
}

func TestParse_StaticGetHandler(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/api/health/route.ts", `export function GET() {
  return Response.json({ status: "ok" })
}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d: %+v", len(res.Handlers), res.Handlers)
	}
	h := res.Handlers[0]
	if h.Method != route.MethodGet {
		t.Errorf("Method = %q, want GET", h.Method)
	}
	if h.URLPattern != "/api/health" {
		t.Errorf("URLPattern = %q, want /api/health", h.URLPattern)
	}
	if h.IsDynamic {
		t.Error("expected a static route to not be marked dynamic")
	}
}

func TestParse_DynamicSegment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/api/users/[id]/route.ts", `export async function GET() {}
export async function DELETE() {}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d: %+v", len(res.Handlers), res.Handlers)
	}
	for _, h := range res.Handlers {
		if h.URLPattern != "/api/users/:id" {
			t.Errorf("URLPattern = %q, want /api/users/:id", h.URLPattern)
		}
		if !h.IsDynamic || len(h.DynamicSegments) != 1 {
			t.Errorf("expected one dynamic segment, got %+v", h.DynamicSegments)
		}
	}
}

func TestParse_MethodsArrayExport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/api/widgets/route.ts", `export const methods = ["GET", "POST"]
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 2 {
		t.Fatalf("expected 2 handlers from the methods array, got %d", len(res.Handlers))
	}
}

func TestParse_BodyValidationInference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/api/users/route.ts", `const createUserSchema = z.object({ name: z.string() })

export async function POST(req) {
  const body = await req.json()
  const data = createUserSchema.parse(body)
  return Response.json(data)
}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(res.Handlers))
	}
	h := res.Handlers[0]
	if !h.HasValidation {
		t.Error("expected HasValidation to be true")
	}
	if string(h.BodyExample) != `{"name":"string"}` {
		t.Errorf("BodyExample = %s, want {\"name\":\"string\"}", h.BodyExample)
	}
}

func TestParse_SkipsFilesOutsideApp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/legacy.ts", `export default function handler(req, res) {}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 0 {
		t.Errorf("expected no App-Router handlers from a pages/api file, got %+v", res.Handlers)
	}
}

func TestParse_DuplicateVerbCoverageCountsOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/api/ping/route.ts", `export function GET() {}
export const methods = ["GET"]
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 1 {
		t.Fatalf("expected GET to be counted once, got %d handlers: %+v", len(res.Handlers), res.Handlers)
	}
}
