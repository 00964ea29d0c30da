package nextpages

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

func TestParse_DefaultExportHandlerDefaultsToGet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/ping.ts", `export default function handler(req, res) {
  res.status(200).json({ ok: true })
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
		t.Errorf("Method = %q, want GET (default when no branching found)", h.Method)
	}
	if h.URLPattern != "/api/ping" {
		t.Errorf("URLPattern = %q, want /api/ping", h.URLPattern)
	}
}

func TestParse_MethodBranchInference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/users.ts", `export default function handler(req, res) {
  if (req.method === "GET") {
    return res.json([])
  }
  if (req.method === "POST") {
    return res.json({})
  }
  res.status(405).end()
}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	methods := map[route.Method]bool{}
	for _, h := range res.Handlers {
		methods[h.Method] = true
	}
	if !methods[route.MethodGet] || !methods[route.MethodPost] {
		t.Errorf("expected GET and POST, got %+v", res.Handlers)
	}
}

func TestParse_SwitchMethodInference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/orders.ts", `export default function handler(req, res) {
  switch (req.method) {
    case "GET":
      return res.json([])
    case "DELETE":
      return res.status(204).end()
  }
}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	methods := map[route.Method]bool{}
	for _, h := range res.Handlers {
		methods[h.Method] = true
	}
	if !methods[route.MethodGet] || !methods[route.MethodDelete] {
		t.Errorf("expected GET and DELETE, got %+v", res.Handlers)
	}
}

func TestParse_IndexFileMapsToBareApi(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/index.ts", `export default function handler(req, res) {}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 1 || res.Handlers[0].URLPattern != "/api" {
		t.Fatalf("expected pages/api/index.ts to map to /api, got %+v", res.Handlers)
	}
}

func TestParse_DynamicSegment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/users/[id].ts", `export default function handler(req, res) {}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(res.Handlers))
	}
	h := res.Handlers[0]
	if h.URLPattern != "/api/users/:id" {
		t.Errorf("URLPattern = %q, want /api/users/:id", h.URLPattern)
	}
	if !h.IsDynamic {
		t.Error("expected IsDynamic to be true")
	}
}

func TestParse_BodyValidationInference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/users.ts", `const createUserSchema = z.object({ name: z.string() })

export default function handler(req, res) {
  if (req.method === "POST") {
    const data = createUserSchema.parse(req.body)
    return res.json(data)
  }
  res.status(405).end()
}
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	var post *route.NextHandlerRecord
	for i := range res.Handlers {
		if res.Handlers[i].Method == route.MethodPost {
			post = &res.Handlers[i]
		}
	}
	if post == nil {
		t.Fatal("expected a POST handler")
	}
	if !post.HasValidation {
		t.Error("expected HasValidation to be true")
	}
	if string(post.BodyExample) != `{"name":"string"}` {
		t.Errorf("BodyExample = %s, want {\"name\":\"string\"}", post.BodyExample)
	}
}

func TestParse_NoDispatcherWarns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pages/api/nohandler.ts", `export const config = { api: { bodyParser: false } }
`)
	res, err := Parse(context.Background(), loadProject(t, root))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(res.Handlers) != 0 {
		t.Errorf("expected no handlers, got %+v", res.Handlers)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %+v", len(res.Warnings), res.Warnings)
	}
}
