package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/watchapi-dev/routelens/pkg/trpc"
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

func TestRun_NextAppAndTrpcCombined(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "app/api/health/route.ts", `export function GET() {
  return Response.json({ status: "ok" })
}
`)
	writeFile(t, root, "server/routers/users.ts", `import { router, publicProcedure } from "../trpc"

export const usersRouter = router({
  list: publicProcedure.query(() => []),
})
`)
	writeFile(t, root, "server/routers/_app.ts", `import { router } from "../trpc"
import { usersRouter } from "./users"

export const appRouter = router({
  users: usersRouter,
})
`)

	res, err := Run(context.Background(), Options{
		Project: tsproject.Options{RootDir: root},
		TRPC:    trpc.Options{ExtraFactoryNames: []string{"router"}},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(res.Routes) == 0 {
		t.Fatal("expected at least one route")
	}

	var sawHealth, sawUsersList bool
	for _, r := range res.Routes {
		if r.Path == "/api/health" {
			sawHealth = true
		}
		if r.Path == "/api/trpc/users.list" {
			sawUsersList = true
		}
	}
	if !sawHealth {
		t.Errorf("expected /api/health among routes, got: %+v", res.Routes)
	}
	if !sawUsersList {
		t.Errorf("expected /api/trpc/users.list among routes, got: %+v", res.Routes)
	}

	if len(res.Routers) == 0 {
		t.Error("expected at least one discovered tRPC router")
	}
}

func TestRun_EmptyProjectProducesNoRoutes(t *testing.T) {
	root := t.TempDir()

	res, err := Run(context.Background(), Options{Project: tsproject.Options{RootDir: root}})
	if err != nil {
		t.Fatalf("Run() on an empty project should not error, got: %v", err)
	}
	if len(res.Routes) != 0 {
		t.Errorf("expected no routes, got %+v", res.Routes)
	}
}

func TestRun_RoutesAreSortedByPathThenMethod(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "app/api/users/route.ts", `export function GET() {}
export function POST() {}
`)
	writeFile(t, root, "app/api/health/route.ts", `export function GET() {}
`)

	res, err := Run(context.Background(), Options{Project: tsproject.Options{RootDir: root}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	for i := 1; i < len(res.Routes); i++ {
		prev, cur := res.Routes[i-1], res.Routes[i]
		if prev.Path > cur.Path {
			t.Fatalf("routes not sorted by path: %q before %q", prev.Path, cur.Path)
		}
		if prev.Path == cur.Path && prev.Method > cur.Method {
			t.Fatalf("routes for %q not sorted by method: %q before %q", prev.Path, prev.Method, cur.Method)
		}
	}
}
