// Package catalogueserver serves an extracted route catalogue over HTTP: a
// JSON endpoint, an OpenAPI document, and a small HTML report — a way to
// *look at* the catalogue without the editor integration spec.md excludes.
// Routing follows the teacher's pkg/nexo/router.go (chi), and the HTML view
// is rendered with github.com/a-h/templ's runtime Component/ComponentFunc
// API directly (no `templ generate` codegen, since this build cannot invoke
// the templ CLI) the way pkg/fuego/context.go's Context.Render does.
package catalogueserver

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/watchapi-dev/routelens/pkg/openapi"
	"github.com/watchapi-dev/routelens/pkg/route"
	"github.com/watchapi-dev/routelens/pkg/rlog"
)

// Catalogue is the snapshot the server renders; the source function passed
// to New produces a fresh one for every request.
type Catalogue struct {
	Routes  []route.Route
	Routers []route.TrpcRouter
}

// Server wraps a chi router over a Catalogue source.
type Server struct {
	router  chi.Router
	source  func() Catalogue
	openapi openapi.Config
	log     *rlog.Logger
}

// New builds a Server. source is called fresh on every request so a long
// running `serve` process reflects the latest extraction (spec §5: a parse
// invocation is a cheap, repeatable, indivisible unit).
func New(source func() Catalogue, apiCfg openapi.Config, log *rlog.Logger) *Server {
	if log == nil {
		log = rlog.Discard()
	}
	s := &Server{source: source, openapi: apiCfg, log: log}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Get("/routes", s.handleRoutes)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Get("/", s.handleReport)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestID stamps every request with a uuid, the same id/logging pairing
// pattern rivaas.dev/logging's context keys follow — paired here with
// google/uuid exactly as the teacher pulls it in transitively via huh/mcp-go.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	cat := s.source()
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cat.Routes); err != nil {
		s.log.Error("encode routes", "error", err)
	}
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	cat := s.source()
	doc := openapi.Generate(cat.Routes, s.openapi)
	body, err := openapi.JSON(doc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	cat := s.source()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := reportPage(cat).Render(r.Context(), w); err != nil {
		s.log.Error("render report", "error", err)
	}
}

// reportPage builds the HTML report component. templ.ComponentFunc adapts a
// plain render function to templ.Component without generated code, the same
// escape hatch pkg/fuego/renderer_test.go's mockComponent demonstrates.
func reportPage(cat Catalogue) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!doctype html><html><head><title>routelens</title>"+
			"<style>body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse;width:100%}"+
			"td,th{border:1px solid #ddd;padding:4px 8px;text-align:left}th{background:#f4f4f4}"+
			"code{background:#f4f4f4;padding:1px 4px}</style></head><body>"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>routelens</h1><p>%d routes, %d tRPC routers</p>",
			len(cat.Routes), len(cat.Routers)); err != nil {
			return err
		}
		if err := writeRoutesTable(w, cat.Routes); err != nil {
			return err
		}
		if err := writeRoutersList(w, cat.Routers); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func writeRoutesTable(w io.Writer, routes []route.Route) error {
	if _, err := io.WriteString(w, "<table><thead><tr><th>Method</th><th>Path</th><th>Type</th>"+
		"<th>File</th></tr></thead><tbody>"); err != nil {
		return err
	}
	for _, r := range routes {
		if _, err := fmt.Fprintf(w, "<tr><td><code>%s</code></td><td><code>%s</code></td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(string(r.Method)), html.EscapeString(r.Path), html.EscapeString(string(r.Type)),
			html.EscapeString(r.FilePath)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody></table>")
	return err
}

func writeRoutersList(w io.Writer, routers []route.TrpcRouter) error {
	if len(routers) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "<h2>tRPC routers</h2><ul>"); err != nil {
		return err
	}
	for _, r := range routers {
		if _, err := fmt.Fprintf(w, "<li><code>%s</code> — %s:%d</li>",
			html.EscapeString(r.Name), html.EscapeString(r.File), r.Line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</ul>")
	return err
}
