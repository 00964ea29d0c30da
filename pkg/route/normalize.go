package route

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizePath collapses duplicate slashes, strips a trailing slash (except
// the root), and ensures a leading slash (spec §4.2, §4.7). The empty string
// maps to "/".
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}

// FromNextHandler projects a NextHandlerRecord into the public Route shape
// (spec §4.7). workspaceRoot is used to materialize an absolute filePath.
func FromNextHandler(rec NextHandlerRecord, workspaceRoot string) Route {
	p := NormalizePath(rec.URLPattern)

	r := Route{
		Method:   rec.Method,
		Path:     p,
		Type:     rec.Type,
		FilePath: absFilePath(workspaceRoot, rec.FilePath),
	}
	r.Name = fmt.Sprintf("%s %s", r.Method, r.Path)

	if len(rec.Headers) > 0 {
		r.Headers = rec.Headers
	}
	if len(rec.QueryParams) > 0 {
		r.Query = rec.QueryParams
	}
	if rec.Method.CarriesBody() && len(rec.BodyExample) > 0 {
		r.Body = rec.BodyExample
	}
	return r
}

// FromTrpcProcedure projects a resolved TrpcProcedure into the public Route
// shape (spec §4.6.4). proc.Router must already hold the resolved dotted
// path (the Composition Resolver has run).
func FromTrpcProcedure(proc TrpcProcedure, workspaceRoot string) Route {
	var p string
	if proc.Router != "" {
		p = fmt.Sprintf("/api/trpc/%s.%s", proc.Router, proc.Procedure)
	} else {
		p = fmt.Sprintf("/api/trpc/%s", proc.Procedure)
	}
	p = NormalizePath(p)

	method := MethodPost
	if proc.Method == "query" {
		method = MethodGet
	}

	headers := map[string]string{"Content-Type": "application/json"}

	r := Route{
		Method:   method,
		Path:     p,
		Type:     TypeTRPC,
		FilePath: absFilePath(workspaceRoot, proc.File),
		Headers:  headers,
	}
	r.Name = fmt.Sprintf("%s %s", r.Method, r.Path)

	if len(proc.InputSchema) == 0 {
		return r
	}

	if method == MethodGet {
		if q := projectOntoQuery(proc.InputSchema); len(q) > 0 {
			r.Query = q
		}
		return r
	}

	r.Body = proc.InputSchema
	return r
}

func absFilePath(workspaceRoot, filePath string) string {
	if filePath == "" {
		return filePath
	}
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(workspaceRoot, filePath)
}
