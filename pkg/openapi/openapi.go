// Package openapi turns an extracted route catalogue into an OpenAPI
// document, the same relationship the teacher's `fuego openapi` command has
// to its own AST-based scanner (pkg/fuego/openapi.go), rebuilt here on top of
// pkg/route.Route instead of a Go AST scan.
package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/watchapi-dev/routelens/pkg/route"
)

// Config mirrors the teacher's OpenAPIConfig (pkg/fuego/openapi.go).
type Config struct {
	Title          string
	Version        string
	Description    string
	Servers        []Server
	OpenAPIVersion string // default "3.1.0"
}

// Server is one OpenAPI server entry.
type Server struct {
	URL         string
	Description string
}

// Generate builds an OpenAPI document describing routes, grouped by path
// with one operation per method (spec §4.7 Route shape is the sole input —
// the generator never re-walks source).
func Generate(routes []route.Route, cfg Config) *openapi3.T {
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}
	if cfg.OpenAPIVersion == "" {
		cfg.OpenAPIVersion = "3.1.0"
	}
	if cfg.Title == "" {
		cfg.Title = "API"
	}

	doc := &openapi3.T{
		OpenAPI: cfg.OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       cfg.Title,
			Version:     cfg.Version,
			Description: cfg.Description,
		},
		Paths: openapi3.NewPaths(),
	}
	for _, s := range cfg.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: s.URL, Description: s.Description})
	}

	byPath := map[string][]route.Route{}
	var paths []string
	for _, r := range routes {
		if _, ok := byPath[r.Path]; !ok {
			paths = append(paths, r.Path)
		}
		byPath[r.Path] = append(byPath[r.Path], r)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := &openapi3.PathItem{}
		for _, r := range byPath[p] {
			op := operationFor(r)
			switch r.Method {
			case route.MethodGet:
				item.Get = op
			case route.MethodPost:
				item.Post = op
			case route.MethodPut:
				item.Put = op
			case route.MethodPatch:
				item.Patch = op
			case route.MethodDelete:
				item.Delete = op
			case route.MethodHead:
				item.Head = op
			case route.MethodOptions:
				item.Options = op
			}
		}
		doc.Paths.Set(openapi3Path(p), item)
	}
	return doc
}

// JSON renders doc as indented JSON (spec §6 "JSON-serializable output").
func JSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// YAML renders doc as YAML, the format the teacher's GenerateYAML offers
// alongside JSON (pkg/fuego/openapi.go).
func YAML(doc *openapi3.T) ([]byte, error) {
	return yaml.Marshal(doc)
}

func operationFor(r route.Route) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: operationID(r),
		Summary:     r.Name,
		Tags:        []string{string(r.Type)},
		Responses:   openapi3.NewResponses(),
	}
	for name, val := range r.Query {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:    name,
				In:      "query",
				Schema:  &openapi3.SchemaRef{Value: schemaForValue(val)},
				Example: val,
			},
		})
	}
	for _, seg := range pathParams(r.Path) {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:     seg,
				In:       "path",
				Required: true,
				Schema:   &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
			},
		})
	}
	if len(r.Body) > 0 {
		var example any
		_ = json.Unmarshal(r.Body, &example)
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithJSONSchema(inferSchema(example)),
		}
	}
	op.Responses.Set("200", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("OK")})
	return op
}

func operationID(r route.Route) string {
	slug := strings.NewReplacer("/", "_", ":", "", "*", "", "?", "").Replace(r.Path)
	slug = strings.Trim(slug, "_")
	return strings.ToLower(string(r.Method)) + "_" + slug
}

// pathParams extracts the ":name"/"name*"/"name?" segments of a normalized
// route path back into bare parameter names for the OpenAPI parameter list.
func pathParams(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := strings.TrimPrefix(seg, ":")
		name = strings.TrimSuffix(strings.TrimSuffix(name, "*"), "?")
		names = append(names, name)
	}
	return names
}

// openapi3Path converts routelens' colon-form dynamic segments into
// OpenAPI's brace form (":id" -> "{id}").
func openapi3Path(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			name := strings.TrimSuffix(strings.TrimSuffix(strings.TrimPrefix(p, ":"), "*"), "?")
			parts[i] = fmt.Sprintf("{%s}", name)
		}
	}
	return strings.Join(parts, "/")
}

func schemaForValue(v string) *openapi3.Schema {
	return openapi3.NewStringSchema()
}

// inferSchema builds a minimal schema matching the shape of an already
// materialized JSON example value (the Input-Schema Interpreter has already
// done the real inference; this just describes its output).
func inferSchema(v any) *openapi3.Schema {
	switch val := v.(type) {
	case map[string]any:
		s := openapi3.NewObjectSchema()
		for k, vv := range val {
			s.Properties[k] = openapi3.NewSchemaRef("", inferSchema(vv))
		}
		return s
	case []any:
		var elem *openapi3.Schema
		if len(val) > 0 {
			elem = inferSchema(val[0])
		} else {
			elem = openapi3.NewStringSchema()
		}
		return openapi3.NewArraySchema().WithItems(elem)
	case string:
		return openapi3.NewStringSchema()
	case float64:
		return openapi3.NewFloat64Schema()
	case bool:
		return openapi3.NewBoolSchema()
	default:
		return openapi3.NewStringSchema()
	}
}
