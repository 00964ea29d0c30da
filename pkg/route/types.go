// Package route holds the normalized public data model for discovered HTTP
// endpoints, plus the internal per-parser records the Next.js and tRPC
// parsers build before they are projected into that public model.
package route

import "encoding/json"

// Method is an HTTP method name, always upper-cased.
type Method string

// Recognized HTTP methods. A parser never emits any other value.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// bodylessMethods carries no request body by convention (spec §3 invariant).
var bodylessMethods = map[Method]bool{
	MethodGet:     true,
	MethodHead:    true,
	MethodOptions: true,
	MethodDelete:  true,
}

// CarriesBody reports whether routes of this method conventionally have a body.
func (m Method) CarriesBody() bool {
	return !bodylessMethods[m]
}

// Type tags the origin of a Route.
type Type string

const (
	TypeNextApp   Type = "nextjs-app"
	TypeNextPage  Type = "nextjs-page"
	TypeTRPC      Type = "trpc"
)

// Route is the stable, public output record (spec §3).
type Route struct {
	Name     string          `json:"name"`
	Method   Method          `json:"method"`
	Path     string          `json:"path"`
	FilePath string          `json:"filePath"`
	Type     Type            `json:"type"`
	Headers  map[string]string `json:"headers,omitempty"`
	Query    map[string]string `json:"query,omitempty"`
	Body     json.RawMessage `json:"body,omitempty"`
}

// DynamicSegment is a single captured URL path component, in source order.
type DynamicSegment struct {
	Name       string
	IsCatchAll bool
	IsOptional bool
}

// Warning is a non-fatal issue surfaced during a parse (spec §7): the
// extractor never aborts on these, it logs and continues.
type Warning struct {
	FilePath string
	Message  string
}

// NextHandlerRecord is the internal shape shared by the Next.js App-Router
// and Pages-Router parsers (spec §3). Only the Normalizer consumes it.
type NextHandlerRecord struct {
	URLPattern      string
	Method          Method
	FilePath        string
	StartLine       int
	DynamicSegments []DynamicSegment
	IsDynamic       bool
	HasMiddleware   bool
	IsServerAction  bool
	Type            Type

	// Internal diagnostics. Never surfaced on Route (spec §9 "conservative choice").
	HandlerLines     int
	UsesDB           bool
	HasErrorHandling bool
	HasValidation    bool

	Headers     map[string]string
	QueryParams map[string]string
	BodyExample json.RawMessage
}

// TrpcProcedure is a single procedure recovered from a router's object
// literal argument (spec §3). Router starts out holding the declared
// identifier and is rewritten in place to the fully-qualified dotted path
// by the Composition Resolver.
type TrpcProcedure struct {
	Router     string
	Procedure  string
	Method     string // "query" | "mutation"
	Visibility string
	File       string
	Line       int
	HasInput   bool
	HasOutput  bool

	InputSchema json.RawMessage

	Headers       map[string]string
	ResolverLines int
}

// TrpcRouter is a composition node (spec §3). Name starts out as the
// declared identifier and is rewritten to the dotted path by the resolver.
type TrpcRouter struct {
	Name        string
	File        string
	Line        int
	LinesOfCode int
}

// RouterMountEdge is a named reference from a parent router to a child
// router or sub-router identifier (spec §3).
type RouterMountEdge struct {
	Parent   string
	Property string
	Target   string
}
