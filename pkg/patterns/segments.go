// Package patterns provides the stateless helpers shared by the Next.js
// App-Router and Pages-Router parsers (spec §4.2): dynamic-segment
// extraction/conversion, path normalization, and the middleware /
// server-action / tRPC-handler detectors.
package patterns

import (
	"regexp"
	"strings"

	"github.com/watchapi-dev/routelens/pkg/route"
)

var (
	// [id] - required dynamic segment
	dynamicSegmentRe = regexp.MustCompile(`^\[([a-zA-Z_][a-zA-Z0-9_]*)\]$`)
	// [...slug] - catch-all segment
	catchAllSegmentRe = regexp.MustCompile(`^\[\.\.\.([a-zA-Z_][a-zA-Z0-9_]*)\]$`)
	// [[...slug]] - optional catch-all segment
	optionalCatchAllRe = regexp.MustCompile(`^\[\[\.\.\.([a-zA-Z_][a-zA-Z0-9_]*)\]\]$`)
	// (group) - route group, excluded from the URL
	routeGroupRe = regexp.MustCompile(`^\(([a-zA-Z0-9_-]+)\)$`)
)

// segmentKind classifies one path segment.
type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentDynamic
	segmentCatchAll
	segmentOptionalCatchAll
	segmentGroup
)

type parsedSegment struct {
	raw  string
	name string
	kind segmentKind
}

func parseSegment(raw string) parsedSegment {
	if m := optionalCatchAllRe.FindStringSubmatch(raw); len(m) > 1 {
		return parsedSegment{raw: raw, name: m[1], kind: segmentOptionalCatchAll}
	}
	if m := catchAllSegmentRe.FindStringSubmatch(raw); len(m) > 1 {
		return parsedSegment{raw: raw, name: m[1], kind: segmentCatchAll}
	}
	if m := dynamicSegmentRe.FindStringSubmatch(raw); len(m) > 1 {
		return parsedSegment{raw: raw, name: m[1], kind: segmentDynamic}
	}
	if m := routeGroupRe.FindStringSubmatch(raw); len(m) > 1 {
		return parsedSegment{raw: raw, name: m[1], kind: segmentGroup}
	}
	return parsedSegment{raw: raw, name: raw, kind: segmentStatic}
}

// IsRouteGroup reports whether a single directory name is a route group,
// e.g. "(dashboard)".
func IsRouteGroup(dirName string) bool {
	return routeGroupRe.MatchString(dirName)
}

// SplitPath splits a relative directory path into its segment names,
// tolerating both "/" and the OS path separator, and dropping empty parts
// produced by a leading/trailing separator or "." (current directory).
func SplitPath(relDir string) []string {
	relDir = strings.ReplaceAll(relDir, "\\", "/")
	if relDir == "" || relDir == "." {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(relDir, "/") {
		if p == "" || p == "." {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

// BuildRoutePattern converts a slice of raw directory segments into a
// colon-form URL pattern plus the extracted DynamicSegment list, in source
// order (spec §4.2 "segment conversion", §8 property 5). Route groups
// contribute no URL segment.
func BuildRoutePattern(rawSegments []string) (string, []route.DynamicSegment) {
	var urlParts []string
	var dyn []route.DynamicSegment

	for _, raw := range rawSegments {
		seg := parseSegment(raw)
		switch seg.kind {
		case segmentGroup:
			continue
		case segmentDynamic:
			urlParts = append(urlParts, ":"+seg.name)
			dyn = append(dyn, route.DynamicSegment{Name: seg.name})
		case segmentCatchAll:
			urlParts = append(urlParts, ":"+seg.name+"*")
			dyn = append(dyn, route.DynamicSegment{Name: seg.name, IsCatchAll: true})
		case segmentOptionalCatchAll:
			urlParts = append(urlParts, ":"+seg.name+"?")
			dyn = append(dyn, route.DynamicSegment{Name: seg.name, IsCatchAll: true, IsOptional: true})
		case segmentStatic:
			urlParts = append(urlParts, seg.name)
		}
	}

	if len(urlParts) == 0 {
		return "/", dyn
	}
	return route.NormalizePath(strings.Join(urlParts, "/")), dyn
}
