package uischema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var svgShapes = []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse", "text"}

// svgPolicy keeps inert SVG drawing elements and drops scripts, handlers
// and foreign content.
var svgPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("svg", "g", "title", "desc", "defs")
	p.AllowElements(svgShapes...)
	p.AllowAttrs("xmlns", "viewBox", "width", "height", "fill", "stroke",
		"stroke-width", "aria-hidden", "role", "focusable", "class").OnElements("svg")
	p.AllowAttrs("fill", "stroke", "transform", "id").OnElements("g")
	p.AllowAttrs("d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
		"points", "rx", "ry", "fill", "stroke", "stroke-width",
		"stroke-linecap", "stroke-linejoin", "font-size", "font-family",
		"text-anchor", "class").OnElements(svgShapes...)
	return p
})

// sanitizeIconMarkup returns raw reduced to markup that is safe to inline.
func sanitizeIconMarkup(raw string) string {
	if raw = strings.TrimSpace(raw); raw == "" {
		return ""
	}
	return strings.TrimSpace(svgPolicy().Sanitize(raw))
}
