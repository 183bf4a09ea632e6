package models

import "strings"

// Template is a segment-level message skeleton containing Placeholder.
type Template string

// HasPlaceholder reports whether the template carries the name token.
func (t Template) HasPlaceholder() bool {
	return strings.Contains(string(t), Placeholder)
}

func (t Template) String() string {
	return string(t)
}

// TemplateMap holds the template resolved for each segment in one run.
type TemplateMap map[Segment]Template

// Get returns the template for a segment and whether it was resolved.
func (m TemplateMap) Get(s Segment) (Template, bool) {
	t, ok := m[s]
	return t, ok
}

var fallbackTemplates = map[Segment]Template{
	SegmentStarter:  "{customer_name}, start investing little by little and build a safer financial future.",
	SegmentGrowing:  "{customer_name}, put part of your balance into investments and make your money grow.",
	SegmentInvestor: "{customer_name}, diversifying your investments can boost your long-term results.",
}

// FallbackTemplate returns the static template used when generation is
// unavailable or fails.
func FallbackTemplate(s Segment) Template {
	if t, ok := fallbackTemplates[s]; ok {
		return t
	}
	return fallbackTemplates[SegmentStarter]
}
