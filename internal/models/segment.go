package models

import (
	"fmt"
	"strings"
)

// Segment is the marketing tier a customer falls into based on balance.
type Segment string

const (
	SegmentStarter  Segment = "starter"
	SegmentGrowing  Segment = "growing"
	SegmentInvestor Segment = "investor"
)

// Segments returns every segment in tier order.
func Segments() []Segment {
	return []Segment{SegmentStarter, SegmentGrowing, SegmentInvestor}
}

// ParseSegment converts a segment name, ignoring case and surrounding spaces.
func ParseSegment(s string) (Segment, error) {
	seg := Segment(strings.ToLower(strings.TrimSpace(s)))
	if !seg.IsValid() {
		return "", fmt.Errorf("unknown segment %q (expected one of %s, %s, %s)",
			s, SegmentStarter, SegmentGrowing, SegmentInvestor)
	}
	return seg, nil
}

// IsValid reports whether s is one of the known segments.
func (s Segment) IsValid() bool {
	switch s {
	case SegmentStarter, SegmentGrowing, SegmentInvestor:
		return true
	}
	return false
}

func (s Segment) String() string {
	return string(s)
}

var segmentDescriptions = map[Segment]string{
	SegmentStarter: "Customer with a balance of up to 5,000.00. " +
		"Goal: profile focused on financial education and first investments, " +
		"showing the importance of starting to invest little by little.",
	SegmentGrowing: "Customer with a balance between 5,000.01 and 10,000.00. " +
		"Goal: profile in financial growth, looking for investment diversification and better returns.",
	SegmentInvestor: "Customer with a balance above 10,000.00. " +
		"Goal: experienced profile, focused on maximizing returns, long-term growth " +
		"and exploring advanced investment opportunities.",
}

// SegmentDescription returns the definition and marketing objective of a
// segment. It is only used as prompt context.
func SegmentDescription(s Segment) string {
	return segmentDescriptions[s]
}
