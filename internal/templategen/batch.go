package templategen

import (
	"context"

	"fjacquet/sdw-news/internal/models"
)

// TemplateSource resolves the template of a single segment.
type TemplateSource interface {
	Generate(ctx context.Context, seg models.Segment) models.Template
}

// DistinctSegments returns segments without duplicates, in first-seen order.
func DistinctSegments(segments []models.Segment) []models.Segment {
	seen := make(map[models.Segment]struct{}, len(models.Segments()))
	out := make([]models.Segment, 0, len(models.Segments()))
	for _, s := range segments {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// BuildTemplateMap asks src exactly once per distinct segment.
func BuildTemplateMap(ctx context.Context, src TemplateSource, segments []models.Segment) models.TemplateMap {
	templates := make(models.TemplateMap, len(models.Segments()))
	for _, s := range DistinctSegments(segments) {
		templates[s] = src.Generate(ctx, s)
	}
	return templates
}
