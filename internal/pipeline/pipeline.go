// Package pipeline runs the load, classify, generate, personalize and persist
// stages that turn a customer dataset into the enriched news artifact.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/personalizer"
	"fjacquet/sdw-news/internal/segmenter"
	"fjacquet/sdw-news/internal/templategen"
)

// Stage names reported in logs.
const (
	StageLoad        = "load"
	StageClassify    = "classify"
	StageGenerate    = "generate"
	StagePersonalize = "personalize"
	StagePersist     = "persist"
)

// CustomerLoader reads the input dataset.
type CustomerLoader interface {
	Parse(path string) ([]models.Customer, error)
}

// CustomerSaver writes the enriched customers.
type CustomerSaver interface {
	SaveCustomers(path string, customers []models.Customer) error
}

// Pipeline wires the stages together. It holds no state between runs.
type Pipeline struct {
	loader       CustomerLoader
	templates    templategen.TemplateSource
	personalizer *personalizer.Personalizer
	saver        CustomerSaver
	logger       logging.Logger
}

// New creates a Pipeline.
func New(loader CustomerLoader, templates templategen.TemplateSource, p *personalizer.Personalizer, saver CustomerSaver, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if p == nil {
		p = personalizer.NewPersonalizer(logger)
	}
	return &Pipeline{
		loader:       loader,
		templates:    templates,
		personalizer: p,
		saver:        saver,
		logger:       logger,
	}
}

// Run executes one batch from inputPath to outputPath and returns the
// enriched customers. Load, format and persist failures abort the run;
// generation failures never do.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) ([]models.Customer, error) {
	start := time.Now()
	log := p.logger.WithField(logging.FieldRunID, uuid.NewString())

	log.Info("Extracting customers", stage(StageLoad), logging.F(logging.FieldInputFile, inputPath))
	customers, err := p.loader.Parse(inputPath)
	if err != nil {
		log.WithError(err).Error("Failed to load customers", stage(StageLoad))
		return nil, err
	}
	log.Info("Customers loaded", stage(StageLoad),
		logging.F(logging.FieldCount, len(customers)),
		logging.F(logging.FieldCustomers, names(customers)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segments := segmenter.ClassifyAll(customers)
	distinct := templategen.DistinctSegments(segments)
	log.Info("Segments identified", stage(StageClassify), logging.F(logging.FieldSegments, segmentNames(distinct)))

	templates := templategen.BuildTemplateMap(ctx, p.templates, segments)
	log.Info("Templates resolved", stage(StageGenerate), logging.F(logging.FieldCount, len(templates)))

	if err := p.personalizer.Attach(customers, segments, templates); err != nil {
		log.WithError(err).Error("Failed to personalize messages", stage(StagePersonalize))
		return nil, err
	}
	log.Info("News attached", stage(StagePersonalize), logging.F(logging.FieldCount, len(customers)))

	if err := p.saver.SaveCustomers(outputPath, customers); err != nil {
		log.WithError(err).Error("Failed to save results", stage(StagePersist))
		return nil, err
	}
	log.Info(fmt.Sprintf("File %s saved successfully", outputPath), stage(StagePersist),
		logging.F(logging.FieldOutputFile, outputPath),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return customers, nil
}

func stage(name string) logging.Field {
	return logging.F(logging.FieldStage, name)
}

func names(customers []models.Customer) []string {
	out := make([]string, len(customers))
	for i, c := range customers {
		out[i] = c.Name
	}
	return out
}

func segmentNames(segments []models.Segment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.String()
	}
	return out
}
