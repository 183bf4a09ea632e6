// Package personalizer turns segment templates into per-customer messages.
package personalizer

import (
	"fmt"
	"strings"

	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/models"
)

// GenericName replaces a blank customer name.
const GenericName = "customer"

// Personalizer builds the news message attached to each customer.
type Personalizer struct {
	icon   string
	logger logging.Logger
}

// NewPersonalizer creates a Personalizer that attaches messages with the
// default news icon.
func NewPersonalizer(logger logging.Logger) *Personalizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Personalizer{
		icon:   models.DefaultNewsIcon,
		logger: logger,
	}
}

// Personalize renders tpl for c. The description never exceeds
// models.MaxMessageLength characters.
func (p *Personalizer) Personalize(c models.Customer, tpl models.Template) (models.Message, error) {
	text, err := Render(tpl, displayName(c.Name))
	if err != nil {
		return models.Message{}, err
	}

	return models.Message{
		Icon:        p.icon,
		Description: Truncate(text, models.MaxMessageLength),
	}, nil
}

// displayName keeps the raw placeholder out of rendered text.
func displayName(raw string) string {
	name := raw
	for strings.Contains(name, models.Placeholder) {
		name = strings.ReplaceAll(name, models.Placeholder, "")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return GenericName
	}
	return name
}

// Attach appends exactly one message to every customer. segments must be
// index-aligned with customers and every segment must be present in
// templates.
func (p *Personalizer) Attach(customers []models.Customer, segments []models.Segment, templates models.TemplateMap) error {
	if len(customers) != len(segments) {
		return fmt.Errorf("got %d segments for %d customers", len(segments), len(customers))
	}

	for i := range customers {
		tpl, ok := templates.Get(segments[i])
		if !ok {
			return fmt.Errorf("no template resolved for segment %s (customer %d)", segments[i], customers[i].ID)
		}

		msg, err := p.Personalize(customers[i], tpl)
		if err != nil {
			return fmt.Errorf("personalize customer %d: %w", customers[i].ID, err)
		}
		customers[i].AddNews(msg)

		p.logger.Debug("Attached news to customer",
			logging.F(logging.FieldCustomerID, customers[i].ID),
			logging.F(logging.FieldSegment, segments[i].String()))
	}
	return nil
}
