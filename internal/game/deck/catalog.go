package deck

import (
	_ "embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogSize is the number of cards in the standard deck.
const CatalogSize = 30

// yamlCatalogFile is the top-level YAML structure for the catalog.
type yamlCatalogFile struct {
	Cards []yamlCard `yaml:"cards"`
}

// yamlCard is the YAML representation of one play card.
type yamlCard struct {
	ID        int                `yaml:"id"`
	Name      string             `yaml:"name"`
	Type      string             `yaml:"type"`
	Targets   []string           `yaml:"targets"`
	Outcomes  map[string]Payout  `yaml:"outcomes"`
	FailYards int                `yaml:"fail_yards"`
	Bonus     *Bonus             `yaml:"bonus"`
	RiskTag   string             `yaml:"risk_tag"`
}

// UnmarshalYAML decodes a payout scalar: the literal "TD" means touchdown,
// anything else must be a yardage integer.
func (p *Payout) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("payout must be a scalar, got %v", node.Kind)
	}
	if node.Value == "TD" {
		*p = Payout{Touchdown: true}
		return nil
	}
	yards, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("payout must be an integer or \"TD\", got %q", node.Value)
	}
	*p = Payout{Yards: yards}
	return nil
}

// Catalog is the validated, immutable set of play cards.
type Catalog struct {
	cards []PlayCard
	byID  map[int]PlayCard
}

// LoadCatalog parses and validates a catalog from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalog schema.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalog(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if len(file.Cards) == 0 {
		return nil, fmt.Errorf("catalog contains no cards")
	}

	cat := &Catalog{
		cards: make([]PlayCard, 0, len(file.Cards)),
		byID:  make(map[int]PlayCard, len(file.Cards)),
	}
	for _, yc := range file.Cards {
		card := PlayCard{
			ID:        yc.ID,
			Name:      yc.Name,
			Type:      PlayType(yc.Type),
			Targets:   make([]Pattern, 0, len(yc.Targets)),
			Outcomes:  make(map[Pattern]Payout, len(yc.Outcomes)),
			FailYards: yc.FailYards,
			Bonus:     yc.Bonus,
			RiskTag:   yc.RiskTag,
		}
		for _, t := range yc.Targets {
			card.Targets = append(card.Targets, Pattern(t))
		}
		for k, v := range yc.Outcomes {
			card.Outcomes[Pattern(k)] = v
		}
		if err := card.validate(); err != nil {
			return nil, fmt.Errorf("validating catalog: %w", err)
		}
		if _, dup := cat.byID[card.ID]; dup {
			return nil, fmt.Errorf("validating catalog: duplicate card id %d", card.ID)
		}
		cat.cards = append(cat.cards, card)
		cat.byID[card.ID] = card
	}
	return cat, nil
}

// DefaultCatalog loads the embedded 30-card standard deck.
//
// Postcondition: Returns a Catalog with exactly CatalogSize cards, or an error
// if the embedded data is corrupt.
func DefaultCatalog() (*Catalog, error) {
	cat, err := LoadCatalog(catalogYAML)
	if err != nil {
		return nil, err
	}
	if cat.Size() != CatalogSize {
		return nil, fmt.Errorf("embedded catalog has %d cards, want %d", cat.Size(), CatalogSize)
	}
	return cat, nil
}

// Size returns the number of cards in the catalog.
func (c *Catalog) Size() int { return len(c.cards) }

// Cards returns the catalog cards in id order. Callers must treat the result
// as read-only; use Clone before modifying a card.
func (c *Catalog) Cards() []PlayCard { return c.cards }

// ByID looks up a card by id.
//
// Postcondition: Returns the card and true, or a zero card and false.
func (c *Catalog) ByID(id int) (PlayCard, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// IDs returns all card ids in catalog order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.cards))
	for i, card := range c.cards {
		ids[i] = card.ID
	}
	return ids
}
