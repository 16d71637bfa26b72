package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/rules"
	"fjacquet/finledger/internal/store"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rulebook is a user-authored YAML file of categories and rules.
type Rulebook struct {
	Categories []CategoryEntry `yaml:"categories"`
	Rules      []RuleEntry     `yaml:"rules"`
}

// CategoryEntry declares a category and its optional parent.
type CategoryEntry struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`
}

// RuleEntry declares a rule. Amount bounds are decimal strings so that they
// never pass through a float.
type RuleEntry struct {
	Pattern   string `yaml:"pattern"`
	Category  string `yaml:"category"`
	AmountMin string `yaml:"amount_min,omitempty"`
	AmountMax string `yaml:"amount_max,omitempty"`
	Priority  *int   `yaml:"priority,omitempty"`
	Active    *bool  `yaml:"active,omitempty"`
}

// LoadRulebook reads and parses a rulebook file.
func LoadRulebook(path string) (*Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rulebook %s: %w", path, err)
	}
	return ParseRulebook(data)
}

// ParseRulebook parses rulebook YAML.
func ParseRulebook(data []byte) (*Rulebook, error) {
	var book Rulebook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("error parsing rulebook: %w", err)
	}
	for i, c := range book.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, ledgererror.Invalid("rulebook category %d has no name", i+1)
		}
	}
	return &book, nil
}

// ApplyRulebook creates the missing categories of book, in file order, and
// inserts its rules. Existing categories are left as they are. Either
// everything is stored or nothing is.
func ApplyRulebook(ctx context.Context, s *store.Store, book *Rulebook, logger logging.Logger) (Summary, error) {
	logger = logging.OrDiscard(logger)

	specs := make([]rules.RuleSpec, 0, len(book.Rules))
	for i, r := range book.Rules {
		spec, err := r.spec()
		if err != nil {
			return Summary{}, fmt.Errorf("rulebook rule %d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}

	var sum Summary
	err := s.WithTx(ctx, func(q *store.Queries) error {
		for _, c := range book.Categories {
			created, err := ensureCategory(ctx, q, c.Name, c.Parent)
			if err != nil {
				return err
			}
			if created {
				sum.Categories++
			}
		}
		for i, spec := range specs {
			if _, err := rules.CreateRule(ctx, q, spec); err != nil {
				return fmt.Errorf("rulebook rule %d: %w", i+1, err)
			}
			sum.Rules++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	logger.Info("Applied rulebook",
		logging.F("categories_created", sum.Categories),
		logging.F("rules_created", sum.Rules))
	return sum, nil
}

func (r RuleEntry) spec() (rules.RuleSpec, error) {
	spec := rules.RuleSpec{
		Pattern:  r.Pattern,
		Category: r.Category,
		Priority: r.Priority,
		Active:   r.Active,
	}
	var err error
	if spec.AmountMin, err = optionalAmount(r.AmountMin); err != nil {
		return rules.RuleSpec{}, err
	}
	if spec.AmountMax, err = optionalAmount(r.AmountMax); err != nil {
		return rules.RuleSpec{}, err
	}
	return spec, nil
}

func optionalAmount(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := models.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
