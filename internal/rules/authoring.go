package rules

import (
	"context"
	"strings"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"

	"github.com/shopspring/decimal"
)

// RuleSpec describes a rule to author. A nil Priority means the default and
// a nil Active means enabled.
type RuleSpec struct {
	Pattern   string
	Category  string
	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
	Priority  *int
	Active    *bool
}

// CreateRule validates spec and stores the rule.
func (e *Engine) CreateRule(ctx context.Context, spec RuleSpec) (models.Rule, error) {
	var created models.Rule
	err := e.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		created, err = CreateRule(ctx, q, spec)
		return err
	})
	if err != nil {
		return models.Rule{}, err
	}
	e.logger.Info("Created rule",
		logging.F(logging.FieldRuleID, created.ID),
		logging.F(logging.FieldCategory, created.CategoryName))
	return created, nil
}

// CreateRule validates spec and stores the rule inside a unit of work.
func CreateRule(ctx context.Context, q *store.Queries, spec RuleSpec) (models.Rule, error) {
	if strings.TrimSpace(spec.Pattern) == "" {
		return models.Rule{}, ledgererror.Invalid("rule pattern must not be empty")
	}
	if _, err := CompilePattern(spec.Pattern); err != nil {
		return models.Rule{}, err
	}
	for _, bound := range []*decimal.Decimal{spec.AmountMin, spec.AmountMax} {
		if bound == nil {
			continue
		}
		if err := models.CheckRange(bound.Round(models.MoneyPlaces)); err != nil {
			return models.Rule{}, err
		}
	}
	if spec.AmountMin != nil && spec.AmountMax != nil && spec.AmountMin.GreaterThan(*spec.AmountMax) {
		return models.Rule{}, ledgererror.Invalid("amount_min %s is greater than amount_max %s",
			models.FormatAmount(*spec.AmountMin), models.FormatAmount(*spec.AmountMax))
	}

	category, err := q.GetCategoryByName(ctx, spec.Category)
	if err != nil {
		return models.Rule{}, err
	}

	r := models.Rule{
		Pattern:      spec.Pattern,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		AmountMin:    roundPtr(spec.AmountMin),
		AmountMax:    roundPtr(spec.AmountMax),
		Priority:     models.DefaultRulePriority,
		Active:       true,
	}
	if spec.Priority != nil {
		r.Priority = *spec.Priority
	}
	if spec.Active != nil {
		r.Active = *spec.Active
	}

	r.ID, err = q.InsertRule(ctx, r)
	if err != nil {
		return models.Rule{}, err
	}
	return r, nil
}

// ListRules returns every rule in evaluation order.
func (e *Engine) ListRules(ctx context.Context) ([]models.Rule, error) {
	return e.store.ListRules(ctx, false)
}

// SetActive enables or disables a rule.
func (e *Engine) SetActive(ctx context.Context, ruleID int64, active bool) error {
	if err := e.store.SetRuleActive(ctx, ruleID, active); err != nil {
		return err
	}
	e.logger.Info("Updated rule",
		logging.F(logging.FieldRuleID, ruleID),
		logging.F("active", active))
	return nil
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(models.MoneyPlaces)
	return &r
}
