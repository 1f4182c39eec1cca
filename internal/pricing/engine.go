package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/sweetstack/cakepricer/internal/models"
)

const (
	allowanceRuleKey = "gumpaste_allowance"
	defaultAllowance = 100.0

	dripRuleKey      = "drip_per_tier"
	baseBoardRuleKey = "gumpaste_base_board"

	itemKeyDrip      = "icing_drip"
	itemKeyBaseBoard = "icing_gumpasteBaseBoard"
)

// Engine prices an AI-decomposed cake design against the rule table. A single
// Price call is one synchronous pass: toppers, support elements, messages,
// icing, then the allowance aggregation.
type Engine struct {
	cache *RuleCache
}

func NewEngine(cache *RuleCache) *Engine {
	return &Engine{cache: cache}
}

// Price computes the add-on price and per-element breakdown for a design.
// Elements without a matching rule price at zero rather than failing; the
// only error path is an unpopulated rule cache whose fetch failed.
func (e *Engine) Price(ctx context.Context, design models.DesignState) (*models.QuoteResult, error) {
	rules, err := e.cache.Rules(ctx)
	if err != nil {
		return nil, fmt.Errorf("pricing unavailable: %w", err)
	}

	tierCount := design.CakeInfo.TierCount()
	isBento := design.CakeInfo.Type == models.CakeTypeBento

	var breakdown []models.BreakdownLine
	itemPrices := make(map[string]float64)

	var heroGumpasteTotal, supportGumpasteRawTotal, nonGumpasteTotal float64

	gumpasteAllowance := defaultAllowance
	if rule := resolveRule(rules, allowanceRuleKey, "", "", models.CategorySpecial); rule != nil && rule.Price != 0 {
		gumpasteAllowance = rule.Price
	}

	for _, topper := range design.MainToppers {
		if !topper.IsEnabled {
			itemPrices[topper.ID] = 0
			continue
		}

		var price float64
		if rule := resolveRule(rules, topper.Type, topper.Size, topper.Subtype, models.CategoryMainTopper); rule != nil {
			price = scaleByQuantity(rule, topper.Quantity, topper.Description)

			if rule.MultiplierRule == models.MultiplierTierCount {
				price *= float64(tierCount)
			}
			if rule.SpecialConditions.BentoPrice != nil && isBento {
				price = *rule.SpecialConditions.BentoPrice
			}

			switch rule.Classification {
			case models.ClassificationHero:
				heroGumpasteTotal += price
			case models.ClassificationSupport:
				supportGumpasteRawTotal += price
			default:
				nonGumpasteTotal += price
			}
		}

		itemPrices[topper.ID] = price
		if price > 0 {
			breakdown = append(breakdown, models.BreakdownLine{Item: topper.Description, Price: price})
		}
	}

	for _, element := range design.SupportElements {
		if !element.IsEnabled {
			itemPrices[element.ID] = 0
			continue
		}

		var price float64
		if rule := resolveRule(rules, element.Type, element.EffectiveSize(), element.Subtype, models.CategorySupportElement); rule != nil {
			price = rule.Price
			if rule.MultiplierRule == models.MultiplierTierCount {
				price *= float64(tierCount)
			}

			if rule.SpecialConditions.AllowanceEligible {
				supportGumpasteRawTotal += price
			} else {
				nonGumpasteTotal += price
			}
		}

		itemPrices[element.ID] = price
		if price > 0 {
			breakdown = append(breakdown, models.BreakdownLine{Item: element.Description, Price: price})
		}
	}

	for _, message := range design.CakeMessages {
		var price float64
		if message.IsEnabled {
			if rule := resolveRule(rules, message.Type, "", "", models.CategoryMessage); rule != nil {
				price = rule.Price
				if rule.SpecialConditions.AllowanceEligible {
					supportGumpasteRawTotal += price
				} else {
					nonGumpasteTotal += price
				}
				// A resolved message always gets a breakdown line, even at
				// zero; the line itself is meaningful to the customer.
				breakdown = append(breakdown, models.BreakdownLine{
					Item:  fmt.Sprintf("%q (%s)", message.Text, message.Type),
					Price: price,
				})
			}
		}
		itemPrices[message.ID] = price
	}

	if design.IcingDesign.Drip {
		if rule := resolveRule(rules, dripRuleKey, "", "", models.CategoryIcingFeature); rule != nil {
			dripPrice := rule.Price * float64(tierCount)
			nonGumpasteTotal += dripPrice
			breakdown = append(breakdown, models.BreakdownLine{Item: "Drip Effect", Price: dripPrice})
			itemPrices[itemKeyDrip] = dripPrice
		}
	} else {
		itemPrices[itemKeyDrip] = 0
	}

	if design.IcingDesign.GumpasteBaseBoard {
		if rule := resolveRule(rules, baseBoardRuleKey, "", "", models.CategoryIcingFeature); rule != nil {
			nonGumpasteTotal += rule.Price
			breakdown = append(breakdown, models.BreakdownLine{Item: "Gumpaste Covered Base Board", Price: rule.Price})
			itemPrices[itemKeyBaseBoard] = rule.Price
		}
	} else {
		itemPrices[itemKeyBaseBoard] = 0
	}

	// A fixed allowance of support gumpaste is bundled into the base cake
	// price; only support spend beyond it is charged. Hero items are always
	// charged in full.
	allowanceApplied := math.Min(gumpasteAllowance, supportGumpasteRawTotal)
	supportGumpasteCharge := math.Max(0, supportGumpasteRawTotal-gumpasteAllowance)

	if allowanceApplied > 0 {
		breakdown = append(breakdown, models.BreakdownLine{Item: "Gumpaste Allowance", Price: -allowanceApplied})
	}

	return &models.QuoteResult{
		AddOnPricing: models.AddOnPricing{
			AddOnPrice: heroGumpasteTotal + supportGumpasteCharge + nonGumpasteTotal,
			Breakdown:  breakdown,
		},
		ItemPrices: itemPrices,
	}, nil
}

// scaleByQuantity applies the rule's quantity scaling to its base price.
func scaleByQuantity(rule *models.PricingRule, quantity int, description string) float64 {
	switch rule.QuantityRule {
	case models.QuantityPerPiece:
		return rule.Price * float64(quantity)
	case models.QuantityPer3:
		return math.Ceil(float64(quantity)/3) * rule.Price
	case models.QuantityBuy3Get1:
		qty := quantity
		if qty < 1 {
			qty = 1
		}
		freeItems := qty / 3
		return rule.Price*float64(qty) - float64(freeItems)*rule.Price
	case models.QuantityPerDigit:
		return float64(digitCount(description)) * rule.Price
	}
	return rule.Price
}

// digitCount counts decimal digits in a topper description ("Happy 21st" has
// two); per_digit rules charge per numeral, minimum one.
func digitCount(description string) int {
	count := 0
	for _, r := range description {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}
