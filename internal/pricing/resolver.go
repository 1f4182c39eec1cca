package pricing

import (
	"log"
	"strings"

	"github.com/sweetstack/cakepricer/internal/models"
)

// effectiveType maps legacy analysis type names onto current rule keys.
// edible_2d_gumpaste predates the topper/support catalog split.
func effectiveType(itemType string, category models.RuleCategory) string {
	if itemType == "edible_2d_gumpaste" {
		if category == models.CategoryMainTopper {
			return "edible_2d_shapes"
		}
		return "edible_2d_support"
	}
	return itemType
}

// resolveRule finds the best-matching rule for an element. Lookup order:
//
//  1. composite subtype key "{type}_{subtype}", first rule wins
//  2. composite size key "{type}_{size}", first rule wins
//  3. bare "{type}" key; for message/icing_feature/special lookups rules
//     carrying the requested category are preferred, then a case-insensitive
//     size match, then the first rule under the key
//
// Pricing admins can therefore define either size-specific or flat rules per
// item type without schema changes. A miss is not an error: the caller prices
// the element at zero and leaves it out of the breakdown.
func resolveRule(rules map[string][]models.PricingRule, itemType, size, subtype string, category models.RuleCategory) *models.PricingRule {
	typ := effectiveType(itemType, category)

	if subtype != "" {
		if list := rules[typ+"_"+subtype]; len(list) > 0 {
			return &list[0]
		}
	}

	if size != "" {
		if list := rules[typ+"_"+size]; len(list) > 0 {
			return &list[0]
		}
	}

	candidates := rules[typ]
	if category == models.CategoryMessage || category == models.CategoryIcingFeature || category == models.CategorySpecial {
		var matching []models.PricingRule
		for _, r := range candidates {
			if r.Category == category {
				matching = append(matching, r)
			}
		}
		if len(matching) > 0 {
			candidates = matching
		}
	}

	if len(candidates) == 0 {
		log.Printf("No pricing rule found for: type=%q (mapped to %q), size=%q, subtype=%q, category=%q",
			itemType, typ, size, subtype, category)
		return nil
	}

	if size != "" {
		for i := range candidates {
			if candidates[i].Size != "" && strings.EqualFold(candidates[i].Size, size) {
				return &candidates[i]
			}
		}
	}
	return &candidates[0]
}
