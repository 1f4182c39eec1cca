package factories

import (
	"github.com/lucsky/cuid"
	"github.com/sweetstack/cakepricer/internal/models"
)

// DefaultPricingRules is the starter rule catalog used by the seed command
// when no rules file is supplied. Prices are in the shop's default currency.
func DefaultPricingRules() []models.PricingRule {
	bentoPrintout := 25.0

	rules := []models.PricingRule{
		{ItemKey: "candle_small", ItemType: "candle", Size: "small", Category: models.CategoryMainTopper, Price: 50},
		{ItemKey: "candle_medium", ItemType: "candle", Size: "medium", Category: models.CategoryMainTopper, Price: 80},
		{ItemKey: "candle_large", ItemType: "candle", Size: "large", Category: models.CategoryMainTopper, Price: 120},
		{ItemKey: "number_topper", ItemType: "number_topper", Category: models.CategoryMainTopper, Price: 150, QuantityRule: models.QuantityPerDigit},
		{ItemKey: "printout", ItemType: "printout", Category: models.CategoryMainTopper, Price: 60, QuantityRule: models.QuantityPerPiece,
			SpecialConditions: models.SpecialConditions{BentoPrice: &bentoPrintout}},
		{ItemKey: "figurine", ItemType: "figurine", Category: models.CategoryMainTopper, Price: 500, Classification: models.ClassificationHero},
		{ItemKey: "edible_photo", ItemType: "edible_photo", Category: models.CategoryMainTopper, Price: 200},
		{ItemKey: "meringue_pops", ItemType: "meringue_pops", Category: models.CategoryMainTopper, Price: 100, QuantityRule: models.QuantityPer3},
		{ItemKey: "macaron", ItemType: "macaron", Category: models.CategoryMainTopper, Price: 45, QuantityRule: models.QuantityPerPiece},
		{ItemKey: "chocolates", ItemType: "chocolates", Category: models.CategoryMainTopper, Price: 35, QuantityRule: models.QuantityBuy3Get1},
		{ItemKey: "edible_2d_shapes", ItemType: "edible_2d_shapes", Category: models.CategoryMainTopper, Price: 180, Classification: models.ClassificationHero},

		{ItemKey: "sprinkles_small", ItemType: "sprinkles", Size: "small", Category: models.CategorySupportElement, Price: 60,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},
		{ItemKey: "sprinkles_medium", ItemType: "sprinkles", Size: "medium", Category: models.CategorySupportElement, Price: 100,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},
		{ItemKey: "sprinkles_large", ItemType: "sprinkles", Size: "large", Category: models.CategorySupportElement, Price: 150,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},
		{ItemKey: "gumpaste_bundle", ItemType: "gumpaste_bundle", Category: models.CategorySupportElement, Price: 120,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},
		{ItemKey: "gumpaste_balls", ItemType: "gumpaste_balls", Category: models.CategorySupportElement, Price: 80,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},
		{ItemKey: "chocolate_shards", ItemType: "chocolate_shards", Category: models.CategorySupportElement, Price: 90},
		{ItemKey: "edible_2d_support", ItemType: "edible_2d_support", Category: models.CategorySupportElement, Price: 70,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},

		{ItemKey: "piped_message", ItemType: "piped_message", Category: models.CategoryMessage, Price: 0},
		{ItemKey: "gumpaste_letters", ItemType: "gumpaste_letters", Category: models.CategoryMessage, Price: 120,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true}},
		{ItemKey: "printed_message", ItemType: "printed_message", Category: models.CategoryMessage, Price: 80},

		{ItemKey: "drip_per_tier", ItemType: "drip_per_tier", Category: models.CategoryIcingFeature, Price: 30},
		{ItemKey: "gumpaste_base_board", ItemType: "gumpaste_base_board", Category: models.CategoryIcingFeature, Price: 150},

		{ItemKey: "gumpaste_allowance", ItemType: "gumpaste_allowance", Category: models.CategorySpecial, Price: 100},
	}

	for i := range rules {
		rules[i].ID = cuid.New()
		rules[i].IsActive = true
		if rules[i].QuantityRule == "" {
			rules[i].QuantityRule = models.QuantityNone
		}
		if rules[i].MultiplierRule == "" {
			rules[i].MultiplierRule = models.MultiplierNone
		}
		if rules[i].Classification == "" {
			rules[i].Classification = models.ClassificationNone
		}
	}
	return rules
}
