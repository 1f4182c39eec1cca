package models

// RuleCategory identifies which design-element catalog a pricing rule belongs to.
type RuleCategory string

const (
	CategoryMainTopper     RuleCategory = "main_topper"
	CategorySupportElement RuleCategory = "support_element"
	CategoryMessage        RuleCategory = "message"
	CategoryIcingFeature   RuleCategory = "icing_feature"
	CategorySpecial        RuleCategory = "special"
)

// QuantityRule controls how an element's quantity scales the rule price.
type QuantityRule string

const (
	QuantityNone     QuantityRule = "none"
	QuantityPerPiece QuantityRule = "per_piece"
	QuantityPer3     QuantityRule = "per_3_pieces"
	QuantityPerDigit QuantityRule = "per_digit"
	QuantityBuy3Get1 QuantityRule = "buy_3_get_1_free"
)

// MultiplierRule controls cake-level price multipliers.
type MultiplierRule string

const (
	MultiplierNone      MultiplierRule = "none"
	MultiplierTierCount MultiplierRule = "tier_count"
)

// Classification is the topper's role in the design. Hero items are the
// primary feature and are never discounted; support items feed the
// gumpaste-allowance bucket.
type Classification string

const (
	ClassificationHero    Classification = "hero"
	ClassificationSupport Classification = "support"
	ClassificationNone    Classification = "none"
)

// SpecialConditions holds the per-rule override flags. Only two conditions
// exist; they are stored as JSONB in the pricing_rules table.
type SpecialConditions struct {
	// BentoPrice replaces the fully scaled price when the cake type is Bento.
	BentoPrice *float64 `json:"bento_price,omitempty"`
	// AllowanceEligible routes the amount into the gumpaste-allowance bucket.
	AllowanceEligible bool `json:"allowance_eligible,omitempty"`
}

// PricingRule is one priced line-item definition from the pricing_rules table.
// ItemKey is the lookup key: either the bare item type ("candle") or a
// composite ("candle_small"). Several rules may share a key.
type PricingRule struct {
	ID                string            `json:"id"`
	ItemKey           string            `json:"item_key"`
	ItemType          string            `json:"item_type"`
	Size              string            `json:"size"`
	Category          RuleCategory      `json:"category"`
	Price             float64           `json:"price"`
	QuantityRule      QuantityRule      `json:"quantity_rule"`
	MultiplierRule    MultiplierRule    `json:"multiplier_rule"`
	Classification    Classification    `json:"classification"`
	SpecialConditions SpecialConditions `json:"special_conditions"`
	IsActive          bool              `json:"is_active"`
}
