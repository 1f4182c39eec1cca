package pricing

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sweetstack/cakepricer/internal/models"
)

type stubSource struct {
	rules []models.PricingRule
	err   error
	calls int
}

func (s *stubSource) GetActiveRules(ctx context.Context) ([]models.PricingRule, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rules, nil
}

func newTestEngine(rules ...models.PricingRule) *Engine {
	return NewEngine(NewRuleCache(&stubSource{rules: rules}, 0))
}

func findBreakdown(result *models.QuoteResult, item string) (models.BreakdownLine, bool) {
	for _, line := range result.AddOnPricing.Breakdown {
		if line.Item == item {
			return line, true
		}
	}
	return models.BreakdownLine{}, false
}

func singleTopperDesign(topper models.MainTopper, cakeType models.CakeType) models.DesignState {
	return models.DesignState{
		MainToppers: []models.MainTopper{topper},
		CakeInfo:    models.CakeInfo{Type: cakeType},
	}
}

func TestSingleTopperSizedRule(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "candle_small", ItemType: "candle", Size: "small",
		Category: models.CategoryMainTopper, Price: 50,
		QuantityRule: models.QuantityNone, IsActive: true,
	})

	design := singleTopperDesign(models.MainTopper{
		ID: "t1", IsEnabled: true, Type: "candle", Size: "small",
		Quantity: 1, Description: "Birthday candle",
	}, "1 Tier")

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["t1"]; got != 50 {
		t.Errorf("item price = %v, want 50", got)
	}
	line, ok := findBreakdown(result, "Birthday candle")
	if !ok || line.Price != 50 {
		t.Errorf("breakdown line = %+v (found=%v), want {Birthday candle 50}", line, ok)
	}
	if result.AddOnPricing.AddOnPrice != 50 {
		t.Errorf("addOnPrice = %v, want 50", result.AddOnPricing.AddOnPrice)
	}
}

func TestDisabledElementsPriceZero(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "candle", ItemType: "candle",
		Category: models.CategoryMainTopper, Price: 50, IsActive: true,
	})

	design := models.DesignState{
		MainToppers: []models.MainTopper{
			{ID: "t1", IsEnabled: false, Type: "candle", Quantity: 2, Description: "Candles"},
		},
		SupportElements: []models.SupportElement{
			{ID: "s1", IsEnabled: false, Type: "sprinkles", Description: "Sprinkles"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	for _, id := range []string{"t1", "s1"} {
		if got := result.ItemPrices[id]; got != 0 {
			t.Errorf("disabled element %s priced at %v, want 0", id, got)
		}
	}
	if len(result.AddOnPricing.Breakdown) != 0 {
		t.Errorf("breakdown = %+v, want empty", result.AddOnPricing.Breakdown)
	}
}

func TestPer3PiecesCeiling(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "meringue_pops", ItemType: "meringue_pops",
		Category: models.CategoryMainTopper, Price: 100,
		QuantityRule: models.QuantityPer3, IsActive: true,
	})

	cases := []struct {
		quantity int
		want     float64
	}{
		{1, 100}, {2, 100}, {3, 100},
		{4, 200}, {5, 200}, {6, 200},
		{7, 300}, {8, 300}, {9, 300},
	}
	for _, tc := range cases {
		design := singleTopperDesign(models.MainTopper{
			ID: "t1", IsEnabled: true, Type: "meringue_pops",
			Quantity: tc.quantity, Description: "Meringue pops",
		}, "1 Tier")

		result, err := engine.Price(context.Background(), design)
		if err != nil {
			t.Fatalf("Price returned error: %v", err)
		}
		if got := result.ItemPrices["t1"]; got != tc.want {
			t.Errorf("quantity %d priced at %v, want %v", tc.quantity, got, tc.want)
		}
	}
}

func TestPerPieceQuantity(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "macaron", ItemType: "macaron",
		Category: models.CategoryMainTopper, Price: 15,
		QuantityRule: models.QuantityPerPiece, IsActive: true,
	})

	design := singleTopperDesign(models.MainTopper{
		ID: "t1", IsEnabled: true, Type: "macaron", Quantity: 4, Description: "Macarons",
	}, "1 Tier")

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["t1"]; got != 60 {
		t.Errorf("per_piece price = %v, want 60", got)
	}
}

func TestPerDigitQuantity(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "number_topper", ItemType: "number_topper",
		Category: models.CategoryMainTopper, Price: 80,
		QuantityRule: models.QuantityPerDigit, IsActive: true,
	})

	cases := []struct {
		description string
		want        float64
	}{
		{"Number 21 topper", 160},
		{"Gold number 7", 80},
		{"Number topper", 80}, // no digits still charges one
	}
	for _, tc := range cases {
		design := singleTopperDesign(models.MainTopper{
			ID: "t1", IsEnabled: true, Type: "number_topper",
			Quantity: 1, Description: tc.description,
		}, "1 Tier")

		result, err := engine.Price(context.Background(), design)
		if err != nil {
			t.Fatalf("Price returned error: %v", err)
		}
		if got := result.ItemPrices["t1"]; got != tc.want {
			t.Errorf("description %q priced at %v, want %v", tc.description, got, tc.want)
		}
	}
}

func TestBuy3Get1Free(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "chocolates", ItemType: "chocolates",
		Category: models.CategoryMainTopper, Price: 10,
		QuantityRule: models.QuantityBuy3Get1, IsActive: true,
	})

	cases := []struct {
		quantity int
		want     float64
	}{
		{1, 10}, {2, 20}, {3, 20}, {6, 40}, {7, 50},
	}
	for _, tc := range cases {
		design := singleTopperDesign(models.MainTopper{
			ID: "t1", IsEnabled: true, Type: "chocolates",
			Quantity: tc.quantity, Description: "Chocolates",
		}, "1 Tier")

		result, err := engine.Price(context.Background(), design)
		if err != nil {
			t.Fatalf("Price returned error: %v", err)
		}
		if got := result.ItemPrices["t1"]; got != tc.want {
			t.Errorf("quantity %d priced at %v, want %v", tc.quantity, got, tc.want)
		}
	}
}

func TestTierCountScaling(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "icing_doodle", ItemType: "icing_doodle",
		Category: models.CategoryMainTopper, Price: 40,
		MultiplierRule: models.MultiplierTierCount, IsActive: true,
	})

	cases := []struct {
		cakeType models.CakeType
		want     float64
	}{
		{"1 Tier", 40},
		{"2 Tier", 80},
		{"3 Tier", 120},
	}
	for _, tc := range cases {
		design := singleTopperDesign(models.MainTopper{
			ID: "t1", IsEnabled: true, Type: "icing_doodle",
			Quantity: 1, Description: "Doodles",
		}, tc.cakeType)

		result, err := engine.Price(context.Background(), design)
		if err != nil {
			t.Fatalf("Price returned error: %v", err)
		}
		if got := result.ItemPrices["t1"]; got != tc.want {
			t.Errorf("cake type %q priced at %v, want %v", tc.cakeType, got, tc.want)
		}
	}
}

func TestBentoPriceOverride(t *testing.T) {
	bento := 25.0
	engine := newTestEngine(models.PricingRule{
		ItemKey: "printout", ItemType: "printout",
		Category: models.CategoryMainTopper, Price: 60,
		QuantityRule:      models.QuantityPerPiece,
		SpecialConditions: models.SpecialConditions{BentoPrice: &bento},
		IsActive:          true,
	})

	topper := models.MainTopper{
		ID: "t1", IsEnabled: true, Type: "printout", Quantity: 3, Description: "Printouts",
	}

	result, err := engine.Price(context.Background(), singleTopperDesign(topper, models.CakeTypeBento))
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	// The override replaces the scaled price outright.
	if got := result.ItemPrices["t1"]; got != 25 {
		t.Errorf("bento price = %v, want 25", got)
	}

	result, err = engine.Price(context.Background(), singleTopperDesign(topper, "1 Tier"))
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["t1"]; got != 180 {
		t.Errorf("non-bento price = %v, want 180", got)
	}
}

func TestAllowanceCapOnSupportBucket(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "sprinkles_medium", ItemType: "sprinkles", Size: "medium",
		Category: models.CategorySupportElement, Price: 150,
		SpecialConditions: models.SpecialConditions{AllowanceEligible: true},
		IsActive:          true,
	})

	design := models.DesignState{
		SupportElements: []models.SupportElement{
			{ID: "s1", IsEnabled: true, Type: "sprinkles", Size: "medium", Description: "Sprinkles"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["s1"]; got != 150 {
		t.Errorf("support element price = %v, want 150", got)
	}
	line, ok := findBreakdown(result, "Gumpaste Allowance")
	if !ok || line.Price != -100 {
		t.Errorf("allowance line = %+v (found=%v), want {Gumpaste Allowance -100}", line, ok)
	}
	if result.AddOnPricing.AddOnPrice != 50 {
		t.Errorf("addOnPrice = %v, want 50", result.AddOnPricing.AddOnPrice)
	}
}

func TestAllowanceNeverNegative(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "sprinkles", ItemType: "sprinkles",
		Category: models.CategorySupportElement, Price: 30,
		SpecialConditions: models.SpecialConditions{AllowanceEligible: true},
		IsActive:          true,
	})

	design := models.DesignState{
		SupportElements: []models.SupportElement{
			{ID: "s1", IsEnabled: true, Type: "sprinkles", Description: "Sprinkles"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	// Spend below the allowance: discount capped at the raw support total and
	// the support charge floors at zero.
	line, ok := findBreakdown(result, "Gumpaste Allowance")
	if !ok || line.Price != -30 {
		t.Errorf("allowance line = %+v (found=%v), want {Gumpaste Allowance -30}", line, ok)
	}
	if result.AddOnPricing.AddOnPrice != 0 {
		t.Errorf("addOnPrice = %v, want 0", result.AddOnPricing.AddOnPrice)
	}
}

func TestHeroExcludedFromAllowance(t *testing.T) {
	heroRule := models.PricingRule{
		ItemKey: "figurine", ItemType: "figurine",
		Category: models.CategoryMainTopper, Price: 500,
		Classification: models.ClassificationHero, IsActive: true,
	}
	supportRule := models.PricingRule{
		ItemKey: "sprinkles", ItemType: "sprinkles",
		Category: models.CategorySupportElement, Price: 150,
		SpecialConditions: models.SpecialConditions{AllowanceEligible: true},
		IsActive:          true,
	}

	design := models.DesignState{
		MainToppers: []models.MainTopper{
			{ID: "t1", IsEnabled: true, Type: "figurine", Quantity: 1, Description: "Figurine"},
		},
		SupportElements: []models.SupportElement{
			{ID: "s1", IsEnabled: true, Type: "sprinkles", Description: "Sprinkles"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	base, err := newTestEngine(heroRule, supportRule).Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}

	raised := heroRule
	raised.Price = 700
	bumped, err := newTestEngine(raised, supportRule).Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}

	// Raising only the hero price moves the total by exactly the delta; the
	// allowance discount is untouched.
	if delta := bumped.AddOnPricing.AddOnPrice - base.AddOnPricing.AddOnPrice; delta != 200 {
		t.Errorf("addOnPrice delta = %v, want 200", delta)
	}
	baseAllowance, _ := findBreakdown(base, "Gumpaste Allowance")
	bumpedAllowance, _ := findBreakdown(bumped, "Gumpaste Allowance")
	if baseAllowance != bumpedAllowance {
		t.Errorf("allowance line changed: %+v vs %+v", baseAllowance, bumpedAllowance)
	}
}

func TestConfiguredAllowanceRule(t *testing.T) {
	engine := newTestEngine(
		models.PricingRule{
			ItemKey: "gumpaste_allowance", ItemType: "gumpaste_allowance",
			Category: models.CategorySpecial, Price: 200, IsActive: true,
		},
		models.PricingRule{
			ItemKey: "sprinkles", ItemType: "sprinkles",
			Category: models.CategorySupportElement, Price: 250,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true},
			IsActive:          true,
		},
	)

	design := models.DesignState{
		SupportElements: []models.SupportElement{
			{ID: "s1", IsEnabled: true, Type: "sprinkles", Description: "Sprinkles"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if result.AddOnPricing.AddOnPrice != 50 {
		t.Errorf("addOnPrice = %v, want 50 (250 support - 200 configured allowance)", result.AddOnPricing.AddOnPrice)
	}
}

func TestSupportElementCoverageFallback(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "gumpaste_bundle_large", ItemType: "gumpaste_bundle", Size: "large",
		Category: models.CategorySupportElement, Price: 120,
		SpecialConditions: models.SpecialConditions{AllowanceEligible: true},
		IsActive:          true,
	})

	design := models.DesignState{
		SupportElements: []models.SupportElement{
			// Legacy payload: coverage populated, size absent.
			{ID: "s1", IsEnabled: true, Type: "gumpaste_bundle", Coverage: "large", Description: "Gumpaste flowers"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["s1"]; got != 120 {
		t.Errorf("coverage fallback price = %v, want 120", got)
	}
}

func TestMessageBreakdownIncludesZeroPrice(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "piped_message", ItemType: "piped_message",
		Category: models.CategoryMessage, Price: 0, IsActive: true,
	})

	design := models.DesignState{
		CakeMessages: []models.CakeMessage{
			{ID: "m1", IsEnabled: true, Type: "piped_message", Text: "Happy Birthday"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	line, ok := findBreakdown(result, `"Happy Birthday" (piped_message)`)
	if !ok || line.Price != 0 {
		t.Errorf("message line = %+v (found=%v), want zero-priced entry", line, ok)
	}
}

func TestMessageWithoutRuleOmitted(t *testing.T) {
	engine := newTestEngine()

	design := models.DesignState{
		CakeMessages: []models.CakeMessage{
			{ID: "m1", IsEnabled: true, Type: "gumpaste_letters", Text: "Congrats"},
		},
		CakeInfo: models.CakeInfo{Type: "1 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["m1"]; got != 0 {
		t.Errorf("unresolved message priced at %v, want 0", got)
	}
	if len(result.AddOnPricing.Breakdown) != 0 {
		t.Errorf("breakdown = %+v, want empty", result.AddOnPricing.Breakdown)
	}
}

func TestDripPricedPerTier(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "drip_per_tier", ItemType: "drip_per_tier",
		Category: models.CategoryIcingFeature, Price: 30, IsActive: true,
	})

	design := models.DesignState{
		IcingDesign: models.IcingDesign{Drip: true},
		CakeInfo:    models.CakeInfo{Type: "2 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["icing_drip"]; got != 60 {
		t.Errorf("drip price = %v, want 60", got)
	}
	line, ok := findBreakdown(result, "Drip Effect")
	if !ok || line.Price != 60 {
		t.Errorf("drip line = %+v (found=%v), want {Drip Effect 60}", line, ok)
	}
}

func TestIcingFlagsOff(t *testing.T) {
	engine := newTestEngine(
		models.PricingRule{
			ItemKey: "drip_per_tier", ItemType: "drip_per_tier",
			Category: models.CategoryIcingFeature, Price: 30, IsActive: true,
		},
		models.PricingRule{
			ItemKey: "gumpaste_base_board", ItemType: "gumpaste_base_board",
			Category: models.CategoryIcingFeature, Price: 150, IsActive: true,
		},
	)

	design := models.DesignState{CakeInfo: models.CakeInfo{Type: "3 Tier"}}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["icing_drip"]; got != 0 {
		t.Errorf("icing_drip = %v, want 0", got)
	}
	if got := result.ItemPrices["icing_gumpasteBaseBoard"]; got != 0 {
		t.Errorf("icing_gumpasteBaseBoard = %v, want 0", got)
	}
	if len(result.AddOnPricing.Breakdown) != 0 {
		t.Errorf("breakdown = %+v, want empty", result.AddOnPricing.Breakdown)
	}
}

func TestGumpasteBaseBoardNotTierScaled(t *testing.T) {
	engine := newTestEngine(models.PricingRule{
		ItemKey: "gumpaste_base_board", ItemType: "gumpaste_base_board",
		Category: models.CategoryIcingFeature, Price: 150, IsActive: true,
	})

	design := models.DesignState{
		IcingDesign: models.IcingDesign{GumpasteBaseBoard: true},
		CakeInfo:    models.CakeInfo{Type: "3 Tier"},
	}

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["icing_gumpasteBaseBoard"]; got != 150 {
		t.Errorf("base board price = %v, want 150", got)
	}
	line, ok := findBreakdown(result, "Gumpaste Covered Base Board")
	if !ok || line.Price != 150 {
		t.Errorf("base board line = %+v (found=%v), want {Gumpaste Covered Base Board 150}", line, ok)
	}
}

func TestMissingRulePricesZeroWithoutError(t *testing.T) {
	engine := newTestEngine()

	design := singleTopperDesign(models.MainTopper{
		ID: "t1", IsEnabled: true, Type: "unicorn_horn", Size: "large",
		Quantity: 1, Description: "Unicorn horn",
	}, "1 Tier")

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if got := result.ItemPrices["t1"]; got != 0 {
		t.Errorf("unmatched topper priced at %v, want 0", got)
	}
	if len(result.AddOnPricing.Breakdown) != 0 {
		t.Errorf("breakdown = %+v, want empty", result.AddOnPricing.Breakdown)
	}
}

func TestPriceIsIdempotent(t *testing.T) {
	engine := newTestEngine(
		models.PricingRule{
			ItemKey: "figurine", ItemType: "figurine",
			Category: models.CategoryMainTopper, Price: 500,
			Classification: models.ClassificationHero, IsActive: true,
		},
		models.PricingRule{
			ItemKey: "sprinkles", ItemType: "sprinkles",
			Category: models.CategorySupportElement, Price: 150,
			SpecialConditions: models.SpecialConditions{AllowanceEligible: true},
			IsActive:          true,
		},
	)

	design := models.DesignState{
		MainToppers: []models.MainTopper{
			{ID: "t1", IsEnabled: true, Type: "figurine", Quantity: 1, Description: "Figurine"},
		},
		SupportElements: []models.SupportElement{
			{ID: "s1", IsEnabled: true, Type: "sprinkles", Description: "Sprinkles"},
		},
		IcingDesign: models.IcingDesign{Drip: false},
		CakeInfo:    models.CakeInfo{Type: "2 Tier"},
	}

	first, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	second, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated pricing differed:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestFetchFailurePropagatesWhenNeverCached(t *testing.T) {
	source := &stubSource{err: errors.New("store unreachable")}
	engine := NewEngine(NewRuleCache(source, 0))

	design := models.DesignState{CakeInfo: models.CakeInfo{Type: "1 Tier"}}

	if _, err := engine.Price(context.Background(), design); err == nil {
		t.Fatal("expected error when rule fetch fails with empty cache")
	}

	// Store recovers; the next call succeeds and populates the cache.
	source.err = nil
	source.rules = []models.PricingRule{{
		ItemKey: "drip_per_tier", ItemType: "drip_per_tier",
		Category: models.CategoryIcingFeature, Price: 30, IsActive: true,
	}}
	design.IcingDesign.Drip = true

	result, err := engine.Price(context.Background(), design)
	if err != nil {
		t.Fatalf("Price returned error after recovery: %v", err)
	}
	if got := result.ItemPrices["icing_drip"]; got != 30 {
		t.Errorf("drip price = %v, want 30", got)
	}
}
