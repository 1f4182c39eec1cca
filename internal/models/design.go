package models

import "strings"

// CakeType encodes tier count and shape, e.g. "1 Tier", "2 Tier", "Bento".
type CakeType string

const CakeTypeBento CakeType = "Bento"

// MainTopper is the primary decorative feature identified by the vision
// analysis (figurine, number, printout, candle, ...).
type MainTopper struct {
	ID          string `json:"id"`
	IsEnabled   bool   `json:"isEnabled"`
	Type        string `json:"type"`
	Subtype     string `json:"subtype,omitempty"`
	Size        string `json:"size,omitempty"` // tiny/small/medium/large
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// SupportElement is secondary decoration (sprinkles, balls, shards, ...).
// Older analysis payloads report coverage instead of size.
type SupportElement struct {
	ID          string `json:"id"`
	IsEnabled   bool   `json:"isEnabled"`
	Type        string `json:"type"`
	Subtype     string `json:"subtype,omitempty"`
	Size        string `json:"size,omitempty"`
	Coverage    string `json:"coverage,omitempty"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// EffectiveSize normalizes the legacy size/coverage split; size wins.
func (e SupportElement) EffectiveSize() string {
	if e.Size != "" {
		return e.Size
	}
	return e.Coverage
}

// CakeMessage is a piped or printed message; no size or quantity.
type CakeMessage struct {
	ID        string `json:"id"`
	IsEnabled bool   `json:"isEnabled"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	Position  string `json:"position,omitempty"` // top/side/base_board
}

// IcingDesign holds the per-cake icing flags; one record per cake, not a list.
type IcingDesign struct {
	Drip              bool `json:"drip"`
	GumpasteBaseBoard bool `json:"gumpasteBaseBoard"`
}

// CakeInfo is cake-level metadata supplied by the customization UI.
type CakeInfo struct {
	Type   CakeType `json:"type"`
	Flavor string   `json:"flavor,omitempty"`
	Serves int      `json:"serves,omitempty"`
}

// TierCount derives the number of stacked tiers from the cake type string.
func (c CakeInfo) TierCount() int {
	t := string(c.Type)
	if strings.Contains(t, "3 Tier") {
		return 3
	}
	if strings.Contains(t, "2 Tier") {
		return 2
	}
	return 1
}

// DesignState is the full pricing input: the AI-decomposed design elements
// plus cake metadata, assembled fresh per request from UI state.
type DesignState struct {
	MainToppers     []MainTopper     `json:"mainToppers"`
	SupportElements []SupportElement `json:"supportElements"`
	CakeMessages    []CakeMessage    `json:"cakeMessages"`
	IcingDesign     IcingDesign      `json:"icingDesign"`
	CakeInfo        CakeInfo         `json:"cakeInfo"`
}
