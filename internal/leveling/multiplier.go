package leveling

import "math"

// Tier is the reward band a completion rate falls into.
type Tier string

const (
	TierMinimal  Tier = "minimal"
	TierPartial  Tier = "partial"
	TierNear     Tier = "near"
	TierOptimal  Tier = "optimal"
	TierMildOver Tier = "mild_over"
	TierOver     Tier = "over"
)

// TierBand is one row of the tier table: rates below Upper (and at or above
// the previous row's Upper) belong to Tier.
type TierBand struct {
	Upper      float64
	Tier       Tier
	Multiplier float64
}

// tierBands is ordered by ascending Upper. Plan adherence (100–120%) earns
// the full multiplier; over-achievement decays but never below 0.7.
var tierBands = []TierBand{
	{Upper: 50, Tier: TierMinimal, Multiplier: 0.3},
	{Upper: 80, Tier: TierPartial, Multiplier: 0.6},
	{Upper: 100, Tier: TierNear, Multiplier: 0.8},
	{Upper: 121, Tier: TierOptimal, Multiplier: 1.0},
	{Upper: 151, Tier: TierMildOver, Multiplier: 0.9},
	{Upper: math.Inf(1), Tier: TierOver, Multiplier: 0.7},
}

// Tiers returns the tier table in ascending rate order.
func Tiers() []TierBand {
	out := make([]TierBand, len(tierBands))
	copy(out, tierBands)
	return out
}

// DetermineTier maps a completion rate to its tier.
func DetermineTier(rate float64) Tier {
	for _, b := range tierBands {
		if rate < b.Upper {
			return b.Tier
		}
	}
	// NaN compares false against every bound.
	return TierMinimal
}

// MultiplierValue returns the XP multiplier for a tier. Unknown tiers get
// the minimal multiplier.
func MultiplierValue(t Tier) float64 {
	for _, b := range tierBands {
		if b.Tier == t {
			return b.Multiplier
		}
	}
	return tierBands[0].Multiplier
}

// XPMultiplierResult is the outcome of scoring one completion event.
type XPMultiplierResult struct {
	Multiplier     float64 `json:"multiplier"`
	Tier           Tier    `json:"tier"`
	CompletionRate float64 `json:"completion_rate"`
	Rationale      string  `json:"rationale"`
	RationaleKey   string  `json:"rationale_key"`
}

// CalculateXPMultiplier scores a completion of actual against target and
// renders the rationale in locale, falling back to DefaultLocale.
func CalculateXPMultiplier(actual, target float64, locale string) XPMultiplierResult {
	rate := CompletionRate(actual, target)
	tier := DetermineTier(rate)
	key := RationaleKey(tier)
	return XPMultiplierResult{
		Multiplier:     MultiplierValue(tier),
		Tier:           tier,
		CompletionRate: rate,
		Rationale:      Message(locale, key),
		RationaleKey:   key,
	}
}

// RationaleKey returns the message catalog key for a tier's rationale.
func RationaleKey(t Tier) string {
	return "xp.tier." + string(t)
}
