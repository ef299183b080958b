package dosetier

import (
	"github.com/SparkyDaBear/AtlasBioTech/models/constants"
)

const (
	Low constants.DoseTier = iota
	Medium
	High
)

const Count = 3

// Tiers returns the dose tiers in ascending concentration order.
func Tiers() []constants.DoseTier {
	return []constants.DoseTier{Low, Medium, High}
}

func TierToString(tier constants.DoseTier) string {
	switch tier {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ConcentrationLookup maps the three fixed experimental
// concentrations onto dose tiers. Tier boundaries are a fixed
// lookup, not computed from the data.
type ConcentrationLookup map[float64]constants.DoseTier

func NewConcentrationLookup(low float64, medium float64, high float64) ConcentrationLookup {
	return ConcentrationLookup{
		low:    Low,
		medium: Medium,
		high:   High,
	}
}

// TierFor resolves a measured concentration to its tier; the
// second return is false for concentrations outside the screen's
// fixed dose set.
func (l ConcentrationLookup) TierFor(concentration float64) (constants.DoseTier, bool) {
	tier, ok := l[concentration]
	return tier, ok
}
