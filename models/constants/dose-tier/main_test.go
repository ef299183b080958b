package dosetier

import (
	"testing"

	"github.com/SparkyDaBear/AtlasBioTech/models/constants"

	"github.com/stretchr/testify/assert"
)

func TestTiers(t *testing.T) {
	assert.Equal(t, []constants.DoseTier{Low, Medium, High}, Tiers())
	assert.Len(t, Tiers(), Count)
}

func TestTierToString(t *testing.T) {
	assert.Equal(t, "low", TierToString(Low))
	assert.Equal(t, "medium", TierToString(Medium))
	assert.Equal(t, "high", TierToString(High))
	assert.Equal(t, "unknown", TierToString(constants.DoseTier(42)))
}

func TestConcentrationLookup(t *testing.T) {
	lookup := NewConcentrationLookup(1.25, 5, 20)

	t.Run("should map the three fixed concentrations", func(t *testing.T) {
		tier, ok := lookup.TierFor(1.25)
		assert.True(t, ok)
		assert.Equal(t, Low, tier)

		tier, ok = lookup.TierFor(5)
		assert.True(t, ok)
		assert.Equal(t, Medium, tier)

		tier, ok = lookup.TierFor(20)
		assert.True(t, ok)
		assert.Equal(t, High, tier)
	})

	t.Run("should report concentrations outside the dose set", func(t *testing.T) {
		_, ok := lookup.TierFor(7.5)
		assert.False(t, ok)
	})
}
