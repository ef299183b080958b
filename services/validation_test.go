package services

import (
	"testing"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
	"github.com/SparkyDaBear/AtlasBioTech/utils"

	"github.com/stretchr/testify/assert"
)

func TestValidateArtifact(t *testing.T) {
	vz := NewValidationService(&models.Config{})

	t.Run("should accept a complete variant summary", func(t *testing.T) {
		summary := &artifacts.VariantSummary{
			Gene:          "ABL1",
			VariantString: "T315I",
			ProteinChange: "p.T315I",
			Position:      315,
			Consequence:   "missense_variant",
			DrugsTested:   []string{"Imatinib"},
			ModelSystem:   "BaF3",
			QcFlags:       []string{},
			Metadata:      artifacts.ArtifactMetadata{Version: "2.0", DataType: "qDMS_netgr"},
		}

		payload, err := utils.MarshalArtifact(summary)
		assert.NoError(t, err)

		assert.NoError(t, vz.ValidateArtifact("variant summary", payload, VariantSummaryRequiredPaths))
	})

	t.Run("should name every missing field", func(t *testing.T) {
		payload := []byte(`{"gene": "ABL1"}`)

		err := vz.ValidateArtifact("variant summary", payload, VariantSummaryRequiredPaths)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "variant_string")
		assert.Contains(t, err.Error(), "metadata.version")
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		err := vz.ValidateArtifact("heatmap", []byte("{not json"), HeatmapRequiredPaths)
		assert.Error(t, err)
	})
}

func TestCheckReferentialCompleteness(t *testing.T) {
	vz := NewValidationService(&models.Config{})

	summaryFor := func(gene string, variant string) *artifacts.VariantSummary {
		return &artifacts.VariantSummary{Gene: gene, VariantString: variant}
	}

	heatmapFor := func(gene string, variant string, position int, altAa string) *artifacts.HeatmapDocument {
		return &artifacts.HeatmapDocument{
			Gene: gene,
			VariantLookup: map[string]artifacts.VariantLookupEntry{
				"315_I": {Id: variant, Position: position, AltAa: altAa},
			},
		}
	}

	indexFor := func(entries ...artifacts.VariantEntry) *artifacts.SearchIndex {
		return &artifacts.SearchIndex{Variants: entries}
	}

	t.Run("should pass when all three artifact sets agree", func(t *testing.T) {
		err := vz.CheckReferentialCompleteness(
			map[string]*artifacts.VariantSummary{"ABL1_T315I": summaryFor("ABL1", "T315I")},
			map[string]*artifacts.HeatmapDocument{"ABL1": heatmapFor("ABL1", "T315I", 315, "I")},
			indexFor(artifacts.VariantEntry{Gene: "ABL1", VariantString: "T315I"}),
		)

		assert.NoError(t, err)
	})

	t.Run("should fail when a heatmap lookup references a missing summary", func(t *testing.T) {
		err := vz.CheckReferentialCompleteness(
			map[string]*artifacts.VariantSummary{},
			map[string]*artifacts.HeatmapDocument{"ABL1": heatmapFor("ABL1", "T315I", 315, "I")},
			indexFor(),
		)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no summary artifact")
	})

	t.Run("should fail when the search index lists an unknown variant", func(t *testing.T) {
		err := vz.CheckReferentialCompleteness(
			map[string]*artifacts.VariantSummary{"ABL1_T315I": summaryFor("ABL1", "T315I")},
			map[string]*artifacts.HeatmapDocument{},
			indexFor(
				artifacts.VariantEntry{Gene: "ABL1", VariantString: "T315I"},
				artifacts.VariantEntry{Gene: "ABL1", VariantString: "E255K"},
			),
		)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ABL1_E255K")
	})

	t.Run("should fail when a summary is absent from the search index", func(t *testing.T) {
		err := vz.CheckReferentialCompleteness(
			map[string]*artifacts.VariantSummary{"ABL1_T315I": summaryFor("ABL1", "T315I")},
			map[string]*artifacts.HeatmapDocument{},
			indexFor(),
		)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "absent from the search index")
	})
}
