package services

import (
	"testing"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"

	"github.com/stretchr/testify/assert"
)

func measurement(gene string, variant string, refAa string, position int, altAa string,
	drug string, conc float64, rep int, netgr float64) *models.MeasurementRecord {
	return &models.MeasurementRecord{
		Gene:          gene,
		VariantString: variant,
		RefAa:         refAa,
		Position:      position,
		AltAa:         altAa,
		Drug:          drug,
		CellLine:      "BaF3",
		Concentration: conc,
		Replicate:     rep,
		NetGrowthRate: netgr,
		VariantType:   "snp",
	}
}

func newAggregationService() *AggregationService {
	cfg := &models.Config{}
	cfg.Pipeline.VariantProcessingConcurrencyLevel = 4
	return NewAggregationService(cfg)
}

func TestBuildVariantSummaries(t *testing.T) {
	az := newAggregationService()

	t.Run("should emit one summary per gene and variant pair", func(t *testing.T) {
		records := []*models.MeasurementRecord{
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.0229),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 2, 0.0248),
			measurement("ABL1", "E255K", "E", 255, "K", "Imatinib", 1.25, 1, 0.0301),
			measurement("KIT", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.0100),
		}

		summaries := az.BuildVariantSummaries(records)

		assert.Len(t, summaries, 3)
		assert.Contains(t, summaries, "ABL1_T315I")
		assert.Contains(t, summaries, "ABL1_E255K")
		assert.Contains(t, summaries, "KIT_T315I")
	})

	t.Run("should summarize replicate groups per concentration", func(t *testing.T) {
		records := []*models.MeasurementRecord{
			// deliberately out of replicate order
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 2, 0.0248),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.0229),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 1, 0.0150),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 2, 0.0140),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 20, 1, 0.0020),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 20, 2, 0.0010),
		}

		summary := az.BuildVariantSummaries(records)["ABL1_T315I"]
		assert.NotNil(t, summary)

		assert.Equal(t, "ABL1", summary.Gene)
		assert.Equal(t, "p.T315I", summary.ProteinChange)
		assert.Equal(t, 315, summary.Position)
		assert.Equal(t, "missense_variant", summary.Consequence)
		assert.Equal(t, []string{"Imatinib"}, summary.DrugsTested)
		assert.Equal(t, "BaF3", summary.ModelSystem)
		assert.Equal(t, 2, summary.ReplicateCount)

		assert.Len(t, summary.DoseResponses, 1)
		response := summary.DoseResponses[0]
		assert.Equal(t, "Imatinib", response.Drug)
		assert.Len(t, response.Points, 3)

		// points ascend by concentration
		assert.Equal(t, 1.25, response.Points[0].Concentration)
		assert.Equal(t, 5.0, response.Points[1].Concentration)
		assert.Equal(t, 20.0, response.Points[2].Concentration)

		// replicates are ordered by replicate number, not input order
		assert.Equal(t, []float64{0.0229, 0.0248}, response.Points[0].Replicates)
		assert.InDelta(t, 0.02385, response.Points[0].Mean, 1e-9)
		assert.Equal(t, 2, response.Points[0].Count)
		assert.Less(t, response.Points[0].CiLower, response.Points[0].Mean)
		assert.Greater(t, response.Points[0].CiUpper, response.Points[0].Mean)

		assert.NotNil(t, response.Ic50Estimate)
	})

	t.Run("should keep repeated replicate numbers as-is", func(t *testing.T) {
		records := []*models.MeasurementRecord{
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.01),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.02),
		}

		summary := az.BuildVariantSummaries(records)["ABL1_T315I"]

		assert.Equal(t, []float64{0.01, 0.02}, summary.DoseResponses[0].Points[0].Replicates)
		assert.Equal(t, 1, summary.ReplicateCount)
	})

	t.Run("should sort the tested drugs alphabetically", func(t *testing.T) {
		records := []*models.MeasurementRecord{
			measurement("ABL1", "T315I", "T", 315, "I", "Nilotinib", 1.25, 1, 0.01),
			measurement("ABL1", "T315I", "T", 315, "I", "Dasatinib", 1.25, 1, 0.02),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.03),
		}

		summary := az.BuildVariantSummaries(records)["ABL1_T315I"]

		assert.Equal(t, []string{"Dasatinib", "Imatinib", "Nilotinib"}, summary.DrugsTested)
		assert.Equal(t, "Dasatinib", summary.DoseResponses[0].Drug)
		assert.Equal(t, "Imatinib", summary.DoseResponses[1].Drug)
		assert.Equal(t, "Nilotinib", summary.DoseResponses[2].Drug)
	})

	t.Run("should mark unknown variant types in the consequence field", func(t *testing.T) {
		record := measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.01)
		record.VariantType = "indel"

		summary := az.BuildVariantSummaries([]*models.MeasurementRecord{record})["ABL1_T315I"]

		assert.Equal(t, "unknown", summary.Consequence)
	})
}

func TestDrugQcFlags(t *testing.T) {
	az := newAggregationService()

	buildResponse := func(records ...*models.MeasurementRecord) artifacts.DrugDoseResponse {
		summary := az.BuildVariantSummaries(records)["ABL1_T315I"]
		return summary.DoseResponses[0]
	}

	t.Run("should flag single-replicate concentration groups", func(t *testing.T) {
		response := buildResponse(
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.03),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 1, 0.01),
		)

		assert.Contains(t, response.QcFlags, "insufficient_replicates")
	})

	t.Run("should flag a replicate spread above the threshold", func(t *testing.T) {
		response := buildResponse(
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.9),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 2, 0.1),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 1, 0.05),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 2, 0.06),
		)

		assert.Contains(t, response.QcFlags, "high_replicate_variation")
	})

	t.Run("should flag a missing ic50 estimate for a single dose", func(t *testing.T) {
		response := buildResponse(
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.03),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 2, 0.04),
		)

		assert.Nil(t, response.Ic50Estimate)
		assert.Contains(t, response.QcFlags, "no_ic50_estimate")
	})

	t.Run("should flag a flat dose response", func(t *testing.T) {
		response := buildResponse(
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.03),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 1, 0.03),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 20, 1, 0.03),
		)

		assert.Contains(t, response.QcFlags, "flat_dose_response")
	})

	t.Run("should leave a clean dose response unflagged", func(t *testing.T) {
		response := buildResponse(
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 1, 0.040),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 1.25, 2, 0.042),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 1, 0.020),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 5, 2, 0.021),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 20, 1, 0.001),
			measurement("ABL1", "T315I", "T", 315, "I", "Imatinib", 20, 2, 0.002),
		)

		assert.Empty(t, response.QcFlags)
	})
}
