package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
	"github.com/SparkyDaBear/AtlasBioTech/models/constants"
	"github.com/SparkyDaBear/AtlasBioTech/utils"
)

type (
	AggregationService struct {
		Config *models.Config
	}
)

func NewAggregationService(cfg *models.Config) *AggregationService {
	return &AggregationService{
		Config: cfg,
	}
}

// replicateValue keeps a single replicate's observation together
// with its replicate number so the published replicate lists can be
// ordered by replicate number without deduplicating repeats.
type replicateValue struct {
	replicate int
	value     float64
}

// variantGroup gathers every record for one (gene, variant) pair:
// drug -> concentration -> replicate observations.
type variantGroup struct {
	first *models.MeasurementRecord
	drugs map[string]map[float64][]replicateValue

	replicatesSeen map[int]bool
}

// BuildVariantSummaries computes one datacard per (gene, variant)
// pair. Each variant is summarized independently of all others, so
// the work is fanned out over a bounded goroutine queue.
func (a *AggregationService) BuildVariantSummaries(records []*models.MeasurementRecord) map[string]*artifacts.VariantSummary {
	groups := groupByVariant(records)

	summaries := make(map[string]*artifacts.VariantSummary, len(groups))
	summariesMux := sync.RWMutex{}

	concurrencyLevel := a.Config.Pipeline.VariantProcessingConcurrencyLevel
	if concurrencyLevel < 1 {
		concurrencyLevel = 1
	}

	// "variant processing queue"
	// - manage # of variants being concurrently summarized at any given time
	variantProcessingQueue := make(chan bool, concurrencyLevel)

	var wg sync.WaitGroup
	for variantKey, group := range groups {
		variantProcessingQueue <- true
		wg.Add(1)

		go func(_variantKey string, _group *variantGroup, _wg *sync.WaitGroup) {
			defer _wg.Done()
			defer func() { <-variantProcessingQueue }()

			summary := summarizeVariant(_group)

			summariesMux.Lock()
			summaries[_variantKey] = summary
			summariesMux.Unlock()
		}(variantKey, group, &wg)
	}
	wg.Wait()

	fmt.Printf("Aggregated %d variant summaries from %d measurement records\n", len(summaries), len(records))

	return summaries
}

func groupByVariant(records []*models.MeasurementRecord) map[string]*variantGroup {
	groups := make(map[string]*variantGroup)

	for _, record := range records {
		key := record.VariantKey()

		group, ok := groups[key]
		if !ok {
			group = &variantGroup{
				first:          record,
				drugs:          make(map[string]map[float64][]replicateValue),
				replicatesSeen: make(map[int]bool),
			}
			groups[key] = group
		}

		doses, ok := group.drugs[record.Drug]
		if !ok {
			doses = make(map[float64][]replicateValue)
			group.drugs[record.Drug] = doses
		}

		doses[record.Concentration] = append(doses[record.Concentration], replicateValue{
			replicate: record.Replicate,
			value:     record.NetGrowthRate,
		})
		group.replicatesSeen[record.Replicate] = true
	}

	return groups
}

func summarizeVariant(group *variantGroup) *artifacts.VariantSummary {
	first := group.first

	summary := &artifacts.VariantSummary{
		Gene:          first.Gene,
		VariantString: first.VariantString,
		ProteinChange: first.ProteinChange(),
		TranscriptId:  first.TranscriptId,
		Position:      first.Position,
		Consequence:   consequenceFor(first.VariantType),

		DrugsTested: utils.SortedKeys(group.drugs),
		ModelSystem: first.CellLine,

		ReplicateCount: len(group.replicatesSeen),
		QcFlags:        []string{},

		Metadata: artifacts.ArtifactMetadata{
			Version:      "2.0",
			DataType:     "qDMS_netgr",
			IsSynonymous: first.IsSynonymous,
		},
	}

	for _, drug := range summary.DrugsTested {
		summary.DoseResponses = append(summary.DoseResponses, summarizeDrug(drug, group.drugs[drug]))
	}

	return summary
}

func summarizeDrug(drug string, doses map[float64][]replicateValue) artifacts.DrugDoseResponse {
	concentrations := make([]float64, 0, len(doses))
	for conc := range doses {
		concentrations = append(concentrations, conc)
	}
	sort.Float64s(concentrations)

	var (
		points        []artifacts.DosePoint
		doseSeries    []float64
		responseMeans []float64
	)

	for _, conc := range concentrations {
		observations := doses[conc]
		if len(observations) == 0 {
			// a concentration group with no valid values never
			// emits a null-mean entry
			continue
		}

		// order by replicate number; repeats are kept as-is
		sort.SliceStable(observations, func(i, j int) bool {
			return observations[i].replicate < observations[j].replicate
		})

		values := make([]float64, len(observations))
		for i, obs := range observations {
			values[i] = obs.value
		}

		mean := Mean(values)
		std := PopulationStd(values, mean)
		lower, upper := ConfidenceBounds(mean, std, len(values))

		points = append(points, artifacts.DosePoint{
			Concentration: conc,
			Mean:          mean,
			Std:           std,
			Count:         len(values),
			CiLower:       lower,
			CiUpper:       upper,
			Replicates:    values,
		})

		doseSeries = append(doseSeries, conc)
		responseMeans = append(responseMeans, mean)
	}

	ic50 := EstimateIc50(doseSeries, responseMeans)

	return artifacts.DrugDoseResponse{
		Drug:         drug,
		Ic50Estimate: ic50,
		Points:       points,
		QcFlags:      drugQcFlags(points, ic50),
	}
}

func drugQcFlags(points []artifacts.DosePoint, ic50 *float64) []string {
	flags := []string{}

	var (
		insufficientReplicates bool
		highVariation          bool
		flat                   = len(points) > 0
	)

	for _, point := range points {
		if point.Count < 2 {
			insufficientReplicates = true
		}

		min, max := point.Replicates[0], point.Replicates[0]
		for _, v := range point.Replicates {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if max-min > 0.5 {
			highVariation = true
		}

		if point.Mean != points[0].Mean {
			flat = false
		}
	}

	if insufficientReplicates {
		flags = append(flags, "insufficient_replicates")
	}
	if highVariation {
		flags = append(flags, "high_replicate_variation")
	}
	if ic50 == nil {
		flags = append(flags, "no_ic50_estimate")
	}
	if flat && len(points) > 1 {
		flags = append(flags, "flat_dose_response")
	}

	return flags
}

func consequenceFor(variantType string) string {
	switch variantType {
	case "snp", "mnv", "":
		return string(constants.ConsequenceMissense)
	default:
		return string(constants.ConsequenceUnknown)
	}
}
