package services

import (
	"fmt"
	"strconv"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
	aminoAcid "github.com/SparkyDaBear/AtlasBioTech/models/constants/amino-acid"
	doseTier "github.com/SparkyDaBear/AtlasBioTech/models/constants/dose-tier"
	"github.com/SparkyDaBear/AtlasBioTech/utils"
)

type (
	HeatmapService struct {
		Config *models.Config
		Lookup doseTier.ConcentrationLookup
	}
)

func NewHeatmapService(cfg *models.Config) *HeatmapService {
	return &HeatmapService{
		Config: cfg,
		Lookup: doseTier.NewConcentrationLookup(
			cfg.Pipeline.TierLowConcentration,
			cfg.Pipeline.TierMediumConcentration,
			cfg.Pipeline.TierHighConcentration,
		),
	}
}

// cellAccumulator gathers the raw observations of one
// (position, alt amino acid, drug) matrix cell. The tier axis is a
// fixed-size array; a nil slice means no measurements landed in
// that tier and the finalized cell stays absent there.
type cellAccumulator struct {
	refAa string
	tiers [doseTier.Count][]float64
}

// positionRow is one matrix row with the fixed 20-slot amino acid
// axis; nil slots are absent cells.
type positionRow [aminoAcid.Count]*cellAccumulator

// lookupAccumulator builds one variant-lookup side table entry;
// tier values are pooled across drugs.
type lookupAccumulator struct {
	id       string
	position int
	refAa    string
	altAa    string
	count    int
	tiers    [doseTier.Count][]float64
}

type geneAccumulator struct {
	drugs map[string]map[int]*positionRow

	// distinct (position, alt aa) -> side table entry under construction
	lookup map[string]*lookupAccumulator
}

// BuildHeatmapDocuments builds one dense position x amino acid x
// dose-tier matrix document per gene, keyed per drug, plus the
// variant-lookup side table the renderer navigates with. Returns
// the documents and the count of rows whose concentration mapped
// onto no dose tier.
func (h *HeatmapService) BuildHeatmapDocuments(records []*models.MeasurementRecord) (map[string]*artifacts.HeatmapDocument, int) {
	var (
		genes            = make(map[string]*geneAccumulator)
		unmappedConcRows = 0
	)

	for _, record := range records {
		if !aminoAcid.IsCanonical(record.AltAa) {
			continue
		}

		tier, ok := h.Lookup.TierFor(record.Concentration)
		if !ok {
			unmappedConcRows++
			continue
		}

		gene, ok := genes[record.Gene]
		if !ok {
			gene = &geneAccumulator{
				drugs:  make(map[string]map[int]*positionRow),
				lookup: make(map[string]*lookupAccumulator),
			}
			genes[record.Gene] = gene
		}

		positions, ok := gene.drugs[record.Drug]
		if !ok {
			positions = make(map[int]*positionRow)
			gene.drugs[record.Drug] = positions
		}

		row, ok := positions[record.Position]
		if !ok {
			row = &positionRow{}
			positions[record.Position] = row
		}

		aaIndex := aminoAcid.IndexOf(record.AltAa)
		cell := row[aaIndex]
		if cell == nil {
			cell = &cellAccumulator{refAa: record.RefAa}
			row[aaIndex] = cell
		}
		cell.tiers[tier] = append(cell.tiers[tier], record.NetGrowthRate)

		lookupKey := fmt.Sprintf("%d_%s", record.Position, record.AltAa)
		entry, ok := gene.lookup[lookupKey]
		if !ok {
			entry = &lookupAccumulator{
				id:       record.VariantString,
				position: record.Position,
				refAa:    record.RefAa,
				altAa:    record.AltAa,
			}
			gene.lookup[lookupKey] = entry
		}
		entry.count++
		entry.tiers[tier] = append(entry.tiers[tier], record.NetGrowthRate)
	}

	documents := make(map[string]*artifacts.HeatmapDocument, len(genes))
	for geneName, gene := range genes {
		documents[geneName] = finalizeGene(geneName, gene)
	}

	fmt.Printf("Built %d heatmap documents (%d rows outside the fixed dose set)\n", len(documents), unmappedConcRows)

	return documents, unmappedConcRows
}

func finalizeGene(geneName string, gene *geneAccumulator) *artifacts.HeatmapDocument {
	// positions observed for the gene across all drugs, ascending
	positionSet := make(map[int]bool)
	for _, positions := range gene.drugs {
		for position := range positions {
			positionSet[position] = true
		}
	}
	allPositions := utils.SortedIntKeys(positionSet)

	doc := &artifacts.HeatmapDocument{
		Gene:          geneName,
		Drugs:         make(map[string]*artifacts.DrugMatrix, len(gene.drugs)),
		Positions:     allPositions,
		VariantLookup: make(map[string]artifacts.VariantLookupEntry, len(gene.lookup)),
	}

	for key, accum := range gene.lookup {
		doc.VariantLookup[key] = finalizeLookupEntry(accum)
	}

	for _, drug := range utils.SortedKeys(gene.drugs) {
		doc.Drugs[drug] = finalizeDrugMatrix(gene.drugs[drug])
	}

	minPosition, maxPosition := 0, 0
	if len(allPositions) > 0 {
		minPosition = allPositions[0]
		maxPosition = allPositions[len(allPositions)-1]
	}

	tierNames := make([]string, 0, doseTier.Count)
	for _, tier := range doseTier.Tiers() {
		tierNames = append(tierNames, doseTier.TierToString(tier))
	}

	doc.Metadata = artifacts.HeatmapMetadata{
		Type:          "position_vs_amino_acid",
		TotalVariants: len(doc.VariantLookup),
		PositionRange: artifacts.PositionRange{
			Min:               minPosition,
			Max:               maxPosition,
			PositionsWithData: len(allPositions),
		},
		AminoAcids:      aminoAcid.CanonicalOrder,
		AminoAcidsCount: aminoAcid.Count,
		DoseTiers:       tierNames,
	}

	return doc
}

func finalizeLookupEntry(accum *lookupAccumulator) artifacts.VariantLookupEntry {
	tierMean := func(tier int) *float64 {
		if len(accum.tiers[tier]) == 0 {
			return nil
		}
		mean := Mean(accum.tiers[tier])
		return &mean
	}

	return artifacts.VariantLookupEntry{
		Id:          accum.id,
		Position:    accum.position,
		RefAa:       accum.refAa,
		AltAa:       accum.altAa,
		LowValue:    tierMean(int(doseTier.Low)),
		MediumValue: tierMean(int(doseTier.Medium)),
		HighValue:   tierMean(int(doseTier.High)),
		Count:       accum.count,
	}
}

func finalizeDrugMatrix(positions map[int]*positionRow) *artifacts.DrugMatrix {
	matrix := make(map[string]map[string]*artifacts.HeatmapCell, len(positions))

	var tierValues [doseTier.Count][]float64

	for _, position := range utils.SortedIntKeys(positions) {
		row := positions[position]
		positionKey := strconv.Itoa(position)

		for aaIndex, accum := range row {
			if accum == nil {
				continue
			}

			cell := &artifacts.HeatmapCell{RefAa: accum.refAa}

			for _, tier := range doseTier.Tiers() {
				samples := accum.tiers[tier]
				if len(samples) == 0 {
					continue
				}

				mean := Mean(samples)
				tierCell := &artifacts.TierCell{
					Value: mean,
					Std:   PopulationStd(samples, mean),
					Count: len(samples),
				}

				switch tier {
				case doseTier.Low:
					cell.Low = tierCell
				case doseTier.Medium:
					cell.Medium = tierCell
				case doseTier.High:
					cell.High = tierCell
				}

				tierValues[tier] = append(tierValues[tier], mean)
			}

			if cell.Low == nil && cell.Medium == nil && cell.High == nil {
				continue
			}

			if _, ok := matrix[positionKey]; !ok {
				matrix[positionKey] = make(map[string]*artifacts.HeatmapCell)
			}
			matrix[positionKey][aminoAcid.CanonicalOrder[aaIndex]] = cell
		}
	}

	return &artifacts.DrugMatrix{
		Matrix:     matrix,
		ValueRange: valueRange(tierValues),
	}
}

func valueRange(tierValues [doseTier.Count][]float64) artifacts.ValueRange {
	rangeOf := func(values []float64) artifacts.TierRange {
		if len(values) == 0 {
			return artifacts.TierRange{Min: 0, Max: 1}
		}
		min, max := values[0], values[0]
		for _, v := range values {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		return artifacts.TierRange{Min: min, Max: max}
	}

	var combined []float64
	for _, values := range tierValues {
		combined = append(combined, values...)
	}
	global := rangeOf(combined)

	return artifacts.ValueRange{
		Min:    global.Min,
		Max:    global.Max,
		Low:    rangeOf(tierValues[doseTier.Low]),
		Medium: rangeOf(tierValues[doseTier.Medium]),
		High:   rangeOf(tierValues[doseTier.High]),
	}
}
