package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v2"

	. "github.com/ahmetb/go-linq"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
)

// searchVariant is the per-variant slice of the record set the
// index builder derives on its own, independent of the aggregator.
type searchVariant struct {
	gene          string
	variantString string
	proteinChange string
	drugs         map[string]bool
}

type (
	SearchService struct {
		Config *models.Config
	}
)

func NewSearchService(cfg *models.Config) *SearchService {
	return &SearchService{
		Config: cfg,
	}
}

// the FDA-approved BCR-ABL inhibitors the screen was run against;
// a curated yaml catalog can extend or override these
func defaultDrugCatalog() []models.DrugCatalogEntry {
	return []models.DrugCatalogEntry{
		{
			Name:        "Imatinib",
			Synonyms:    []string{"Gleevec", "STI571"},
			FdaStatus:   "Approved",
			TargetClass: "Tyrosine kinase inhibitor",
			Mechanism:   "BCR-ABL, KIT, PDGFR inhibitor",
		},
		{
			Name:        "Dasatinib",
			Synonyms:    []string{"Sprycel", "BMS-354825"},
			FdaStatus:   "Approved",
			TargetClass: "Tyrosine kinase inhibitor",
			Mechanism:   "BCR-ABL, SRC family inhibitor",
		},
		{
			Name:        "Nilotinib",
			Synonyms:    []string{"Tasigna", "AMN107"},
			FdaStatus:   "Approved",
			TargetClass: "Tyrosine kinase inhibitor",
			Mechanism:   "BCR-ABL inhibitor",
		},
	}
}

// LoadDrugCatalog merges the optional curated yaml catalog over the
// built-in defaults, keyed by drug name.
func (s *SearchService) LoadDrugCatalog() ([]models.DrugCatalogEntry, error) {
	entries := defaultDrugCatalog()

	catalogPath := s.Config.Pipeline.DrugCatalogPath
	if catalogPath == "" {
		return entries, nil
	}

	f, err := os.Open(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open drug catalog %s : %w", catalogPath, err)
	}
	defer f.Close()

	var catalog models.DrugCatalog
	if decodeErr := yaml.NewDecoder(f).Decode(&catalog); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode drug catalog %s : %w", catalogPath, decodeErr)
	}

	for _, curated := range catalog.Drugs {
		replaced := false
		for i, existing := range entries {
			if existing.Name == curated.Name {
				entries[i] = curated
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, curated)
		}
	}

	return entries, nil
}

// BuildSearchIndex derives the flat gene/drug/variant catalogs the
// front-end fuzzy-matches against, denormalized so no second lookup
// is needed. It reads the validated record set directly rather than
// the aggregator's output, so the two can run in parallel and be
// cross-checked afterwards. lastUpdate comes from the input file,
// not the wall clock, so unchanged input yields byte-identical output.
func (s *SearchService) BuildSearchIndex(records []*models.MeasurementRecord, catalog []models.DrugCatalogEntry, lastUpdate string) *artifacts.SearchIndex {
	variantSet := make(map[string]*searchVariant)
	for _, record := range records {
		key := record.VariantKey()
		entry, ok := variantSet[key]
		if !ok {
			entry = &searchVariant{
				gene:          record.Gene,
				variantString: record.VariantString,
				proteinChange: record.ProteinChange(),
				drugs:         make(map[string]bool),
			}
			variantSet[key] = entry
		}
		entry.drugs[record.Drug] = true
	}

	var orderedVariants []*searchVariant
	From(variantSet).
		SelectT(func(kv KeyValue) *searchVariant { return kv.Value.(*searchVariant) }).
		OrderByT(func(v *searchVariant) string { return v.gene + "_" + v.variantString }).
		ToSlice(&orderedVariants)

	// genes
	geneVariantCounts := make(map[string]int)
	for _, variant := range orderedVariants {
		geneVariantCounts[variant.gene]++
	}

	genes := make([]artifacts.GeneEntry, 0, len(geneVariantCounts))
	geneSymbols := make([]string, 0, len(geneVariantCounts))
	for symbol := range geneVariantCounts {
		geneSymbols = append(geneSymbols, symbol)
	}
	sort.Strings(geneSymbols)
	for _, symbol := range geneSymbols {
		genes = append(genes, artifacts.GeneEntry{
			Symbol:       symbol,
			Name:         fmt.Sprintf("%s gene", symbol),
			Synonyms:     []string{},
			Chromosome:   "",
			VariantCount: geneVariantCounts[symbol],
		})
	}

	// drugs: catalog entries first, then drugs only seen in the data
	drugVariantCounts := make(map[string]int)
	for _, variant := range orderedVariants {
		for drug := range variant.drugs {
			drugVariantCounts[drug]++
		}
	}

	drugs := make([]artifacts.DrugEntry, 0, len(catalog))
	catalogued := make(map[string]bool, len(catalog))
	for _, entry := range catalog {
		catalogued[entry.Name] = true
		drugs = append(drugs, artifacts.DrugEntry{
			Name:         entry.Name,
			Synonyms:     entry.Synonyms,
			FdaStatus:    entry.FdaStatus,
			TargetClass:  entry.TargetClass,
			Mechanism:    entry.Mechanism,
			VariantCount: drugVariantCounts[entry.Name],
		})
	}

	var uncatalogued []string
	From(drugVariantCounts).
		SelectT(func(kv KeyValue) string { return kv.Key.(string) }).
		WhereT(func(name string) bool { return !catalogued[name] }).
		OrderByT(func(name string) string { return name }).
		ToSlice(&uncatalogued)

	for _, name := range uncatalogued {
		drugs = append(drugs, artifacts.DrugEntry{
			Name:         name,
			Synonyms:     []string{},
			FdaStatus:    "Experimental",
			TargetClass:  "Unknown",
			Mechanism:    "Unknown",
			VariantCount: drugVariantCounts[name],
		})
	}

	// variants
	variants := make([]artifacts.VariantEntry, 0, len(orderedVariants))
	for _, variant := range orderedVariants {
		variants = append(variants, artifacts.VariantEntry{
			Gene:           variant.gene,
			VariantString:  variant.variantString,
			ProteinChange:  variant.proteinChange,
			SearchableText: fmt.Sprintf("%s %s %s", variant.gene, variant.variantString, variant.proteinChange),
		})
	}

	return &artifacts.SearchIndex{
		Genes:      genes,
		Drugs:      drugs,
		Variants:   variants,
		LastUpdate: lastUpdate,
		Stats: artifacts.IndexStats{
			TotalGenes:    len(genes),
			TotalDrugs:    len(drugs),
			TotalVariants: len(variants),
		},
	}
}

// LoadPublishedSearchIndex reads the search index artifact back
// from the publication directory, for consumers that post-process
// a finished run.
func (s *SearchService) LoadPublishedSearchIndex() (*artifacts.SearchIndex, error) {
	payload, readErr := os.ReadFile(path.Join(s.Config.Pipeline.OutputPath, "search_index.json"))
	if readErr != nil {
		return nil, fmt.Errorf("failed to read published search index : %w", readErr)
	}

	var index artifacts.SearchIndex
	if unmarshalErr := json.Unmarshal(payload, &index); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal published search index : %w", unmarshalErr)
	}

	return &index, nil
}
