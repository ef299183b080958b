package services

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
)

type (
	ValidationService struct {
		Config *models.Config
	}
)

func NewValidationService(cfg *models.Config) *ValidationService {
	return &ValidationService{
		Config: cfg,
	}
}

// Declared required paths per artifact kind. Publication is gated
// on these: an artifact missing any of them fails the whole run
// rather than reaching a consumer that assumes schema validity.
var (
	VariantSummaryRequiredPaths = []string{
		"gene", "variant_string", "protein_change", "transcript_id",
		"position", "consequence", "drugs_tested", "model_system",
		"dose_responses", "replicate_count", "qc_flags",
		"metadata.version", "metadata.data_type",
	}
	HeatmapRequiredPaths = []string{
		"gene", "metadata.type", "metadata.total_variants",
		"metadata.position_range.min", "metadata.position_range.max",
		"metadata.amino_acids", "metadata.amino_acids_count",
		"metadata.dose_tiers", "drugs", "positions", "variant_lookup",
	}
	SearchIndexRequiredPaths = []string{
		"genes", "drugs", "variants", "lastUpdate",
		"stats.total_genes", "stats.total_drugs", "stats.total_variants",
	}
	QcReportRequiredPaths = []string{
		"run_id", "source_file", "source_checksum",
		"total_rows", "accepted_rows", "rejected_rows",
		"artifacts.variant_summaries", "artifacts.heatmap_documents",
		"artifacts.search_entries",
	}
)

// ValidateArtifact checks a marshaled artifact against its
// declared required-path set.
func (v *ValidationService) ValidateArtifact(kind string, payload []byte, requiredPaths []string) error {
	jsonParsed, err := gabs.ParseJSON(payload)
	if err != nil {
		return fmt.Errorf("%s artifact is not valid json : %w", kind, err)
	}

	var missing []string
	for _, path := range requiredPaths {
		if !jsonParsed.ExistsP(path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s artifact is missing required fields: %s", kind, strings.Join(missing, ", "))
	}

	return nil
}

// CheckReferentialCompleteness verifies the three builders did not
// diverge: every variant a heatmap lookup points at has a summary
// artifact, and summaries and search-index variants match
// bidirectionally. Any mismatch halts publication.
func (v *ValidationService) CheckReferentialCompleteness(
	summaries map[string]*artifacts.VariantSummary,
	heatmaps map[string]*artifacts.HeatmapDocument,
	index *artifacts.SearchIndex) error {

	for geneName, doc := range heatmaps {
		for lookupKey, entry := range doc.VariantLookup {
			variantKey := fmt.Sprintf("%s_%s", geneName, entry.Id)
			if _, ok := summaries[variantKey]; !ok {
				return fmt.Errorf("heatmap lookup %s/%s references variant %s with no summary artifact", geneName, lookupKey, variantKey)
			}
		}
	}

	indexedVariants := make(map[string]bool, len(index.Variants))
	for i := range index.Variants {
		key := index.Variants[i].Key()
		if _, ok := summaries[key]; !ok {
			return fmt.Errorf("search index variant %s has no summary artifact", key)
		}
		indexedVariants[key] = true
	}

	for key := range summaries {
		if !indexedVariants[key] {
			return fmt.Errorf("variant summary %s is absent from the search index", key)
		}
	}

	return nil
}
