package artifacts

/*
	The JSON documents this pipeline publishes for the
	front-end: one datacard per variant, one heatmap
	document per gene, one search index and one QC report.
	All of them are rebuilt wholesale on every run.
*/

// ---- variant datacards

type VariantSummary struct {
	Gene          string `json:"gene"`
	VariantString string `json:"variant_string"`
	ProteinChange string `json:"protein_change"`
	TranscriptId  string `json:"transcript_id"`
	Position      int    `json:"position"`
	Consequence   string `json:"consequence"`

	DrugsTested []string `json:"drugs_tested"`
	ModelSystem string   `json:"model_system"`

	DoseResponses []DrugDoseResponse `json:"dose_responses"`

	ReplicateCount int      `json:"replicate_count"`
	QcFlags        []string `json:"qc_flags"`

	Metadata ArtifactMetadata `json:"metadata"`
}

func (v *VariantSummary) Key() string {
	return v.Gene + "_" + v.VariantString
}

type DrugDoseResponse struct {
	Drug         string      `json:"drug"`
	Ic50Estimate *float64    `json:"ic50_estimate"` // null when no estimate was possible
	Points       []DosePoint `json:"points"`
	QcFlags      []string    `json:"qc_flags"`
}

// DosePoint is the per-concentration dose-response summary. Std
// is the population standard deviation; the confidence bounds are
// mean -/+ criticalValue * std / sqrt(n).
type DosePoint struct {
	Concentration float64   `json:"concentration"`
	Mean          float64   `json:"mean"`
	Std           float64   `json:"std"`
	Count         int       `json:"count"`
	CiLower       float64   `json:"ci_lower"`
	CiUpper       float64   `json:"ci_upper"`
	Replicates    []float64 `json:"replicates"` // ordered by replicate number, not deduplicated
}

type ArtifactMetadata struct {
	Version      string `json:"version"`
	DataType     string `json:"data_type"`
	IsSynonymous bool   `json:"is_synonymous"`
}

// ---- heatmap documents

type HeatmapDocument struct {
	Gene     string          `json:"gene"`
	Metadata HeatmapMetadata `json:"metadata"`

	// per drug: position (string key) -> alt amino acid -> cell.
	// combinations with no contributing measurements are absent,
	// never zero-valued.
	Drugs map[string]*DrugMatrix `json:"drugs"`

	Positions     []int                         `json:"positions"`
	VariantLookup map[string]VariantLookupEntry `json:"variant_lookup"`
}

type HeatmapMetadata struct {
	Type            string        `json:"type"`
	TotalVariants   int           `json:"total_variants"`
	PositionRange   PositionRange `json:"position_range"`
	AminoAcids      []string      `json:"amino_acids"`
	AminoAcidsCount int           `json:"amino_acids_count"`
	DoseTiers       []string      `json:"dose_tiers"`
}

type PositionRange struct {
	Min               int `json:"min"`
	Max               int `json:"max"`
	PositionsWithData int `json:"positions_with_data"`
}

type DrugMatrix struct {
	Matrix     map[string]map[string]*HeatmapCell `json:"matrix"`
	ValueRange ValueRange                         `json:"value_range"`
}

type HeatmapCell struct {
	Low    *TierCell `json:"low,omitempty"`
	Medium *TierCell `json:"medium,omitempty"`
	High   *TierCell `json:"high,omitempty"`
	RefAa  string    `json:"ref_aa"`
}

type TierCell struct {
	Value float64 `json:"value"`
	Std   float64 `json:"std"`
	Count int     `json:"count"`
}

// ValueRange carries the global and per-tier min/max the renderer
// uses for consistent color scaling.
type ValueRange struct {
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Low    TierRange `json:"low"`
	Medium TierRange `json:"medium"`
	High   TierRange `json:"high"`
}

type TierRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// VariantLookupEntry is the renderer's navigation handle for one
// (position, alt amino acid) cell; the per-tier values are means
// across all drugs, null for tiers with no measurements.
type VariantLookupEntry struct {
	Id          string   `json:"id"`
	Position    int      `json:"position"`
	RefAa       string   `json:"ref_aa"`
	AltAa       string   `json:"alt_aa"`
	LowValue    *float64 `json:"low_value"`
	MediumValue *float64 `json:"medium_value"`
	HighValue   *float64 `json:"high_value"`
	Count       int      `json:"count"`
}

// ---- search index

type SearchIndex struct {
	Genes      []GeneEntry    `json:"genes"`
	Drugs      []DrugEntry    `json:"drugs"`
	Variants   []VariantEntry `json:"variants"`
	LastUpdate string         `json:"lastUpdate"`
	Stats      IndexStats     `json:"stats"`
}

type GeneEntry struct {
	Symbol       string   `json:"symbol" mapstructure:"symbol"`
	Name         string   `json:"name" mapstructure:"name"`
	Synonyms     []string `json:"synonyms" mapstructure:"synonyms"`
	Chromosome   string   `json:"chromosome" mapstructure:"chromosome"`
	VariantCount int      `json:"variant_count" mapstructure:"variant_count"`
}

type DrugEntry struct {
	Name         string   `json:"name" mapstructure:"name"`
	Synonyms     []string `json:"synonyms" mapstructure:"synonyms"`
	FdaStatus    string   `json:"fda_status" mapstructure:"fda_status"`
	TargetClass  string   `json:"target_class" mapstructure:"target_class"`
	Mechanism    string   `json:"mechanism" mapstructure:"mechanism"`
	VariantCount int      `json:"variant_count" mapstructure:"variant_count"`
}

type VariantEntry struct {
	Gene           string `json:"gene" mapstructure:"gene"`
	VariantString  string `json:"variant_string" mapstructure:"variant_string"`
	ProteinChange  string `json:"protein_change" mapstructure:"protein_change"`
	SearchableText string `json:"searchable_text" mapstructure:"searchable_text"`
}

func (v *VariantEntry) Key() string {
	return v.Gene + "_" + v.VariantString
}

type IndexStats struct {
	TotalGenes    int `json:"total_genes"`
	TotalDrugs    int `json:"total_drugs"`
	TotalVariants int `json:"total_variants"`
}

// ---- QC report

// RejectedRow records a raw CSV row that failed validation,
// along with why. Rejections never abort the run.
type RejectedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Raw    string `json:"raw"`
}

type QCReport struct {
	RunId          string `json:"run_id"`
	SourceFile     string `json:"source_file"`
	SourceChecksum string `json:"source_checksum"`

	TotalRows    int           `json:"total_rows"`
	AcceptedRows int           `json:"accepted_rows"`
	RejectedRows []RejectedRow `json:"rejected_rows"`

	// rows whose concentration maps onto no dose tier; they still
	// contribute to the variant summaries, just not to any heatmap cell
	UnmappedConcentrationRows int `json:"unmapped_concentration_rows"`

	Artifacts QCArtifactCounts `json:"artifacts"`
}

type QCArtifactCounts struct {
	VariantSummaries int `json:"variant_summaries"`
	HeatmapDocuments int `json:"heatmap_documents"`
	SearchEntries    int `json:"search_entries"`
}
