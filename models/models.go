package models

import "fmt"

// Required column headers of the raw qDMS screen CSV.
// Names and casing are fixed at the boundary; a file missing
// any of these is rejected outright.
var CsvHeaders = []string{
	"Gene", "species", "ref_aa", "protein_start", "alt_aa",
	"Drug", "cell_line", "conc", "rep", "netgr_obs",
}

// Columns carried through when present but never required.
var OptionalCsvHeaders = []string{"type", "synSNP", "transcript_id"}

// MeasurementRecord is one validated experimental observation:
// a single replicate's net growth rate for a variant exposed to
// a drug at one concentration. Immutable once ingested.
type MeasurementRecord struct {
	Gene          string
	VariantString string
	RefAa         string
	Position      int
	AltAa         string
	Drug          string
	CellLine      string
	Concentration float64
	Replicate     int
	NetGrowthRate float64

	// optional columns
	VariantType  string
	IsSynonymous bool
	TranscriptId string
}

// VariantKey is the stable `{gene}_{variant}` key every output
// artifact is addressed by.
func (m *MeasurementRecord) VariantKey() string {
	return fmt.Sprintf("%s_%s", m.Gene, m.VariantString)
}

func (m *MeasurementRecord) ProteinChange() string {
	return fmt.Sprintf("p.%s%d%s", m.RefAa, m.Position, m.AltAa)
}

// DrugCatalog is the curated drug metadata file (yaml) merged
// into the search index on top of the built-in defaults.
type DrugCatalog struct {
	Drugs []DrugCatalogEntry `yaml:"drugs"`
}

type DrugCatalogEntry struct {
	Name        string   `yaml:"name"`
	Synonyms    []string `yaml:"synonyms"`
	FdaStatus   string   `yaml:"fdaStatus"`
	TargetClass string   `yaml:"targetClass"`
	Mechanism   string   `yaml:"mechanism"`
}
