package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
	"github.com/SparkyDaBear/AtlasBioTech/utils"
)

type (
	IngestionService struct {
		Config *models.Config
	}
)

func NewIngestionService(cfg *models.Config) *IngestionService {
	return &IngestionService{
		Config: cfg,
	}
}

var geneSymbolPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// LoadMeasurements reads the raw qDMS screen CSV and returns the
// validated measurement records alongside the rows that failed
// validation. A rejected row never blocks the rest of the file;
// only a missing file or a missing required column is fatal.
func (i *IngestionService) LoadMeasurements(csvPath string) ([]*models.MeasurementRecord, []artifacts.RejectedRow, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input csv %s : %w", csvPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // row width checked per-row below

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header of %s : %w", csvPath, err)
	}

	// map required and optional columns to their positions;
	// names and casing are fixed at the boundary
	columnIndex := make(map[string]int, len(header))
	for idx, name := range header {
		columnIndex[strings.TrimSpace(name)] = idx
	}

	var missingColumns []string
	for _, required := range models.CsvHeaders {
		if _, ok := columnIndex[required]; !ok {
			missingColumns = append(missingColumns, required)
		}
	}
	if len(missingColumns) > 0 {
		return nil, nil, fmt.Errorf("input csv %s is missing required columns: %s", csvPath, strings.Join(missingColumns, ", "))
	}

	if i.Config.Debug {
		for _, name := range header {
			name = strings.TrimSpace(name)
			if !utils.StringInSlice(name, models.CsvHeaders) && !utils.StringInSlice(name, models.OptionalCsvHeaders) {
				fmt.Printf("Ignoring unrecognized column %s in %s\n", name, csvPath)
			}
		}
	}

	var (
		records  []*models.MeasurementRecord
		rejected []artifacts.RejectedRow
		line     = 1 // header was line 1
	)

	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		line++

		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				rejected = append(rejected, artifacts.RejectedRow{
					Line:   line,
					Reason: fmt.Sprintf("malformed csv row: %s", parseErr.Err),
					Raw:    strings.Join(row, ","),
				})
				continue
			}
			return nil, nil, fmt.Errorf("failed reading csv %s at line %d : %w", csvPath, line, readErr)
		}

		if len(row) < len(header) {
			rejected = append(rejected, artifacts.RejectedRow{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(row)),
				Raw:    strings.Join(row, ","),
			})
			continue
		}

		record, rowErr := parseRow(row, columnIndex)
		if rowErr != nil {
			rejected = append(rejected, artifacts.RejectedRow{
				Line:   line,
				Reason: rowErr.Error(),
				Raw:    strings.Join(row, ","),
			})
			continue
		}

		records = append(records, record)
	}

	fmt.Printf("Loaded %d measurement records from %s (%d rows rejected)\n", len(records), csvPath, len(rejected))

	return records, rejected, nil
}

func parseRow(row []string, columnIndex map[string]int) (*models.MeasurementRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[columnIndex[name]])
	}
	optionalField := func(name string) string {
		idx, ok := columnIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	gene := normalizeGeneSymbol(field("Gene"))
	if gene == "" {
		return nil, fmt.Errorf("missing gene symbol")
	}
	if !geneSymbolPattern.MatchString(gene) {
		return nil, fmt.Errorf("invalid gene symbol '%s'", gene)
	}

	refAa := strings.ToUpper(field("ref_aa"))
	if len(refAa) != 1 || refAa[0] < 'A' || refAa[0] > 'Z' {
		return nil, fmt.Errorf("invalid ref_aa '%s'", field("ref_aa"))
	}

	altAa := strings.ToUpper(field("alt_aa"))
	if len(altAa) != 1 || (altAa[0] < 'A' || altAa[0] > 'Z') && altAa != "*" {
		return nil, fmt.Errorf("invalid alt_aa '%s'", field("alt_aa"))
	}

	position, err := strconv.Atoi(field("protein_start"))
	if err != nil || position <= 0 {
		return nil, fmt.Errorf("invalid protein_start '%s'", field("protein_start"))
	}

	variantString := field("species")
	if variantString == "" {
		return nil, fmt.Errorf("missing variant identifier")
	}
	if composed := fmt.Sprintf("%s%d%s", refAa, position, altAa); variantString != composed {
		return nil, fmt.Errorf("variant identifier '%s' disagrees with its components '%s'", variantString, composed)
	}

	drug := normalizeDrugName(field("Drug"))
	if drug == "" {
		return nil, fmt.Errorf("missing drug name")
	}

	cellLine := field("cell_line")
	if cellLine == "" {
		return nil, fmt.Errorf("missing cell line")
	}

	concentration, err := strconv.ParseFloat(field("conc"), 64)
	if err != nil {
		return nil, fmt.Errorf("non-numeric conc '%s'", field("conc"))
	}

	replicate, err := strconv.Atoi(field("rep"))
	if err != nil || replicate <= 0 {
		return nil, fmt.Errorf("invalid rep '%s'", field("rep"))
	}

	netGrowthRate, err := strconv.ParseFloat(field("netgr_obs"), 64)
	if err != nil {
		return nil, fmt.Errorf("non-numeric netgr_obs '%s'", field("netgr_obs"))
	}

	return &models.MeasurementRecord{
		Gene:          gene,
		VariantString: variantString,
		RefAa:         refAa,
		Position:      position,
		AltAa:         altAa,
		Drug:          drug,
		CellLine:      cellLine,
		Concentration: concentration,
		Replicate:     replicate,
		NetGrowthRate: netGrowthRate,

		VariantType:  optionalField("type"),
		IsSynonymous: parseBoolish(optionalField("synSNP")),
		TranscriptId: optionalField("transcript_id"),
	}, nil
}

func normalizeGeneSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func normalizeDrugName(name string) string {
	return strings.TrimSpace(name)
}

func parseBoolish(text string) bool {
	switch strings.ToLower(text) {
	case "true", "t", "1", "yes":
		return true
	default:
		return false
	}
}
