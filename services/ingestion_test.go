package services

import (
	"os"
	"path"
	"testing"

	"github.com/SparkyDaBear/AtlasBioTech/models"

	"github.com/stretchr/testify/assert"
)

const csvHeaderLine = "Gene,species,ref_aa,protein_start,alt_aa,Drug,cell_line,conc,rep,netgr_obs,type,synSNP,transcript_id"

func writeTempCsv(t *testing.T, lines ...string) string {
	t.Helper()

	csvPath := path.Join(t.TempDir(), "screen.csv")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	assert.NoError(t, os.WriteFile(csvPath, []byte(content), 0644))

	return csvPath
}

func TestLoadMeasurements(t *testing.T) {
	iz := NewIngestionService(&models.Config{})

	t.Run("should parse a valid row into a measurement record", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"Abl1,T315I,T,315,I,Imatinib,BaF3,1.25,1,0.0229,snp,FALSE,ENST00000318560",
		)

		records, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Empty(t, rejected)
		assert.Len(t, records, 1)

		record := records[0]
		// gene symbols are upper-cased at the boundary
		assert.Equal(t, "ABL1", record.Gene)
		assert.Equal(t, "T315I", record.VariantString)
		assert.Equal(t, "T", record.RefAa)
		assert.Equal(t, 315, record.Position)
		assert.Equal(t, "I", record.AltAa)
		assert.Equal(t, "Imatinib", record.Drug)
		assert.Equal(t, "BaF3", record.CellLine)
		assert.Equal(t, 1.25, record.Concentration)
		assert.Equal(t, 1, record.Replicate)
		assert.Equal(t, 0.0229, record.NetGrowthRate)
		assert.Equal(t, "snp", record.VariantType)
		assert.False(t, record.IsSynonymous)
		assert.Equal(t, "ENST00000318560", record.TranscriptId)

		assert.Equal(t, "ABL1_T315I", record.VariantKey())
		assert.Equal(t, "p.T315I", record.ProteinChange())
	})

	t.Run("should reject rows without blocking the rest of the file", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"ABL1,T315I,T,315,I,Imatinib,BaF3,not-a-number,1,0.0229,snp,FALSE,",
			"ABL1,T315I,T,315,I,Imatinib,BaF3,1.25,1,0.0229,snp,FALSE,",
		)

		records, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Len(t, rejected, 1)
		assert.Equal(t, 2, rejected[0].Line)
		assert.Contains(t, rejected[0].Reason, "non-numeric conc")
	})

	t.Run("should reject a variant identifier that disagrees with its components", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"ABL1,T315M,T,315,I,Imatinib,BaF3,1.25,1,0.0229,snp,FALSE,",
		)

		records, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Empty(t, records)
		assert.Len(t, rejected, 1)
		assert.Contains(t, rejected[0].Reason, "disagrees")
	})

	t.Run("should reject gene symbols outside the accepted alphabet", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"AB_L1,T315I,T,315,I,Imatinib,BaF3,1.25,1,0.0229,snp,FALSE,",
		)

		_, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Len(t, rejected, 1)
		assert.Contains(t, rejected[0].Reason, "invalid gene symbol")
	})

	t.Run("should reject non-positive positions and replicates", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"ABL1,T0I,T,0,I,Imatinib,BaF3,1.25,1,0.0229,snp,FALSE,",
			"ABL1,T315I,T,315,I,Imatinib,BaF3,1.25,0,0.0229,snp,FALSE,",
		)

		records, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Empty(t, records)
		assert.Len(t, rejected, 2)
	})

	t.Run("should reject short rows", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"ABL1,T315I,T,315",
		)

		records, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Empty(t, records)
		assert.Len(t, rejected, 1)
		assert.Contains(t, rejected[0].Reason, "fields")
	})

	t.Run("should accept a stop-gain alt amino acid", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"ABL1,Q252*,Q,252,*,Imatinib,BaF3,1.25,1,-0.01,snp,FALSE,",
		)

		records, rejected, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Empty(t, rejected)
		assert.Len(t, records, 1)
		assert.Equal(t, "*", records[0].AltAa)
	})

	t.Run("should fail outright when a required column is missing", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			"Gene,species,ref_aa,protein_start,alt_aa,Drug,cell_line,conc,rep",
			"ABL1,T315I,T,315,I,Imatinib,BaF3,1.25,1",
		)

		_, _, err := iz.LoadMeasurements(csvPath)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "netgr_obs")
	})

	t.Run("should fail outright when the file does not exist", func(t *testing.T) {
		_, _, err := iz.LoadMeasurements(path.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})

	t.Run("should parse synonymous markers from the optional column", func(t *testing.T) {
		csvPath := writeTempCsv(t,
			csvHeaderLine,
			"ABL1,T315T,T,315,T,Imatinib,BaF3,1.25,1,0.03,snp,TRUE,",
		)

		records, _, err := iz.LoadMeasurements(csvPath)

		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.True(t, records[0].IsSynonymous)
	})
}
