package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/SparkyDaBear/AtlasBioTech/contexts"
	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"

	. "github.com/ahmetb/go-linq"
	"github.com/mitchellh/mapstructure"

	"github.com/labstack/echo"
)

func SearchCatalogs(c echo.Context) error {
	fmt.Printf("[%s] - SearchCatalogs hit!\n", time.Now())

	ac := c.(*contexts.AtlasContext)
	term := strings.ToLower(ac.SearchTerm)

	indexPath := path.Join(ac.Config.Pipeline.OutputPath, "search_index.json")
	payload, readErr := os.ReadFile(indexPath)
	if readErr != nil {
		fmt.Printf("Failed to read search index at %s : %s\n", indexPath, readErr)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Search index has not been published yet!")
	}

	// the published artifact is decoded generically and then mapped
	// onto typed entries, so a stale index with extra fields still serves
	var document map[string]interface{}
	if unmarshalErr := json.Unmarshal(payload, &document); unmarshalErr != nil {
		fmt.Printf("Failed to unmarshal search index : %s\n", unmarshalErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search index is unreadable!")
	}

	genes, genesErr := filterGenes(document["genes"], term)
	if genesErr != nil {
		fmt.Printf("Failed to decode search index genes : %s\n", genesErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search index is unreadable!")
	}

	drugs, drugsErr := filterDrugs(document["drugs"], term)
	if drugsErr != nil {
		fmt.Printf("Failed to decode search index drugs : %s\n", drugsErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search index is unreadable!")
	}

	variants, variantsErr := filterVariants(document["variants"], term)
	if variantsErr != nil {
		fmt.Printf("Failed to decode search index variants : %s\n", variantsErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search index is unreadable!")
	}

	return c.JSON(http.StatusOK, models.SearchResponseDTO{
		Status:  http.StatusOK,
		Message: "Success",
		Term:    ac.SearchTerm,
		Count:   len(genes) + len(drugs) + len(variants),

		Genes:    genes,
		Drugs:    drugs,
		Variants: variants,
	})
}

func filterGenes(rawEntries interface{}, term string) ([]artifacts.GeneEntry, error) {
	var entries []artifacts.GeneEntry
	if decodeErr := mapstructure.Decode(rawEntries, &entries); decodeErr != nil {
		return nil, decodeErr
	}

	matched := make([]artifacts.GeneEntry, 0)
	From(entries).
		WhereT(func(gene artifacts.GeneEntry) bool {
			if strings.Contains(strings.ToLower(gene.Symbol), term) ||
				strings.Contains(strings.ToLower(gene.Name), term) {
				return true
			}
			return matchesSynonym(gene.Synonyms, term)
		}).
		ToSlice(&matched)

	return matched, nil
}

func filterDrugs(rawEntries interface{}, term string) ([]artifacts.DrugEntry, error) {
	var entries []artifacts.DrugEntry
	if decodeErr := mapstructure.Decode(rawEntries, &entries); decodeErr != nil {
		return nil, decodeErr
	}

	matched := make([]artifacts.DrugEntry, 0)
	From(entries).
		WhereT(func(drug artifacts.DrugEntry) bool {
			if strings.Contains(strings.ToLower(drug.Name), term) {
				return true
			}
			return matchesSynonym(drug.Synonyms, term)
		}).
		ToSlice(&matched)

	return matched, nil
}

func filterVariants(rawEntries interface{}, term string) ([]artifacts.VariantEntry, error) {
	var entries []artifacts.VariantEntry
	if decodeErr := mapstructure.Decode(rawEntries, &entries); decodeErr != nil {
		return nil, decodeErr
	}

	matched := make([]artifacts.VariantEntry, 0)
	From(entries).
		WhereT(func(variant artifacts.VariantEntry) bool {
			return strings.Contains(strings.ToLower(variant.SearchableText), term)
		}).
		ToSlice(&matched)

	return matched, nil
}

func matchesSynonym(synonyms []string, term string) bool {
	for _, synonym := range synonyms {
		if strings.Contains(strings.ToLower(synonym), term) {
			return true
		}
	}
	return false
}
