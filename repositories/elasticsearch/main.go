package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
)

const (
	genesIndex    = "search-genes"
	drugsIndex    = "search-drugs"
	variantsIndex = "search-variants"
)

// PublishSearchIndex mirrors the published search index into
// elasticsearch so downstream services can query it without
// fetching the JSON artifact. The published files stay the source
// of truth; a failed mirror never fails a pipeline run.
func PublishSearchIndex(es *elasticsearch.Client, index *artifacts.SearchIndex) error {
	bi, biErr := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     es,
		NumWorkers: 2,
	})
	if biErr != nil {
		return fmt.Errorf("failed to create bulk indexer : %w", biErr)
	}

	var wg sync.WaitGroup

	add := func(indexName string, documentId string, document interface{}) {
		payload, marshallErr := json.Marshal(document)
		if marshallErr != nil {
			fmt.Printf("Cannot encode search document %s: %s\n", documentId, marshallErr)
			return
		}

		wg.Add(1)
		addErr := bi.Add(
			context.Background(),
			esutil.BulkIndexerItem{
				Action:     "index",
				Index:      indexName,
				DocumentID: documentId,
				Body:       bytes.NewReader(payload),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					defer wg.Done()
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					defer wg.Done()
					if err != nil {
						fmt.Printf("ERROR: %s", err)
					} else {
						fmt.Printf("ERROR: %s: %s", res.Error.Type, res.Error.Reason)
					}
				},
			},
		)
		if addErr != nil {
			fmt.Printf("Unexpected error: %s", addErr)
			wg.Done()
		}
	}

	for _, gene := range index.Genes {
		add(genesIndex, gene.Symbol, gene)
	}
	for _, drug := range index.Drugs {
		add(drugsIndex, drug.Name, drug)
	}
	for _, variant := range index.Variants {
		add(variantsIndex, variant.Key(), variant)
	}

	wg.Wait()

	if closeErr := bi.Close(context.Background()); closeErr != nil {
		return fmt.Errorf("failed to close bulk indexer : %w", closeErr)
	}

	stats := bi.Stats()
	fmt.Printf("Mirrored search index to elasticsearch : %d indexed, %d failed\n", stats.NumIndexed, stats.NumFailed)

	if stats.NumFailed > 0 {
		return fmt.Errorf("%d search documents failed to index", stats.NumFailed)
	}

	return nil
}
