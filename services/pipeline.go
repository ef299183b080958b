package services

import (
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/models/artifacts"
	"github.com/SparkyDaBear/AtlasBioTech/models/ingest"
	"github.com/SparkyDaBear/AtlasBioTech/utils"
)

type (
	PipelineService struct {
		Initialized bool
		Config      *models.Config

		Ingestion   *IngestionService
		Aggregation *AggregationService
		Heatmap     *HeatmapService
		Search      *SearchService
		Validation  *ValidationService

		RunChan   chan ingest.PipelineRun
		RunMap    map[string]*ingest.PipelineRun
		RunMapMux sync.RWMutex
	}
)

func NewPipelineService(cfg *models.Config) *PipelineService {
	pz := &PipelineService{
		Initialized: false,
		Config:      cfg,

		Ingestion:   NewIngestionService(cfg),
		Aggregation: NewAggregationService(cfg),
		Heatmap:     NewHeatmapService(cfg),
		Search:      NewSearchService(cfg),
		Validation:  NewValidationService(cfg),

		RunChan: make(chan ingest.PipelineRun),
		RunMap:  map[string]*ingest.PipelineRun{},
	}

	pz.Init()

	return pz
}

func (p *PipelineService) Init() {
	// safeguard to prevent multiple initilizations
	if !p.Initialized {
		// listener for pipeline run state updates; each message is a
		// snapshot by value, the sender keeps mutating its own struct
		go func() {
			for snapshot := range p.RunChan {
				if snapshot.State == ingest.Queued {
					fmt.Printf("Queueing a new pipeline run for %s\n", snapshot.InputFile)
				}

				run := snapshot
				run.UpdatedAt = time.Now().String()
				p.RunMapMux.Lock()
				p.RunMap[run.Id.String()] = &run
				p.RunMapMux.Unlock()
			}
		}()

		p.Initialized = true
	}
}

// Run executes one batch transformation: ingest the raw CSV, build
// the three artifact sets in parallel over the same immutable record
// set, verify referential completeness and schema conformance, then
// publish. Nothing is written until every check passes.
func (p *PipelineService) Run() (*artifacts.QCReport, error) {
	inputPath := p.Config.Pipeline.InputCsvPath

	checksum, err := utils.Sha256File(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum input csv : %w", err)
	}

	// run identity is derived from the input so that re-running on
	// unchanged input produces byte-identical artifacts
	runId := uuid.NewSHA1(uuid.NameSpaceURL, []byte(inputPath+":"+checksum))

	run := &ingest.PipelineRun{
		Id:        runId,
		InputFile: path.Base(inputPath),
		State:     ingest.Queued,
		CreatedAt: time.Now().String(),
	}
	p.RunChan <- *run

	fileInfo, err := os.Stat(inputPath)
	if err != nil {
		return nil, p.failRun(run, fmt.Errorf("failed to stat input csv : %w", err))
	}
	lastUpdate := fileInfo.ModTime().UTC().Format(time.RFC3339)

	records, rejectedRows, err := p.Ingestion.LoadMeasurements(inputPath)
	if err != nil {
		return nil, p.failRun(run, err)
	}

	drugCatalog, err := p.Search.LoadDrugCatalog()
	if err != nil {
		return nil, p.failRun(run, err)
	}

	run.State = ingest.Running
	p.RunChan <- *run

	// the three builders read the same immutable record set and
	// share no state, so they run in parallel
	var (
		summaries        map[string]*artifacts.VariantSummary
		heatmaps         map[string]*artifacts.HeatmapDocument
		index            *artifacts.SearchIndex
		unmappedConcRows int
	)

	var eg errgroup.Group
	eg.Go(func() error {
		summaries = p.Aggregation.BuildVariantSummaries(records)
		return nil
	})
	eg.Go(func() error {
		heatmaps, unmappedConcRows = p.Heatmap.BuildHeatmapDocuments(records)
		return nil
	})
	eg.Go(func() error {
		index = p.Search.BuildSearchIndex(records, drugCatalog, lastUpdate)
		return nil
	})
	if egErr := eg.Wait(); egErr != nil {
		return nil, p.failRun(run, egErr)
	}

	if integrityErr := p.Validation.CheckReferentialCompleteness(summaries, heatmaps, index); integrityErr != nil {
		return nil, p.failRun(run, fmt.Errorf("referential completeness check failed : %w", integrityErr))
	}

	report := &artifacts.QCReport{
		RunId:          runId.String(),
		SourceFile:     path.Base(inputPath),
		SourceChecksum: checksum,

		TotalRows:    len(records) + len(rejectedRows),
		AcceptedRows: len(records),
		RejectedRows: rejectedRows,

		UnmappedConcentrationRows: unmappedConcRows,

		Artifacts: artifacts.QCArtifactCounts{
			VariantSummaries: len(summaries),
			HeatmapDocuments: len(heatmaps),
			SearchEntries:    len(index.Variants),
		},
	}
	if report.RejectedRows == nil {
		report.RejectedRows = []artifacts.RejectedRow{}
	}

	if publishErr := p.publish(summaries, heatmaps, index, report); publishErr != nil {
		return nil, p.failRun(run, publishErr)
	}

	run.State = ingest.Done
	run.Message = fmt.Sprintf("%d variant summaries, %d heatmap documents, %d search entries",
		len(summaries), len(heatmaps), len(index.Variants))
	p.RunChan <- *run

	return report, nil
}

// publish validates every artifact against its declared schema, and
// only once the full set has passed writes it in deterministic order.
// A schema-gate failure on any artifact means nothing touches disk.
func (p *PipelineService) publish(
	summaries map[string]*artifacts.VariantSummary,
	heatmaps map[string]*artifacts.HeatmapDocument,
	index *artifacts.SearchIndex,
	report *artifacts.QCReport) error {

	outputPath := p.Config.Pipeline.OutputPath

	type stagedArtifact struct {
		filePath string
		payload  []byte
	}
	var staged []stagedArtifact

	stage := func(kind string, filePath string, data interface{}, requiredPaths []string) error {
		payload, err := utils.MarshalArtifact(data)
		if err != nil {
			return fmt.Errorf("failed to marshal %s artifact : %w", kind, err)
		}
		if validationErr := p.Validation.ValidateArtifact(kind, payload, requiredPaths); validationErr != nil {
			return validationErr
		}
		staged = append(staged, stagedArtifact{filePath: filePath, payload: payload})
		return nil
	}

	for _, key := range utils.SortedKeys(summaries) {
		filePath := path.Join(outputPath, "variants", fmt.Sprintf("%s.json", key))
		if err := stage("variant summary", filePath, summaries[key], VariantSummaryRequiredPaths); err != nil {
			return err
		}
	}

	for _, geneName := range utils.SortedKeys(heatmaps) {
		filePath := path.Join(outputPath, "heatmaps", fmt.Sprintf("%s.json", geneName))
		if err := stage("heatmap", filePath, heatmaps[geneName], HeatmapRequiredPaths); err != nil {
			return err
		}
	}

	if err := stage("search index", path.Join(outputPath, "search_index.json"), index, SearchIndexRequiredPaths); err != nil {
		return err
	}

	if err := stage("qc report", path.Join(outputPath, "qc_report.json"), report, QcReportRequiredPaths); err != nil {
		return err
	}

	for _, artifact := range staged {
		if err := utils.WriteJsonBytes(artifact.filePath, artifact.payload); err != nil {
			return err
		}
	}

	fmt.Printf("Published %d variant summaries, %d heatmap documents, search index and qc report to %s\n",
		len(summaries), len(heatmaps), outputPath)

	return nil
}

func (p *PipelineService) failRun(run *ingest.PipelineRun, err error) error {
	run.State = ingest.Error
	run.Message = err.Error()
	p.RunChan <- *run
	return err
}
