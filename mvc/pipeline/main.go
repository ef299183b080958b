package pipeline

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/SparkyDaBear/AtlasBioTech/contexts"
	"github.com/SparkyDaBear/AtlasBioTech/models/ingest"
	"github.com/SparkyDaBear/AtlasBioTech/utils"

	"github.com/labstack/echo"
)

// RequestPipelineRun kicks off a batch transformation in the
// background and returns immediately; progress is polled via
// GetPipelineRuns.
func RequestPipelineRun(c echo.Context) error {
	fmt.Printf("[%s] - RequestPipelineRun hit!\n", time.Now())

	ac := c.(*contexts.AtlasContext)
	pz := ac.PipelineService

	go func() {
		if _, runErr := pz.Run(); runErr != nil {
			fmt.Printf("Pipeline run failed : %s\n", runErr)
		}
	}()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Pipeline run requested",
		"inputFile": path.Base(ac.Config.Pipeline.InputCsvPath),
	})
}

func GetPipelineRuns(c echo.Context) error {
	fmt.Printf("[%s] - GetPipelineRuns hit!\n", time.Now())

	pz := c.(*contexts.AtlasContext).PipelineService

	pz.RunMapMux.RLock()
	defer pz.RunMapMux.RUnlock()

	runs := make([]*ingest.PipelineRunResponseDTO, 0)
	for _, runId := range utils.SortedKeys(pz.RunMap) {
		run := pz.RunMap[runId]
		runs = append(runs, &ingest.PipelineRunResponseDTO{
			Id:        run.Id,
			InputFile: run.InputFile,
			State:     run.State,
			Message:   run.Message,
		})
	}

	return c.JSON(http.StatusOK, runs)
}

// GetQcReport serves the quality-control report of the most recent
// published run.
func GetQcReport(c echo.Context) error {
	fmt.Printf("[%s] - GetQcReport hit!\n", time.Now())

	ac := c.(*contexts.AtlasContext)

	reportPath := path.Join(ac.Config.Pipeline.OutputPath, "qc_report.json")
	payload, readErr := os.ReadFile(reportPath)
	if readErr != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No qc report has been published yet!")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, payload)
}
