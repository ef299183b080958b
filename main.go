package main

import (
	"fmt"
	"os"

	"github.com/SparkyDaBear/AtlasBioTech/contexts"
	gam "github.com/SparkyDaBear/AtlasBioTech/middleware"
	"github.com/SparkyDaBear/AtlasBioTech/models"
	pipelineMvc "github.com/SparkyDaBear/AtlasBioTech/mvc/pipeline"
	searchMvc "github.com/SparkyDaBear/AtlasBioTech/mvc/search"
	serviceInfoMvc "github.com/SparkyDaBear/AtlasBioTech/mvc/service-info"
	esRepo "github.com/SparkyDaBear/AtlasBioTech/repositories/elasticsearch"
	"github.com/SparkyDaBear/AtlasBioTech/services"
	"github.com/SparkyDaBear/AtlasBioTech/services/scheduler"
	"github.com/SparkyDaBear/AtlasBioTech/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tInput CSV Path : %s \n"+
		"\tDrug Catalog Path : %s \n"+
		"\tOutput Path : %s \n"+
		"\tVariant Processing Concurrency Level : %d\n"+
		"\tDose Tier Concentrations (nM) : %g / %g / %g\n\n"+

		"\tSchedule Enabled : %t\n"+
		"\tElasticsearch Enabled : %t\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Pipeline.InputCsvPath,
		cfg.Pipeline.DrugCatalogPath,
		cfg.Pipeline.OutputPath,
		cfg.Pipeline.VariantProcessingConcurrencyLevel,
		cfg.Pipeline.TierLowConcentration,
		cfg.Pipeline.TierMediumConcentration,
		cfg.Pipeline.TierHighConcentration,
		cfg.Pipeline.ScheduleEnabled,
		cfg.Elasticsearch.Enabled,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Api.Port)
	// --

	// Service Connections:
	// -- Elasticsearch (optional search index mirror)
	var es *es7.Client
	if cfg.Elasticsearch.Enabled {
		es = utils.CreateEsConnection(&cfg)
	}

	// Service Singletons
	pz := services.NewPipelineService(&cfg)

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "run":
		// one batch transformation, then exit
		report, runErr := pz.Run()
		if runErr != nil {
			fmt.Printf("Pipeline run failed : %s\n", runErr)
			os.Exit(1)
		}

		if cfg.Elasticsearch.Enabled {
			mirrorSearchIndex(&cfg, es)
		}

		fmt.Printf("Pipeline run %s complete : %d rows accepted, %d rejected\n",
			report.RunId, report.AcceptedRows, len(report.RejectedRows))

	case "serve":
		serve(&cfg, es, pz)

	default:
		fmt.Printf("Unknown mode %s (expected 'run' or 'serve')\n", mode)
		os.Exit(2)
	}
}

func serve(cfg *models.Config, es *es7.Client, pz *services.PipelineService) {
	// Instantiate Server
	e := echo.New()

	if cfg.Pipeline.ScheduleEnabled {
		scheduler.NewSchedulerService(pz, cfg)
	}

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom Atlas" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.AtlasContext{
				Context:         c,
				Config:          cfg,
				Es7Client:       es,
				PipelineService: pz,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", serviceInfoMvc.GetServiceWelcome)

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Search
	e.GET("/search", searchMvc.SearchCatalogs,
		// middleware
		gam.MandateSearchTermAttribute)

	// -- Pipeline
	e.GET("/pipeline/run", pipelineMvc.RequestPipelineRun)
	e.GET("/pipeline/runs", pipelineMvc.GetPipelineRuns)
	e.GET("/qc/report", pipelineMvc.GetQcReport)

	// -- Published artifacts
	e.Static("/data", cfg.Pipeline.OutputPath)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}

// mirrorSearchIndex pushes the freshly published search index into
// elasticsearch; failures are logged, never fatal.
func mirrorSearchIndex(cfg *models.Config, es *es7.Client) {
	index, loadErr := services.NewSearchService(cfg).LoadPublishedSearchIndex()
	if loadErr != nil {
		fmt.Printf("Failed to load published search index : %s\n", loadErr)
		return
	}

	if publishErr := esRepo.PublishSearchIndex(es, index); publishErr != nil {
		fmt.Printf("Failed to mirror search index : %s\n", publishErr)
	}
}
