package contexts

import (
	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/services"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  the pipeline services and other variables
	AtlasContext struct {
		echo.Context
		Config          *models.Config
		Es7Client       *es7.Client
		PipelineService *services.PipelineService

		SearchTerm string
	}
)
