package scheduler

import (
	"fmt"
	"time"

	"github.com/SparkyDaBear/AtlasBioTech/models"
	"github.com/SparkyDaBear/AtlasBioTech/services"

	"github.com/go-co-op/gocron"
)

type (
	SchedulerService struct {
		Initialized     bool
		Config          *models.Config
		PipelineService *services.PipelineService
	}
)

func NewSchedulerService(pz *services.PipelineService, cfg *models.Config) *SchedulerService {
	sz := &SchedulerService{
		Initialized:     false,
		Config:          cfg,
		PipelineService: pz,
	}

	sz.Init()

	return sz
}

func (sz *SchedulerService) Init() {
	// initialization if necessary
	if !sz.Initialized {
		// - spin up a go routine that periodically re-runs the
		//   batch transformation so newly landed measurements get
		//   published without manual intervention; re-runs on
		//   unchanged input rewrite the same bytes
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			s.Every(1).Days().At(sz.Config.Pipeline.ScheduleTime).Do(func() {
				fmt.Printf("[%s] - Running scheduled pipeline refresh..\n", time.Now())

				if _, runErr := sz.PipelineService.Run(); runErr != nil {
					fmt.Printf("[%s] - Scheduled pipeline refresh failed : %v..\n", time.Now(), runErr)
				}
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		sz.Initialized = true
		fmt.Println("Scheduler Service Initialized ..")
	}
}
