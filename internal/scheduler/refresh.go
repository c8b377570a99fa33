package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/edurisk/student-dss/internal/modules/analysis"
)

// RefreshJob re-runs the analysis pipeline on a schedule so that the
// persisted results track dataset updates. The model is reused, not
// retrained; retraining stays an explicit operator action.
type RefreshJob struct {
	service *analysis.Service
	log     zerolog.Logger
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(service *analysis.Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		log:     log.With().Str("job", "refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "analysis_refresh"
}

// Run executes one scheduled analysis pass
func (j *RefreshJob) Run() error {
	j.log.Info().Msg("Scheduled analysis refresh starting")
	return j.service.Run(analysis.RunOptions{Retrain: false})
}
