package jobs

import (
	"context"

	"github.com/wonny/swingrank/internal/scan"
	"github.com/wonny/swingrank/pkg/logger"
)

// DailyScanJob runs the scoring pipeline for every configured list
// after the US market close.
type DailyScanJob struct {
	runner   *scan.Runner
	schedule string
	logger   *logger.Logger
}

// NewDailyScanJob creates the daily scan job.
func NewDailyScanJob(runner *scan.Runner, schedule string, log *logger.Logger) *DailyScanJob {
	return &DailyScanJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *DailyScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron expression, evaluated in US Eastern time.
func (j *DailyScanJob) Schedule() string {
	return j.schedule
}

// Run scans all configured lists.
func (j *DailyScanJob) Run(ctx context.Context) error {
	j.logger.Info("Daily scan starting")
	return j.runner.RunAll(ctx)
}
