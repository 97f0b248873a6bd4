package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job runs a scheduled full sweep in addition to the sweeps triggered by
// session creation and evaluation.
type Job struct {
	sweeper  *Sweeper
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewJob(sweeper *Sweeper, schedule string, logger *zap.Logger) *Job {
	return &Job{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start begins the scheduled sweep.
func (j *Job) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		j.sweeper.EnforceAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	j.cron.Start()
	j.logger.Info("retention sweep scheduled", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the scheduled sweep.
func (j *Job) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}
