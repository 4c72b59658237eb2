package service

import (
	"context"
	"fmt"
	"time"

	"go-hospital-directory/pkg/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

// MaintenanceJob is one periodic repair task
type MaintenanceJob func(ctx context.Context) error

// MaintenanceScheduler runs directory housekeeping on cron schedules.
// Overlapping runs of the same job are skipped.
type MaintenanceScheduler struct {
	cron    *cron.Cron
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewMaintenanceScheduler(log *logrus.Logger, m *metrics.Metrics) *MaintenanceScheduler {
	cronLog := cron.PrintfLogger(log)
	return &MaintenanceScheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		log:     log,
		metrics: m,
	}
}

// Register adds a job. An empty spec leaves the job disabled.
func (s *MaintenanceScheduler) Register(name, spec string, job MaintenanceJob) error {
	if spec == "" {
		s.log.Infof("Maintenance job %s disabled", name)
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.log.Infof("Maintenance job %s scheduled at %q", name, spec)
	return nil
}

func (s *MaintenanceScheduler) run(name string, job MaintenanceJob) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	s.metrics.CronRun(name, err)
	if err != nil {
		s.log.Warnf("Maintenance job %s failed: %+v", name, err)
		return
	}
	s.log.Infof("Maintenance job %s finished in %v", name, time.Since(start))
}

func (s *MaintenanceScheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire
func (s *MaintenanceScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Maintenance jobs still running at shutdown")
	}
}
