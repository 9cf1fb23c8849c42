package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/csd4487/vedema/internal/config"
)

const digestTimeout = 10 * time.Minute

// DigestRunner produces the season digest for every user.
type DigestRunner interface {
	RunDigest(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	digest   DigestRunner
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler running in the configured timezone.
func NewScheduler(cfg config.DigestConfig, digest DigestRunner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Standard 5-field parser: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		digest:   digest,
		schedule: cfg.CronSchedule,
		logger:   logger,
	}, nil
}

// Start registers the digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule season digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	s.logger.Info("generating season digest")
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.digest.RunDigest(ctx); err != nil {
		s.logger.Error("season digest completed with errors", zap.Error(err))
		return
	}
	s.logger.Info("season digest completed successfully")
}
