package monitoring

import (
	"time"

	"github.com/herballink/herballink-be/internal/uploads"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RetentionSweeper periodically removes stored uploads older than the
// configured retention window.
type RetentionSweeper struct {
	store         *uploads.Store
	retentionDays int
	spec          string
	cron          *cron.Cron
}

// NewRetentionSweeper creates a sweeper. A non-positive retentionDays
// disables it.
func NewRetentionSweeper(store *uploads.Store, retentionDays int, spec string) *RetentionSweeper {
	return &RetentionSweeper{
		store:         store,
		retentionDays: retentionDays,
		spec:          spec,
	}
}

// Start schedules the sweep. Returns an error only for an invalid cron
// expression.
func (s *RetentionSweeper) Start() error {
	if s.retentionDays <= 0 {
		log.Info().Msg("Upload retention disabled, sweeper not started")
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("schedule", s.spec).Int("retention_days", s.retentionDays).Msg("Upload retention sweeper started")
	return nil
}

// Stop halts the scheduled sweeps.
func (s *RetentionSweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *RetentionSweeper) sweep() {
	cutoff := time.Now().Add(-time.Duration(s.retentionDays) * 24 * time.Hour)
	removed, err := s.store.SweepOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Retention sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("Retention sweep removed stale uploads")
	}
}
