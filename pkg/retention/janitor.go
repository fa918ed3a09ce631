package retention

import (
	"context"
	"time"

	"github.com/planj/planj/internal/utils"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Janitor permanently removes soft-deleted rows once they are older than the
// configured retention period.
type Janitor struct {
	repo  Repository
	clock utils.Clock
	days  int
	cron  *cron.Cron
}

func NewJanitor(repo Repository, clock utils.Clock, days int) *Janitor {
	return &Janitor{repo: repo, clock: clock, days: days}
}

// Start schedules sweeps on the given cron expression until Stop is called.
func (j *Janitor) Start(spec string) error {
	j.cron = cron.New()
	_, err := j.cron.AddFunc(spec, func() {
		if err := j.Sweep(context.Background()); err != nil {
			log.Errorf("retention sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	log.Infof("retention janitor started, schedule %q, keeping soft-deleted rows for %d days", spec, j.days)
	return nil
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Sweep runs one purge pass.
func (j *Janitor) Sweep(ctx context.Context) error {
	cutoff := j.clock.Now().AddDate(0, 0, -j.days).UnixMilli()

	participations, err := j.repo.PurgeParticipations(ctx, cutoff)
	if err != nil {
		return err
	}
	schedules, err := j.repo.PurgeSchedules(ctx, cutoff)
	if err != nil {
		return err
	}
	metadata, err := j.repo.PurgeMetadata(ctx, cutoff)
	if err != nil {
		return err
	}

	if participations+schedules+metadata > 0 {
		log.Infof("retention sweep purged %d participations, %d schedules, %d metadata rows older than %s",
			participations, schedules, metadata, time.UnixMilli(cutoff).Format(time.RFC3339))
	}
	return nil
}
