// Package snapshot periodically saves the timeline image while the server
// runs.
package snapshot

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "timeline/internal/errors"
	appLog "timeline/internal/log"
	"timeline/internal/model"
)

// Saver writes an image of events and returns the written path.
type Saver interface {
	SaveAsImage(ctx context.Context, events []model.Event) (string, error)
}

// Source supplies the current events.
type Source func() []model.Event

// Scheduler runs a Saver on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	saver  Saver
	events Source
}

// New parses expr (standard 5-field cron) and prepares a scheduler.
func New(expr string, loc *time.Location, saver Saver, events Source) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		saver:  saver,
		events: events,
	}
	if _, err := s.cron.AddFunc(expr, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "snapshot cron %q", expr)
	}
	return s, nil
}

// RunOnce saves the current events. An empty timeline is skipped.
func (s *Scheduler) RunOnce(ctx context.Context) (string, bool) {
	events := s.events()
	if len(events) == 0 {
		appLog.Debug("snapshot skipped: no events")
		return "", false
	}
	path, err := s.saver.SaveAsImage(ctx, events)
	if err != nil {
		appLog.Error("snapshot failed", err)
		return "", false
	}
	appLog.Info("snapshot saved", "path", path, "events", len(events))
	return path, true
}

// Run starts the schedule and blocks until ctx is cancelled, then waits
// for a running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	appLog.Info("snapshot scheduler started", "entries", len(s.cron.Entries()))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	appLog.Info("snapshot scheduler stopped")
}
