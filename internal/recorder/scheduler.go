package recorder

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler repeats page scans.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop halts the schedule and cancels the context handed to running scans.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.cancel()
}

// SchedulePageScan scans pageURL right away and then every interval.
func (s *Scheduler) SchedulePageScan(r *Recorder, pageURL string, interval time.Duration) error {
	_, err := s.scheduler.Every(interval).Tag("scan:" + pageURL).Do(func() {
		r.ScanPage(s.ctx, pageURL)
	})
	return err
}

// RemoveScan stops scanning pageURL.
func (s *Scheduler) RemoveScan(pageURL string) error {
	return s.scheduler.RemoveByTag("scan:" + pageURL)
}

func (s *Scheduler) Jobs() []*gocron.Job {
	return s.scheduler.Jobs()
}
