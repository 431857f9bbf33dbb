package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher re-fetches the current location. location.Resolver satisfies it.
type Refresher interface {
	Refresh() (uint64, bool)
}

// Scheduler periodically refreshes the authoritative location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
}

// New creates a new Scheduler. A non-positive interval disables it.
func New(interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: auto refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	seq, ok := s.refresher.Refresh()
	if !ok {
		log.Println("scheduler: no location resolved yet; skipping refresh")
		return
	}
	log.Printf("scheduler: issued refresh seq=%d", seq)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
