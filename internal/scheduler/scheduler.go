package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/date-facts/internal/facts"
)

// Scheduler periodically warms the cache with the current week's facts so a
// day rollover is fetched before any view asks for it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *facts.Service
	location  *time.Location
	interval  time.Duration
}

// New creates a new Scheduler.
func New(location *time.Location, interval time.Duration, service *facts.Service) *Scheduler {
	if location == nil {
		location = time.Local
	}
	s := gocron.NewScheduler(location)
	return &Scheduler{
		scheduler: s,
		service:   service,
		location:  location,
		interval:  interval,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
// A non-positive interval disables warm-up.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: warm-up disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.Warm)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Warm fetches this week's keys (today included) into the cache without
// marking any UI query as loading.
func (s *Scheduler) Warm() {
	log.Println("scheduler: running fact warm-up job")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results := s.service.Prefetch(ctx, time.Now(), s.location)
	sum := facts.Summarize(results)
	log.Printf("scheduler: completed fact warm-up job (%d available, %d unavailable)", sum.Available, sum.Unavailable)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
