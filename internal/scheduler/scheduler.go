package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/surfwatch/internal/marine"
)

const (
	defaultInterval = 5 * time.Minute
	jobTimeout      = 30 * time.Second
)

// Warmer re-fetches a station's latest sample and limit-row history into the cache.
type Warmer interface {
	Refresh(ctx context.Context, stationID string, limit int) error
}

// Scheduler keeps the observation cache warm for a fixed list of stations.
// Every tick overwrites the cached entries, so with an interval shorter than
// the cache TTL readers never see a miss for these stations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	stations  []string
	interval  time.Duration
	limit     int
	logger    *slog.Logger
}

// New creates a new Scheduler. Stations are fetched with both the latest and the
// default history window so the common API requests hit the cache.
func New(stations []string, interval time.Duration, warmer Warmer, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		stations:  append([]string(nil), stations...),
		interval:  interval,
		limit:     marine.DefaultRecentLimit,
		logger:    logger,
	}
}

// Start schedules the warming job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.stations) == 0 {
		s.logger.Info("scheduler: no stations configured; nothing to warm")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runOnce() {
	s.logger.Debug("scheduler: warming station cache", "stations", len(s.stations))

	var wg sync.WaitGroup
	for _, station := range s.stations {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			if err := s.warmer.Refresh(ctx, station, s.limit); err != nil {
				s.logger.Warn("scheduler: refresh failed", "station", station, "error", err)
			}
		}()
	}
	wg.Wait()

	s.logger.Debug("scheduler: cache warm complete")
}
