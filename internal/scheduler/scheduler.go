package scheduler

import (
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"vacancy-analytics/internal/config"
	"vacancy-analytics/internal/search"
	"vacancy-analytics/internal/towercache"
)

// Scheduler runs the nightly aggregation rebuild: refresh the snapshot from
// the row store and push the result to the search index.
type Scheduler struct {
	cron      *cron.Cron
	cache     *towercache.Cache
	search    *search.SearchClient
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler. The search client may be nil when no
// index is configured.
func NewScheduler(cache *towercache.Cache, sc *search.SearchClient, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cache:  cache,
		search: sc,
		config: cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Ingest.DailyRebuildEnabled {
		log.Println("Scheduler: Daily rebuild is disabled in configuration")
		return nil
	}

	// Parse daily rebuild time (HH:MM format in config)
	cronSpec := s.parseDailyTime(s.config.Ingest.DailyRebuildTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily rebuild...")
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: Daily rebuild failed: %v", err)
		} else {
			log.Println("Scheduler: Daily rebuild completed successfully")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily rebuild at %s (cron: %s)", s.config.Ingest.DailyRebuildTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow executes one rebuild pass immediately.
func (s *Scheduler) RunNow() error {
	snap, err := s.cache.Refresh()
	if err != nil {
		return fmt.Errorf("failed to rebuild snapshot: %w", err)
	}

	log.Printf("[rebuild] towers=%d vacant_units=%d", len(snap.Towers), snap.Stats.TotalVacantUnits)

	if s.search != nil {
		if err := s.search.IndexTowers(snap.Towers); err != nil {
			// The snapshot is live either way; the index catches up on
			// the next pass.
			log.Printf("[reindex] warning: failed to index towers: %v", err)
		} else {
			log.Printf("[reindex] indexed %d towers", len(snap.Towers))
		}
	}

	return nil
}

// parseDailyTime converts "HH:MM" into a cron spec, falling back to 02:00.
func (s *Scheduler) parseDailyTime(t string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) == 2 {
		var hour, minute int
		if _, err := fmt.Sscanf(t, "%d:%d", &hour, &minute); err == nil &&
			hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
			return fmt.Sprintf("%d %d * * *", minute, hour)
		}
	}
	log.Printf("Scheduler: invalid daily rebuild time %q, using 02:00", t)
	return "0 2 * * *"
}
