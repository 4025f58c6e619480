// Package scheduler runs periodic sync batches on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/booksync/weread2yuque/internal/settingsstore"
	"github.com/booksync/weread2yuque/internal/syncer"
)

// SyncerBuilder constructs a fresh Syncer for one run. Building per run
// picks up settings changed through the API without restarting and keeps
// the clients free of shared mutable state.
type SyncerBuilder func() (*syncer.Syncer, error)

// SyncScheduler manages periodic WeRead to Yuque sync runs
type SyncScheduler struct {
	settingsStore *settingsstore.SettingsStore
	buildSyncer   SyncerBuilder

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc

	lastSummary *syncer.Summary
	lastError   string
}

// NewSyncScheduler creates a new scheduler instance
func NewSyncScheduler(settingsStore *settingsstore.SettingsStore, buildSyncer SyncerBuilder) *SyncScheduler {
	return &SyncScheduler{
		settingsStore: settingsStore,
		buildSyncer:   buildSyncer,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	schedule := s.settingsStore.GetSyncSchedule()

	if err := settingsstore.ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(schedule)
	log.Printf("Sync scheduler: started with schedule '%s' (%s). Next run: %v",
		schedule,
		settingsstore.GetCronDescription(schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Sync scheduler: stopped")
}

// Reschedule updates the schedule (call after settings change)
func (s *SyncScheduler) Reschedule() error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}

	return s.Start(context.Background())
}

// RunNow triggers an immediate sync
func (s *SyncScheduler) RunNow() error {
	s.mu.RLock()
	busy := s.isSyncing
	s.mu.RUnlock()
	if busy {
		return fmt.Errorf("sync already in progress")
	}

	go s.runSync()
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *SyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a sync is currently in progress
func (s *SyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next sync will occur
func (s *SyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastResult returns the summary and error message of the most recent run
// triggered through this scheduler.
func (s *SyncScheduler) LastResult() (*syncer.Summary, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSummary, s.lastError
}

// runSync performs the actual sync operation
func (s *SyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	worker, err := s.buildSyncer()
	if err != nil {
		log.Printf("Sync: skipped (%v)", err)
		s.recordResult(nil, err.Error())
		return
	}

	log.Printf("Sync: starting batch")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := worker.Run(ctx)
	if err != nil {
		errMsg := fmt.Sprintf("Sync batch failed: %v", err)
		log.Printf("Sync: %s", errMsg)
		s.recordResult(nil, errMsg)
		return
	}

	duration := time.Since(startTime)
	log.Printf("Sync: %s in %v", summary.Message(), duration.Round(time.Millisecond))
	s.recordResult(summary, "")
}

func (s *SyncScheduler) recordResult(summary *syncer.Summary, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSummary = summary
	s.lastError = errMsg
}
