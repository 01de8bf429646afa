package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yourusername/creditdesk/internal/engine"
	"github.com/yourusername/creditdesk/internal/service"
)

// Scheduler manages scheduled re-analysis and retention jobs
type Scheduler struct {
	cron            *cron.Cron
	engine          *engine.Engine
	ingestionSvc    *service.IngestionService
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(eng *engine.Engine, ingestionSvc *service.IngestionService, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		engine:          eng,
		ingestionSvc:    ingestionSvc,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleReanalysis schedules periodic re-analysis of active companies.
// Companies with a run newer than staleMaxHours are skipped.
func (s *Scheduler) ScheduleReanalysis(cronExpression string, staleMaxHours int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if staleMaxHours <= 0 {
		staleMaxHours = 24
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
		defer cancel()

		s.runReanalysis(ctx, time.Duration(staleMaxHours)*time.Hour)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled re-analysis job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleIngestion schedules periodic statement ingestion for all
// companies present in the configured source
func (s *Scheduler) ScheduleIngestion(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if s.ingestionSvc == nil {
		return fmt.Errorf("no ingestion service configured")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		metrics, err := s.ingestionSvc.IngestCompany(ctx, "")
		if err != nil {
			s.logger.Printf("Error during scheduled ingestion: %v", err)
			return
		}
		s.logger.Printf("Scheduled ingestion completed: %s", metrics.String())
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled ingestion job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleRetention schedules cleanup of analysis runs older than
// retentionDays, keeping the run history bounded
func (s *Scheduler) ScheduleRetention(cronExpression string, retentionDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if retentionDays <= 0 {
		retentionDays = 90
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		repos := s.engine.Repositories()
		if repos == nil {
			return
		}

		deleted, err := repos.AnalysisRun.DeleteOlderThanDays(ctx, retentionDays)
		if err != nil {
			s.logger.Printf("Error during run retention cleanup: %v", err)
			return
		}
		if deleted > 0 {
			s.logger.Printf("Retention cleanup removed %d analysis runs older than %d days", deleted, retentionDays)
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled retention job with cron expression: %s", cronExpression)

	return nil
}

// runReanalysis re-runs the model for every active company whose
// latest run is older than staleAfter
func (s *Scheduler) runReanalysis(ctx context.Context, staleAfter time.Duration) {
	repos := s.engine.Repositories()
	if repos == nil {
		s.logger.Printf("Re-analysis skipped: no database configured")
		return
	}

	companies, err := repos.Company.GetActive(ctx)
	if err != nil {
		s.logger.Printf("Failed to list active companies: %v", err)
		return
	}

	s.logger.Printf("Starting scheduled re-analysis of %d active companies", len(companies))

	analyzed, skipped, failed := 0, 0, 0
	cutoff := time.Now().Add(-staleAfter)

	for _, company := range companies {
		select {
		case <-ctx.Done():
			s.logger.Printf("Re-analysis cancelled: %v", ctx.Err())
			return
		default:
		}

		runs, err := repos.AnalysisRun.GetByCompanyID(ctx, company.ID, 1)
		if err != nil {
			s.logger.Printf("Failed to fetch latest run for %s: %v", company.Name, err)
			failed++
			continue
		}

		if len(runs) > 0 && runs[0].CreatedAt.After(cutoff) {
			skipped++
			continue
		}

		result, err := s.engine.Run(ctx, company.ID)
		if err != nil {
			s.logger.Printf("Re-analysis failed for %s: %v", company.Name, err)
			failed++
			continue
		}

		s.logger.Printf("Re-analyzed %s: resilience %.1f, %d breaches", company.Name, result.Resilience, len(result.Breaches))
		analyzed++
	}

	s.logger.Printf("Re-analysis complete: %d analyzed, %d fresh, %d failed", analyzed, skipped, failed)
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Printf("Scheduler stop timed out after %v", s.gracefulTimeout)
	}

	s.isRunning = false
	s.logger.Printf("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	s.logger.Printf("Removed job: %d", jobID)

	return nil
}
