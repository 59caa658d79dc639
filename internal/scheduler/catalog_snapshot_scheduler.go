package scheduler

import (
	"context"
	"time"

	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// CatalogSnapshotScheduler keeps the stylist's product snapshot fresh.
type CatalogSnapshotScheduler struct {
	cron     *cron.Cron
	spec     string
	snapshot service.CatalogSnapshotService
}

func NewCatalogSnapshotScheduler(snapshot service.CatalogSnapshotService, spec string) *CatalogSnapshotScheduler {
	return &CatalogSnapshotScheduler{
		cron:     cron.New(),
		spec:     spec,
		snapshot: snapshot,
	}
}

func (s *CatalogSnapshotScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	count, err := s.snapshot.Refresh(ctx)
	if err != nil {
		logger.Error("Scheduled catalog snapshot refresh failed", err, nil)
		return
	}
	logger.Debug("Scheduled catalog snapshot refreshed", map[string]interface{}{
		"products": count,
	})
}

// Start registers the job, runs it once immediately and starts the cron loop.
func (s *CatalogSnapshotScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		logger.Error("Failed to add catalog snapshot job", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	go s.refresh()
	s.cron.Start()
	logger.Info("Catalog snapshot scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *CatalogSnapshotScheduler) Stop() {
	logger.Info("Stopping catalog snapshot scheduler", nil)
	<-s.cron.Stop().Done()
	logger.Info("Catalog snapshot scheduler stopped", nil)
}
