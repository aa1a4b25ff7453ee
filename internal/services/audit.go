package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	auditBatchSize     = 100
	auditFlushInterval = 100 * time.Millisecond
	auditWriteTimeout  = 5 * time.Second
)

// AuditWorker writes audit entries asynchronously in batches. A nil
// *AuditWorker is valid and drops every entry.
type AuditWorker struct {
	sink    repository.AuditRepository
	entries chan models.AuditLog
	workers int
	logger  *logging.SafeLogger
	now     func() time.Time

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAuditWorker creates a worker pool that has not been started yet
func NewAuditWorker(sink repository.AuditRepository, workers, bufferSize int, logger *logging.SafeLogger) *AuditWorker {
	if workers < 1 {
		workers = 1
	}
	return &AuditWorker{
		sink:    sink,
		entries: make(chan models.AuditLog, bufferSize),
		workers: workers,
		logger:  logger.With(zap.String("component", "audit")),
		now:     time.Now,
	}
}

// Start launches the worker goroutines
func (aw *AuditWorker) Start() {
	if aw == nil {
		return
	}
	aw.wg.Add(aw.workers)
	for i := 0; i < aw.workers; i++ {
		go func() {
			defer aw.wg.Done()
			aw.process()
		}()
	}

	aw.logger.Info("audit worker started",
		zap.Int("workers", aw.workers),
		zap.Int("buffer_size", cap(aw.entries)))
}

// Stop drains the queue and waits for every worker to exit. Entries
// logged after Stop are written synchronously.
func (aw *AuditWorker) Stop() {
	if aw == nil {
		return
	}
	aw.mu.Lock()
	if aw.stopped {
		aw.mu.Unlock()
		return
	}
	aw.stopped = true
	close(aw.entries)
	aw.mu.Unlock()

	aw.wg.Wait()
	aw.logger.Info("audit worker stopped")
}

func (aw *AuditWorker) process() {
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	batch := make([]models.AuditLog, 0, auditBatchSize)
	for {
		select {
		case entry, ok := <-aw.entries:
			if !ok {
				aw.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= auditBatchSize {
				aw.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				aw.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (aw *AuditWorker) flush(batch []models.AuditLog) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	// the sink may keep the slice
	out := make([]models.AuditLog, len(batch))
	copy(out, batch)

	if err := aw.sink.InsertMany(ctx, out); err != nil {
		aw.logger.Error("failed to insert audit log batch",
			zap.Error(err),
			zap.Int("batch_size", len(out)))
		return
	}
	aw.logger.Debug("audit log batch inserted", zap.Int("batch_size", len(out)))
}

// Log records an audit event. It never blocks on a full queue: the entry
// is written synchronously instead.
func (aw *AuditWorker) Log(ctx context.Context, actx models.AuditContext, action, resource, resourceID string, oldValue, newValue interface{}, metadata map[string]string) {
	if aw == nil {
		return
	}

	entry := models.AuditLog{
		ID:         uuid.NewString(),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   maskValue(oldValue),
		NewValue:   maskValue(newValue),
		UserID:     actx.UserID,
		IPAddress:  actx.IPAddress,
		UserAgent:  actx.UserAgent,
		RequestID:  actx.RequestID,
		Timestamp:  aw.now(),
		Metadata:   metadata,
	}

	aw.mu.RLock()
	if !aw.stopped {
		select {
		case aw.entries <- entry:
			aw.mu.RUnlock()
			return
		default:
			aw.logger.Warn("audit queue full, writing synchronously",
				zap.String("action", action),
				zap.String("resource", resource))
		}
	}
	aw.mu.RUnlock()

	if err := aw.logSync(ctx, entry); err != nil {
		aw.logger.Error("failed to insert audit log", zap.Error(err), zap.String("action", action))
	}
}

// maskValue hides credentials and personal identifiers in map values
func maskValue(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return observability.MaskSensitiveData(m)
	}
	return v
}

func (aw *AuditWorker) logSync(ctx context.Context, entry models.AuditLog) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := aw.sink.InsertMany(ctx, []models.AuditLog{entry}); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
