package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinic/internal/amqp"
	"clinic/internal/core"
	"clinic/internal/log"
)

// Exporter recomputes and publishes monthly reports.
type Exporter interface {
	ExportMonthlyReport(ctx context.Context, month time.Time) (string, error)
	RefreshExportedMonths(ctx context.Context, current time.Time) ([]string, error)
}

// EventSource delivers change events until ctx is done.
type EventSource interface {
	Consume(ctx context.Context, handler amqp.Handler) error
}

var _ EventSource = (*amqp.Client)(nil)

// Config holds configuration for the report sync worker
type Config struct {
	// SyncInterval is how often the current month is re-exported (default: 15m)
	SyncInterval time.Duration

	// Location resolves event dates to months (default: time.Local)
	Location *time.Location
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		SyncInterval: 15 * time.Minute,
		Location:     time.Local,
	}
}

// ReportSyncWorker keeps the exported monthly reports in step with the store.
// Every change event re-exports the month it touches; a periodic tick
// re-exports the current month in case events were lost.
type ReportSyncWorker struct {
	exporter Exporter
	config   Config
	logger   *log.Logger
	now      func() time.Time

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewReportSyncWorker(exporter Exporter, config Config, logger *log.Logger) *ReportSyncWorker {
	def := DefaultConfig()
	if config.SyncInterval <= 0 {
		config.SyncInterval = def.SyncInterval
	}
	if config.Location == nil {
		config.Location = def.Location
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &ReportSyncWorker{
		exporter: exporter,
		config:   config,
		logger:   logger.WithComponent(log.ComponentWorker),
		now:      time.Now,
	}
}

// HandleEvent exports the month affected by a change event. Case edits and
// deletions have no date, so every already exported month of the event's
// year is refreshed. Returning an error makes the broker redeliver the event.
func (w *ReportSyncWorker) HandleEvent(ctx context.Context, event *amqp.ChangeEvent) error {
	month := event.Month(w.config.Location)

	w.logger.InfoContext(ctx, "Processing change event",
		log.FieldEventKind, string(event.Kind),
		log.FieldCaseID, event.CaseID,
		log.FieldDate, event.Date)

	switch event.Kind {
	case amqp.EventCaseUpdated, amqp.EventCaseDeleted:
		if _, err := w.exporter.RefreshExportedMonths(ctx, month); err != nil {
			return fmt.Errorf("refresh %d: %w", month.Year(), err)
		}
		return nil
	}

	if _, err := w.exporter.ExportMonthlyReport(ctx, month); err != nil {
		return fmt.Errorf("export %s: %w", month.Format("2006-01"), err)
	}
	return nil
}

// SyncCurrentMonth re-exports the month containing now.
func (w *ReportSyncWorker) SyncCurrentMonth(ctx context.Context) error {
	month := core.MonthStart(w.now().In(w.config.Location))
	if _, err := w.exporter.ExportMonthlyReport(ctx, month); err != nil {
		return fmt.Errorf("periodic export %s: %w", month.Format("2006-01"), err)
	}
	return nil
}

// Start launches the periodic loop and, when source is non-nil, the event
// consumer. Returns an error if already running.
func (w *ReportSyncWorker) Start(ctx context.Context, source EventSource) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("report sync worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	if source != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := source.Consume(runCtx, w.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.ErrorContext(runCtx, "Event consumption failed", log.FieldError, err)
			}
		}()
	} else {
		w.logger.InfoContext(ctx, "No event source configured, running periodic sync only")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.runLoop(runCtx)
	}()

	go func() {
		<-w.stopCh
		cancel()
	}()
	go func() {
		wg.Wait()
		cancel()
		close(w.doneCh)
	}()

	w.logger.InfoContext(ctx, "Report sync worker started", "sync_interval", w.config.SyncInterval)
	return nil
}

// Stop gracefully stops the worker and waits for completion.
func (w *ReportSyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		w.logger.InfoContext(ctx, "Report sync worker stopped gracefully")
		return nil
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Report sync worker stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the worker is currently running
func (w *ReportSyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *ReportSyncWorker) runLoop(ctx context.Context) {
	ticker := time.NewTicker(w.config.SyncInterval)
	defer ticker.Stop()

	// Export immediately on startup
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReportSyncWorker) tick(ctx context.Context) {
	if err := w.SyncCurrentMonth(ctx); err != nil && ctx.Err() == nil {
		w.logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
	}
}
