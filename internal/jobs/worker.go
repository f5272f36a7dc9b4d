package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/internal/reconciler"
	pimscheduler "github.com/goliatone/go-pim/internal/scheduler"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// ReconcileRunner executes one reconciliation pass.
type ReconcileRunner interface {
	Run(ctx context.Context) (*reconciler.Report, error)
}

// NightlySchedule describes the recurring run slot.
type NightlySchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Worker drains due scheduler jobs and executes translation reconciliation
// runs. When a nightly schedule is configured, finishing a run enqueues the
// next day's occurrence, keeping the recurrence alive without a cron daemon.
type Worker struct {
	scheduler interfaces.Scheduler
	runner    ReconcileRunner
	audit     AuditRecorder
	logger    interfaces.Logger
	now       func() time.Time
	batchSize int
	nightly   *NightlySchedule
}

type Option func(*Worker)

func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func WithNightlySchedule(schedule NightlySchedule) Option {
	return func(w *Worker) {
		w.nightly = &schedule
	}
}

func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(w *Worker) {
		w.logger = logging.SchedulerLogger(provider)
	}
}

func NewWorker(scheduler interfaces.Scheduler, runner ReconcileRunner, opts ...Option) *Worker {
	w := &Worker{
		scheduler: scheduler,
		runner:    runner,
		logger:    logging.NoOp(),
		now:       time.Now,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnqueueNightly seeds the next nightly run. Calling it repeatedly is safe:
// the job key dedupes per calendar day.
func (w *Worker) EnqueueNightly(ctx context.Context) (*interfaces.Job, error) {
	if w.nightly == nil {
		return nil, errors.New("jobs: no nightly schedule configured")
	}
	runAt := pimscheduler.NextNightlyRun(w.now(), w.nightly.Hour, w.nightly.Minute, w.nightly.Location)
	return w.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:   pimscheduler.TranslationReconcileJobKey(runAt),
		Type:  pimscheduler.JobTypeTranslationReconcile,
		RunAt: runAt,
	})
}

// Process drains one batch of due jobs. Job failures are marked on the
// scheduler and never abort the batch.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	deadline := w.now()
	jobs, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job, deadline); err != nil {
			w.logger.Error("job failed", "job_id", job.ID, "job_type", job.Type, "error", err)
			_ = w.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		_ = w.scheduler.MarkDone(ctx, job.ID)
	}
	return nil
}

// Run polls the scheduler until the context ends. The first pass happens
// immediately so jobs already due at startup do not wait out an interval.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	if err := w.Process(ctx); err != nil {
		w.logger.Error("worker pass failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Process(ctx); err != nil {
				w.logger.Error("worker pass failed", "error", err)
			}
		}
	}
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job, now time.Time) error {
	switch job.Type {
	case pimscheduler.JobTypeTranslationReconcile:
		return w.processReconcile(ctx, job, now)
	default:
		return nil
	}
}

func (w *Worker) processReconcile(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.runner == nil {
		return errors.New("jobs: reconcile runner is nil")
	}

	report, err := w.runner.Run(ctx)
	if err != nil {
		return err
	}

	w.recordAudit(ctx, AuditEvent{
		EntityType: "translation_run",
		EntityID:   job.ID,
		Action:     "reconcile",
		OccurredAt: now,
		Metadata: map[string]any{
			"job_id":    job.ID,
			"job_type":  job.Type,
			"run_at":    job.RunAt,
			"attempt":   job.Attempt,
			"status":    string(report.Status),
			"processed": report.TotalProcessed,
			"actions":   len(report.Actions),
			"failures":  len(report.Failures),
		},
	})

	w.logger.Info("reconciliation job finished",
		"job_id", job.ID, "status", string(report.Status),
		"actions", len(report.Actions), "failures", len(report.Failures))

	if w.nightly != nil {
		if _, err := w.EnqueueNightly(ctx); err != nil {
			w.logger.Error("cannot enqueue next nightly run", "error", err)
		}
	}
	return nil
}

func (w *Worker) recordAudit(ctx context.Context, event AuditEvent) {
	if w.audit == nil {
		return
	}
	_ = w.audit.Record(ctx, event)
}
