package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pim/internal/reconciler"
	pimscheduler "github.com/goliatone/go-pim/internal/scheduler"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

type stubRunner struct {
	report *reconciler.Report
	err    error
	runs   int
}

func (s *stubRunner) Run(context.Context) (*reconciler.Report, error) {
	s.runs++
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestWorker_ProcessRunsDueReconcileJob(t *testing.T) {
	now := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	sched := pimscheduler.NewInMemory(pimscheduler.WithClock(fixedClock(now)))
	runner := &stubRunner{report: &reconciler.Report{
		Status:         reconciler.StatusCompleted,
		TotalProcessed: 4,
		Actions:        []reconciler.Action{{Table: "producto"}},
	}}
	audit := NewInMemoryAuditRecorder()

	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  pimscheduler.JobTypeTranslationReconcile,
		RunAt: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	worker := NewWorker(sched, runner, WithClock(fixedClock(now)), WithAuditRecorder(audit))
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if runner.runs != 1 {
		t.Fatalf("runner executed %d times, want 1", runner.runs)
	}
	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != interfaces.JobStatusCompleted {
		t.Fatalf("job status = %q, want completed", stored.Status)
	}

	events := audit.Events()
	if len(events) != 1 {
		t.Fatalf("audit events = %d, want 1", len(events))
	}
	if events[0].Action != "reconcile" || events[0].Metadata["status"] != "completed" {
		t.Fatalf("audit event = %+v", events[0])
	}
}

func TestWorker_FailedRunMarksJobFailed(t *testing.T) {
	now := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	sched := pimscheduler.NewInMemory(
		pimscheduler.WithClock(fixedClock(now)),
		pimscheduler.WithDefaultMaxAttempts(1),
	)
	runner := &stubRunner{err: errors.New("structure unavailable")}

	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  pimscheduler.JobTypeTranslationReconcile,
		RunAt: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	worker := NewWorker(sched, runner, WithClock(fixedClock(now)))
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != interfaces.JobStatusFailed {
		t.Fatalf("job status = %q, want failed", stored.Status)
	}
}

func TestWorker_ReenqueuesNextNightlyRun(t *testing.T) {
	now := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	sched := pimscheduler.NewInMemory(pimscheduler.WithClock(fixedClock(now)))
	runner := &stubRunner{report: &reconciler.Report{Status: reconciler.StatusCompleted}}

	worker := NewWorker(sched, runner,
		WithClock(fixedClock(now)),
		WithNightlySchedule(NightlySchedule{Hour: 1, Minute: 0, Location: time.UTC}),
	)

	if _, err := worker.EnqueueNightly(context.Background()); err != nil {
		t.Fatalf("EnqueueNightly() error = %v", err)
	}
	next, err := sched.GetByKey(context.Background(), pimscheduler.TranslationReconcileJobKey(
		time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if !next.RunAt.Equal(time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)) {
		t.Fatalf("next run at %v", next.RunAt)
	}

	// Make the pending job due and drain it; finishing must chain the next day.
	later := time.Date(2025, 3, 12, 1, 0, 1, 0, time.UTC)
	drain := NewWorker(sched, runner,
		WithClock(fixedClock(later)),
		WithNightlySchedule(NightlySchedule{Hour: 1, Minute: 0, Location: time.UTC}),
	)
	if err := drain.Process(context.Background()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if runner.runs != 1 {
		t.Fatalf("runner executed %d times, want 1", runner.runs)
	}

	chained, err := sched.GetByKey(context.Background(), pimscheduler.TranslationReconcileJobKey(
		time.Date(2025, 3, 13, 1, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("chained job missing: %v", err)
	}
	if chained.Status != interfaces.JobStatusPending {
		t.Fatalf("chained job status = %q", chained.Status)
	}
}

type signalRunner struct {
	done chan struct{}
}

func (s *signalRunner) Run(context.Context) (*reconciler.Report, error) {
	close(s.done)
	return &reconciler.Report{Status: reconciler.StatusCompleted}, nil
}

func TestWorker_RunProcessesDueJobsImmediately(t *testing.T) {
	sched := pimscheduler.NewInMemory()
	runner := &signalRunner{done: make(chan struct{})}

	if _, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  pimscheduler.JobTypeTranslationReconcile,
		RunAt: time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	worker := NewWorker(sched, runner)
	go func() { errCh <- worker.Run(ctx, time.Hour) }()

	// The hour-long interval never fires inside the test window, so the job
	// must be drained by the startup pass.
	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("due job not processed before the first tick")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestWorker_IgnoresUnknownJobTypes(t *testing.T) {
	now := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	sched := pimscheduler.NewInMemory(pimscheduler.WithClock(fixedClock(now)))
	runner := &stubRunner{}

	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  "pim.other",
		RunAt: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	worker := NewWorker(sched, runner, WithClock(fixedClock(now)))
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if runner.runs != 0 {
		t.Fatal("unknown job type must not run the reconciler")
	}
	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != interfaces.JobStatusCompleted {
		t.Fatalf("job status = %q", stored.Status)
	}
}
