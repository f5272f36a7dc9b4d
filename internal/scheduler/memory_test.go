package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pim/pkg/interfaces"
)

func TestInMemory_KeyedEnqueueReplaces(t *testing.T) {
	sched := NewInMemory()
	ctx := context.Background()
	runAt := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

	first, err := sched.Enqueue(ctx, interfaces.JobSpec{
		Key:   "translation:reconcile:2026-03-02",
		Type:  JobTypeTranslationReconcile,
		RunAt: runAt,
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	second, err := sched.Enqueue(ctx, interfaces.JobSpec{
		Key:   "translation:reconcile:2026-03-02",
		Type:  JobTypeTranslationReconcile,
		RunAt: runAt.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("second Enqueue() error = %v", err)
	}

	if _, err := sched.Get(ctx, first.ID); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected replaced job to be gone, got %v", err)
	}
	byKey, err := sched.GetByKey(ctx, "translation:reconcile:2026-03-02")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if byKey.ID != second.ID {
		t.Fatalf("GetByKey() id = %s, want %s", byKey.ID, second.ID)
	}
}

func TestInMemory_ListDueOrdersByRunAt(t *testing.T) {
	sched := NewInMemory()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{2 * time.Hour, time.Hour, 3 * time.Hour} {
		if _, err := sched.Enqueue(ctx, interfaces.JobSpec{
			Type:  JobTypeTranslationReconcile,
			RunAt: base.Add(offset),
		}); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}

	due, err := sched.ListDue(ctx, base.Add(2*time.Hour), 10)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("ListDue() returned %d jobs, want 2", len(due))
	}
	if !due[0].RunAt.Before(due[1].RunAt) {
		t.Fatalf("ListDue() out of order: %s, %s", due[0].RunAt, due[1].RunAt)
	}
}

func TestInMemory_MarkFailedRetriesUntilLimit(t *testing.T) {
	sched := NewInMemory(WithDefaultMaxAttempts(2))
	ctx := context.Background()

	job, err := sched.Enqueue(ctx, interfaces.JobSpec{
		Type:  JobTypeTranslationReconcile,
		RunAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if err := sched.MarkFailed(ctx, job.ID, errors.New("provider down")); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}
	got, _ := sched.Get(ctx, job.ID)
	if got.Status != interfaces.JobStatusPending {
		t.Fatalf("status after first failure = %s, want pending", got.Status)
	}
	if got.LastError != "provider down" {
		t.Fatalf("LastError = %q", got.LastError)
	}

	if err := sched.MarkFailed(ctx, job.ID, errors.New("provider down")); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}
	got, _ = sched.Get(ctx, job.ID)
	if got.Status != interfaces.JobStatusFailed {
		t.Fatalf("status after final failure = %s, want failed", got.Status)
	}
}

func TestInMemory_MarkDoneFreesKey(t *testing.T) {
	sched := NewInMemory()
	ctx := context.Background()

	job, err := sched.Enqueue(ctx, interfaces.JobSpec{
		Key:   "translation:reconcile:2026-03-02",
		Type:  JobTypeTranslationReconcile,
		RunAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := sched.MarkDone(ctx, job.ID); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if _, err := sched.GetByKey(ctx, "translation:reconcile:2026-03-02"); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected key to be freed, got %v", err)
	}

	if _, err := sched.Enqueue(ctx, interfaces.JobSpec{
		Key:   "translation:reconcile:2026-03-02",
		Type:  JobTypeTranslationReconcile,
		RunAt: time.Now().Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("re-Enqueue() error = %v", err)
	}
}

func TestInMemory_EnqueueRequiresRunAt(t *testing.T) {
	sched := NewInMemory()
	if _, err := sched.Enqueue(context.Background(), interfaces.JobSpec{Type: JobTypeTranslationReconcile}); err == nil {
		t.Fatal("expected error for zero RunAt")
	}
}
