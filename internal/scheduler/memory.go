package scheduler

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-pim/pkg/interfaces"
	"github.com/google/uuid"
)

const defaultMaxAttempts = 3

// NewInMemory creates a deterministic scheduler backed by process memory.
// Keyed jobs replace any pending job holding the same key, which is how the
// nightly reconciliation slot stays unique per calendar day.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	mem := &memoryScheduler{
		now:         time.Now,
		id:          func() string { return uuid.NewString() },
		jobs:        make(map[string]*interfaces.Job),
		byKey:       make(map[string]string),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(mem)
	}
	return mem
}

// Option allows customizing the behaviour of the in-memory scheduler.
type Option func(*memoryScheduler)

// WithClock overrides the internal clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *memoryScheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used when enqueuing jobs.
func WithIDGenerator(generator func() string) Option {
	return func(s *memoryScheduler) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDefaultMaxAttempts overrides the retry limit applied when the job spec
// leaves it unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(s *memoryScheduler) {
		if limit > 0 {
			s.maxAttempts = limit
		}
	}
}

type memoryScheduler struct {
	mu          sync.Mutex
	now         func() time.Time
	id          func() string
	maxAttempts int
	jobs        map[string]*interfaces.Job
	byKey       map[string]string
}

func (s *memoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.RunAt.IsZero() {
		return nil, errors.New("scheduler: run_at is required")
	}
	job := &interfaces.Job{
		JobSpec: interfaces.JobSpec{
			Key:         spec.Key,
			Type:        spec.Type,
			RunAt:       spec.RunAt,
			Payload:     clonePayload(spec.Payload),
			MaxAttempts: spec.MaxAttempts,
		},
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = s.maxAttempts
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if job.Key != "" {
		if existingID, ok := s.byKey[job.Key]; ok {
			delete(s.jobs, existingID)
		}
	}

	job.ID = s.id()
	now := s.now()
	job.Status = interfaces.JobStatusPending
	job.CreatedAt = now
	job.UpdatedAt = now

	s.jobs[job.ID] = job
	if job.Key != "" {
		s.byKey[job.Key] = job.ID
	}

	return cloneJob(job), nil
}

func (s *memoryScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(id, interfaces.JobStatusCanceled)
}

func (s *memoryScheduler) CancelByKey(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	return s.finish(id, interfaces.JobStatusCanceled)
}

func (s *memoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	if key == "" {
		return nil, interfaces.ErrJobNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = len(s.jobs)
	}
	due := make([]*interfaces.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if job.Status != interfaces.JobStatusPending {
			continue
		}
		if job.RunAt.After(until) {
			continue
		}
		due = append(due, cloneJob(job))
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].RunAt.Equal(due[j].RunAt) {
			return due[i].CreatedAt.Before(due[j].CreatedAt)
		}
		return due[i].RunAt.Before(due[j].RunAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryScheduler) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(id, interfaces.JobStatusCompleted)
}

func (s *memoryScheduler) MarkFailed(_ context.Context, id string, failure error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Attempt++
	job.UpdatedAt = s.now()
	job.LastError = ""
	if failure != nil {
		job.LastError = failure.Error()
	}
	if job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts {
		job.Status = interfaces.JobStatusFailed
	} else {
		job.Status = interfaces.JobStatusPending
	}
	return nil
}

// finish moves a job to a terminal status and frees its key for reuse.
// Callers hold the mutex.
func (s *memoryScheduler) finish(id string, status interfaces.JobStatus) error {
	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Status = status
	job.UpdatedAt = s.now()
	if job.Key != "" {
		delete(s.byKey, job.Key)
	}
	return nil
}

func cloneJob(job *interfaces.Job) *interfaces.Job {
	if job == nil {
		return nil
	}
	clone := *job
	if job.Payload != nil {
		clone.Payload = maps.Clone(job.Payload)
	}
	return &clone
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	return maps.Clone(payload)
}
