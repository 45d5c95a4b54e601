package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Devik-code/rust-ai-auditor/internal/apperr"
	"github.com/Devik-code/rust-ai-auditor/internal/compiler"
	"github.com/Devik-code/rust-ai-auditor/internal/events"
	"github.com/Devik-code/rust-ai-auditor/internal/models"
	"github.com/google/uuid"
)

// fakeChecker returns a canned verdict without touching the filesystem.
type fakeChecker struct {
	result compiler.CheckResult
	err    error
}

func (f *fakeChecker) Check(context.Context, string) (compiler.CheckResult, error) {
	return f.result, f.err
}

func (f *fakeChecker) Probe(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "fake 0.0.0", nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

// fakeStore is an in-memory AuditStore honouring the persistence contract:
// insertion-ordered rows, created_at desc listing with deterministic
// tie-break, truncated error bucketing.
type fakeStore struct {
	mu      sync.Mutex
	audits  []models.Audit
	clock   time.Time
	tick    time.Duration // advance per insert; zero forces timestamp ties
	failing error         // when set, every method fails with it

	// bucketsOverride, when set, is returned verbatim by ErrorFrequencies
	// so tests can hand the aggregator unsorted input.
	bucketsOverride []models.CommonError
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		tick:  time.Second,
	}
}

func (f *fakeStore) Insert(_ context.Context, prompt, generatedCode string, isValid bool, compilationError *string) (*models.Audit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return nil, f.failing
	}

	a := models.Audit{
		ID:               uuid.New(),
		Prompt:           prompt,
		GeneratedCode:    generatedCode,
		IsValid:          isValid,
		CompilationError: compilationError,
		CreatedAt:        f.clock,
	}
	f.clock = f.clock.Add(f.tick)
	f.audits = append(f.audits, a)
	return &a, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Audit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return nil, f.failing
	}

	for i := range f.audits {
		if f.audits[i].ID == id {
			a := f.audits[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("audit")
}

func (f *fakeStore) List(_ context.Context) ([]models.Audit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return nil, f.failing
	}

	// Newest first; on equal timestamps the later insert wins, matching
	// the SQL created_at DESC, id DESC ordering in spirit.
	out := make([]models.Audit, len(f.audits))
	for i, a := range f.audits {
		out[len(f.audits)-1-i] = a
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) CountTotalAndValid(context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return 0, 0, f.failing
	}

	var total, valid int64
	for _, a := range f.audits {
		total++
		if a.IsValid {
			valid++
		}
	}
	return total, valid, nil
}

func (f *fakeStore) ErrorFrequencies(_ context.Context, truncateLen, limit int) ([]models.CommonError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return nil, f.failing
	}
	if f.bucketsOverride != nil {
		return append([]models.CommonError(nil), f.bucketsOverride...), nil
	}

	freq := map[string]int64{}
	for _, a := range f.audits {
		if a.CompilationError == nil || *a.CompilationError == "" {
			continue
		}
		msg := *a.CompilationError
		if len(msg) > truncateLen {
			msg = msg[:truncateLen]
		}
		freq[msg]++
	}

	buckets := make([]models.CommonError, 0, len(freq))
	for msg, n := range freq {
		buckets = append(buckets, models.CommonError{ErrorMessage: msg, Frequency: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Frequency != buckets[j].Frequency {
			return buckets[i].Frequency > buckets[j].Frequency
		}
		return buckets[i].ErrorMessage < buckets[j].ErrorMessage
	})
	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets, nil
}
