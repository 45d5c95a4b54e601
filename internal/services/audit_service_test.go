package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Devik-code/rust-ai-auditor/internal/apperr"
	"github.com/Devik-code/rust-ai-auditor/internal/compiler"
	"github.com/Devik-code/rust-ai-auditor/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newAuditService(store *fakeStore, checker compiler.Checker) (*AuditService, *fakePublisher) {
	pub := &fakePublisher{}
	return NewAuditService(store, checker, pub, zap.NewNop()), pub
}

func TestCreateValidSnippet(t *testing.T) {
	store := newFakeStore()
	svc, pub := newAuditService(store, &fakeChecker{result: compiler.CheckResult{Valid: true}})

	audit, err := svc.Create(context.Background(), "add two numbers", "pub fn add(a: i32, b: i32) -> i32 { a + b }")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if !audit.IsValid {
		t.Error("IsValid = false, want true")
	}
	if audit.CompilationError != nil {
		t.Errorf("CompilationError = %q, want absent", *audit.CompilationError)
	}
	if audit.ID == uuid.Nil {
		t.Error("record has no assigned id")
	}
	if audit.CreatedAt.IsZero() {
		t.Error("record has no timestamp")
	}

	got := pub.published()
	if len(got) != 1 || got[0].Type != events.EventAuditCreated {
		t.Errorf("published events = %v, want one %s", got, events.EventAuditCreated)
	}
}

func TestCreateInvalidSnippet(t *testing.T) {
	const diag = "error[E0425]: cannot find value `x` in this scope"
	store := newFakeStore()
	svc, _ := newAuditService(store, &fakeChecker{result: compiler.CheckResult{Valid: false, Diagnostic: diag}})

	audit, err := svc.Create(context.Background(), "broken", "fn broken( { ")
	if err != nil {
		t.Fatalf("Create returned error: %v (a failed compile is not an error)", err)
	}

	if audit.IsValid {
		t.Error("IsValid = true, want false")
	}
	if audit.CompilationError == nil || *audit.CompilationError != diag {
		t.Errorf("CompilationError = %v, want verbatim diagnostic", audit.CompilationError)
	}
}

func TestCreateToolchainFailureWritesNothing(t *testing.T) {
	store := newFakeStore()
	svc, pub := newAuditService(store, &fakeChecker{err: apperr.Toolchain(errors.New("binary missing"), "invoke rustc")})

	_, err := svc.Create(context.Background(), "p", "fn f() {}")
	if !apperr.IsToolchain(err) {
		t.Fatalf("Create error = %v, want toolchain kind", err)
	}

	audits, _ := store.List(context.Background())
	if len(audits) != 0 {
		t.Errorf("store holds %d records after toolchain failure, want 0", len(audits))
	}
	if len(pub.published()) != 0 {
		t.Error("event published for a create that wrote nothing")
	}
}

func TestCreatePersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.failing = apperr.Persistence(errors.New("connection refused"), "insert audit")
	svc, pub := newAuditService(store, &fakeChecker{result: compiler.CheckResult{Valid: true}})

	_, err := svc.Create(context.Background(), "p", "fn f() {}")
	if !apperr.IsPersistence(err) {
		t.Fatalf("Create error = %v, want persistence kind", err)
	}
	if len(pub.published()) != 0 {
		t.Error("event published for a failed insert")
	}
}

func TestVerdictErrorInvariant(t *testing.T) {
	// For every stored record: is_valid exactly when compilation_error is absent.
	store := newFakeStore()

	checks := []compiler.CheckResult{
		{Valid: true},
		{Valid: false, Diagnostic: "error: one"},
		{Valid: true},
		{Valid: false, Diagnostic: "error: two"},
	}
	for i, res := range checks {
		svc, _ := newAuditService(store, &fakeChecker{result: res})
		if _, err := svc.Create(context.Background(), "p", "code"); err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
	}

	audits, _ := store.List(context.Background())
	for _, a := range audits {
		if a.IsValid != (a.CompilationError == nil) {
			t.Errorf("record %s violates invariant: is_valid=%v, compilation_error=%v", a.ID, a.IsValid, a.CompilationError)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newAuditService(newFakeStore(), &fakeChecker{})

	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Errorf("Get error = %v, want not-found kind", err)
	}
}

func TestGetIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuditService(store, &fakeChecker{result: compiler.CheckResult{Valid: true}})

	created, err := svc.Create(context.Background(), "p", "fn f() {}")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	first, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	second, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}
	if *first != *second {
		t.Errorf("repeated Get returned different data: %+v vs %+v", first, second)
	}
}

func TestListNewestFirstAndStable(t *testing.T) {
	store := newFakeStore()
	store.tick = 0 // force identical timestamps to exercise the tie-break
	svc, _ := newAuditService(store, &fakeChecker{result: compiler.CheckResult{Valid: true}})

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		a, err := svc.Create(context.Background(), "p", "fn f() {}")
		if err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
		ids = append(ids, a.ID)
	}

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(first) != 5 {
		t.Fatalf("List returned %d records, want 5", len(first))
	}
	for i := range ids {
		if first[i].ID != ids[len(ids)-1-i] {
			t.Fatalf("List[%d] = %s, want most recent insert first", i, first[i].ID)
		}
	}

	second, _ := svc.List(context.Background())
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("List order changed between calls at index %d", i)
		}
	}
}
