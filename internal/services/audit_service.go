package services

import (
	"context"

	"github.com/Devik-code/rust-ai-auditor/internal/compiler"
	"github.com/Devik-code/rust-ai-auditor/internal/events"
	"github.com/Devik-code/rust-ai-auditor/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditStore is the persistence collaborator. The pgx repository satisfies
// it in production; tests substitute an in-memory fake.
type AuditStore interface {
	Insert(ctx context.Context, prompt, generatedCode string, isValid bool, compilationError *string) (*models.Audit, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Audit, error)
	List(ctx context.Context) ([]models.Audit, error)
	CountTotalAndValid(ctx context.Context) (total, valid int64, err error)
	ErrorFrequencies(ctx context.Context, truncateLen, limit int) ([]models.CommonError, error)
}

type AuditService struct {
	store     AuditStore
	checker   compiler.Checker
	publisher events.Publisher
	log       *zap.Logger
}

func NewAuditService(store AuditStore, checker compiler.Checker, publisher events.Publisher, log *zap.Logger) *AuditService {
	return &AuditService{
		store:     store,
		checker:   checker,
		publisher: publisher,
		log:       log,
	}
}

// Create runs the compile check and persists the verdict as one immutable
// row. A failed compile is a recorded negative outcome; only a checker
// failure (toolchain unavailable) aborts without writing anything.
func (s *AuditService) Create(ctx context.Context, prompt, generatedCode string) (*models.Audit, error) {
	res, err := s.checker.Check(ctx, generatedCode)
	if err != nil {
		s.log.Error("compile check failed to run", zap.Error(err))
		return nil, err
	}

	var compilationError *string
	if !res.Valid {
		diag := res.Diagnostic
		compilationError = &diag
		s.log.Warn("snippet failed compilation", zap.Int("diagnostic_bytes", len(diag)))
	}

	audit, err := s.store.Insert(ctx, prompt, generatedCode, res.Valid, compilationError)
	if err != nil {
		s.log.Error("insert audit failed", zap.Error(err))
		return nil, err
	}

	_ = s.publisher.Publish(ctx, events.StreamAudits, events.Event{
		Type: events.EventAuditCreated,
		Payload: map[string]any{
			"id":       audit.ID.String(),
			"is_valid": audit.IsValid,
		},
	})

	return audit, nil
}

func (s *AuditService) Get(ctx context.Context, id uuid.UUID) (*models.Audit, error) {
	return s.store.GetByID(ctx, id)
}

func (s *AuditService) List(ctx context.Context) ([]models.Audit, error) {
	return s.store.List(ctx)
}
