package repositories

import (
	"context"
	"errors"

	"github.com/Devik-code/rust-ai-auditor/internal/apperr"
	"github.com/Devik-code/rust-ai-auditor/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Insert persists one audit row atomically; id and created_at are assigned
// by the database and returned with the record.
func (r *AuditRepo) Insert(ctx context.Context, prompt, generatedCode string, isValid bool, compilationError *string) (*models.Audit, error) {
	var a models.Audit
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ai_audits (prompt, generated_code, is_valid, compilation_error)
		VALUES ($1, $2, $3, $4)
		RETURNING id, prompt, generated_code, is_valid, compilation_error, created_at
	`, prompt, generatedCode, isValid, compilationError).Scan(
		&a.ID, &a.Prompt, &a.GeneratedCode, &a.IsValid, &a.CompilationError, &a.CreatedAt,
	)
	if err != nil {
		return nil, apperr.Persistence(err, "insert audit")
	}
	return &a, nil
}

func (r *AuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Audit, error) {
	var a models.Audit
	err := r.pool.QueryRow(ctx, `
		SELECT id, prompt, generated_code, is_valid, compilation_error, created_at
		FROM ai_audits WHERE id = $1
	`, id).Scan(&a.ID, &a.Prompt, &a.GeneratedCode, &a.IsValid, &a.CompilationError, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("audit")
		}
		return nil, apperr.Persistence(err, "select audit")
	}
	return &a, nil
}

// List returns every audit, most recent first. The id tie-break keeps the
// order deterministic when timestamps collide.
func (r *AuditRepo) List(ctx context.Context) ([]models.Audit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, prompt, generated_code, is_valid, compilation_error, created_at
		FROM ai_audits ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, apperr.Persistence(err, "list audits")
	}
	defer rows.Close()

	var audits []models.Audit
	for rows.Next() {
		var a models.Audit
		if err := rows.Scan(&a.ID, &a.Prompt, &a.GeneratedCode, &a.IsValid, &a.CompilationError, &a.CreatedAt); err != nil {
			return nil, apperr.Persistence(err, "scan audit")
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err, "list audits")
	}
	return audits, nil
}

func (r *AuditRepo) CountTotalAndValid(ctx context.Context) (total, valid int64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_valid = true) FROM ai_audits
	`).Scan(&total, &valid)
	if err != nil {
		return 0, 0, apperr.Persistence(err, "count audits")
	}
	return total, valid, nil
}

// ErrorFrequencies buckets non-empty compilation errors by their first
// truncateLen characters and returns the most frequent buckets.
func (r *AuditRepo) ErrorFrequencies(ctx context.Context, truncateLen, limit int) ([]models.CommonError, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT LEFT(compilation_error, $1) AS error_message, COUNT(*) AS frequency
		FROM ai_audits
		WHERE compilation_error IS NOT NULL AND compilation_error != ''
		GROUP BY LEFT(compilation_error, $1)
		ORDER BY frequency DESC, error_message ASC
		LIMIT $2
	`, truncateLen, limit)
	if err != nil {
		return nil, apperr.Persistence(err, "aggregate errors")
	}
	defer rows.Close()

	var buckets []models.CommonError
	for rows.Next() {
		var b models.CommonError
		if err := rows.Scan(&b.ErrorMessage, &b.Frequency); err != nil {
			return nil, apperr.Persistence(err, "scan error bucket")
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err, "aggregate errors")
	}
	return buckets, nil
}
