package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit is one immutable outcome of checking a submitted snippet.
// Created in a single insert that already carries the verdict;
// never updated afterwards.
type Audit struct {
	ID               uuid.UUID `json:"id"`
	Prompt           string    `json:"prompt"`
	GeneratedCode    string    `json:"generated_code"`
	IsValid          bool      `json:"is_valid"`
	CompilationError *string   `json:"compilation_error,omitempty"` // set iff IsValid is false
	CreatedAt        time.Time `json:"created_at"`
}

// CommonError is one ranked bucket of compilation failures sharing
// the same 200-character-truncated diagnostic.
type CommonError struct {
	ErrorMessage string `json:"error_message"`
	Frequency    int64  `json:"frequency"`
}

// AuditStats is derived from the full record set, never stored.
type AuditStats struct {
	TotalAudits    int64         `json:"total_audits"`
	ValidAudits    int64         `json:"valid_audits"`
	InvalidAudits  int64         `json:"invalid_audits"`
	ValidationRate float64       `json:"validation_rate"`
	CommonErrors   []CommonError `json:"common_errors"`
}
