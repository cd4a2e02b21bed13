package repositories

import (
	"context"

	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
)

// KYCRepository defines KYC record persistence operations
type KYCRepository interface {
	Create(ctx context.Context, record *entities.KYCRecord) error
	// GetByID loads a record with its owning account joined
	GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCRecord, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.KYCRecord, error)
	// FindPending returns PENDING records: never-reviewed first, then by
	// review time descending, then by owning account creation ascending
	FindPending(ctx context.Context) ([]*entities.KYCRecord, error)
	// FindReviewed returns APPROVED and REJECTED records by review time
	// descending
	FindReviewed(ctx context.Context) ([]*entities.KYCRecord, error)
	// UpdateDisclosure overwrites the disclosure fields of a non-approved
	// record, resets status to PENDING and clears the review metadata. It
	// fails with ErrNotPending if the record was approved concurrently.
	UpdateDisclosure(ctx context.Context, record *entities.KYCRecord) error
	// MarkReviewed transitions a PENDING record to APPROVED or REJECTED.
	// The write is conditional on the current status still being PENDING,
	// so of two concurrent reviewers at most one wins; the loser gets
	// ErrNotPending.
	MarkReviewed(ctx context.Context, id uuid.UUID, status entities.KYCStatus, reviewedBy uuid.UUID, rejectReason string) error
}
