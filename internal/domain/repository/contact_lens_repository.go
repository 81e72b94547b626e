package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
)

// ContactLensRepository defines the interface for contact-lens data operations
type ContactLensRepository interface {
	Create(ctx context.Context, prescription *entity.ContactLensPrescription) error
	Update(ctx context.Context, prescription *entity.ContactLensPrescription) error
	GetByPrescriptionNo(ctx context.Context, prescriptionNo string) (*entity.ContactLensPrescription, error)
	// GetWithDetails loads eyes, items and payment as well
	GetWithDetails(ctx context.Context, prescriptionNo string) (*entity.ContactLensPrescription, error)
	Search(ctx context.Context, params SearchParams) ([]entity.ContactLensPrescription, error)
	ReplaceEyes(ctx context.Context, prescriptionID uuid.UUID, eyes []entity.ContactLensEye) error
	ReplaceItems(ctx context.Context, prescriptionID uuid.UUID, items []entity.ContactLensItem) error
	GetPayment(ctx context.Context, prescriptionID uuid.UUID) (*entity.ContactLensPayment, error)
	CreatePayment(ctx context.Context, payment *entity.ContactLensPayment) error
	UpdatePayment(ctx context.Context, payment *entity.ContactLensPayment) error
}
