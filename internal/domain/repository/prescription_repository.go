package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
)

// EyeRow is an eye_prescriptions row read as column name to value. Older
// rows use different column spellings, so callers look keys up tolerantly.
type EyeRow map[string]interface{}

// PrescriptionRepository defines the interface for spectacle prescription data operations
type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entity.Prescription) error
	Update(ctx context.Context, prescription *entity.Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error)
	GetByPrescriptionNo(ctx context.Context, prescriptionNo string) (*entity.Prescription, error)
	Search(ctx context.Context, params SearchParams) ([]entity.Prescription, error)
	// ReplaceEyes deletes the stored readings of a prescription and inserts eyes
	ReplaceEyes(ctx context.Context, prescriptionID uuid.UUID, eyes []entity.EyePrescription) error
	// ReplaceRemarks deletes the stored remarks of a prescription and inserts remarks
	ReplaceRemarks(ctx context.Context, prescriptionID uuid.UUID, remarks []entity.PrescriptionRemark) error
	EyeRows(ctx context.Context, prescriptionID uuid.UUID) ([]EyeRow, error)
	RemarkTypes(ctx context.Context, prescriptionID uuid.UUID) ([]string, error)
}
