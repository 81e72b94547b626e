package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"gorm.io/gorm"
)

type prescriptionRepository struct {
	db *gorm.DB
}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository(db *gorm.DB) domainRepo.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *entity.Prescription) error {
	return r.db.WithContext(ctx).Omit("Eyes", "Remarks", "Orders").Create(prescription).Error
}

func (r *prescriptionRepository) Update(ctx context.Context, prescription *entity.Prescription) error {
	return r.db.WithContext(ctx).Omit("Eyes", "Remarks", "Orders").Save(prescription).Error
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := r.db.WithContext(ctx).
		Preload("Eyes").
		Preload("Remarks").
		First(&prescription, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &prescription, err
}

func (r *prescriptionRepository) GetByPrescriptionNo(ctx context.Context, prescriptionNo string) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := r.db.WithContext(ctx).First(&prescription, "prescription_no = ?", prescriptionNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &prescription, err
}

func (r *prescriptionRepository) Search(ctx context.Context, params domainRepo.SearchParams) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := r.db.WithContext(ctx).
		Scopes(MatchScope(params.Field, params.Query, params.Mode), LimitScope(params.Limit)).
		Order("created_at DESC").
		Find(&prescriptions).Error
	return prescriptions, err
}

func (r *prescriptionRepository) ReplaceEyes(ctx context.Context, prescriptionID uuid.UUID, eyes []entity.EyePrescription) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("prescription_id = ?", prescriptionID).Delete(&entity.EyePrescription{}).Error; err != nil {
		return err
	}
	if len(eyes) == 0 {
		return nil
	}
	for i := range eyes {
		eyes[i].PrescriptionID = prescriptionID
	}
	return db.Create(&eyes).Error
}

func (r *prescriptionRepository) ReplaceRemarks(ctx context.Context, prescriptionID uuid.UUID, remarks []entity.PrescriptionRemark) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("prescription_id = ?", prescriptionID).Delete(&entity.PrescriptionRemark{}).Error; err != nil {
		return err
	}
	if len(remarks) == 0 {
		return nil
	}
	for i := range remarks {
		remarks[i].PrescriptionID = prescriptionID
	}
	return db.Create(&remarks).Error
}

func (r *prescriptionRepository) EyeRows(ctx context.Context, prescriptionID uuid.UUID) ([]domainRepo.EyeRow, error) {
	var rows []map[string]interface{}
	err := r.db.WithContext(ctx).
		Table(entity.EyePrescription{}.TableName()).
		Where("prescription_id = ?", prescriptionID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domainRepo.EyeRow, len(rows))
	for i, row := range rows {
		out[i] = domainRepo.EyeRow(row)
	}
	return out, nil
}

func (r *prescriptionRepository) RemarkTypes(ctx context.Context, prescriptionID uuid.UUID) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&entity.PrescriptionRemark{}).
		Where("prescription_id = ?", prescriptionID).
		Pluck("remark_type", &types).Error
	return types, err
}
