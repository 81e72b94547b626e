package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"gorm.io/gorm"
)

type contactLensRepository struct {
	db *gorm.DB
}

// NewContactLensRepository creates a new contact-lens repository
func NewContactLensRepository(db *gorm.DB) domainRepo.ContactLensRepository {
	return &contactLensRepository{db: db}
}

func (r *contactLensRepository) Create(ctx context.Context, prescription *entity.ContactLensPrescription) error {
	return r.db.WithContext(ctx).Omit("Eyes", "Items", "Payment").Create(prescription).Error
}

func (r *contactLensRepository) Update(ctx context.Context, prescription *entity.ContactLensPrescription) error {
	return r.db.WithContext(ctx).Omit("Eyes", "Items", "Payment").Save(prescription).Error
}

func (r *contactLensRepository) GetByPrescriptionNo(ctx context.Context, prescriptionNo string) (*entity.ContactLensPrescription, error) {
	var prescription entity.ContactLensPrescription
	err := r.db.WithContext(ctx).First(&prescription, "prescription_no = ?", prescriptionNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &prescription, err
}

func (r *contactLensRepository) GetWithDetails(ctx context.Context, prescriptionNo string) (*entity.ContactLensPrescription, error) {
	var prescription entity.ContactLensPrescription
	err := r.db.WithContext(ctx).
		Preload("Eyes").
		Preload("Items", orderedBySI).
		Preload("Payment").
		First(&prescription, "prescription_no = ?", prescriptionNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &prescription, err
}

func (r *contactLensRepository) Search(ctx context.Context, params domainRepo.SearchParams) ([]entity.ContactLensPrescription, error) {
	var prescriptions []entity.ContactLensPrescription
	err := r.db.WithContext(ctx).
		Scopes(MatchScope(params.Field, params.Query, params.Mode), LimitScope(params.Limit)).
		Order("created_at DESC").
		Find(&prescriptions).Error
	return prescriptions, err
}

func (r *contactLensRepository) ReplaceEyes(ctx context.Context, prescriptionID uuid.UUID, eyes []entity.ContactLensEye) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("contact_lens_prescription_id = ?", prescriptionID).Delete(&entity.ContactLensEye{}).Error; err != nil {
		return err
	}
	if len(eyes) == 0 {
		return nil
	}
	for i := range eyes {
		eyes[i].ContactLensPrescriptionID = prescriptionID
	}
	return db.Create(&eyes).Error
}

func (r *contactLensRepository) ReplaceItems(ctx context.Context, prescriptionID uuid.UUID, items []entity.ContactLensItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("contact_lens_prescription_id = ?", prescriptionID).Delete(&entity.ContactLensItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ContactLensPrescriptionID = prescriptionID
	}
	return db.Create(&items).Error
}

func (r *contactLensRepository) GetPayment(ctx context.Context, prescriptionID uuid.UUID) (*entity.ContactLensPayment, error) {
	var payment entity.ContactLensPayment
	err := r.db.WithContext(ctx).First(&payment, "contact_lens_prescription_id = ?", prescriptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *contactLensRepository) CreatePayment(ctx context.Context, payment *entity.ContactLensPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *contactLensRepository) UpdatePayment(ctx context.Context, payment *entity.ContactLensPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
