package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/enum"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"gorm.io/gorm"
)

var orderSortColumns = map[string]bool{
	"created_at":    true,
	"order_date":    true,
	"order_no":      true,
	"delivery_date": true,
	"status":        true,
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Omit("Prescription", "Items", "Payment").Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).First(&order, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Omit("Prescription", "Items", "Payment").Save(order).Error
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.Search != "" {
		query = query.Where("LOWER(order_no) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PrescriptionID != nil {
		query = query.Where("prescription_id = ?", *params.PrescriptionID)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if orderSortColumns[params.SortBy] {
		sortBy = params.SortBy
	}
	if strings.EqualFold(params.SortOrder, "ASC") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Prescription").
		Preload("Payment").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Prescription").
		Preload("Items", orderedBySI).
		Preload("Payment").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) LatestForPrescription(ctx context.Context, prescriptionID uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderedBySI).
		Preload("Payment").
		Where("prescription_id = ?", prescriptionID).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) domainRepo.OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.WithContext(ctx).
		Scopes(orderedBySI).
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

func (r *orderItemRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.OrderItem{}, "order_id = ?", orderID).Error
}

type orderPaymentRepository struct {
	db *gorm.DB
}

// NewOrderPaymentRepository creates a new order payment repository
func NewOrderPaymentRepository(db *gorm.DB) domainRepo.OrderPaymentRepository {
	return &orderPaymentRepository{db: db}
}

func (r *orderPaymentRepository) Create(ctx context.Context, payment *entity.OrderPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *orderPaymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.OrderPayment, error) {
	var payment entity.OrderPayment
	err := r.db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *orderPaymentRepository) Update(ctx context.Context, payment *entity.OrderPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
