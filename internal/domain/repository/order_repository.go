package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// LatestForPrescription returns the most recently created order of a
	// prescription with its items and payment
	LatestForPrescription(ctx context.Context, prescriptionID uuid.UUID) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	Status         *enum.OrderStatus
	PrescriptionID *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         string
	SortOrder      string
}

// OrderItemRepository defines the interface for order item data operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
}

// OrderPaymentRepository defines the interface for order payment data operations
type OrderPaymentRepository interface {
	Create(ctx context.Context, payment *entity.OrderPayment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.OrderPayment, error)
	Update(ctx context.Context, payment *entity.OrderPayment) error
}
