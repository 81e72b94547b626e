package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/pkg/apperror"
	"github.com/sangkips/optica-api/pkg/pagination"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetOrder retrieves an order with its prescription, items and payment
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdateOrderStatus updates the workshop status of an order. A cancelled
// order stays cancelled.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if order.Status == enum.OrderStatusCancelled {
		return apperror.NewAppError(400, "Order is already cancelled")
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}
