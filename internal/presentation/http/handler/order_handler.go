package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/optica-api/internal/application/service"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/request"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/response"
	"github.com/sangkips/optica-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	if req.Status != "" {
		status, err := enum.ParseOrderStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid order status")
			return
		}
		params.Status = &status
	}

	if req.StartDate != "" {
		if startDate, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			params.StartDate = &startDate
		}
	}

	if req.EndDate != "" {
		if endDate, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// UpdateStatus handles updating order status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid order status")
		return
	}

	if err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, status); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", nil)
}
