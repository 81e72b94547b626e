package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/pkg/pagination"
)

func TestOrderListGetAndStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := sampleRecord(t, env.gen)
	first.Identifiers.ReferenceNo = "REF-1"
	second := sampleRecord(t, env.gen)
	second.Identifiers.PrescriptionNo = "P2403-099999"
	second.Identifiers.ReferenceNo = "REF-2"

	saved, err := env.persistence.Save(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.persistence.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	page, err := env.orderService.ListOrders(ctx, &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
		SortBy:     "order_no",
		SortOrder:  "asc",
	})
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Total != 2 || len(page.Items) != 1 || !page.Pagination.HasNext {
		t.Fatalf("page = %+v", page.Pagination)
	}
	if page.Items[0].OrderNo != "REF-1" {
		t.Fatalf("first order = %q", page.Items[0].OrderNo)
	}

	filtered, err := env.orderService.ListOrders(ctx, &repository.OrderFilterParams{Search: "ref-2"})
	if err != nil || len(filtered.Items) != 1 {
		t.Fatalf("search: %v (%d)", err, len(filtered.Items))
	}

	order, err := env.orderService.GetOrder(ctx, saved.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(order.Items) != 2 || order.Payment == nil || order.Prescription == nil {
		t.Fatalf("details not loaded: %+v", order)
	}

	if err := env.orderService.UpdateOrderStatus(ctx, saved.OrderID, enum.OrderStatusReady); err != nil {
		t.Fatal(err)
	}
	ready := enum.OrderStatusReady
	byStatus, _ := env.orderService.ListOrders(ctx, &repository.OrderFilterParams{Status: &ready})
	if len(byStatus.Items) != 1 || byStatus.Items[0].ID != saved.OrderID {
		t.Fatalf("status filter = %d items", len(byStatus.Items))
	}

	if err := env.orderService.UpdateOrderStatus(ctx, saved.OrderID, enum.OrderStatusCancelled); err != nil {
		t.Fatal(err)
	}
	err = env.orderService.UpdateOrderStatus(ctx, saved.OrderID, enum.OrderStatusReady)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = env.orderService.GetOrder(ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound)
}
