package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/optica-api/internal/application/service"
	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/request"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/response"
)

// DraftHandler handles edits of the order form
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Create handles starting a blank order form
func (h *DraftHandler) Create(c *gin.Context) {
	draft, err := h.draftService.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Draft created successfully", draft)
}

// Get handles getting a draft
func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.draftService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Draft retrieved successfully", draft)
}

// Delete handles discarding a draft
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.draftService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Draft deleted successfully", nil)
}

// Reset handles clearing the form
func (h *DraftHandler) Reset(c *gin.Context) {
	draft, err := h.draftService.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Form reset", draft)
}

// UpdateField handles a single field edit
func (h *DraftHandler) UpdateField(c *gin.Context) {
	var req request.UpdateFieldRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.UpdateField(c.Request.Context(), c.Param("id"), record.Path(req.Path), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Field updated", draft)
}

// AddItem handles adding a line item
func (h *DraftHandler) AddItem(c *gin.Context) {
	var req billing.Candidate
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added", draft)
}

// UpdateItem handles editing one field of a line item
func (h *DraftHandler) UpdateItem(c *gin.Context) {
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}
	var req request.UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.UpdateItem(c.Request.Context(), c.Param("id"), index, billing.ItemField(req.Field), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item updated", draft)
}

// RemoveItem handles removing a line item
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}

	draft, err := h.draftService.RemoveItem(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", draft)
}

// ApplyDiscount handles the order-level discount
func (h *DraftHandler) ApplyDiscount(c *gin.Context) {
	var req request.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.ApplyDiscount(c.Request.Context(), c.Param("id"), req.Type, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount applied", draft)
}

// LoadSuggestion handles replacing the form with a saved prescription
func (h *DraftHandler) LoadSuggestion(c *gin.Context) {
	var req request.LoadSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.LoadSuggestion(c.Request.Context(), c.Param("id"), req.PrescriptionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Prescription loaded", draft)
}

// Submit handles saving the form to the store
func (h *DraftHandler) Submit(c *gin.Context) {
	result, err := h.draftService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Order updated successfully"
	if result.Result.NewOrder {
		message = "Order saved successfully"
	}
	response.Success(c, http.StatusOK, message, result)
}
