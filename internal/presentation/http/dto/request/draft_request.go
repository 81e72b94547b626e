package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/enum"
)

// UpdateFieldRequest sets one form field addressed by its path segments,
// e.g. ["prescription", "right_eye", "distance", "sph"]
type UpdateFieldRequest struct {
	Path  []string `json:"path" binding:"required,min=1"`
	Value string   `json:"value"`
}

// UpdateItemRequest edits one field of a draft line item
type UpdateItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// DiscountRequest spreads an order-level discount over the items
type DiscountRequest struct {
	Type  enum.DiscountType `json:"type"`
	Value string            `json:"value" binding:"required"`
}

// LoadSuggestionRequest replaces a draft with a saved prescription
type LoadSuggestionRequest struct {
	PrescriptionID uuid.UUID `json:"prescription_id" binding:"required"`
}
