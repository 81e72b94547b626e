package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/optica-api/internal/application/service"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/request"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/response"
)

// ContactLensHandler handles contact lens prescriptions
type ContactLensHandler struct {
	contactLensService *service.ContactLensService
}

// NewContactLensHandler creates a new contact lens handler
func NewContactLensHandler(contactLensService *service.ContactLensService) *ContactLensHandler {
	return &ContactLensHandler{contactLensService: contactLensService}
}

// New handles GET /contact-lens/new, a blank form with fresh identifiers
func (h *ContactLensHandler) New(c *gin.Context) {
	response.OK(c, "Contact lens form created", h.contactLensService.NewRecord())
}

// Save handles creating or updating a prescription. Fields missing from
// the body keep the blank form's defaults.
func (h *ContactLensHandler) Save(c *gin.Context) {
	rec := h.contactLensService.NewRecord()
	if !bindJSON(c, &rec) {
		return
	}

	saved, err := h.contactLensService.Save(c.Request.Context(), rec)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact lens prescription saved successfully", saved)
}

// Get handles getting a prescription by its number
func (h *ContactLensHandler) Get(c *gin.Context) {
	p, err := h.contactLensService.Get(c.Request.Context(), c.Param("prescription_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact lens prescription retrieved successfully", p)
}

// Search handles GET /contact-lens/search?field=&q=
func (h *ContactLensHandler) Search(c *gin.Context) {
	var req request.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	field, ok := service.ParseSearchField(req.Field)
	if !ok {
		response.BadRequest(c, "Unknown search field: "+req.Field)
		return
	}

	found, err := h.contactLensService.Search(c.Request.Context(), field, req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact lens prescriptions retrieved successfully", found)
}
