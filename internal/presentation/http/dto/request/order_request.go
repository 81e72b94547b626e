package request

// OrderFilterRequest represents order filter parameters
type OrderFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// UpdateOrderStatusRequest accepts the status name, e.g. "Ready"
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SearchRequest is a suggestion lookup
type SearchRequest struct {
	Field string `form:"field"`
	Query string `form:"q"`
}
