package repository

// SearchField is a searchable prescription column
type SearchField string

const (
	SearchByPrescriptionNo SearchField = "prescription_no"
	SearchByReferenceNo    SearchField = "reference_no"
	SearchByName           SearchField = "name"
	SearchByMobile         SearchField = "mobile_no"
)

// AllowsContains reports whether a failed exact search on this field may
// be retried as a contains match
func (f SearchField) AllowsContains() bool {
	return f == SearchByName || f == SearchByMobile
}

// MatchMode selects how the query is compared to the column
type MatchMode int

const (
	MatchExact MatchMode = iota
	// MatchContains is a case-insensitive substring match
	MatchContains
)

// SearchParams contains the parameters of a prescription lookup
type SearchParams struct {
	Field SearchField
	Query string
	Mode  MatchMode
	Limit int
}
