package pagination

import "testing"

func TestValidateClampsParams(t *testing.T) {
	tests := []struct {
		in   PaginationParams
		want PaginationParams
	}{
		{PaginationParams{}, PaginationParams{Page: 1, PerPage: DefaultPerPage}},
		{PaginationParams{Page: 3, PerPage: 500}, PaginationParams{Page: 3, PerPage: MaxPerPage}},
		{PaginationParams{Page: -2, PerPage: 20}, PaginationParams{Page: 1, PerPage: 20}},
		{PaginationParams{Page: 2, PerPage: -1}, PaginationParams{Page: 2, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		got := tt.in
		got.Validate()
		if got != tt.want {
			t.Fatalf("Validate(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name             string
		page, perPage    int
		total            int64
		wantPages        int
		wantNext, wantPr bool
	}{
		{"middle page", 2, 10, 25, 3, true, true},
		{"last page", 3, 10, 25, 3, false, true},
		{"exact fit", 1, 10, 10, 1, false, false},
		{"no orders", 1, 15, 0, 0, false, false},
		{"zero page size uses default", 1, 0, 16, 2, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.perPage, tt.total)
			if p.TotalPages != tt.wantPages || p.HasNext != tt.wantNext || p.HasPrev != tt.wantPr {
				t.Fatalf("pagination = %+v", p)
			}
		})
	}

	if off := (&PaginationParams{Page: 2, PerPage: 10}).Offset(); off != 10 {
		t.Fatalf("offset = %d", off)
	}
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	res := NewPaginatedResult[int](nil, NewPagination(1, DefaultPerPage, 0))
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("items = %#v", res.Items)
	}
}
