package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/infrastructure/cache"
	"github.com/sangkips/optica-api/internal/infrastructure/metrics"
	"github.com/sangkips/optica-api/pkg/apperror"
)

// DefaultSearchLimit caps the number of suggestions per lookup
const DefaultSearchLimit = 5

// ParseSearchField maps a form field name to its column. Both the camel
// case names used by the form and the column names are accepted.
func ParseSearchField(s string) (repository.SearchField, bool) {
	switch strings.TrimSpace(s) {
	case "prescriptionNo", "prescription_no":
		return repository.SearchByPrescriptionNo, true
	case "referenceNo", "reference_no":
		return repository.SearchByReferenceNo, true
	case "name":
		return repository.SearchByName, true
	case "mobileNo", "mobile_no", "mobile":
		return repository.SearchByMobile, true
	}
	return "", false
}

// SearchService finds saved prescriptions for the type-ahead fields
type SearchService struct {
	prescriptionRepo repository.PrescriptionRepository
	orderRepo        repository.OrderRepository
	cache            *cache.SuggestionCache
	limit            int
}

// NewSearchService creates a new search service
func NewSearchService(
	prescriptionRepo repository.PrescriptionRepository,
	orderRepo repository.OrderRepository,
	suggestions *cache.SuggestionCache,
	limit int,
) *SearchService {
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	return &SearchService{
		prescriptionRepo: prescriptionRepo,
		orderRepo:        orderRepo,
		cache:            suggestions,
		limit:            limit,
	}
}

// Search returns up to the configured number of suggestions whose field
// equals query. Name and mobile lookups fall back to a case-insensitive
// contains match when nothing matches exactly. An empty query yields no
// suggestions.
func (s *SearchService) Search(ctx context.Context, field repository.SearchField, query string) ([]record.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []record.Suggestion{}, nil
	}

	key := s.cache.Key(string(field), query)
	if cached, ok := s.cache.Get(ctx, key); ok {
		metrics.SearchRequests.WithLabelValues(string(field), "cache").Inc()
		return cached, nil
	}

	params := repository.SearchParams{Field: field, Query: query, Mode: repository.MatchExact, Limit: s.limit}
	prescriptions, err := s.prescriptionRepo.Search(ctx, params)
	if err != nil {
		log.Printf("Search %s=%q failed: %v", field, query, err)
		return nil, apperror.NewStepError("search", err)
	}
	if len(prescriptions) == 0 && field.AllowsContains() {
		params.Mode = repository.MatchContains
		prescriptions, err = s.prescriptionRepo.Search(ctx, params)
		if err != nil {
			log.Printf("Search %s~%q failed: %v", field, query, err)
			return nil, apperror.NewStepError("search", err)
		}
	}

	suggestions := make([]record.Suggestion, 0, len(prescriptions))
	for _, p := range prescriptions {
		suggestion, err := s.suggestionFor(ctx, p)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}

	s.cache.Set(ctx, key, suggestions)
	metrics.SearchRequests.WithLabelValues(string(field), "store").Inc()
	return suggestions, nil
}

// Suggestion builds the suggestion for one saved prescription
func (s *SearchService) Suggestion(ctx context.Context, prescriptionID uuid.UUID) (*record.Suggestion, error) {
	p, err := s.prescriptionRepo.GetByID(ctx, prescriptionID)
	if err != nil {
		return nil, apperror.NewStepError("lookup_prescription", err)
	}
	if p == nil {
		return nil, apperror.NewNotFoundError("Prescription")
	}
	suggestion, err := s.suggestionFor(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (s *SearchService) suggestionFor(ctx context.Context, p entity.Prescription) (record.Suggestion, error) {
	rows, err := s.prescriptionRepo.EyeRows(ctx, p.ID)
	if err != nil {
		return record.Suggestion{}, apperror.NewStepError("load_eye_readings", err)
	}
	remarks, err := s.prescriptionRepo.RemarkTypes(ctx, p.ID)
	if err != nil {
		return record.Suggestion{}, apperror.NewStepError("load_remarks", err)
	}
	order, err := s.orderRepo.LatestForPrescription(ctx, p.ID)
	if err != nil {
		return record.Suggestion{}, apperror.NewStepError("load_order", err)
	}
	return buildSuggestion(p, rows, remarks, order), nil
}
