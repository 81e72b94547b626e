package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/pkg/apperror"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/sangkips/optica-api/pkg/identifier"
)

// Draft is an order form being edited
type Draft struct {
	ID     string             `json:"id"`
	Record record.OrderRecord `json:"record"`
}

// SubmitResult is the outcome of submitting a draft
type SubmitResult struct {
	Draft  *Draft      `json:"draft"`
	Result *SaveResult `json:"result"`
}

// DraftService edits order forms held in the draft store. Every mutation
// loads the draft, applies one pure change, recomputes the payment and
// stores it again; concurrent edits of one draft are last writer wins.
type DraftService struct {
	drafts      repository.DraftRepository
	search      *SearchService
	persistence *PersistenceService
	gen         *identifier.Generator
}

// NewDraftService creates a new draft service
func NewDraftService(
	drafts repository.DraftRepository,
	search *SearchService,
	persistence *PersistenceService,
	gen *identifier.Generator,
) *DraftService {
	return &DraftService{
		drafts:      drafts,
		search:      search,
		persistence: persistence,
		gen:         gen,
	}
}

// Create starts a blank draft with fresh identifiers
func (s *DraftService) Create(ctx context.Context) (*Draft, error) {
	draft := &Draft{
		ID:     uuid.New().String(),
		Record: record.RecomputeTotals(record.New(s.gen)),
	}
	if err := s.drafts.Save(ctx, draft.ID, draft.Record); err != nil {
		return nil, apperror.NewStepError("save_draft", err)
	}
	return draft, nil
}

// Get returns a draft by id
func (s *DraftService) Get(ctx context.Context, id string) (*Draft, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Draft{ID: id, Record: rec}, nil
}

// Delete discards a draft
func (s *DraftService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return apperror.NewStepError("delete_draft", err)
	}
	return nil
}

// Reset replaces the draft with a blank record and new identifiers
func (s *DraftService) Reset(ctx context.Context, id string) (*Draft, error) {
	return s.mutate(ctx, id, func(record.OrderRecord) (record.OrderRecord, error) {
		return record.New(s.gen), nil
	})
}

// UpdateField sets one form field addressed by path
func (s *DraftService) UpdateField(ctx context.Context, id string, path record.Path, value string) (*Draft, error) {
	return s.mutate(ctx, id, func(rec record.OrderRecord) (record.OrderRecord, error) {
		out, err := record.Apply(rec, path, value)
		if errors.Is(err, record.ErrUnknownPath) {
			return rec, apperror.NewBadRequestError(err.Error() + ": " + path.String())
		}
		return out, err
	})
}

// AddItem appends a line item. An empty item code is generated from the
// item type.
func (s *DraftService) AddItem(ctx context.Context, id string, c billing.Candidate) (*Draft, error) {
	return s.mutate(ctx, id, func(rec record.OrderRecord) (record.OrderRecord, error) {
		if strings.TrimSpace(c.ItemCode) == "" {
			itemType := c.ItemType
			if itemType == "" {
				itemType = enum.InferItemType("", c.ItemName)
			}
			c.ItemCode = s.gen.ItemCode(itemType.CodePrefix())
		}
		items, err := billing.AddItem(rec.Items, c)
		if err != nil {
			return rec, err
		}
		rec.Items = items
		return rec, nil
	})
}

// UpdateItem edits one field of the item at index
func (s *DraftService) UpdateItem(ctx context.Context, id string, index int, field billing.ItemField, value string) (*Draft, error) {
	return s.mutate(ctx, id, func(rec record.OrderRecord) (record.OrderRecord, error) {
		items, err := billing.UpdateItemField(rec.Items, index, field, value)
		if err != nil {
			return rec, err
		}
		rec.Items = items
		return rec, nil
	})
}

// RemoveItem deletes the item at index without renumbering the rest
func (s *DraftService) RemoveItem(ctx context.Context, id string, index int) (*Draft, error) {
	return s.mutate(ctx, id, func(rec record.OrderRecord) (record.OrderRecord, error) {
		items, err := billing.RemoveItem(rec.Items, index)
		if err != nil {
			return rec, err
		}
		rec.Items = items
		return rec, nil
	})
}

// ApplyDiscount spreads an order-level discount over the items
func (s *DraftService) ApplyDiscount(ctx context.Context, id string, kind enum.DiscountType, value string) (*Draft, error) {
	return s.mutate(ctx, id, func(rec record.OrderRecord) (record.OrderRecord, error) {
		amount, err := formatter.ParseAmount(formatter.FormatNumeric(value))
		if err != nil {
			return rec, billing.ErrInvalidDiscountValue
		}
		items, err := billing.ApplyBulkDiscount(rec.Items, kind, amount)
		if err != nil {
			return rec, err
		}
		rec.Items = items
		return rec, nil
	})
}

// LoadSuggestion replaces the draft with a saved prescription and its
// latest order. The stored advance becomes the prior advance and the
// advance inputs start empty, so a resubmit only adds new money.
func (s *DraftService) LoadSuggestion(ctx context.Context, id string, prescriptionID uuid.UUID) (*Draft, error) {
	suggestion, err := s.search.Suggestion(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(record.OrderRecord) (record.OrderRecord, error) {
		rec := record.Clone(suggestion.Record)
		rec.Payment = carryAdvance(rec.Payment)
		return rec, nil
	})
}

// Submit saves the draft to the store. On success the draft keeps the
// saved order number and its advance inputs move into the prior advance.
func (s *DraftService) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.persistence.Save(ctx, record.RecomputeTotals(rec))
	if err != nil {
		return nil, err
	}

	rec.Identifiers.ReferenceNo = result.OrderNo
	rec.Payment = carryAdvance(rec.Payment)
	rec.Payment.PriorAdvance = result.Payment.TotalAdvance
	rec = record.RecomputeTotals(rec)
	if err := s.drafts.Save(ctx, id, rec); err != nil {
		log.Printf("Draft %s: saved order %s but could not store the draft: %v", id, result.OrderNo, err)
		return nil, apperror.NewStepError("save_draft", err)
	}
	return &SubmitResult{Draft: &Draft{ID: id, Record: rec}, Result: result}, nil
}

// carryAdvance folds the displayed total advance into the prior advance
// and clears the per-channel inputs
func carryAdvance(p record.Payment) record.Payment {
	p.PriorAdvance = p.TotalAdvance
	p.CashAdvance = ""
	p.CardUPIAdvance = ""
	p.OtherAdvance = ""
	return p
}

func (s *DraftService) load(ctx context.Context, id string) (record.OrderRecord, error) {
	rec, err := s.drafts.Get(ctx, id)
	if errors.Is(err, repository.ErrDraftNotFound) {
		return rec, apperror.NewNotFoundError("Draft")
	}
	if err != nil {
		return rec, apperror.NewStepError("load_draft", err)
	}
	return rec, nil
}

// mutate applies fn to the stored draft and saves the recomputed result.
// Rule violations come back as 422 with the message unchanged.
func (s *DraftService) mutate(ctx context.Context, id string, fn func(record.OrderRecord) (record.OrderRecord, error)) (*Draft, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err = fn(rec)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewUnprocessableError(err)
	}
	rec = record.RecomputeTotals(rec)
	if err := s.drafts.Save(ctx, id, rec); err != nil {
		return nil, apperror.NewStepError("save_draft", err)
	}
	return &Draft{ID: id, Record: rec}, nil
}
