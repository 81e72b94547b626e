package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/optica-api/internal/domain/record"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
)

const draftKeyPrefix = "draft:"

type redisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftRepository stores drafts as JSON in Redis. Every save
// renews the expiry.
func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) domainRepo.DraftRepository {
	return &redisDraftRepository{client: client, ttl: ttl}
}

func (r *redisDraftRepository) Get(ctx context.Context, id string) (record.OrderRecord, error) {
	data, err := r.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return record.OrderRecord{}, domainRepo.ErrDraftNotFound
	}
	if err != nil {
		return record.OrderRecord{}, err
	}
	var rec record.OrderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return record.OrderRecord{}, err
	}
	return rec, nil
}

func (r *redisDraftRepository) Save(ctx context.Context, id string, rec record.OrderRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, draftKeyPrefix+id, data, r.ttl).Err()
}

func (r *redisDraftRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, draftKeyPrefix+id).Err()
}

type memoryDraft struct {
	rec       record.OrderRecord
	expiresAt time.Time
}

type memoryDraftRepository struct {
	mu     sync.Mutex
	drafts map[string]memoryDraft
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryDraftRepository keeps drafts in process memory. Used when Redis
// is not configured and in tests.
func NewMemoryDraftRepository(ttl time.Duration) domainRepo.DraftRepository {
	return &memoryDraftRepository{
		drafts: make(map[string]memoryDraft),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *memoryDraftRepository) Get(ctx context.Context, id string) (record.OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[id]
	if !ok {
		return record.OrderRecord{}, domainRepo.ErrDraftNotFound
	}
	if r.ttl > 0 && r.now().After(d.expiresAt) {
		delete(r.drafts, id)
		return record.OrderRecord{}, domainRepo.ErrDraftNotFound
	}
	return record.Clone(d.rec), nil
}

func (r *memoryDraftRepository) Save(ctx context.Context, id string, rec record.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drafts[id] = memoryDraft{rec: record.Clone(rec), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryDraftRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, id)
	return nil
}
