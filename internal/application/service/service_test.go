package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/record"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/infrastructure/cache"
	"github.com/sangkips/optica-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/optica-api/internal/infrastructure/repository"
	"github.com/sangkips/optica-api/pkg/apperror"
	"github.com/sangkips/optica-api/pkg/identifier"
	"gorm.io/gorm"
)

type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

type testEnv struct {
	db            *gorm.DB
	gen           *identifier.Generator
	prescriptions domainRepo.PrescriptionRepository
	orders        domainRepo.OrderRepository
	items         domainRepo.OrderItemRepository
	payments      domainRepo.OrderPaymentRepository
	contactLenses domainRepo.ContactLensRepository
	persistence   *PersistenceService
	search        *SearchService
	drafts        *DraftService
	contactLens   *ContactLensService
	orderService  *OrderService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	gen := identifier.NewGenerator(identifier.FixedClock(time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)), fixedRand(42))
	suggestions := cache.NewSuggestionCache(nil, time.Minute)

	env := &testEnv{
		db:            db,
		gen:           gen,
		prescriptions: infraRepo.NewPrescriptionRepository(db),
		orders:        infraRepo.NewOrderRepository(db),
		items:         infraRepo.NewOrderItemRepository(db),
		payments:      infraRepo.NewOrderPaymentRepository(db),
		contactLenses: infraRepo.NewContactLensRepository(db),
	}
	env.persistence = NewPersistenceService(env.prescriptions, env.orders, env.items, env.payments, suggestions, gen)
	env.search = NewSearchService(env.prescriptions, env.orders, suggestions, DefaultSearchLimit)
	env.drafts = NewDraftService(infraRepo.NewMemoryDraftRepository(time.Hour), env.search, env.persistence, gen)
	env.contactLens = NewContactLensService(env.contactLenses, gen, DefaultSearchLimit)
	env.orderService = NewOrderService(env.orders)
	return env
}

// sampleRecord is a filled spectacle order: lens 1000 x2 at 12% tax and a
// frame at 500, estimate 2740
func sampleRecord(t *testing.T, gen *identifier.Generator) record.OrderRecord {
	t.Helper()
	rec := record.New(gen)
	rec.Customer.Name = "Asha Rao"
	rec.Customer.MobileNo = "9876543210"

	for _, set := range []struct {
		path  record.Path
		value string
	}{
		{record.Path{"prescription", "right_eye", "distance", "sph"}, "-1.25"},
		{record.Path{"prescription", "right_eye", "distance", "axis"}, "90"},
		{record.Path{"prescription", "left_eye", "near", "add"}, "+2.00"},
		{record.Path{"prescription", "right_eye", "pd"}, "31.5"},
		{record.Path{"prescription", "left_eye", "pd"}, "32"},
		{record.Path{"prescription", "remarks", string(enum.RemarkBifocalLenses)}, "true"},
	} {
		var err error
		if rec, err = record.Apply(rec, set.path, set.value); err != nil {
			t.Fatalf("Apply(%s): %v", set.path, err)
		}
	}

	items, err := billing.AddItem(nil, billing.Candidate{ItemCode: "LEN0001", ItemName: "Single vision lens", Rate: "1000", Qty: "2", TaxPercent: "12"})
	if err != nil {
		t.Fatal(err)
	}
	items, err = billing.AddItem(items, billing.Candidate{ItemName: "Metal frame", Rate: "500"})
	if err != nil {
		t.Fatal(err)
	}
	rec.Items = items
	return record.RecomputeTotals(rec)
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != code {
		t.Fatalf("code = %d (%s), want %d", appErr.Code, appErr.Message, code)
	}
	return appErr
}
