package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/record"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/infrastructure/database"
	"gorm.io/gorm"
)

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

func seedPrescriptions(t *testing.T, repo domainRepo.PrescriptionRepository) []entity.Prescription {
	t.Helper()
	seeds := []entity.Prescription{
		{PrescriptionNo: "P2403-000001", PrescribedBy: "Dr. Iyer", Customer: entity.Customer{Name: "Asha Rao", MobileNo: "9876543210"}},
		{PrescriptionNo: "P2403-000002", PrescribedBy: "Dr. Iyer", Customer: entity.Customer{Name: "Rashid Khan", MobileNo: "9000000001"}},
		{PrescriptionNo: "P2403-000003", PrescribedBy: "Dr. Iyer", Customer: entity.Customer{Name: "Meena Das", MobileNo: "9000000002"}},
	}
	for i := range seeds {
		if err := repo.Create(context.Background(), &seeds[i]); err != nil {
			t.Fatal(err)
		}
	}
	return seeds
}

func TestPrescriptionSearch(t *testing.T) {
	repo := NewPrescriptionRepository(setupTestDB(t))
	seedPrescriptions(t, repo)

	tests := []struct {
		name   string
		params domainRepo.SearchParams
		want   int
	}{
		{"exact name", domainRepo.SearchParams{Field: domainRepo.SearchByName, Query: "Asha Rao"}, 1},
		{"exact is case sensitive", domainRepo.SearchParams{Field: domainRepo.SearchByName, Query: "asha rao"}, 0},
		{"contains ignores case", domainRepo.SearchParams{Field: domainRepo.SearchByName, Query: "ASH", Mode: domainRepo.MatchContains}, 2},
		{"contains with limit", domainRepo.SearchParams{Field: domainRepo.SearchByMobile, Query: "900", Mode: domainRepo.MatchContains, Limit: 1}, 1},
		{"prescription number", domainRepo.SearchParams{Field: domainRepo.SearchByPrescriptionNo, Query: "P2403-000003"}, 1},
		{"underscore matches literally", domainRepo.SearchParams{Field: domainRepo.SearchByName, Query: "_", Mode: domainRepo.MatchContains}, 0},
		{"percent matches literally", domainRepo.SearchParams{Field: domainRepo.SearchByMobile, Query: "%", Mode: domainRepo.MatchContains}, 0},
		{"backslash matches literally", domainRepo.SearchParams{Field: domainRepo.SearchByName, Query: `\`, Mode: domainRepo.MatchContains}, 0},
		{"unknown field", domainRepo.SearchParams{Field: "name; DROP TABLE prescriptions", Query: "x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(context.Background(), tt.params)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d rows, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPrescriptionEyesAndRemarksAreReplaced(t *testing.T) {
	repo := NewPrescriptionRepository(setupTestDB(t))
	ctx := context.Background()
	p := seedPrescriptions(t, repo)[0]

	first := []entity.EyePrescription{
		{EyeType: "Right", VisionType: "Distance", Sph: "-1.25", RPD: "31.5"},
		{EyeType: "Left", VisionType: "Distance", Sph: "-1.00", LPD: "32"},
	}
	if err := repo.ReplaceEyes(ctx, p.ID, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceEyes(ctx, p.ID, first[:1]); err != nil {
		t.Fatal(err)
	}
	rows, err := repo.EyeRows(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if fmt.Sprint(rows[0]["sph"]) != "-1.25" || fmt.Sprint(rows[0]["rpd"]) != "31.5" {
		t.Fatalf("row = %v", rows[0])
	}

	remarks := []entity.PrescriptionRemark{{RemarkType: "bifocal_lenses"}}
	if err := repo.ReplaceRemarks(ctx, p.ID, remarks); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceRemarks(ctx, p.ID, nil); err != nil {
		t.Fatal(err)
	}
	types, err := repo.RemarkTypes(ctx, p.ID)
	if err != nil || len(types) != 0 {
		t.Fatalf("remarks = %v, %v", types, err)
	}
}

func TestPrescriptionNotFoundIsNil(t *testing.T) {
	repo := NewPrescriptionRepository(setupTestDB(t))
	p, err := repo.GetByPrescriptionNo(context.Background(), "P0000-000000")
	if err != nil || p != nil {
		t.Fatalf("got %v, %v", p, err)
	}
}

func TestMemoryDraftExpiry(t *testing.T) {
	repo := NewMemoryDraftRepository(time.Hour).(*memoryDraftRepository)
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	rec := record.OrderRecord{Customer: record.Customer{Name: "Asha"}}
	if err := repo.Save(ctx, "d1", rec); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Get(ctx, "d1")
	if err != nil || got.Customer.Name != "Asha" {
		t.Fatalf("get = %+v, %v", got.Customer, err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := repo.Get(ctx, "d1"); !errors.Is(err, domainRepo.ErrDraftNotFound) {
		t.Fatalf("expired draft err = %v", err)
	}
}

func TestIdempotencyDeleteExpired(t *testing.T) {
	repo := NewIdempotencyRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	for i, expires := range []time.Time{now.Add(-time.Minute), now.Add(time.Hour)} {
		key := &entity.IdempotencyKey{Key: fmt.Sprintf("k%d", i), Endpoint: "POST /api/v1/contact-lens", ResponseCode: 200, ExpiresAt: expires}
		if err := repo.Create(ctx, key); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.DeleteExpired(ctx, now); err != nil {
		t.Fatal(err)
	}

	if k, _ := repo.GetByKey(ctx, "POST /api/v1/contact-lens", "k0"); k != nil {
		t.Fatal("expired key kept")
	}
	if k, _ := repo.GetByKey(ctx, "POST /api/v1/contact-lens", "k1"); k == nil {
		t.Fatal("live key deleted")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"asha":   "asha",
		"50%":    `50\%`,
		"a_b":    `a\_b`,
		`c:\dir`: `c:\\dir`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
