package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sangkips/optica-api/internal/application/service"
	"github.com/sangkips/optica-api/internal/config"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/infrastructure/cache"
	"github.com/sangkips/optica-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/optica-api/internal/infrastructure/repository"
	"github.com/sangkips/optica-api/internal/presentation/http/handler"
	"github.com/sangkips/optica-api/internal/presentation/http/middleware"
	"github.com/sangkips/optica-api/pkg/identifier"
	"github.com/sangkips/optica-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Meta    struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func newTestRouter(t *testing.T, rateLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	gen := identifier.NewGenerator(identifier.FixedClock(time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)), fixedRand(42))
	suggestions := cache.NewSuggestionCache(nil, time.Minute)
	prescriptions := infraRepo.NewPrescriptionRepository(db)
	orders := infraRepo.NewOrderRepository(db)

	searchService := service.NewSearchService(prescriptions, orders, suggestions, service.DefaultSearchLimit)
	persistence := service.NewPersistenceService(prescriptions, orders, infraRepo.NewOrderItemRepository(db), infraRepo.NewOrderPaymentRepository(db), suggestions, gen)
	drafts := service.NewDraftService(infraRepo.NewMemoryDraftRepository(time.Hour), searchService, persistence, gen)

	limiterCfg := middleware.DefaultRateLimiterConfig()
	if rateLimit > 0 {
		limiterCfg.RequestsPerSecond = 0.001
		limiterCfg.BurstSize = rateLimit
	}
	limiter := middleware.NewClientRateLimiter(limiterCfg)
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{App: config.AppConfig{Name: "optica-api"}}
	return Setup(&Handlers{
		Draft:       handler.NewDraftHandler(drafts),
		Search:      handler.NewSearchHandler(searchService, 100*time.Millisecond, nil),
		Order:       handler.NewOrderHandler(service.NewOrderService(orders)),
		ContactLens: handler.NewContactLensHandler(service.NewContactLensService(infraRepo.NewContactLensRepository(db), gen, service.DefaultSearchLimit)),
	}, &Deps{
		Cfg:             cfg,
		IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func decodeDraft(t *testing.T, env envelope) service.Draft {
	t.Helper()
	var d service.Draft
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	return d
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, 0)

	w, _ := do(t, router, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}

	w, _ = do(t, router, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "optica_http_requests_total") {
		t.Fatalf("metrics = %d", w.Code)
	}
}

func TestDraftFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t, 0)

	w, env := do(t, router, http.MethodPost, "/api/v1/drafts", nil, map[string]string{"X-Request-ID": "req-1"})
	if w.Code != http.StatusCreated || !env.Success || env.Meta.RequestID != "req-1" {
		t.Fatalf("create = %d %+v", w.Code, env)
	}
	draft := decodeDraft(t, env)
	base := "/api/v1/drafts/" + draft.ID

	for _, f := range []struct {
		path  []string
		value string
	}{
		{[]string{"customer", "name"}, "Asha Rao"},
		{[]string{"customer", "mobile_no"}, "9876543210"},
		{[]string{"prescription", "right_eye", "pd"}, "31.5"},
		{[]string{"prescription", "left_eye", "pd"}, "32"},
		{[]string{"payment", "cash_advance"}, "400"},
	} {
		w, env = do(t, router, http.MethodPatch, base+"/fields", gin.H{"path": f.path, "value": f.value}, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("set %v = %d %s", f.path, w.Code, env.Message)
		}
	}
	if d := decodeDraft(t, env); d.Record.Prescription.IPD != "63.5" {
		t.Fatalf("ipd = %q", d.Record.Prescription.IPD)
	}

	w, env = do(t, router, http.MethodPatch, base+"/fields", gin.H{"path": []string{"customer", "shoe_size"}, "value": "9"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown path = %d", w.Code)
	}

	w, env = do(t, router, http.MethodPost, base+"/items", gin.H{"item_name": "Metal frame", "rate": "2000"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item = %d %s", w.Code, env.Message)
	}
	w, env = do(t, router, http.MethodPatch, base+"/items/0", gin.H{"field": "qty", "value": "2"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update item = %d %s", w.Code, env.Message)
	}
	if d := decodeDraft(t, env); !d.Record.Payment.Estimate.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("estimate = %s", d.Record.Payment.Estimate)
	}
	w, _ = do(t, router, http.MethodPatch, base+"/items/7", gin.H{"field": "qty", "value": "2"}, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad index = %d", w.Code)
	}
	w, _ = do(t, router, http.MethodPatch, base+"/items/x", gin.H{"field": "qty", "value": "2"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric index = %d", w.Code)
	}

	w, env = do(t, router, http.MethodPost, base+"/discount", gin.H{"type": "percentage", "value": "10"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("discount = %d %s", w.Code, env.Message)
	}
	if d := decodeDraft(t, env); !d.Record.Payment.Balance.Equal(decimal.NewFromInt(3200)) {
		t.Fatalf("balance = %s", d.Record.Payment.Balance)
	}

	w, _ = do(t, router, http.MethodPost, base+"/submit", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("submit without key = %d", w.Code)
	}

	key := map[string]string{middleware.IdempotencyKeyHeader: "submit-1"}
	w, env = do(t, router, http.MethodPost, base+"/submit", nil, key)
	if w.Code != http.StatusOK || env.Message != "Order saved successfully" {
		t.Fatalf("submit = %d %s", w.Code, env.Message)
	}
	var submitted service.SubmitResult
	if err := json.Unmarshal(env.Data, &submitted); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(env.Data), `"total_advance":"400.00"`) || !strings.Contains(string(env.Data), `"balance":"3200.00"`) {
		t.Fatalf("saved payment = %s", env.Data)
	}

	replay, _ := do(t, router, http.MethodPost, base+"/submit", nil, key)
	if replay.Header().Get("X-Idempotency-Replayed") != "true" || replay.Body.String() != w.Body.String() {
		t.Fatalf("replay = %d %q", replay.Code, replay.Header().Get("X-Idempotency-Replayed"))
	}

	w, env = do(t, router, http.MethodGet, "/api/v1/suggestions?field=name&q=asha", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("suggestions = %d %s", w.Code, env.Message)
	}
	if !strings.Contains(string(env.Data), submitted.Result.PrescriptionID.String()) {
		t.Fatalf("suggestion missing saved prescription: %s", env.Data)
	}
	w, _ = do(t, router, http.MethodGet, "/api/v1/suggestions?field=shoe&q=asha", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field = %d", w.Code)
	}

	w, env = do(t, router, http.MethodGet, "/api/v1/orders?status=processing&per_page=5", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("orders = %d %s", w.Code, env.Message)
	}
	var page pagination.PaginatedResult[entity.Order]
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != submitted.Result.OrderID {
		t.Fatalf("orders page = %+v", page.Pagination)
	}

	orderPath := "/api/v1/orders/" + submitted.Result.OrderID.String()
	w, _ = do(t, router, http.MethodPut, orderPath+"/status", gin.H{"status": "Delivered"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w, _ = do(t, router, http.MethodPut, orderPath+"/status", gin.H{"status": "Lost"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad status = %d", w.Code)
	}
	w, _ = do(t, router, http.MethodGet, "/api/v1/orders/not-a-uuid", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id = %d", w.Code)
	}

	w, _ = do(t, router, http.MethodDelete, base, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	w, env = do(t, router, http.MethodGet, base, nil, nil)
	if w.Code != http.StatusNotFound || env.Success {
		t.Fatalf("get deleted = %d", w.Code)
	}
}

func TestContactLensOverHTTP(t *testing.T) {
	router := newTestRouter(t, 0)

	w, env := do(t, router, http.MethodGet, "/api/v1/contact-lens/new", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new = %d", w.Code)
	}

	body := gin.H{
		"customer":   gin.H{"name": "Ravi Kumar", "mobile_no": "9123456780"},
		"booking_by": "Meena",
		"items":      []gin.H{{"side": "RE", "brand": "Acuvue", "rate": "1000"}},
	}
	w, env = do(t, router, http.MethodPost, "/api/v1/contact-lens", body, map[string]string{middleware.IdempotencyKeyHeader: "cl-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("save = %d %s", w.Code, env.Message)
	}
	var saved entity.ContactLensPrescription
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.PrescriptionNo != "CL2403-090042" {
		t.Fatalf("prescription no = %q", saved.PrescriptionNo)
	}

	body["booking_by"] = "Somebody else"
	w, _ = do(t, router, http.MethodPost, "/api/v1/contact-lens", body, map[string]string{middleware.IdempotencyKeyHeader: "cl-1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("reused key with new body = %d", w.Code)
	}

	w, env = do(t, router, http.MethodPost, "/api/v1/contact-lens", gin.H{"booking_by": ""}, map[string]string{middleware.IdempotencyKeyHeader: "cl-2"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid save = %d %s", w.Code, env.Message)
	}

	w, _ = do(t, router, http.MethodGet, "/api/v1/contact-lens/CL2403-090042", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	w, env = do(t, router, http.MethodGet, "/api/v1/contact-lens/search?field=name&q=ravi", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), "CL2403-090042") {
		t.Fatalf("search = %d %s", w.Code, env.Data)
	}
}

func TestSuggestionsRateLimited(t *testing.T) {
	router := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		w, _ := do(t, router, http.MethodGet, "/api/v1/suggestions?field=name&q=x", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	w, _ := do(t, router, http.MethodGet, "/api/v1/suggestions?field=name&q=x", nil, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d", w.Code)
	}
}

func TestLiveSuggestionsAnswerLatestQuery(t *testing.T) {
	router := newTestRouter(t, 0)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/suggestions/live", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, q := range []string{"a", "as", "ash"} {
		if err := conn.WriteJSON(map[string]string{"field": "name", "q": q}); err != nil {
			t.Fatal(err)
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var res struct {
		Seq   uint64 `json:"seq"`
		Query string `json:"q"`
		Error string `json:"error"`
	}
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Query != "ash" || res.Seq != 3 || res.Error != "" {
		t.Fatalf("result = %+v", res)
	}

	if err := conn.WriteJSON(map[string]string{"field": "shoe", "q": "x"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Error == "" || res.Seq != 4 {
		t.Fatalf("unknown field result = %+v", res)
	}
}
