package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/matching"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/pipeline"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/storage"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/usecase"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *storage.Store) {
	t.Helper()

	store, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema(context.Background()))

	p := policy.DefaultPolicy()
	engine := matching.NewEngine(p.Match, matching.Config{Workers: 2}).WithClock(func() time.Time { return now })
	desk := usecase.NewDealDesk(store, pipeline.NewEvaluator(p), engine)

	ts := httptest.NewServer(NewServer(desk).Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func seed(t *testing.T, store *storage.Store) {
	t.Helper()
	require.NoError(t, store.Seed(context.Background(), storage.SeedData{
		Properties: []domain.PropertyRecord{{
			ID: "p-1", Address: "412 Elm St", City: "Springfield", State: "IL", Zip: "62704",
			SquareFeet: 1500, Bedrooms: 3, Bathrooms: 2, YearBuilt: 2000,
			Condition: domain.ConditionSignals{Overall: 6}, AskingPrice: 60_000, DealType: "Wholesaling",
		}},
		Comparables: []domain.ComparableSale{
			{ID: "c-1", PropertyID: "p-1", SalePrice: 200_000, SquareFeet: 1400, Bedrooms: 3, Bathrooms: 2, YearBuilt: 1995, Condition: 7},
			{ID: "c-2", PropertyID: "p-1", SalePrice: 210_000, SquareFeet: 1500, Bedrooms: 3, Bathrooms: 2, YearBuilt: 2000, Condition: 9},
			{ID: "c-3", PropertyID: "p-1", SalePrice: 205_000, SquareFeet: 1600, Bedrooms: 4, Bathrooms: 2.5, YearBuilt: 2005, Condition: 8},
		},
		Buyers: []domain.BuyerRecord{
			{ID: "b-1", MaxBudget: 120_000, InvestmentType: "Wholesale", PreferredAreas: "Springfield", CashVerified: true, Active: true, CreatedAt: now.AddDate(0, 0, -3)},
			{ID: "b-2", MaxBudget: 500_000, InvestmentType: "Wholesale", PreferredAreas: "Springfield", Active: false, CreatedAt: now},
		},
	}))
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type matchBody struct {
	Total   int `json:"total"`
	Results []struct {
		Buyer struct {
			ID string `json:"id"`
		} `json:"buyer"`
		Score      float64  `json:"score"`
		Confidence string   `json:"confidence"`
		Reasons    []string `json:"reasons"`
	} `json:"results"`
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProperties_CreateFilterAndSort(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, row := range []map[string]any{
		{"address": "412 Elm St", "city": "Springfield", "state": "IL", "asking_price": "$60,000"},
		{"Address": "77 Lake Dr", "City": "Springfield", "State": "MO", "Asking Price": 95000},
		{"address": "9 Birch Rd", "city": "Akron", "state": "OH", "price": "150000"},
	} {
		resp := do(t, http.MethodPost, ts.URL+"/properties", row)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := do(t, http.MethodGet, ts.URL+"/properties?location=SPRINGFIELD&min_price=50000&sort=price_desc&limit=20&offset=0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got PropertiesListResponse
	decode(t, resp, &got)
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "77 Lake Dr", got.Items[0].Address)
	assert.Equal(t, 95_000.0, got.Items[0].AskingPrice)
	assert.Equal(t, domain.StatusActive, got.Items[0].Status)
	assert.NotEmpty(t, got.Items[0].ID)
}

func TestProperties_Errors(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/properties", map[string]any{"asking_price": 1000})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/properties/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/properties/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/properties/missing", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStoredPropertyLifecycle(t *testing.T) {
	ts, store := newTestServer(t)
	seed(t, store)

	resp := do(t, http.MethodGet, ts.URL+"/properties/p-1/matches", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var matches matchBody
	decode(t, resp, &matches)
	require.Equal(t, 1, matches.Total)
	assert.Equal(t, "b-1", matches.Results[0].Buyer.ID)
	assert.Equal(t, 85.0, matches.Results[0].Score)
	assert.Equal(t, matching.LabelVeryHigh, matches.Results[0].Confidence)

	resp = do(t, http.MethodPost, ts.URL+"/properties/p-1/evaluate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ev pipeline.Evaluation
	decode(t, resp, &ev)
	assert.Equal(t, 205_333.0, ev.Valuation.ARV)
	assert.Equal(t, 53_334.0, ev.Offer.MAO)

	stored, err := store.GetProperty(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, 53_334.0, stored.MAO)
	assert.Equal(t, ev.Verdict.Recommendation, stored.DealClass)

	resp = do(t, http.MethodDelete, ts.URL+"/properties/p-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/properties/p-1/matches", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluateInline(t *testing.T) {
	ts, store := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/evaluate", map[string]any{
		"property": map[string]any{
			"address": "412 Elm St, Springfield, IL 62704", "sqft": "1,500", "beds": 3, "baths": 2,
			"year_built": 2000, "condition": 6, "asking_price": "$60,000", "deal_type": "Wholesaling",
		},
		"comparables": []map[string]any{
			{"sale_price": 200000, "sqft": 1400, "beds": 3, "baths": 2, "year_built": 1995, "condition": 7},
			{"sale_price": "$210,000", "sqft": 1500, "beds": 3, "baths": 2, "year_built": 2000, "condition": 9},
			{"sold_price": 205000, "sqft": 1600, "beds": 4, "baths": 2.5, "year_built": 2005, "condition": 8},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ev pipeline.Evaluation
	decode(t, resp, &ev)
	assert.Equal(t, 205_333.0, ev.Property.ARV)
	assert.Equal(t, 57_750.0, ev.Property.RepairEstimate)
	assert.Equal(t, 53_334.0, ev.Property.MAO)

	n, err := store.CountProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "inline evaluation persists nothing")

	resp = do(t, http.MethodPost, ts.URL+"/evaluate", map[string]any{"comparables": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatchInline(t *testing.T) {
	ts, _ := newTestServer(t)

	property := map[string]any{
		"id": "p-9", "address": "1421 Maple Street, Dayton, OH 45402", "asking_price": 180000, "deal_type": "Wholesaling",
	}
	buyer := map[string]any{
		"buyer_id": "b-1", "max_budget": "$200,000", "investment_type": "Fix & Flip",
		"preferred_areas": "45402, 45403, Kettering", "cash_verified": "yes",
		"created_at": now.AddDate(0, 0, -20).Format(time.RFC3339),
	}

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantIDs    []string
	}{
		{
			name:       "ranks inline buyers",
			body:       map[string]any{"property": property, "buyers": []any{buyer, map[string]any{"buyer_id": "b-2", "active": "no"}}},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"b-1"},
		},
		{
			name:       "empty buyer list",
			body:       map[string]any{"property": property, "buyers": []any{}},
			wantStatus: http.StatusOK,
			wantIDs:    []string{},
		},
		{
			name:       "buyers missing",
			body:       map[string]any{"property": property},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "property without address",
			body:       map[string]any{"property": map[string]any{"asking_price": 1}, "buyers": []any{buyer}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/match", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got matchBody
			decode(t, resp, &got)
			ids := make([]string, 0, len(got.Results))
			for _, r := range got.Results {
				ids = append(ids, r.Buyer.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			if len(got.Results) > 0 {
				assert.Equal(t, 73.0, got.Results[0].Score)
				assert.Len(t, got.Results[0].Reasons, 5)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrInvalidInput))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(domain.ErrMissingCollaborator))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
