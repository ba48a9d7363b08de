package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/deal-service/internal/cache"
	"github.com/Cheertaboi/deal-service/internal/repository"
	"github.com/Cheertaboi/deal-service/internal/service"
)

type testServer struct {
	t   *testing.T
	srv *httptest.Server

	mu  sync.Mutex
	now time.Time
}

func (ts *testServer) clock() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

func (ts *testServer) advance(days int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = ts.now.AddDate(0, 0, days)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	ts := &testServer{t: t, now: time.Date(2024, 6, 10, 12, 0, 0, 0, london)}
	store := repository.NewMemoryStore()
	log := zerolog.Nop()
	loader := service.NewPromotionLoader(store, cache.NewDealCache(time.Minute), log)

	h := NewRouter(Services{
		Deals: service.NewDealService(store, store, loader, london, log),
		Redemptions: service.NewRedemptionService(store, store, loader, service.RedemptionConfig{
			Location: london,
			Now:      ts.clock,
		}, log),
		Shops: service.NewShopService(store, log),
		Users: service.NewUserService(store, store, log),
	}, log)
	ts.srv = httptest.NewServer(h)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) do(method, path string, body interface{}) (int, map[string]interface{}) {
	ts.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp.StatusCode, out
}

func TestRouterRedemptionFlow(t *testing.T) {
	ts := newTestServer(t)

	code, shop := ts.do(http.MethodPost, "/shops", map[string]interface{}{"name": "Corner Cafe", "location": "High St"})
	require.Equal(t, http.StatusCreated, code)
	shopID := shop["id"].(string)

	code, user := ts.do(http.MethodPost, "/users", nil)
	require.Equal(t, http.StatusCreated, code)
	userID := user["id"].(string)

	code, deal := ts.do(http.MethodPost, "/shops/"+shopID+"/deals", map[string]interface{}{
		"discount":       map[string]interface{}{"kind": "point_based", "max_points": 5},
		"percentage_off": "15",
		"schedule":       map[string]interface{}{"weekdays": map[string]string{"start": "09:00", "end": "17:00"}},
		"description":    "Lunch",
	})
	require.Equal(t, http.StatusCreated, code, deal)
	dealID := deal["id"].(string)

	code, recs := ts.do(http.MethodGet, "/users/"+userID+"/records", nil)
	require.Equal(t, http.StatusOK, code)
	list := recs["records"].([]interface{})
	require.Len(t, list, 1)
	token := list[0].(map[string]interface{})["id"].(string)

	code, res := ts.do(http.MethodPost, "/redemptions/"+token, nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.EqualValues(t, 1, res["points_accumulated"])
	assert.Equal(t, "2024-06-10", res["redeemed_on"])

	code, res = ts.do(http.MethodPost, "/redemptions/"+token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_redeemed", res["error"])
	assert.Equal(t, "You have already redeemed this deal today.", res["message"])

	// Saturday: outside every window, next opening on Monday.
	ts.advance(5)
	code, res = ts.do(http.MethodPost, "/redemptions/"+token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "outside_window", res["error"])
	assert.Equal(t, "2024-06-17T09:00:00+01:00", res["next_available"])

	code, _ = ts.do(http.MethodPost, "/deals/"+dealID+"/disable", nil)
	require.Equal(t, http.StatusOK, code)
	ts.advance(2)
	code, res = ts.do(http.MethodPost, "/redemptions/"+token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "disabled", res["error"])

	code, res = ts.do(http.MethodPost, "/redemptions/not-a-token", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "record_not_found", res["error"])
}

func TestRouterDealAuthoring(t *testing.T) {
	ts := newTestServer(t)
	_, shop := ts.do(http.MethodPost, "/shops", map[string]interface{}{"name": "Corner Cafe"})
	shopID := shop["id"].(string)

	code, res := ts.do(http.MethodPost, "/shops/"+shopID+"/deals", map[string]interface{}{
		"discount":       map[string]interface{}{"kind": "percentage"},
		"percentage_off": "10",
		"schedule":       map[string]interface{}{"days": map[string]interface{}{"mon": map[string]string{"start": "17:00", "end": "09:00"}}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_range", res["error"])

	code, res = ts.do(http.MethodPost, "/shops/"+shopID+"/deals", map[string]interface{}{
		"discount":       map[string]interface{}{"kind": "percentage"},
		"percentage_off": "10",
		"schedule": map[string]interface{}{
			"weekdays": map[string]string{"start": "09:00", "end": "17:00"},
			"everyday": map[string]string{"start": "09:00", "end": "17:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_schedule", res["error"])

	code, res = ts.do(http.MethodPost, "/shops/"+shopID+"/deals", map[string]interface{}{
		"discount":       map[string]interface{}{"kind": 1},
		"percentage_off": 12.5,
		"schedule":       map[string]interface{}{"days": map[string]interface{}{"fri": map[string]string{"start": "10:00", "end": "12:00"}}},
		"expiry_date":    "2024-12-31",
	})
	require.Equal(t, http.StatusCreated, code, res)
	dealID := res["id"].(string)

	code, res = ts.do(http.MethodGet, "/deals/"+dealID+"/schedule", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "days", res["kind"])
	assert.Equal(t, []interface{}{"Fri - 10:00 to 12:00"}, res["summary"])

	code, res = ts.do(http.MethodGet, "/deals/"+dealID+"/availability?at=2024-06-10T08:00:00%2B01:00", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "not_available", res["status"])
	assert.Equal(t, "2024-06-14T10:00:00+01:00", res["next_available"])

	code, res = ts.do(http.MethodGet, "/shops/"+shopID+"/deals", nil)
	require.Equal(t, http.StatusOK, code)
	deals := res["deals"].([]interface{})
	require.Len(t, deals, 1)
	assert.Equal(t, "Corner Cafe", deals[0].(map[string]interface{})["shop_name"])

	code, _ = ts.do(http.MethodDelete, "/deals/"+dealID, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, res = ts.do(http.MethodGet, "/deals/"+dealID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "deal_not_found", res["error"])

	code, _ = ts.do(http.MethodGet, "/deals/"+uuid.NewString()+"/availability", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouterShopProfile(t *testing.T) {
	ts := newTestServer(t)
	_, shop := ts.do(http.MethodPost, "/shops", map[string]interface{}{"name": "Corner Cafe"})
	shopID := shop["id"].(string)
	assert.Equal(t, "light", shop["theme"])

	code, res := ts.do(http.MethodGet, "/shops/name-available?name=corner%20cafe", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, res["available"])

	code, res = ts.do(http.MethodPost, "/shops", map[string]interface{}{"name": "CORNER CAFE"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "shop_name_taken", res["error"])

	code, res = ts.do(http.MethodPut, "/shops/"+shopID+"/theme", map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "dark", res["theme"])

	code, res = ts.do(http.MethodPut, "/shops/"+shopID+"/theme", map[string]string{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_theme", res["error"])

	code, res = ts.do(http.MethodPut, "/shops/"+shopID, map[string]interface{}{"name": "Corner Cafe", "location": "Market Sq"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Market Sq", res["location"])
	assert.Equal(t, "dark", res["theme"])

	code, _ = ts.do(http.MethodGet, "/shops/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
}
