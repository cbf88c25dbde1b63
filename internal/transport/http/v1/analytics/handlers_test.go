package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsmodels "ordermgmt/internal/service/models/analytics"
	"ordermgmt/internal/service/services/analyticssvc"
)

// fakeService returns canned results and records requested periods.
type fakeService struct {
	daily     analyticssvc.DailyAnalytics
	status    analyticssvc.StatusAnalytics
	customers []analyticsmodels.CustomerMetrics
	customer  analyticsmodels.CustomerMetrics
	summary   analyticssvc.Summary
	trends    analyticssvc.RevenueTrends

	lastStart time.Time
	lastEnd   time.Time
	lastLimit int
	lastDays  int
}

func (f *fakeService) GetDailyAnalytics(_ context.Context, start, end time.Time) (analyticssvc.DailyAnalytics, error) {
	f.lastStart, f.lastEnd = start, end

	return f.daily, nil
}

func (f *fakeService) GetOrderStatusAnalytics(_ context.Context, start, end time.Time) (analyticssvc.StatusAnalytics, error) {
	f.lastStart, f.lastEnd = start, end

	return f.status, nil
}

func (f *fakeService) GetTopCustomers(_ context.Context, start, end time.Time, limit int) ([]analyticsmodels.CustomerMetrics, error) {
	f.lastStart, f.lastEnd, f.lastLimit = start, end, limit

	return f.customers, nil
}

func (f *fakeService) GetCustomerAnalytics(context.Context, string) (analyticsmodels.CustomerMetrics, error) {
	return f.customer, nil
}

func (f *fakeService) GetAnalyticsSummary(context.Context) (analyticssvc.Summary, error) {
	return f.summary, nil
}

func (f *fakeService) GetRevenueTrends(_ context.Context, days int) (analyticssvc.RevenueTrends, error) {
	f.lastDays = days

	return f.trends, nil
}

func newRouter(svc *fakeService) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r)
	})

	return router
}

func TestDailyAnalytics_ExplicitPeriod(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/orders/daily?start_date=2026-08-01&end_date=2026-08-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-08-01", svc.lastStart.Format("2006-01-02"))
	assert.Equal(t, "2026-08-31", svc.lastEnd.Format("2006-01-02"))
}

func TestDailyAnalytics_DefaultPeriodIs30Days(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/orders/daily", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	daysSpanned := int(svc.lastEnd.Sub(svc.lastStart).Hours()/24) + 1
	assert.Equal(t, 30, daysSpanned)
}

func TestDailyAnalytics_DefaultPeriodIsCalendarAnchored(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/orders/daily", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	for _, bound := range []time.Time{svc.lastStart, svc.lastEnd} {
		h, m, s := bound.Clock()
		assert.Zero(t, h)
		assert.Zero(t, m)
		assert.Zero(t, s)
	}
}

func TestFixedWindowAnalytics(t *testing.T) {
	for path, wantDays := range map[string]int{
		"/api/v1/analytics/orders/today": 1,
		"/api/v1/analytics/orders/week":  7,
		"/api/v1/analytics/orders/month": 30,
	} {
		svc := &fakeService{}
		router := newRouter(svc)

		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)

		daysSpanned := int(svc.lastEnd.Sub(svc.lastStart).Hours()/24) + 1
		assert.Equal(t, wantDays, daysSpanned, path)

		h, m, s := svc.lastStart.Clock()
		assert.Zero(t, h+m+s, path)
	}
}

func TestDailyAnalytics_BadDate(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/orders/daily?start_date=08/01/2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestDailyAnalytics_EndBeforeStart(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/orders/daily?start_date=2026-08-31&end_date=2026-08-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailyAnalytics_RangeTooLong(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/orders/daily?start_date=2024-01-01&end_date=2026-01-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "365")
}

func TestStatusAnalytics(t *testing.T) {
	svc := &fakeService{
		status: analyticssvc.StatusAnalytics{
			TotalOrders: 10,
			StatusMetrics: []analyticsmodels.OrderStatusMetrics{
				{Status: "delivered", Count: 6, TotalValue: decimal.RequireFromString("600.00"), Percentage: 60},
			},
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/orders/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyticssvc.StatusAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.TotalOrders)
}

func TestTopCustomers_Limit(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/top?limit=25", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, svc.lastLimit)

	// Empty result encodes as an array, not null.
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestTopCustomers_BadLimit(t *testing.T) {
	router := newRouter(&fakeService{})

	for _, limit := range []string{"0", "101", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/top?limit="+limit, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestCustomerAnalytics(t *testing.T) {
	svc := &fakeService{
		customer: analyticsmodels.CustomerMetrics{
			CustomerID: "cust_456",
			TotalSpent: decimal.RequireFromString("400.00"),
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/cust_456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyticsmodels.CustomerMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cust_456", resp.CustomerID)
}

func TestSummary_NullGrowthRate(t *testing.T) {
	svc := &fakeService{
		summary: analyticssvc.Summary{
			TotalRevenue:      decimal.RequireFromString("1500.00"),
			AverageOrderValue: decimal.Zero,
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"growth_rate_percent":null`)
}

func TestRevenueTrends(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/revenue/trends?days=7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.lastDays)
}

func TestRevenueTrends_BadDays(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/revenue/trends?days=9000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
