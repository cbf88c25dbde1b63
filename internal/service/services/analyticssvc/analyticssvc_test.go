package analyticssvc

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgmt/internal/service/models/analytics"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}

	return t
}

// fakeAnalyticsRepo returns canned aggregate rows.
type fakeAnalyticsRepo struct {
	daily     []analytics.DailyOrderMetrics
	buckets   []analytics.StatusBucket
	customers []analytics.CustomerMetrics
	summaries []analytics.RevenueSummary
	busiest   *analytics.DayCount
	highest   *analytics.DayRevenue

	summaryCalls int
}

func (f *fakeAnalyticsRepo) DailyMetrics(context.Context, time.Time, time.Time) ([]analytics.DailyOrderMetrics, error) {
	return f.daily, nil
}

func (f *fakeAnalyticsRepo) StatusBuckets(context.Context, time.Time, time.Time) ([]analytics.StatusBucket, error) {
	return f.buckets, nil
}

func (f *fakeAnalyticsRepo) CustomerMetrics(_ context.Context, _, _ time.Time, limit int) ([]analytics.CustomerMetrics, error) {
	if limit < len(f.customers) {
		return f.customers[:limit], nil
	}

	return f.customers, nil
}

// RevenueSummary pops summaries in call order so tests can model the
// current period followed by the previous one.
func (f *fakeAnalyticsRepo) RevenueSummary(context.Context, time.Time, time.Time) (analytics.RevenueSummary, error) {
	if f.summaryCalls >= len(f.summaries) {
		return analytics.RevenueSummary{TotalRevenue: decimal.Zero, AverageOrderValue: decimal.Zero}, nil
	}
	s := f.summaries[f.summaryCalls]
	f.summaryCalls++

	return s, nil
}

func (f *fakeAnalyticsRepo) BusiestDay(context.Context, time.Time, time.Time) (*analytics.DayCount, error) {
	return f.busiest, nil
}

func (f *fakeAnalyticsRepo) HighestRevenueDay(context.Context, time.Time, time.Time) (*analytics.DayRevenue, error) {
	return f.highest, nil
}

func newService(repo *fakeAnalyticsRepo) *AnalyticsService {
	return MustNewAnalyticsService(WithAnalyticsRepository(repo))
}

func TestGetDailyAnalytics_FillsGaps(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		daily: []analytics.DailyOrderMetrics{
			{Date: day("2026-08-01"), OrderCount: 3, TotalRevenue: dec("150.00"), AverageOrderValue: dec("50.00"), Currency: "USD"},
			{Date: day("2026-08-03"), OrderCount: 1, TotalRevenue: dec("25.00"), AverageOrderValue: dec("25.00"), Currency: "USD"},
		},
		summaries: []analytics.RevenueSummary{
			{TotalRevenue: dec("175.00"), TotalOrders: 4, AverageOrderValue: dec("43.75")},
		},
	}
	svc := newService(repo)

	result, err := svc.GetDailyAnalytics(context.Background(), day("2026-08-01"), day("2026-08-05"))
	require.NoError(t, err)

	require.Len(t, result.DailyMetrics, 5)
	assert.Equal(t, 5, result.TotalDays)

	// Covered days carry their aggregates.
	assert.Equal(t, 3, result.DailyMetrics[0].OrderCount)
	assert.Equal(t, 1, result.DailyMetrics[2].OrderCount)

	// Gap days are zero records, not omissions.
	for _, i := range []int{1, 3, 4} {
		m := result.DailyMetrics[i]
		assert.Zero(t, m.OrderCount)
		assert.True(t, m.TotalRevenue.IsZero())
		assert.Equal(t, analytics.DefaultCurrency, m.Currency)
	}

	// Chronological order.
	for i := 1; i < len(result.DailyMetrics); i++ {
		assert.True(t, result.DailyMetrics[i].Date.After(result.DailyMetrics[i-1].Date))
	}

	assert.Equal(t, "175.00", result.Summary.TotalRevenue.StringFixed(2))
}

func TestGetDailyAnalytics_EmptyPeriod(t *testing.T) {
	svc := newService(&fakeAnalyticsRepo{})

	result, err := svc.GetDailyAnalytics(context.Background(), day("2026-08-01"), day("2026-08-03"))
	require.NoError(t, err)

	require.Len(t, result.DailyMetrics, 3)
	for _, m := range result.DailyMetrics {
		assert.Zero(t, m.OrderCount)
		assert.True(t, m.TotalRevenue.IsZero())
	}
}

func TestGetOrderStatusAnalytics(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		buckets: []analytics.StatusBucket{
			{Status: "delivered", Count: 6, TotalValue: dec("600.00")},
			{Status: "pending", Count: 3, TotalValue: dec("300.00")},
			{Status: "cancelled", Count: 1, TotalValue: dec("100.00")},
		},
	}
	svc := newService(repo)

	result, err := svc.GetOrderStatusAnalytics(context.Background(), day("2026-08-01"), day("2026-08-31"))
	require.NoError(t, err)

	assert.Equal(t, 10, result.TotalOrders)
	require.Len(t, result.StatusMetrics, 3)
	assert.Equal(t, 60.0, result.StatusMetrics[0].Percentage)
	assert.Equal(t, 30.0, result.StatusMetrics[1].Percentage)
	assert.Equal(t, 10.0, result.StatusMetrics[2].Percentage)
}

func TestGetOrderStatusAnalytics_NoOrders(t *testing.T) {
	svc := newService(&fakeAnalyticsRepo{})

	result, err := svc.GetOrderStatusAnalytics(context.Background(), day("2026-08-01"), day("2026-08-31"))
	require.NoError(t, err)

	assert.Zero(t, result.TotalOrders)
	assert.Empty(t, result.StatusMetrics)
}

func TestGetOrderStatusAnalytics_RoundsPercentage(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		buckets: []analytics.StatusBucket{
			{Status: "pending", Count: 1, TotalValue: dec("10.00")},
			{Status: "delivered", Count: 2, TotalValue: dec("20.00")},
		},
	}
	svc := newService(repo)

	result, err := svc.GetOrderStatusAnalytics(context.Background(), day("2026-08-01"), day("2026-08-31"))
	require.NoError(t, err)

	assert.Equal(t, 33.33, result.StatusMetrics[0].Percentage)
	assert.Equal(t, 66.67, result.StatusMetrics[1].Percentage)
}

func TestGetTopCustomers(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		customers: []analytics.CustomerMetrics{
			{CustomerID: "cust_1", TotalSpent: dec("500.00")},
			{CustomerID: "cust_2", TotalSpent: dec("300.00")},
			{CustomerID: "cust_3", TotalSpent: dec("100.00")},
		},
	}
	svc := newService(repo)

	top, err := svc.GetTopCustomers(context.Background(), day("2026-08-01"), day("2026-08-31"), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "cust_1", top[0].CustomerID)
}

func TestGetCustomerAnalytics(t *testing.T) {
	first := day("2026-01-10")
	last := day("2026-08-01")
	repo := &fakeAnalyticsRepo{
		customers: []analytics.CustomerMetrics{
			{
				CustomerID:        "cust_456",
				CustomerEmail:     "customer@example.com",
				TotalOrders:       4,
				TotalSpent:        dec("400.00"),
				AverageOrderValue: dec("100.00"),
				FirstOrderDate:    &first,
				LastOrderDate:     &last,
			},
		},
	}
	svc := newService(repo)

	result, err := svc.GetCustomerAnalytics(context.Background(), "cust_456")
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalOrders)
	assert.Equal(t, "400.00", result.TotalSpent.StringFixed(2))
}

func TestGetCustomerAnalytics_NoOrders(t *testing.T) {
	svc := newService(&fakeAnalyticsRepo{})

	result, err := svc.GetCustomerAnalytics(context.Background(), "cust_unknown")
	require.NoError(t, err)

	assert.Equal(t, "cust_unknown", result.CustomerID)
	assert.Empty(t, result.CustomerEmail)
	assert.Zero(t, result.TotalOrders)
	assert.True(t, result.TotalSpent.IsZero())
	assert.Nil(t, result.FirstOrderDate)
	assert.Nil(t, result.LastOrderDate)
}

func TestGetAnalyticsSummary(t *testing.T) {
	busiest := &analytics.DayCount{Date: day("2026-08-15"), OrderCount: 12}
	highest := &analytics.DayRevenue{Date: day("2026-08-20"), TotalRevenue: dec("900.00")}
	repo := &fakeAnalyticsRepo{
		summaries: []analytics.RevenueSummary{
			{TotalRevenue: dec("1500.00"), TotalOrders: 30, AverageOrderValue: dec("50.00")},
			{TotalRevenue: dec("1000.00"), TotalOrders: 20, AverageOrderValue: dec("50.00")},
		},
		buckets: []analytics.StatusBucket{
			{Status: "delivered", Count: 30, TotalValue: dec("1500.00")},
		},
		customers: []analytics.CustomerMetrics{
			{CustomerID: "cust_1", TotalSpent: dec("500.00")},
		},
		busiest: busiest,
		highest: highest,
	}
	svc := newService(repo)

	result, err := svc.GetAnalyticsSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1500.00", result.TotalRevenue.StringFixed(2))
	assert.Equal(t, 30, result.TotalOrders)
	assert.Equal(t, busiest, result.BusiestDay)
	assert.Equal(t, highest, result.HighestRevenueDay)
	require.NotNil(t, result.GrowthRatePercent)
	assert.Equal(t, 50.0, *result.GrowthRatePercent)
}

func TestGetAnalyticsSummary_NoPreviousRevenue(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		summaries: []analytics.RevenueSummary{
			{TotalRevenue: dec("1500.00"), TotalOrders: 30, AverageOrderValue: dec("50.00")},
			{TotalRevenue: decimal.Zero, AverageOrderValue: decimal.Zero},
		},
	}
	svc := newService(repo)

	result, err := svc.GetAnalyticsSummary(context.Background())
	require.NoError(t, err)

	assert.Nil(t, result.GrowthRatePercent)
	assert.Nil(t, result.BusiestDay)
	assert.Nil(t, result.HighestRevenueDay)
}

func TestGrowthRate(t *testing.T) {
	rate := growthRate(dec("150.00"), dec("100.00"))
	require.NotNil(t, rate)
	assert.Equal(t, 50.0, *rate)

	rate = growthRate(dec("75.00"), dec("100.00"))
	require.NotNil(t, rate)
	assert.Equal(t, -25.0, *rate)

	assert.Nil(t, growthRate(dec("100.00"), decimal.Zero))
}

func TestGetRevenueTrends(t *testing.T) {
	today := time.Now().UTC()
	repo := &fakeAnalyticsRepo{
		daily: []analytics.DailyOrderMetrics{
			{Date: today, OrderCount: 2, TotalRevenue: dec("80.00"), AverageOrderValue: dec("40.00"), Currency: "USD"},
		},
	}
	svc := newService(repo)

	result, err := svc.GetRevenueTrends(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Days)
	require.Len(t, result.DailyMetrics, 7)
	assert.Equal(t, "80.00", result.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, result.DailyMetrics[6].OrderCount)

	// The window is anchored to whole calendar days.
	h, m, s := result.PeriodEnd.Clock()
	assert.Zero(t, h+m+s)
	assert.Equal(t, 6*24*time.Hour, result.PeriodEnd.Sub(result.PeriodStart))
}
