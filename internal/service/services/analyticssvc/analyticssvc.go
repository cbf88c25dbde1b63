package analyticssvc

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ordermgmt/internal/dal/interfaces/ianalyticsrepo"
	"ordermgmt/internal/service/models/analytics"
)

const (
	// topCustomersInSummary caps the customer leaderboard embedded in the
	// dashboard summary.
	topCustomersInSummary = 5

	// customerScanLimit bounds the ranked scan used to locate a single
	// customer's aggregate.
	customerScanLimit = 1000

	defaultSummaryDays = 30
)

// AnalyticsService computes order analytics over inclusive calendar-day
// periods.
type AnalyticsService struct {
	analyticsRepo ianalyticsrepo.IAnalyticsRepository
}

// option is a function that configures the AnalyticsService.
type option func(*AnalyticsService)

// MustNewAnalyticsService creates a new AnalyticsService.
func MustNewAnalyticsService(opts ...option) *AnalyticsService {
	s := &AnalyticsService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAnalyticsRepository sets the analytics repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAnalyticsRepository(repo ianalyticsrepo.IAnalyticsRepository) option {
	return func(s *AnalyticsService) {
		s.analyticsRepo = repo
	}
}

// DailyAnalytics is the gap-filled daily breakdown plus period totals.
type DailyAnalytics struct {
	PeriodStart  time.Time                     `json:"period_start"`
	PeriodEnd    time.Time                     `json:"period_end"`
	TotalDays    int                           `json:"total_days"`
	DailyMetrics []analytics.DailyOrderMetrics `json:"daily_metrics"`
	Summary      analytics.RevenueSummary      `json:"summary"`
}

// StatusAnalytics is the status distribution for a period.
type StatusAnalytics struct {
	PeriodStart   time.Time                      `json:"period_start"`
	PeriodEnd     time.Time                      `json:"period_end"`
	TotalOrders   int                            `json:"total_orders"`
	StatusMetrics []analytics.OrderStatusMetrics `json:"status_metrics"`
}

// Summary is the dashboard roll-up for the most recent period.
type Summary struct {
	PeriodStart       time.Time                      `json:"period_start"`
	PeriodEnd         time.Time                      `json:"period_end"`
	TotalRevenue      decimal.Decimal                `json:"total_revenue"`
	TotalOrders       int                            `json:"total_orders"`
	AverageOrderValue decimal.Decimal                `json:"average_order_value"`
	StatusMetrics     []analytics.OrderStatusMetrics `json:"status_metrics"`
	TopCustomers      []analytics.CustomerMetrics    `json:"top_customers"`
	BusiestDay        *analytics.DayCount            `json:"busiest_day"`
	HighestRevenueDay *analytics.DayRevenue          `json:"highest_revenue_day"`
	// GrowthRatePercent is nil when the previous period had no revenue
	// to compare against.
	GrowthRatePercent *float64 `json:"growth_rate_percent"`
}

// RevenueTrends is the daily revenue series for the trailing N days.
type RevenueTrends struct {
	PeriodStart  time.Time                     `json:"period_start"`
	PeriodEnd    time.Time                     `json:"period_end"`
	Days         int                           `json:"days"`
	DailyMetrics []analytics.DailyOrderMetrics `json:"daily_metrics"`
	TotalRevenue decimal.Decimal               `json:"total_revenue"`
}

// dayKey normalizes a timestamp to its calendar-day identity.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// today is the current UTC calendar day at midnight. Trailing windows
// anchor here so their first day is a whole day, not a partial one.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fillMissingDays inserts zero-valued records for every day in the
// inclusive range that has no aggregate row, keeping the series dense
// and chronologically ordered.
func fillMissingDays(metrics []analytics.DailyOrderMetrics, start, end time.Time) []analytics.DailyOrderMetrics {
	byDay := make(map[string]analytics.DailyOrderMetrics, len(metrics))
	for _, m := range metrics {
		byDay[dayKey(m.Date)] = m
	}

	var filled []analytics.DailyOrderMetrics
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if m, ok := byDay[dayKey(day)]; ok {
			filled = append(filled, m)
		} else {
			filled = append(filled, analytics.ZeroDay(day))
		}
	}

	return filled
}

// GetDailyAnalytics returns per-day metrics for the period, one record
// per calendar day, plus the period totals.
func (s *AnalyticsService) GetDailyAnalytics(ctx context.Context, start, end time.Time) (DailyAnalytics, error) {
	metrics, err := s.analyticsRepo.DailyMetrics(ctx, start, end)
	if err != nil {
		return DailyAnalytics{}, fmt.Errorf("failed to get daily metrics: %w", err)
	}

	summary, err := s.analyticsRepo.RevenueSummary(ctx, start, end)
	if err != nil {
		return DailyAnalytics{}, fmt.Errorf("failed to get revenue summary: %w", err)
	}

	filled := fillMissingDays(metrics, start, end)

	return DailyAnalytics{
		PeriodStart:  start,
		PeriodEnd:    end,
		TotalDays:    len(filled),
		DailyMetrics: filled,
		Summary:      summary,
	}, nil
}

// GetOrderStatusAnalytics returns the order count, value, and share per
// status for the period.
func (s *AnalyticsService) GetOrderStatusAnalytics(ctx context.Context, start, end time.Time) (StatusAnalytics, error) {
	buckets, err := s.analyticsRepo.StatusBuckets(ctx, start, end)
	if err != nil {
		return StatusAnalytics{}, fmt.Errorf("failed to get status buckets: %w", err)
	}

	totalOrders := 0
	for _, b := range buckets {
		totalOrders += b.Count
	}

	metrics := make([]analytics.OrderStatusMetrics, 0, len(buckets))
	for _, b := range buckets {
		percentage := 0.0
		if totalOrders > 0 {
			percentage = decimal.NewFromInt(int64(b.Count)).
				Div(decimal.NewFromInt(int64(totalOrders))).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}
		metrics = append(metrics, analytics.OrderStatusMetrics{
			Status:     b.Status,
			Count:      b.Count,
			TotalValue: b.TotalValue,
			Percentage: percentage,
		})
	}

	return StatusAnalytics{
		PeriodStart:   start,
		PeriodEnd:     end,
		TotalOrders:   totalOrders,
		StatusMetrics: metrics,
	}, nil
}

// GetTopCustomers returns the highest-spending customers of the period.
func (s *AnalyticsService) GetTopCustomers(ctx context.Context, start, end time.Time, limit int) ([]analytics.CustomerMetrics, error) {
	if limit < 1 {
		limit = 10
	}

	customers, err := s.analyticsRepo.CustomerMetrics(ctx, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer metrics: %w", err)
	}

	return customers, nil
}

// GetCustomerAnalytics returns one customer's aggregate over the last
// twelve months. A customer with no orders yields a zero-valued record,
// not an error.
func (s *AnalyticsService) GetCustomerAnalytics(ctx context.Context, customerID string) (analytics.CustomerMetrics, error) {
	end := today()
	start := end.AddDate(0, -12, 0)

	customers, err := s.analyticsRepo.CustomerMetrics(ctx, start, end, customerScanLimit)
	if err != nil {
		return analytics.CustomerMetrics{}, fmt.Errorf("failed to get customer metrics: %w", err)
	}

	for _, c := range customers {
		if c.CustomerID == customerID {
			return c, nil
		}
	}

	return analytics.EmptyCustomer(customerID), nil
}

// GetAnalyticsSummary builds the dashboard roll-up for the trailing 30
// days, including growth against the preceding 30-day window.
func (s *AnalyticsService) GetAnalyticsSummary(ctx context.Context) (Summary, error) {
	end := today()
	start := end.AddDate(0, 0, -(defaultSummaryDays - 1))

	revenue, err := s.analyticsRepo.RevenueSummary(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get revenue summary: %w", err)
	}

	status, err := s.GetOrderStatusAnalytics(ctx, start, end)
	if err != nil {
		return Summary{}, err
	}

	topCustomers, err := s.GetTopCustomers(ctx, start, end, topCustomersInSummary)
	if err != nil {
		return Summary{}, err
	}

	busiest, err := s.analyticsRepo.BusiestDay(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get busiest day: %w", err)
	}

	highest, err := s.analyticsRepo.HighestRevenueDay(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get highest revenue day: %w", err)
	}

	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(defaultSummaryDays - 1))
	previous, err := s.analyticsRepo.RevenueSummary(ctx, prevStart, prevEnd)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get previous period revenue: %w", err)
	}

	return Summary{
		PeriodStart:       start,
		PeriodEnd:         end,
		TotalRevenue:      revenue.TotalRevenue,
		TotalOrders:       revenue.TotalOrders,
		AverageOrderValue: revenue.AverageOrderValue,
		StatusMetrics:     status.StatusMetrics,
		TopCustomers:      topCustomers,
		BusiestDay:        busiest,
		HighestRevenueDay: highest,
		GrowthRatePercent: growthRate(revenue.TotalRevenue, previous.TotalRevenue),
	}, nil
}

// GetRevenueTrends returns the dense daily revenue series for the
// trailing N days.
func (s *AnalyticsService) GetRevenueTrends(ctx context.Context, days int) (RevenueTrends, error) {
	if days < 1 {
		days = defaultSummaryDays
	}

	end := today()
	start := end.AddDate(0, 0, -(days - 1))

	metrics, err := s.analyticsRepo.DailyMetrics(ctx, start, end)
	if err != nil {
		return RevenueTrends{}, fmt.Errorf("failed to get daily metrics: %w", err)
	}

	filled := fillMissingDays(metrics, start, end)

	total := decimal.Zero
	for _, m := range filled {
		total = total.Add(m.TotalRevenue)
	}

	return RevenueTrends{
		PeriodStart:  start,
		PeriodEnd:    end,
		Days:         days,
		DailyMetrics: filled,
		TotalRevenue: total.Round(2),
	}, nil
}

// growthRate computes the percentage change of current revenue over
// previous revenue. Nil when the previous period earned nothing, since
// growth from zero is undefined rather than infinite.
func growthRate(current, previous decimal.Decimal) *float64 {
	if previous.Sign() <= 0 {
		return nil
	}

	rate := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()

	return &rate
}
