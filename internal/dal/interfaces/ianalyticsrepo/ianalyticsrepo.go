package ianalyticsrepo

import (
	"context"
	"time"

	"ordermgmt/internal/service/models/analytics"
)

// IAnalyticsRepository supplies grouped aggregation rows over the order
// data. start and end are inclusive calendar days; the aggregator does
// not know how the rows were computed, only their shape.
type IAnalyticsRepository interface {
	DailyMetrics(ctx context.Context, start, end time.Time) ([]analytics.DailyOrderMetrics, error)
	StatusBuckets(ctx context.Context, start, end time.Time) ([]analytics.StatusBucket, error)
	// CustomerMetrics rows are ranked descending by total spent.
	CustomerMetrics(ctx context.Context, start, end time.Time, limit int) ([]analytics.CustomerMetrics, error)
	RevenueSummary(ctx context.Context, start, end time.Time) (analytics.RevenueSummary, error)
	BusiestDay(ctx context.Context, start, end time.Time) (*analytics.DayCount, error)
	HighestRevenueDay(ctx context.Context, start, end time.Time) (*analytics.DayRevenue, error)
}
