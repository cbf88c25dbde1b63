package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"ordermgmt/internal/service/models/analytics"
)

// periodBounds converts an inclusive calendar-day range into the
// half-open timestamp interval the queries filter on.
func periodBounds(start, end time.Time) (time.Time, time.Time) {
	return start, end.AddDate(0, 0, 1)
}

// DailyMetrics returns per-day order aggregates inside the period.
// Days with no orders produce no row; gap filling is the aggregator's
// job, not the storage layer's.
func (r *Repository) DailyMetrics(ctx context.Context, start, end time.Time) ([]analytics.DailyOrderMetrics, error) {
	from, to := periodBounds(start, end)

	query, args, err := sq.Select(
		"created_at::date AS day",
		"COUNT(*) AS order_count",
		"SUM(total_amount) AS total_revenue",
		"AVG(total_amount) AS average_order_value",
		"currency",
	).
		From("orders").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		GroupBy("created_at::date", "currency").
		OrderBy("day ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build daily metrics query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily metrics: %w", err)
	}
	defer rows.Close()

	var metrics []analytics.DailyOrderMetrics
	for rows.Next() {
		var m analytics.DailyOrderMetrics
		if err := rows.Scan(
			&m.Date,
			&m.OrderCount,
			&m.TotalRevenue,
			&m.AverageOrderValue,
			&m.Currency,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily metrics: %w", err)
		}
		m.TotalRevenue = m.TotalRevenue.Round(2)
		m.AverageOrderValue = m.AverageOrderValue.Round(2)
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return metrics, nil
}

// StatusBuckets returns order counts and values grouped by status,
// largest bucket first.
func (r *Repository) StatusBuckets(ctx context.Context, start, end time.Time) ([]analytics.StatusBucket, error) {
	from, to := periodBounds(start, end)

	query, args, err := sq.Select(
		"status",
		"COUNT(*) AS order_count",
		"SUM(total_amount) AS total_value",
	).
		From("orders").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		GroupBy("status").
		OrderBy("order_count DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status buckets query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query status buckets: %w", err)
	}
	defer rows.Close()

	var buckets []analytics.StatusBucket
	for rows.Next() {
		var b analytics.StatusBucket
		if err := rows.Scan(&b.Status, &b.Count, &b.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan status bucket: %w", err)
		}
		b.TotalValue = b.TotalValue.Round(2)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return buckets, nil
}

// CustomerMetrics returns per-customer aggregates ranked descending by
// total spent.
func (r *Repository) CustomerMetrics(ctx context.Context, start, end time.Time, limit int) ([]analytics.CustomerMetrics, error) {
	from, to := periodBounds(start, end)

	query, args, err := sq.Select(
		"customer_id",
		"customer_email",
		"COUNT(*) AS total_orders",
		"SUM(total_amount) AS total_spent",
		"AVG(total_amount) AS average_order_value",
		"MIN(created_at) AS first_order_date",
		"MAX(created_at) AS last_order_date",
	).
		From("orders").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		GroupBy("customer_id", "customer_email").
		OrderBy("total_spent DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer metrics query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer metrics: %w", err)
	}
	defer rows.Close()

	var metrics []analytics.CustomerMetrics
	for rows.Next() {
		var (
			m          analytics.CustomerMetrics
			first, last time.Time
		)
		if err := rows.Scan(
			&m.CustomerID,
			&m.CustomerEmail,
			&m.TotalOrders,
			&m.TotalSpent,
			&m.AverageOrderValue,
			&first,
			&last,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer metrics: %w", err)
		}
		m.TotalSpent = m.TotalSpent.Round(2)
		m.AverageOrderValue = m.AverageOrderValue.Round(2)
		m.FirstOrderDate = &first
		m.LastOrderDate = &last
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return metrics, nil
}

// RevenueSummary returns totals across the whole period.
func (r *Repository) RevenueSummary(ctx context.Context, start, end time.Time) (analytics.RevenueSummary, error) {
	from, to := periodBounds(start, end)

	query, args, err := sq.Select(
		"COALESCE(SUM(total_amount), 0) AS total_revenue",
		"COUNT(*) AS total_orders",
		"COALESCE(AVG(total_amount), 0) AS average_order_value",
	).
		From("orders").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return analytics.RevenueSummary{}, fmt.Errorf("failed to build revenue summary query: %w", err)
	}

	var summary analytics.RevenueSummary
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.TotalRevenue,
		&summary.TotalOrders,
		&summary.AverageOrderValue,
	); err != nil {
		return analytics.RevenueSummary{}, fmt.Errorf("failed to query revenue summary: %w", err)
	}

	summary.TotalRevenue = summary.TotalRevenue.Round(2)
	summary.AverageOrderValue = summary.AverageOrderValue.Round(2)

	return summary, nil
}

// BusiestDay returns the day with the most orders, or nil when the
// period has none.
func (r *Repository) BusiestDay(ctx context.Context, start, end time.Time) (*analytics.DayCount, error) {
	from, to := periodBounds(start, end)

	query, args, err := sq.Select(
		"created_at::date AS day",
		"COUNT(*) AS order_count",
	).
		From("orders").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		GroupBy("created_at::date").
		OrderBy("order_count DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build busiest day query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query busiest day: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var dc analytics.DayCount
	if err := rows.Scan(&dc.Date, &dc.OrderCount); err != nil {
		return nil, fmt.Errorf("failed to scan busiest day: %w", err)
	}

	return &dc, nil
}

// HighestRevenueDay returns the day with the highest revenue, or nil
// when the period has none.
func (r *Repository) HighestRevenueDay(ctx context.Context, start, end time.Time) (*analytics.DayRevenue, error) {
	from, to := periodBounds(start, end)

	query, args, err := sq.Select(
		"created_at::date AS day",
		"SUM(total_amount) AS total_revenue",
	).
		From("orders").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		GroupBy("created_at::date").
		OrderBy("total_revenue DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build highest revenue day query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query highest revenue day: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var dr analytics.DayRevenue
	if err := rows.Scan(&dr.Date, &dr.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to scan highest revenue day: %w", err)
	}
	dr.TotalRevenue = dr.TotalRevenue.Round(2)

	return &dr, nil
}
