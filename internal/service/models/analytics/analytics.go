package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for synthesized records when no order data
// exists to carry a currency of its own.
const DefaultCurrency = "USD"

// DailyOrderMetrics is the per-calendar-day order aggregate. Days with
// no orders are represented by zero-valued records, never omitted.
type DailyOrderMetrics struct {
	Date              time.Time       `json:"date"`
	OrderCount        int             `json:"order_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	Currency          string          `json:"currency"`
}

// ZeroDay synthesizes the gap-filling record for a day with no orders.
func ZeroDay(date time.Time) DailyOrderMetrics {
	return DailyOrderMetrics{
		Date:              date,
		OrderCount:        0,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		Currency:          DefaultCurrency,
	}
}

// StatusBucket is a raw grouped row from storage: orders per status.
// Percentages are derived later by the aggregator.
type StatusBucket struct {
	Status     string
	Count      int
	TotalValue decimal.Decimal
}

// OrderStatusMetrics is a status bucket with its share of the period's
// orders.
type OrderStatusMetrics struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	Percentage float64         `json:"percentage"`
}

// CustomerMetrics is the per-customer aggregate for a period.
type CustomerMetrics struct {
	CustomerID        string          `json:"customer_id"`
	CustomerEmail     string          `json:"customer_email"`
	TotalOrders       int             `json:"total_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	FirstOrderDate    *time.Time      `json:"first_order_date"`
	LastOrderDate     *time.Time      `json:"last_order_date"`
}

// EmptyCustomer is the found/not-found sentinel for a customer with no
// orders in range: zero values, empty email, not an error.
func EmptyCustomer(customerID string) CustomerMetrics {
	return CustomerMetrics{
		CustomerID:        customerID,
		CustomerEmail:     "",
		TotalOrders:       0,
		TotalSpent:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
}

// RevenueMetrics summarizes revenue over a period.
type RevenueMetrics struct {
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	Currency          string          `json:"currency"`
}

// RevenueSummary is the raw grouped totals row from storage.
type RevenueSummary struct {
	TotalRevenue      decimal.Decimal
	TotalOrders       int
	AverageOrderValue decimal.Decimal
}

// DayCount is a (day, order count) pair, e.g. the busiest day.
type DayCount struct {
	Date       time.Time `json:"date"`
	OrderCount int       `json:"order_count"`
}

// DayRevenue is a (day, revenue) pair, e.g. the highest-revenue day.
type DayRevenue struct {
	Date         time.Time       `json:"date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
