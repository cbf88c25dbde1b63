package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	analyticsmodels "ordermgmt/internal/service/models/analytics"
	"ordermgmt/internal/service/services/analyticssvc"
)

const (
	dateLayout        = "2006-01-02"
	defaultPeriodDays = 30
	maxPeriodDays     = 365
	defaultTopLimit   = 10
	maxTopLimit       = 100
)

// service is an interface for the analytics service layer.
type service interface {
	GetDailyAnalytics(ctx context.Context, start, end time.Time) (analyticssvc.DailyAnalytics, error)
	GetOrderStatusAnalytics(ctx context.Context, start, end time.Time) (analyticssvc.StatusAnalytics, error)
	GetTopCustomers(ctx context.Context, start, end time.Time, limit int) ([]analyticsmodels.CustomerMetrics, error)
	GetCustomerAnalytics(ctx context.Context, customerID string) (analyticsmodels.CustomerMetrics, error)
	GetAnalyticsSummary(ctx context.Context) (analyticssvc.Summary, error)
	GetRevenueTrends(ctx context.Context, days int) (analyticssvc.RevenueTrends, error)
}

// Handler serves the analytics endpoints.
type Handler struct {
	service service
}

// NewHandler creates a new analytics handler.
func NewHandler(service service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the analytics routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics/orders/daily", h.dailyAnalytics)
	r.Get("/analytics/orders/today", h.todayAnalytics)
	r.Get("/analytics/orders/week", h.weekAnalytics)
	r.Get("/analytics/orders/month", h.monthAnalytics)
	r.Get("/analytics/orders/status", h.statusAnalytics)
	r.Get("/analytics/customers/top", h.topCustomers)
	r.Get("/analytics/customers/{customerID}", h.customerAnalytics)
	r.Get("/analytics/summary", h.summary)
	r.Get("/analytics/revenue/trends", h.revenueTrends)
}

// today is the current UTC calendar day at midnight. Default periods
// anchor here so the window covers whole days.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parsePeriod reads the start_date and end_date query parameters,
// defaulting to the trailing 30 calendar days when absent.
func parsePeriod(r *http.Request) (time.Time, time.Time, error) {
	end := today()
	start := end.AddDate(0, 0, -(defaultPeriodDays - 1))

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate{param: "start_date", raw: raw}
		}
		start = parsed
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate{param: "end_date", raw: raw}
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errInvalidRange{}
	}

	if end.Sub(start) > maxPeriodDays*24*time.Hour {
		return time.Time{}, time.Time{}, errRangeTooLong{}
	}

	return start, end, nil
}

type errInvalidDate struct {
	param string
	raw   string
}

func (e errInvalidDate) Error() string {
	return e.param + " must be formatted as YYYY-MM-DD, got " + strconv.Quote(e.raw)
}

type errInvalidRange struct{}

func (errInvalidRange) Error() string { return "end_date must not be before start_date" }

type errRangeTooLong struct{}

func (errRangeTooLong) Error() string { return "date range cannot exceed 365 days" }

func (h *Handler) dailyAnalytics(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	result, err := h.service.GetDailyAnalytics(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting daily analytics", "error", err)

		return
	}

	writeJSON(w, result)
}

// todayAnalytics, weekAnalytics and monthAnalytics are fixed-window
// shortcuts over the daily breakdown.
func (h *Handler) todayAnalytics(w http.ResponseWriter, r *http.Request) {
	h.renderDailyWindow(w, r, 1)
}

func (h *Handler) weekAnalytics(w http.ResponseWriter, r *http.Request) {
	h.renderDailyWindow(w, r, 7)
}

func (h *Handler) monthAnalytics(w http.ResponseWriter, r *http.Request) {
	h.renderDailyWindow(w, r, 30)
}

func (h *Handler) renderDailyWindow(w http.ResponseWriter, r *http.Request, days int) {
	end := today()
	start := end.AddDate(0, 0, -(days - 1))

	result, err := h.service.GetDailyAnalytics(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting daily analytics", "error", err)

		return
	}

	writeJSON(w, result)
}

func (h *Handler) statusAnalytics(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	result, err := h.service.GetOrderStatusAnalytics(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting status analytics", "error", err)

		return
	}

	writeJSON(w, result)
}

func (h *Handler) topCustomers(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	limit := defaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTopLimit {
			http.Error(w, "limit must be an integer between 1 and 100", http.StatusBadRequest)

			return
		}
		limit = parsed
	}

	customers, err := h.service.GetTopCustomers(r.Context(), start, end, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting top customers", "error", err)

		return
	}

	if customers == nil {
		customers = []analyticsmodels.CustomerMetrics{}
	}

	writeJSON(w, customers)
}

func (h *Handler) customerAnalytics(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	result, err := h.service.GetCustomerAnalytics(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting customer analytics", "error", err)

		return
	}

	writeJSON(w, result)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAnalyticsSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting analytics summary", "error", err)

		return
	}

	writeJSON(w, result)
}

func (h *Handler) revenueTrends(w http.ResponseWriter, r *http.Request) {
	days := defaultPeriodDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPeriodDays {
			http.Error(w, "days must be an integer between 1 and 365", http.StatusBadRequest)

			return
		}
		days = parsed
	}

	result, err := h.service.GetRevenueTrends(r.Context(), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting revenue trends", "error", err)

		return
	}

	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
