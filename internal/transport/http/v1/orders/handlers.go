package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ordermgmt/internal/service/errs"
	"ordermgmt/internal/service/models/order"
	"ordermgmt/internal/service/services/ordersvc"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, params ordersvc.CreateOrderParams) (order.Order, error)
	GetOrder(ctx context.Context, id, partitionKey string) (*order.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	UpdateOrder(ctx context.Context, id, partitionKey string, params ordersvc.UpdateOrderParams) (*order.Order, error)
	CancelOrder(ctx context.Context, id, partitionKey string) (*order.Order, error)
	DeleteOrder(ctx context.Context, id, partitionKey string) error
	ListOrders(ctx context.Context, customerID string, status *order.Status, page, pageSize int) ([]order.Order, int, error)
}

const maxPageSize = 100

// Handler serves the order endpoints.
type Handler struct {
	service service
}

// NewHandler creates a new order handler.
func NewHandler(service service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the order routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/customers/{customerID}/orders", h.listCustomerOrders)
	r.Get("/orders/number/{orderNumber}", h.getOrderByNumber)
	r.Get("/orders/{id}", h.getOrder)
	r.Put("/orders/{id}", h.updateOrder)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Delete("/orders/{id}", h.deleteOrder)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding create order request", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating create order request", "error", err)

		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error converting create order request", "error", err)

		return
	}

	created, err := h.service.CreateOrder(r.Context(), params)
	if err != nil {
		writeServiceError(w, err, "Error creating order")

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending create order response", "error", err)
	}
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id query parameter is required", http.StatusBadRequest)

		return
	}

	o, err := h.service.GetOrder(r.Context(), id, customerID)
	if err != nil {
		writeServiceError(w, err, "Error getting order")

		return
	}

	writeJSON(w, o)
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	o, err := h.service.GetOrderByNumber(r.Context(), orderNumber)
	if err != nil {
		writeServiceError(w, err, "Error getting order by number")

		return
	}

	writeJSON(w, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id query parameter is required", http.StatusBadRequest)

		return
	}

	req := updateOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding update order request", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	updated, err := h.service.UpdateOrder(r.Context(), id, customerID, params)
	if err != nil {
		writeServiceError(w, err, "Error updating order")

		return
	}

	writeJSON(w, updated)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id query parameter is required", http.StatusBadRequest)

		return
	}

	cancelled, err := h.service.CancelOrder(r.Context(), id, customerID)
	if err != nil {
		writeServiceError(w, err, "Error cancelling order")

		return
	}

	writeJSON(w, cancelled)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id query parameter is required", http.StatusBadRequest)

		return
	}

	if err := h.service.DeleteOrder(r.Context(), id, customerID); err != nil {
		writeServiceError(w, err, "Error deleting order")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listOrders serves the admin list. Without a customer_id filter it
// spans every customer.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	h.renderOrderList(w, r, r.URL.Query().Get("customer_id"))
}

// listCustomerOrders serves one customer's order history.
func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	h.renderOrderList(w, r, chi.URLParam(r, "customerID"))
}

func (h *Handler) renderOrderList(w http.ResponseWriter, r *http.Request, customerID string) {
	var status *order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := order.ParseStatus(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		status = &s
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	orders, total, err := h.service.ListOrders(r.Context(), customerID, status, page, pageSize)
	if err != nil {
		writeServiceError(w, err, "Error listing orders")

		return
	}

	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, listOrdersResponse{
		Orders:     orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}

	return value
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ordersvc.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errs.IsValidation(err), errs.IsDomain(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error(logMsg, "error", err)
	}
}
