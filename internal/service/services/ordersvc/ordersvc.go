package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"ordermgmt/internal/dal/interfaces/iorderrepo"
	"ordermgmt/internal/dal/interfaces/ioutboxrepo"
	"ordermgmt/internal/service/models/money"
	"ordermgmt/internal/service/models/order"
	"ordermgmt/internal/service/models/outbox"
)

// ErrOrderNotFound is returned when the requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderService manages the order lifecycle.
type OrderService struct {
	orderRepo  iorderrepo.IOrderRepository
	outboxRepo ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithOutboxRepository sets the outbox repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *OrderService) {
		s.outboxRepo = repo
	}
}

// ItemParams carries the validated input for a single order line.
type ItemParams struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateOrderParams carries the input for creating an order.
type CreateOrderParams struct {
	CustomerID      string
	CustomerEmail   string
	Items           []ItemParams
	TaxAmount       decimal.Decimal
	ShippingAmount  decimal.Decimal
	DiscountAmount  decimal.Decimal
	Currency        string
	BillingAddress  order.Address
	ShippingAddress *order.Address
	PaymentInfo     order.PaymentInfo
	Notes           string
	Source          string
}

// UpdateOrderParams carries the mutable fields of an order. Nil fields
// are left unchanged.
type UpdateOrderParams struct {
	Status          *order.Status
	ShippingAddress *order.Address
	Notes           *string
}

// CalculateTotals computes the order subtotal and grand total from the
// item lines and the order-level adjustments. Both results are rounded
// to cents.
func CalculateTotals(items []order.Item, tax, shipping, discount decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	subtotal = subtotal.Round(2)

	total = subtotal.Add(tax).Add(shipping).Sub(discount).Round(2)

	return subtotal, total
}

// generateOrderNumber produces a human-readable order number of the
// form ORD-20260826-1A2B3C4D.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// CreateOrder validates the input, computes totals, persists the order
// and records an order.created event.
func (s *OrderService) CreateOrder(ctx context.Context, params CreateOrderParams) (order.Order, error) {
	items := make([]order.Item, 0, len(params.Items))
	for _, p := range params.Items {
		item, err := order.NewItem(p.ProductID, p.ProductName, p.Quantity, p.UnitPrice)
		if err != nil {
			return order.Order{}, err
		}
		items = append(items, item)
	}

	tax, err := money.ValidateAmount(params.TaxAmount, "tax_amount", true, nil)
	if err != nil {
		return order.Order{}, err
	}
	shipping, err := money.ValidateAmount(params.ShippingAmount, "shipping_amount", true, nil)
	if err != nil {
		return order.Order{}, err
	}
	discount, err := money.ValidateAmount(params.DiscountAmount, "discount_amount", true, nil)
	if err != nil {
		return order.Order{}, err
	}

	subtotal, total := CalculateTotals(items, tax, shipping, discount)

	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	source := params.Source
	if source == "" {
		source = order.DefaultSource
	}

	shippingAddress := params.ShippingAddress
	if shippingAddress == nil {
		billing := params.BillingAddress
		shippingAddress = &billing
	}

	paymentInfo := params.PaymentInfo
	if paymentInfo.Status == "" {
		paymentInfo.Status = order.PaymentStatusPending
	}

	o := order.Order{
		ID:              uuid.NewString(),
		OrderNumber:     generateOrderNumber(),
		CustomerID:      params.CustomerID,
		CustomerEmail:   params.CustomerEmail,
		Status:          order.StatusPending,
		Items:           items,
		Subtotal:        subtotal,
		TaxAmount:       tax,
		ShippingAmount:  shipping,
		DiscountAmount:  discount,
		TotalAmount:     total,
		Currency:        currency,
		BillingAddress:  params.BillingAddress,
		ShippingAddress: shippingAddress,
		PaymentInfo:     paymentInfo,
		Notes:           params.Notes,
		Source:          source,
		CreatedAt:       time.Now().UTC(),
	}

	if err := o.Validate(); err != nil {
		return order.Order{}, err
	}

	created, err := s.orderRepo.Insert(ctx, o)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	s.emitEvent(ctx, "order.created", created)

	return created, nil
}

// GetOrder retrieves an order by id within a customer partition.
func (s *OrderService) GetOrder(ctx context.Context, id, partitionKey string) (*order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id, partitionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	return o, nil
}

// GetOrderByNumber retrieves an order by its human-readable number.
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	o, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	return o, nil
}

// UpdateOrder applies the given changes to an existing order and
// re-validates the result.
func (s *OrderService) UpdateOrder(ctx context.Context, id, partitionKey string, params UpdateOrderParams) (*order.Order, error) {
	o, err := s.GetOrder(ctx, id, partitionKey)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if params.Status != nil && *params.Status != o.Status {
		o.Status = *params.Status
		statusChanged = true
	}
	if params.ShippingAddress != nil {
		o.ShippingAddress = params.ShippingAddress
	}
	if params.Notes != nil {
		o.Notes = *params.Notes
	}

	now := time.Now().UTC()
	o.UpdatedAt = &now

	if err := o.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.Update(ctx, *o)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}

	if statusChanged {
		s.emitEvent(ctx, "order.status_changed", *updated)
	}

	return updated, nil
}

// CancelOrder transitions an order to the cancelled status. Shipped and
// delivered orders cannot be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id, partitionKey string) (*order.Order, error) {
	o, err := s.GetOrder(ctx, id, partitionKey)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.UpdatedAt = &now

	updated, err := s.orderRepo.Update(ctx, *o)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}

	s.emitEvent(ctx, "order.cancelled", *updated)

	return updated, nil
}

// DeleteOrder removes an order permanently.
func (s *OrderService) DeleteOrder(ctx context.Context, id, partitionKey string) error {
	deleted, err := s.orderRepo.Delete(ctx, id, partitionKey)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return ErrOrderNotFound
	}

	return nil
}

// ListOrders returns a page of orders, newest first, along with the
// matching total count. An empty customerID spans all customers.
func (s *OrderService) ListOrders(
	ctx context.Context,
	customerID string,
	status *order.Status,
	page, pageSize int,
) ([]order.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	orders, err := s.orderRepo.Query(ctx, &order.QueryOrdersModel{
		CustomerID: customerID,
		Status:     status,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}

	total, err := s.orderRepo.Count(ctx, customerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return orders, total, nil
}

// orderEvent is the payload published to the order events exchange.
type orderEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// emitEvent records an order lifecycle event in the outbox. Delivery is
// best effort; a failed write is logged but does not fail the request.
func (s *OrderService) emitEvent(ctx context.Context, eventType string, o order.Order) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(orderEvent{
		EventType:   eventType,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      o.Status.String(),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to marshal order event", "event_type", eventType, "order_id", o.ID, "error", err)

		return
	}

	exchange := viper.GetString("rabbitmq.orders.exchange")
	if exchange == "" {
		exchange = "orders.events"
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	msg := outbox.NewMessage("", exchange, eventType, payload, maxRetries)
	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Warn("Failed to record order event in outbox", "event_type", eventType, "order_id", o.ID, "error", err)
	}
}
