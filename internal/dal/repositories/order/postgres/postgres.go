package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/dal/postgres"
	"ordermgmt/internal/service/models/order"
)

// orderColumns is the column order every select and scan in this
// repository agrees on.
var orderColumns = []string{
	"id",
	"partition_key",
	"order_number",
	"customer_id",
	"customer_email",
	"status",
	"items",
	"subtotal",
	"tax_amount",
	"shipping_amount",
	"discount_amount",
	"total_amount",
	"currency",
	"billing_address",
	"shipping_address",
	"payment_info",
	"notes",
	"source",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model. Line items,
// addresses and payment info are stored as JSONB documents; monetary
// columns are NUMERIC(12,2) so 2-decimal amounts round-trip exactly.
type OrderDal struct {
	ID              string          `db:"id"`
	PartitionKey    string          `db:"partition_key"`
	OrderNumber     string          `db:"order_number"`
	CustomerID      string          `db:"customer_id"`
	CustomerEmail   string          `db:"customer_email"`
	Status          string          `db:"status"`
	Items           []byte          `db:"items"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	TaxAmount       decimal.Decimal `db:"tax_amount"`
	ShippingAmount  decimal.Decimal `db:"shipping_amount"`
	DiscountAmount  decimal.Decimal `db:"discount_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Currency        string          `db:"currency"`
	BillingAddress  []byte          `db:"billing_address"`
	ShippingAddress []byte          `db:"shipping_address"`
	PaymentInfo     []byte          `db:"payment_info"`
	Notes           *string         `db:"notes"`
	Source          string          `db:"source"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       *time.Time      `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (d *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order status: %w", err)
	}

	var items []order.Item
	if err := json.Unmarshal(d.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	var billing order.Address
	if err := json.Unmarshal(d.BillingAddress, &billing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal billing address: %w", err)
	}

	var shipping *order.Address
	if len(d.ShippingAddress) > 0 {
		shipping = &order.Address{}
		if err := json.Unmarshal(d.ShippingAddress, shipping); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
		}
	}

	var payment order.PaymentInfo
	if err := json.Unmarshal(d.PaymentInfo, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment info: %w", err)
	}

	notes := ""
	if d.Notes != nil {
		notes = *d.Notes
	}

	return &order.Order{
		ID:              d.ID,
		PartitionKey:    d.PartitionKey,
		OrderNumber:     d.OrderNumber,
		CustomerID:      d.CustomerID,
		CustomerEmail:   d.CustomerEmail,
		Status:          status,
		Items:           items,
		Subtotal:        d.Subtotal,
		TaxAmount:       d.TaxAmount,
		ShippingAmount:  d.ShippingAmount,
		DiscountAmount:  d.DiscountAmount,
		TotalAmount:     d.TotalAmount,
		Currency:        d.Currency,
		BillingAddress:  billing,
		ShippingAddress: shipping,
		PaymentInfo:     payment,
		Notes:           notes,
		Source:          d.Source,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// OrderDalFromModel converts a service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) (*OrderDal, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	billing, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing address: %w", err)
	}

	var shipping []byte
	if o.ShippingAddress != nil {
		shipping, err = json.Marshal(o.ShippingAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal shipping address: %w", err)
		}
	}

	payment, err := json.Marshal(o.PaymentInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment info: %w", err)
	}

	var notes *string
	if o.Notes != "" {
		notes = &o.Notes
	}

	return &OrderDal{
		ID:              o.ID,
		PartitionKey:    o.PartitionKey,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CustomerEmail:   o.CustomerEmail,
		Status:          o.Status.String(),
		Items:           items,
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingAmount:  o.ShippingAmount,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		Currency:        o.Currency,
		BillingAddress:  billing,
		ShippingAddress: shipping,
		PaymentInfo:     payment,
		Notes:           notes,
		Source:          o.Source,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}, nil
}

// Repository implements the order repository for PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(client *postgres.Client) *Repository {
	return &Repository{
		pool: client.Pool(),
	}
}

// Insert stores a new order document.
func (r *Repository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	dal, err := OrderDalFromModel(&o)
	if err != nil {
		return order.Order{}, err
	}

	query, args, err := sq.Insert("orders").
		Columns(orderColumns...).
		Values(
			dal.ID,
			dal.PartitionKey,
			dal.OrderNumber,
			dal.CustomerID,
			dal.CustomerEmail,
			dal.Status,
			dal.Items,
			dal.Subtotal,
			dal.TaxAmount,
			dal.ShippingAmount,
			dal.DiscountAmount,
			dal.TotalAmount,
			dal.Currency,
			dal.BillingAddress,
			dal.ShippingAddress,
			dal.PaymentInfo,
			dal.Notes,
			dal.Source,
			dal.CreatedAt,
			dal.UpdatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves an order by id within its customer partition.
// Returns nil without error when the order does not exist.
func (r *Repository) GetByID(ctx context.Context, id, partitionKey string) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id, "partition_key": partitionKey}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.queryOne(ctx, query, args)
}

// GetByNumber retrieves an order by order number across partitions.
func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_number": orderNumber}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.queryOne(ctx, query, args)
}

// Update replaces the mutable fields of an existing order. Returns nil
// without error when the order does not exist.
func (r *Repository) Update(ctx context.Context, o order.Order) (*order.Order, error) {
	dal, err := OrderDalFromModel(&o)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Update("orders").
		Set("status", dal.Status).
		Set("items", dal.Items).
		Set("subtotal", dal.Subtotal).
		Set("tax_amount", dal.TaxAmount).
		Set("shipping_amount", dal.ShippingAmount).
		Set("discount_amount", dal.DiscountAmount).
		Set("total_amount", dal.TotalAmount).
		Set("currency", dal.Currency).
		Set("billing_address", dal.BillingAddress).
		Set("shipping_address", dal.ShippingAddress).
		Set("payment_info", dal.PaymentInfo).
		Set("notes", dal.Notes).
		Set("updated_at", dal.UpdatedAt).
		Where(sq.Eq{"id": dal.ID, "partition_key": dal.PartitionKey}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return &o, nil
}

// Delete removes an order. Returns false when nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id, partitionKey string) (bool, error) {
	query, args, err := sq.Delete("orders").
		Where(sq.Eq{"id": id, "partition_key": partitionKey}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *Repository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.CustomerID != "" {
		builder = builder.Where(sq.Eq{"partition_key": filter.CustomerID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := make([]order.Order, 0)
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Count returns the order count, optionally scoped to one customer.
func (r *Repository) Count(ctx context.Context, customerID string) (int, error) {
	builder := sq.Select("COUNT(*)").
		From("orders").
		PlaceholderFormat(sq.Dollar)

	if customerID != "" {
		builder = builder.Where(sq.Eq{"partition_key": customerID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, args []interface{}) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows iteration error: %w", err)
		}

		return nil, nil
	}

	return scanOrder(rows)
}

func scanOrder(rows pgx.Rows) (*order.Order, error) {
	var dal OrderDal
	err := rows.Scan(
		&dal.ID,
		&dal.PartitionKey,
		&dal.OrderNumber,
		&dal.CustomerID,
		&dal.CustomerEmail,
		&dal.Status,
		&dal.Items,
		&dal.Subtotal,
		&dal.TaxAmount,
		&dal.ShippingAmount,
		&dal.DiscountAmount,
		&dal.TotalAmount,
		&dal.Currency,
		&dal.BillingAddress,
		&dal.ShippingAddress,
		&dal.PaymentInfo,
		&dal.Notes,
		&dal.Source,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return model, nil
}
