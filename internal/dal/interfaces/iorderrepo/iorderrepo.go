package iorderrepo

import (
	"context"

	"ordermgmt/internal/service/models/order"
)

// IOrderRepository is an interface for the order document repository.
// Reads and writes are scoped by partition key (the customer id) except
// for the cross-partition lookups that explicitly say so.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id, partitionKey string) (*order.Order, error)
	// GetByNumber is a cross-partition lookup by order number.
	GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	Update(ctx context.Context, o order.Order) (*order.Order, error)
	Delete(ctx context.Context, id, partitionKey string) (bool, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	Count(ctx context.Context, customerID string) (int, error)
}
