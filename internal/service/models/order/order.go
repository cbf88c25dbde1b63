package order

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"ordermgmt/internal/service/errs"
	"ordermgmt/internal/service/models/money"
)

const (
	MinItems      = 1
	MaxItems      = 100
	MaxNotesLen   = 1000
	DefaultSource = "api"

	currencyLen = 3
)

// totalsTolerance absorbs floating round-trip noise from storage, not
// business-logic drift. Entity totals must match within one cent.
var totalsTolerance = decimal.New(1, -2)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Address is a billing or shipping address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentInfo describes how an order is paid.
type PaymentInfo struct {
	Method         PaymentMethod `json:"method"`
	Status         PaymentStatus `json:"status"`
	TransactionID  string        `json:"transaction_id,omitempty"`
	LastFourDigits string        `json:"last_four_digits,omitempty"`
	Processor      string        `json:"processor,omitempty"`
}

// Item is a single order line.
type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// NewItem builds an order line, validating quantity and unit price and
// computing the line total. The computed total, not a supplied one, is
// what downstream validation checks against.
func NewItem(productID, productName string, quantity int, unitPrice decimal.Decimal) (Item, error) {
	qty, err := money.ValidateQuantity(quantity, "quantity")
	if err != nil {
		return Item{}, err
	}

	price, err := money.ValidateUnitPrice(unitPrice)
	if err != nil {
		return Item{}, err
	}

	return Item{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   price,
		TotalPrice:  price.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}

// Order is the stored order document. The partition key co-locates all
// of a customer's orders and is always derived from the customer id.
type Order struct {
	ID            string `json:"id"`
	PartitionKey  string `json:"partition_key"`
	OrderNumber   string `json:"order_number"`
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`

	Status Status `json:"status"`
	Items  []Item `json:"items"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`

	BillingAddress  Address  `json:"billing_address"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`

	PaymentInfo PaymentInfo `json:"payment_info"`

	Notes  string `json:"notes,omitempty"`
	Source string `json:"source"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Validate is the consistency gate for a fully populated order. It runs
// at construction and again whenever totals-affecting fields change;
// a collaborator that mutates an order must re-run it before saving.
func (o *Order) Validate() error {
	// Derived, never independently supplied.
	o.PartitionKey = o.CustomerID

	if len(o.Items) < MinItems {
		return errs.NewValidation("items", "order must contain at least %d item", MinItems)
	}
	if len(o.Items) > MaxItems {
		return errs.NewValidation("items", "order cannot contain more than %d items", MaxItems)
	}

	if !emailPattern.MatchString(o.CustomerEmail) {
		return errs.NewValidation("customer_email", "must be a valid email address")
	}

	if len(o.Currency) != currencyLen {
		return errs.NewValidation("currency", "must be a 3-letter currency code")
	}

	if len(o.Notes) > MaxNotesLen {
		return errs.NewValidation("notes", "cannot exceed %d characters", MaxNotesLen)
	}

	itemsTotal := decimal.Zero
	for _, item := range o.Items {
		itemsTotal = itemsTotal.Add(item.TotalPrice)
	}
	if o.Subtotal.Sub(itemsTotal).Abs().GreaterThan(totalsTolerance) {
		return errs.NewDomain(
			"Subtotal %s does not match sum of items %s",
			o.Subtotal.StringFixed(2), itemsTotal.StringFixed(2),
		)
	}

	expectedTotal := o.Subtotal.
		Add(o.TaxAmount).
		Add(o.ShippingAmount).
		Sub(o.DiscountAmount)
	if o.TotalAmount.Sub(expectedTotal).Abs().GreaterThan(totalsTolerance) {
		return errs.NewDomain(
			"Total amount %s does not match calculated total %s",
			o.TotalAmount.StringFixed(2), expectedTotal.StringFixed(2),
		)
	}

	return nil
}

// Cancel transitions the order to cancelled. Orders already shipped or
// delivered cannot be cancelled; every other status is fair game.
func (o *Order) Cancel() error {
	if !o.Status.CanCancel() {
		return errs.NewDomain("Cannot cancel order in status: %s", o.Status)
	}

	o.Status = StatusCancelled

	return nil
}
