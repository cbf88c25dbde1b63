package orders

import (
	"github.com/go-playground/validator/v10"

	"ordermgmt/internal/service/models/order"
)

// amount carries a monetary value as its literal JSON text, so the
// validator sees the input's own precision. Accepts both string and
// number tokens.
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		s = ""
	}
	*a = amount(s)

	return nil
}

// itemRequest is a single order line in a create request.
type itemRequest struct {
	ProductID   string `json:"product_id"   validate:"required"`
	ProductName string `json:"product_name" validate:"required"`
	Quantity    int    `json:"quantity"     validate:"gt=0"`
	UnitPrice   amount `json:"unit_price"   validate:"required"`
}

// addressRequest mirrors the address payload.
type addressRequest struct {
	Street     string `json:"street"      validate:"required"`
	City       string `json:"city"        validate:"required"`
	State      string `json:"state"       validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"     validate:"required"`
}

// paymentInfoRequest mirrors the payment payload.
type paymentInfoRequest struct {
	Method         string `json:"method" validate:"required"`
	TransactionID  string `json:"transaction_id,omitempty"`
	LastFourDigits string `json:"last_four_digits,omitempty"`
	Processor      string `json:"processor,omitempty"`
}

// createOrderRequest is the create order payload.
type createOrderRequest struct {
	CustomerID      string             `json:"customer_id"    validate:"required"`
	CustomerEmail   string             `json:"customer_email" validate:"required,email"`
	Items           []itemRequest      `json:"items"          validate:"required,min=1,max=100,dive"`
	TaxAmount       amount             `json:"tax_amount"`
	ShippingAmount  amount             `json:"shipping_amount"`
	DiscountAmount  amount             `json:"discount_amount"`
	Currency        string             `json:"currency"        validate:"omitempty,len=3"`
	BillingAddress  addressRequest     `json:"billing_address" validate:"required"`
	ShippingAddress *addressRequest    `json:"shipping_address,omitempty"`
	PaymentInfo     paymentInfoRequest `json:"payment_info"    validate:"required"`
	Notes           string             `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Source          string             `json:"source,omitempty"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// updateOrderRequest carries the mutable order fields. Absent fields
// are left unchanged.
type updateOrderRequest struct {
	Status          *string         `json:"status,omitempty"`
	ShippingAddress *addressRequest `json:"shipping_address,omitempty"`
	Notes           *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// Validate validates the update order request.
func (r *updateOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// listOrdersResponse is a page of a customer's orders.
type listOrdersResponse struct {
	Orders     []order.Order `json:"orders"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}
