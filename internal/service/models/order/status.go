package order

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a raw status string is not one of
// the known order statuses.
var ErrInvalidStatus = errors.New("invalid order status")

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var statuses = map[Status]struct{}{
	StatusPending:    {},
	StatusConfirmed:  {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	_, ok := statuses[s]

	return ok
}

// CanCancel reports whether an order in this status may still be
// cancelled. Shipped and delivered orders are past the point of no
// return.
func (s Status) CanCancel() bool {
	return s != StatusShipped && s != StatusDelivered
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}

	return s, nil
}

// PaymentStatus is the state of an order's payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodDebitCard      PaymentMethod = "debit_card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCreditCard:     {},
	PaymentMethodDebitCard:      {},
	PaymentMethodPayPal:         {},
	PaymentMethodBankTransfer:   {},
	PaymentMethodCashOnDelivery: {},
}

// ParsePaymentMethod converts a raw string into a PaymentMethod.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(raw)
	if _, ok := paymentMethods[m]; !ok {
		return "", fmt.Errorf("invalid payment method: %q", raw)
	}

	return m, nil
}
