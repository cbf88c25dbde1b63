package orders

import (
	"github.com/shopspring/decimal"

	"ordermgmt/internal/service/models/money"
	"ordermgmt/internal/service/models/order"
	"ordermgmt/internal/service/services/ordersvc"
	"ordermgmt/pkg/sanitize"
)

// Free-text length caps applied during sanitization.
const (
	maxNameLen       = 200
	maxStreetLen     = 200
	maxCityLen       = 100
	maxStateLen      = 100
	maxPostalCodeLen = 20
	maxCountryLen    = 100
	maxNotesLen      = 1000
)

func (r *addressRequest) toModel() order.Address {
	return order.Address{
		Street:     sanitize.Text(r.Street, maxStreetLen),
		City:       sanitize.Text(r.City, maxCityLen),
		State:      sanitize.Text(r.State, maxStateLen),
		PostalCode: sanitize.Text(r.PostalCode, maxPostalCodeLen),
		Country:    sanitize.Text(r.Country, maxCountryLen),
	}
}

func (r *paymentInfoRequest) toModel() (order.PaymentInfo, error) {
	method, err := order.ParsePaymentMethod(r.Method)
	if err != nil {
		return order.PaymentInfo{}, err
	}

	return order.PaymentInfo{
		Method:         method,
		Status:         order.PaymentStatusPending,
		TransactionID:  sanitize.Text(r.TransactionID, maxNameLen),
		LastFourDigits: r.LastFourDigits,
		Processor:      sanitize.Text(r.Processor, maxNameLen),
	}, nil
}

// parseAmount converts an amount's literal text to a decimal. Absent
// optional amounts read as zero.
func parseAmount(raw amount, fieldName string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}

	return money.Parse(string(raw), fieldName)
}

// toParams converts the request into service input, sanitizing every
// free-text field on the way in.
func (r *createOrderRequest) toParams() (ordersvc.CreateOrderParams, error) {
	paymentInfo, err := r.PaymentInfo.toModel()
	if err != nil {
		return ordersvc.CreateOrderParams{}, err
	}

	items := make([]ordersvc.ItemParams, len(r.Items))
	for i, item := range r.Items {
		unitPrice, err := money.Parse(string(item.UnitPrice), "unit_price")
		if err != nil {
			return ordersvc.CreateOrderParams{}, err
		}

		items[i] = ordersvc.ItemParams{
			ProductID:   item.ProductID,
			ProductName: sanitize.Text(item.ProductName, maxNameLen),
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		}
	}

	tax, err := parseAmount(r.TaxAmount, "tax_amount")
	if err != nil {
		return ordersvc.CreateOrderParams{}, err
	}
	shipping, err := parseAmount(r.ShippingAmount, "shipping_amount")
	if err != nil {
		return ordersvc.CreateOrderParams{}, err
	}
	discount, err := parseAmount(r.DiscountAmount, "discount_amount")
	if err != nil {
		return ordersvc.CreateOrderParams{}, err
	}

	var shippingAddress *order.Address
	if r.ShippingAddress != nil {
		addr := r.ShippingAddress.toModel()
		shippingAddress = &addr
	}

	return ordersvc.CreateOrderParams{
		CustomerID:      r.CustomerID,
		CustomerEmail:   r.CustomerEmail,
		Items:           items,
		TaxAmount:       tax,
		ShippingAmount:  shipping,
		DiscountAmount:  discount,
		Currency:        r.Currency,
		BillingAddress:  r.BillingAddress.toModel(),
		ShippingAddress: shippingAddress,
		PaymentInfo:     paymentInfo,
		Notes:           sanitize.Text(r.Notes, maxNotesLen),
		Source:          r.Source,
	}, nil
}

// toParams converts the update request into service input.
func (r *updateOrderRequest) toParams() (ordersvc.UpdateOrderParams, error) {
	params := ordersvc.UpdateOrderParams{}

	if r.Status != nil {
		status, err := order.ParseStatus(*r.Status)
		if err != nil {
			return ordersvc.UpdateOrderParams{}, err
		}
		params.Status = &status
	}

	if r.ShippingAddress != nil {
		addr := r.ShippingAddress.toModel()
		params.ShippingAddress = &addr
	}

	if r.Notes != nil {
		params.Notes = sanitize.TextPtr(r.Notes, maxNotesLen)
	}

	return params, nil
}
