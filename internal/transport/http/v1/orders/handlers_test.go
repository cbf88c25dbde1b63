package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgmt/internal/service/errs"
	"ordermgmt/internal/service/models/order"
	"ordermgmt/internal/service/services/ordersvc"
)

// fakeService returns canned results and records the last input.
type fakeService struct {
	createParams ordersvc.CreateOrderParams
	createResult order.Order
	createErr    error

	getResult *order.Order
	getErr    error

	updateResult *order.Order
	updateErr    error

	cancelResult *order.Order
	cancelErr    error

	deleteErr error

	listResult []order.Order
	listTotal  int
	listErr    error
}

func (f *fakeService) CreateOrder(_ context.Context, params ordersvc.CreateOrderParams) (order.Order, error) {
	f.createParams = params

	return f.createResult, f.createErr
}

func (f *fakeService) GetOrder(context.Context, string, string) (*order.Order, error) {
	return f.getResult, f.getErr
}

func (f *fakeService) GetOrderByNumber(context.Context, string) (*order.Order, error) {
	return f.getResult, f.getErr
}

func (f *fakeService) UpdateOrder(context.Context, string, string, ordersvc.UpdateOrderParams) (*order.Order, error) {
	return f.updateResult, f.updateErr
}

func (f *fakeService) CancelOrder(context.Context, string, string) (*order.Order, error) {
	return f.cancelResult, f.cancelErr
}

func (f *fakeService) DeleteOrder(context.Context, string, string) error {
	return f.deleteErr
}

func (f *fakeService) ListOrders(context.Context, string, *order.Status, int, int) ([]order.Order, int, error) {
	return f.listResult, f.listTotal, f.listErr
}

func newRouter(svc *fakeService) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r)
	})

	return router
}

func createBody() string {
	return `{
		"customer_id": "cust_456",
		"customer_email": "customer@example.com",
		"items": [
			{"product_id": "prod_123", "product_name": "Premium Widget", "quantity": 2, "unit_price": "25.00"}
		],
		"tax_amount": "4.00",
		"shipping_amount": "5.99",
		"currency": "USD",
		"billing_address": {
			"street": "123 Main St", "city": "Seattle", "state": "WA",
			"postal_code": "98101", "country": "US"
		},
		"payment_info": {"method": "credit_card"}
	}`
}

func TestCreateOrder(t *testing.T) {
	svc := &fakeService{
		createResult: order.Order{ID: "order_789", Status: order.StatusPending},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(createBody()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order_789", resp.ID)

	assert.Equal(t, "cust_456", svc.createParams.CustomerID)
	require.Len(t, svc.createParams.Items, 1)
	assert.Equal(t, "25.00", svc.createParams.Items[0].UnitPrice.StringFixed(2))
}

func TestCreateOrder_SanitizesFreeText(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	body := strings.Replace(createBody(),
		"Premium Widget",
		"<script>alert('xss')</script>Premium Widget", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Premium Widget", svc.createParams.Items[0].ProductName)
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_MissingItems(t *testing.T) {
	router := newRouter(&fakeService{})

	body := `{
		"customer_id": "cust_456",
		"customer_email": "customer@example.com",
		"items": [],
		"billing_address": {
			"street": "123 Main St", "city": "Seattle", "state": "WA",
			"postal_code": "98101", "country": "US"
		},
		"payment_info": {"method": "credit_card"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_BadPaymentMethod(t *testing.T) {
	router := newRouter(&fakeService{})

	body := strings.Replace(createBody(), "credit_card", "barter", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_UnparseableUnitPrice(t *testing.T) {
	router := newRouter(&fakeService{})

	body := strings.Replace(createBody(), `"25.00"`, `"not-a-price"`, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be a valid decimal number")
}

func TestCreateOrder_NumericAmountTokens(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	// Amounts as bare JSON numbers instead of strings.
	body := strings.NewReplacer(
		`"25.00"`, `25.00`,
		`"4.00"`, `4.00`,
		`"5.99"`, `5.99`,
	).Replace(createBody())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "25.00", svc.createParams.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "4.00", svc.createParams.TaxAmount.StringFixed(2))
}

func TestCreateOrder_ValidationErrorFromService(t *testing.T) {
	svc := &fakeService{createErr: errs.NewValidation("unit_price", "cannot have more than 2 decimal places")}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(createBody()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unit_price")
}

func TestGetOrder(t *testing.T) {
	svc := &fakeService{getResult: &order.Order{ID: "order_789"}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/order_789?customer_id=cust_456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order_789", resp.ID)
}

func TestGetOrder_MissingCustomerID(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/order_789", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer_id")
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &fakeService{getErr: ordersvc.ErrOrderNotFound}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing?customer_id=cust_456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderByNumber(t *testing.T) {
	svc := &fakeService{getResult: &order.Order{ID: "order_789", OrderNumber: "ORD-20260826-ABCD1234"}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/number/ORD-20260826-ABCD1234", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateOrder_InvalidStatus(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order_789?customer_id=cust_456",
		strings.NewReader(`{"status": "teleported"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrder_DomainError(t *testing.T) {
	svc := &fakeService{cancelErr: errs.NewDomain("Cannot cancel order in status: shipped")}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/order_789/cancel?customer_id=cust_456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "shipped")
}

func TestDeleteOrder(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/order_789?customer_id=cust_456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListOrders(t *testing.T) {
	svc := &fakeService{
		listResult: []order.Order{
			{ID: "order_1", TotalAmount: decimal.RequireFromString("59.99")},
		},
		listTotal: 1,
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customer_id=cust_456&page=1&page_size=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 10, resp.PageSize)
	require.Len(t, resp.Orders, 1)
}

func TestListOrders_NoCustomerFilterListsAllCustomers(t *testing.T) {
	svc := &fakeService{
		listResult: []order.Order{{ID: "order_1"}, {ID: "order_2"}},
		listTotal:  2,
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Orders, 2)
}

func TestListCustomerOrders(t *testing.T) {
	svc := &fakeService{
		listResult: []order.Order{{ID: "order_1", CustomerID: "cust_456"}},
		listTotal:  1,
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/customers/cust_456/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "cust_456", resp.Orders[0].CustomerID)
}

func TestListOrders_EmptyIsArrayNotNull(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customer_id=cust_456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[]`)
}

func TestListOrders_BadStatusFilter(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customer_id=cust_456&status=nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
