package storefront_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ebikepoint/erp/analytics"
	"github.com/ebikepoint/erp/attendance"
	fakeattendancerepo "github.com/ebikepoint/erp/attendance/repofake"
	"github.com/ebikepoint/erp/auth"
	"github.com/ebikepoint/erp/billing"
	fakebillingrepo "github.com/ebikepoint/erp/billing/repofake"
	"github.com/ebikepoint/erp/inventory"
	fakeinventoryrepo "github.com/ebikepoint/erp/inventory/repofake"
	fakenotificationrepo "github.com/ebikepoint/erp/notifications/repofake"
	"github.com/ebikepoint/erp/orders"
	fakeorderrepo "github.com/ebikepoint/erp/orders/repofake"
	"github.com/ebikepoint/erp/products"
	fakeproductrepo "github.com/ebikepoint/erp/products/repofake"
	"github.com/ebikepoint/erp/servicing"
	fakerequestrepo "github.com/ebikepoint/erp/servicing/repofake"
	"github.com/ebikepoint/erp/storefront"
	"github.com/ebikepoint/erp/token"
	"github.com/ebikepoint/erp/token/refresh"
	fakerefreshrepo "github.com/ebikepoint/erp/token/refresh/repofake"
	"github.com/ebikepoint/erp/users"
	fakeuserrepo "github.com/ebikepoint/erp/users/repofake"
)

const (
	testSigningKey = "storefront-test-signing-key"
	testIssuer     = "ebikepoint-test"
	testPassword   = "Str0ng!Password"
)

type fixture struct {
	server    *storefront.Server
	tokens    *token.Manager
	userRepo  *fakeuserrepo.FakeUserRepo
	catalogue *fakeproductrepo.FakeProductRepo
	stockRepo *fakeinventoryrepo.FakeInventoryRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	catalogue := fakeproductrepo.NewFakeProductRepo()
	stockRepo := fakeinventoryrepo.NewFakeInventoryRepo()
	saleRepo := fakebillingrepo.NewFakeSaleRepo()
	warrantyRepo := fakebillingrepo.NewFakeWarrantyRepo()
	dealerOrderRepo := fakeorderrepo.NewFakeDealerOrderRepo()
	customerOrderRepo := fakeorderrepo.NewFakeCustomerOrderRepo()

	tokens := token.New(testSigningKey, testIssuer)
	refreshMgr := refresh.NewManager(fakerefreshrepo.NewFakeRefreshTokenRepo(), 32, 24*time.Hour)

	authService, err := auth.NewService(userRepo, tokens, refreshMgr)
	require.NoError(t, err)

	stock, err := inventory.NewService(stockRepo)
	require.NoError(t, err)
	orderService, err := orders.NewService(dealerOrderRepo, customerOrderRepo, catalogue, stock)
	require.NoError(t, err)
	billingService, err := billing.NewService(saleRepo, warrantyRepo, catalogue, stock)
	require.NoError(t, err)
	servicingService, err := servicing.NewService(fakerequestrepo.NewFakeRequestRepo(), warrantyRepo, catalogue, userRepo)
	require.NoError(t, err)
	attendanceService, err := attendance.NewService(fakeattendancerepo.NewFakeAttendanceRepo())
	require.NoError(t, err)
	analyticsService, err := analytics.NewService(saleRepo, dealerOrderRepo, stockRepo, catalogue, userRepo)
	require.NoError(t, err)

	server, err := storefront.New("E-Bike ERP", storefront.Deps{
		Auth:          authService,
		Tokens:        tokens,
		UserRepo:      userRepo,
		Catalogue:     catalogue,
		Orders:        orderService,
		Billing:       billingService,
		Inventory:     stock,
		Servicing:     servicingService,
		Attendance:    attendanceService,
		Notifications: fakenotificationrepo.NewFakeNotificationRepo(),
		Analytics:     analyticsService,
	}, zerolog.Nop())
	require.NoError(t, err)

	return &fixture{
		server:    server,
		tokens:    tokens,
		userRepo:  userRepo,
		catalogue: catalogue,
		stockRepo: stockRepo,
	}
}

func (f *fixture) addUser(t *testing.T, email string, role users.Role, dealerID string) *users.User {
	t.Helper()

	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)
	user := &users.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DealerID:     dealerID,
		Active:       true,
		Approved:     true,
	}
	require.NoError(t, f.userRepo.Upsert(user))
	return user
}

func (f *fixture) tokenFor(t *testing.T, user *users.User) string {
	t.Helper()
	access, err := f.tokens.CreateAccessToken(user)
	require.NoError(t, err)
	return access
}

func (f *fixture) request(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginReturnsTokenPairAndProfile(t *testing.T) {
	f := setup(t)
	f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")

	rec := f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dealer@ebike.test", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["access"])
	require.NotEmpty(t, body["refresh"])
	user := body["user"].(map[string]any)
	require.Equal(t, "dealer@ebike.test", user["email"])
	require.NotContains(t, user, "passwordHash")
}

func TestLoginWrongPassword(t *testing.T) {
	f := setup(t)
	f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")

	rec := f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dealer@ebike.test", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid email or password", decodeBody(t, rec)["message"])
}

func TestRefreshEndpointShape(t *testing.T) {
	f := setup(t)
	f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")

	login := f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dealer@ebike.test", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, login.Code)
	refreshToken := decodeBody(t, login)["refresh"].(string)

	rec := f.request(t, http.MethodPost, "/auth/token/refresh", "", map[string]string{
		"refresh": refreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decodeBody(t, rec)["access"])

	rec = f.request(t, http.MethodPost, "/auth/token/refresh", "", map[string]string{
		"refresh": "no-such-token",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredAccessTokenIs401(t *testing.T) {
	f := setup(t)
	user := f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")

	past := time.Now().Add(-2 * time.Hour)
	expiredIssuer := token.New(testSigningKey, testIssuer,
		token.WithNowFunc(func() time.Time { return past }),
		token.WithAccessTokenExpiry(time.Minute))
	expired, err := expiredIssuer.CreateAccessToken(user)
	require.NoError(t, err)

	rec := f.request(t, http.MethodGet, "/auth/me", expired, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Token expired", decodeBody(t, rec)["message"])
}

func TestUnauthenticatedAndForbidden(t *testing.T) {
	f := setup(t)
	customer := f.addUser(t, "customer@ebike.test", users.RoleCustomer, "")

	rec := f.request(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request(t, http.MethodPost, "/products", f.tokenFor(t, customer), map[string]any{
		"name": "City Cruiser", "price": 45000,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRegisteredDealerCanLogin(t *testing.T) {
	f := setup(t)
	admin := f.addUser(t, "admin@ebike.test", users.RoleAdmin, "")

	rec := f.request(t, http.MethodPost, "/auth/register/dealer", f.tokenFor(t, admin), map[string]string{
		"email":          "newdealer@ebike.test",
		"password":       testPassword,
		"firstName":      "Dana",
		"lastName":       "Dealer",
		"dealershipName": "City Bikes",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "newdealer@ebike.test", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decodeBody(t, rec)["access"])
}

func TestNavigationIsRoleScoped(t *testing.T) {
	f := setup(t)
	employee := f.addUser(t, "emp@ebike.test", users.RoleEmployee, "dealer-1")

	rec := f.request(t, http.MethodGet, "/auth/navigation", f.tokenFor(t, employee), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, "employee", data["role"])
	require.Equal(t, []any{"dashboard", "sales", "attendance"}, data["navigation"])
}

func TestOrderApprovalFlowOverHTTP(t *testing.T) {
	f := setup(t)
	admin := f.addUser(t, "admin@ebike.test", users.RoleAdmin, "")
	dealer := f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")

	created := f.request(t, http.MethodPost, "/products", f.tokenFor(t, admin), map[string]any{
		"name": "City Cruiser", "price": 45000, "stock": 10, "available": true,
	})
	require.Equal(t, http.StatusCreated, created.Code)
	productID := decodeBody(t, created)["data"].(map[string]any)["id"].(string)

	placed := f.request(t, http.MethodPost, "/orders/dealer", f.tokenFor(t, dealer), map[string]any{
		"items": []map[string]any{{"productId": productID, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, placed.Code)
	orderID := decodeBody(t, placed)["data"].(map[string]any)["id"].(string)

	// Dealers cannot approve their own orders.
	rec := f.request(t, http.MethodPost, "/orders/dealer/"+orderID+"/approve", f.tokenFor(t, dealer), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.request(t, http.MethodPost, "/orders/dealer/"+orderID+"/approve", f.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, "approved", data["status"])
	require.NotEmpty(t, data["expectedDelivery"])

	// Second approval attempt is an invalid transition.
	rec = f.request(t, http.MethodPost, "/orders/dealer/"+orderID+"/approve", f.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Stock arrived in dealer inventory.
	rec = f.request(t, http.MethodGet, "/inventory", f.tokenFor(t, dealer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody(t, rec)["data"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, float64(4), items[0].(map[string]any)["quantity"])
}

func TestSaleCreatesWarrantyOverHTTP(t *testing.T) {
	f := setup(t)
	dealer := f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")
	customer := f.addUser(t, "customer@ebike.test", users.RoleCustomer, "")

	product := &products.Product{Name: "City Cruiser", Price: 50000, Available: true}
	product.ApplyDefaults()
	require.NoError(t, f.catalogue.Upsert(product))
	require.NoError(t, f.stockRepo.UpsertItem(&inventory.Item{
		DealerID: dealer.ID, ProductID: product.ID, Quantity: 5,
	}))

	rec := f.request(t, http.MethodPost, "/billing/sales", f.tokenFor(t, dealer), map[string]any{
		"customerId": customer.ID, "productId": product.ID, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]any)
	sale := data["sale"].(map[string]any)
	warranty := data["warranty"].(map[string]any)
	require.NotEmpty(t, sale["invoiceNumber"])
	require.Equal(t, sale["invoiceNumber"], warranty["invoiceNumber"])
	require.Equal(t, true, warranty["active"])

	// Customer can read the warranty by invoice.
	invoice := sale["invoiceNumber"].(string)
	rec = f.request(t, http.MethodGet, "/service/warranty/"+invoice, f.tokenFor(t, customer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, true, status["valid"])
	require.Equal(t, float64(4), status["freeRemaining"])
}

func TestAttendanceOverHTTP(t *testing.T) {
	f := setup(t)
	employee := f.addUser(t, "emp@ebike.test", users.RoleEmployee, "dealer-1")

	rec := f.request(t, http.MethodPost, "/attendance/clock-in", f.tokenFor(t, employee), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.request(t, http.MethodPost, "/attendance/clock-in", f.tokenFor(t, employee), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Already clocked in today", decodeBody(t, rec)["message"])

	rec = f.request(t, http.MethodPost, "/attendance/clock-out", f.tokenFor(t, employee), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, "/attendance/me", f.tokenFor(t, employee), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["data"].([]any), 1)
}

func TestNotificationOwnership(t *testing.T) {
	f := setup(t)
	admin := f.addUser(t, "admin@ebike.test", users.RoleAdmin, "")
	dealer := f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")
	other := f.addUser(t, "other@ebike.test", users.RoleDealer, "")

	rec := f.request(t, http.MethodPost, "/notifications", f.tokenFor(t, admin), map[string]any{
		"userId": dealer.ID, "title": "Order approved",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	noteID := decodeBody(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.request(t, http.MethodGet, "/notifications/unread-count", f.tokenFor(t, dealer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["data"].(map[string]any)["unread"])

	// Someone else's notification cannot be marked read.
	rec = f.request(t, http.MethodPost, "/notifications/"+noteID+"/read", f.tokenFor(t, other), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.request(t, http.MethodPost, "/notifications/"+noteID+"/read", f.tokenFor(t, dealer), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, "/notifications/unread-count", f.tokenFor(t, dealer), nil)
	require.Equal(t, float64(0), decodeBody(t, rec)["data"].(map[string]any)["unread"])
}

func TestUnknownRouteIs404(t *testing.T) {
	f := setup(t)

	rec := f.request(t, http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Route not found", decodeBody(t, rec)["message"])
}

func TestAdminDashboardOverHTTP(t *testing.T) {
	f := setup(t)
	admin := f.addUser(t, "admin@ebike.test", users.RoleAdmin, "")
	f.addUser(t, "dealer@ebike.test", users.RoleDealer, "")
	f.addUser(t, "customer@ebike.test", users.RoleCustomer, "")

	rec := f.request(t, http.MethodGet, "/analytics/admin", f.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, float64(1), data["totalDealers"])
	require.Equal(t, float64(1), data["totalCustomers"])
}
