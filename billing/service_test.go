package billing_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ebikepoint/erp/billing"
	fakebillingrepo "github.com/ebikepoint/erp/billing/repofake"
	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/inventory"
	fakeinventoryrepo "github.com/ebikepoint/erp/inventory/repofake"
	"github.com/ebikepoint/erp/products"
	fakeproductrepo "github.com/ebikepoint/erp/products/repofake"
	"github.com/ebikepoint/erp/users"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service   *billing.Service
	catalogue *fakeproductrepo.FakeProductRepo
	stockRepo *fakeinventoryrepo.FakeInventoryRepo
	now       time.Time
	dealer    *users.User
	employee  *users.User
	customer  *users.User
}

func setup(t *testing.T) *fixture {
	t.Helper()

	catalogue := fakeproductrepo.NewFakeProductRepo()
	stockRepo := fakeinventoryrepo.NewFakeInventoryRepo()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	stock, err := inventory.NewService(stockRepo, inventory.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	service, err := billing.NewService(
		fakebillingrepo.NewFakeSaleRepo(),
		fakebillingrepo.NewFakeWarrantyRepo(),
		catalogue,
		stock,
		billing.WithNowTime(func() time.Time { return now }),
	)
	require.NoError(t, err)

	return &fixture{
		service:   service,
		catalogue: catalogue,
		stockRepo: stockRepo,
		now:       now,
		dealer:    &users.User{ID: "dealer-1", Role: users.RoleDealer},
		employee:  &users.User{ID: "emp-1", Role: users.RoleEmployee, DealerID: "dealer-1"},
		customer:  &users.User{ID: "customer-1", Role: users.RoleCustomer},
	}
}

func (f *fixture) stockProduct(t *testing.T, price float64, qty int) *products.Product {
	t.Helper()
	product := &products.Product{Name: "City Cruiser", Price: price, Available: true}
	product.ApplyDefaults()
	require.NoError(t, f.catalogue.Upsert(product))
	require.NoError(t, f.stockRepo.UpsertItem(&inventory.Item{
		DealerID: "dealer-1", ProductID: product.ID, Quantity: qty,
	}))
	return product
}

func TestCreateSaleComputesInvoiceAndTotals(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 5)

	sale, warranty, err := f.service.CreateSale(f.dealer, billing.SaleParams{
		DealerID:   "dealer-1",
		CustomerID: f.customer.ID,
		ProductID:  bike.ID,
		Quantity:   2,
		Discount:   10000,
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(sale.InvoiceNumber, "INV-20250610-"))
	require.Equal(t, 50000.0, sale.UnitPrice)
	require.Equal(t, billing.DefaultTaxRate, sale.TaxRate)
	// (2*50000 - 10000) * 0.18 = 16200 tax, 106200 total
	require.InDelta(t, 16200.0, sale.TaxAmount, 0.01)
	require.InDelta(t, 106200.0, sale.TotalAmount, 0.01)

	require.Equal(t, sale.InvoiceNumber, warranty.InvoiceNumber)
	require.Equal(t, f.now.AddDate(0, products.DefaultWarrantyMonths, 0), warranty.ExpiryDate)
	require.Equal(t, products.DefaultFreeServices, warranty.FreeServicesTotal)
	require.True(t, warranty.Active)

	item, err := f.stockRepo.GetItem("dealer-1", bike.ID)
	require.NoError(t, err)
	require.Equal(t, 3, item.Quantity)

	txs, err := f.stockRepo.ListTransactions("dealer-1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, inventory.KindSale, txs[0].Kind)
	require.Equal(t, -2, txs[0].Delta)
}

func TestCreateSaleEmployeeSellsForOwnDealer(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 5)

	sale, _, err := f.service.CreateSale(f.employee, billing.SaleParams{
		DealerID:   "dealer-other", // ignored for employees
		CustomerID: f.customer.ID,
		ProductID:  bike.ID,
		Quantity:   1,
	})
	require.NoError(t, err)
	require.Equal(t, "dealer-1", sale.DealerID)
	require.Equal(t, "emp-1", sale.SoldByID)
}

func TestCreateSaleRoleGate(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 5)

	serviceman := &users.User{ID: "svc-1", Role: users.RoleServiceman, DealerID: "dealer-1"}
	_, _, err := f.service.CreateSale(serviceman, billing.SaleParams{
		CustomerID: f.customer.ID, ProductID: bike.ID, Quantity: 1,
	})
	require.ErrorIs(t, err, errors.ErrForbidden)
}

func TestCreateSaleInsufficientInventory(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 1)

	_, _, err := f.service.CreateSale(f.dealer, billing.SaleParams{
		DealerID: "dealer-1", CustomerID: f.customer.ID, ProductID: bike.ID, Quantity: 2,
	})
	require.ErrorIs(t, err, errors.ErrInsufficientStock)
}

func TestCreateSaleNoInventoryRow(t *testing.T) {
	f := setup(t)

	product := &products.Product{Name: "Trail Blazer", Price: 60000, Available: true}
	product.ApplyDefaults()
	require.NoError(t, f.catalogue.Upsert(product))

	_, _, err := f.service.CreateSale(f.dealer, billing.SaleParams{
		DealerID: "dealer-1", CustomerID: f.customer.ID, ProductID: product.ID, Quantity: 1,
	})
	require.ErrorIs(t, err, errors.ErrInventoryNotFound)
}

func TestCreateSaleDiscountOutOfRange(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 5)

	_, _, err := f.service.CreateSale(f.dealer, billing.SaleParams{
		DealerID: "dealer-1", CustomerID: f.customer.ID, ProductID: bike.ID,
		Quantity: 1, Discount: 60000,
	})
	require.Error(t, err)

	// Inventory untouched on validation failure.
	item, err := f.stockRepo.GetItem("dealer-1", bike.ID)
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)
}

func TestCustomerPurchases(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 5)

	_, _, err := f.service.CreateSale(f.dealer, billing.SaleParams{
		DealerID: "dealer-1", CustomerID: f.customer.ID, ProductID: bike.ID, Quantity: 1,
	})
	require.NoError(t, err)

	sales, warranties, err := f.service.CustomerPurchases(f.customer.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Len(t, warranties, 1)
	require.Equal(t, sales[0].InvoiceNumber, warranties[0].InvoiceNumber)
}

func TestSalesDashboard(t *testing.T) {
	f := setup(t)
	bike := f.stockProduct(t, 50000, 5)

	for i := 0; i < 3; i++ {
		_, _, err := f.service.CreateSale(f.dealer, billing.SaleParams{
			DealerID: "dealer-1", CustomerID: f.customer.ID, ProductID: bike.ID, Quantity: 1,
		})
		require.NoError(t, err)
	}

	dashboard, err := f.service.SalesDashboard("dealer-1")
	require.NoError(t, err)
	require.Equal(t, 3, dashboard.TotalSales)
	require.Equal(t, 3, dashboard.UnitsSold)
	require.InDelta(t, 3*50000*1.18, dashboard.Revenue, 0.01)
}

// refusingSaleRepo rejects every sale write.
type refusingSaleRepo struct {
	*fakebillingrepo.FakeSaleRepo
}

func (r *refusingSaleRepo) Upsert(sale *billing.Sale) error {
	return fmt.Errorf("sale store unavailable")
}

// refusingWarrantyRepo rejects every warranty write.
type refusingWarrantyRepo struct {
	*fakebillingrepo.FakeWarrantyRepo
}

func (r *refusingWarrantyRepo) Upsert(warranty *billing.Warranty) error {
	return fmt.Errorf("warranty store unavailable")
}

func TestCreateSaleRestocksWhenSaleWriteFails(t *testing.T) {
	catalogue := fakeproductrepo.NewFakeProductRepo()
	stockRepo := fakeinventoryrepo.NewFakeInventoryRepo()
	stock, err := inventory.NewService(stockRepo)
	require.NoError(t, err)

	service, err := billing.NewService(
		&refusingSaleRepo{FakeSaleRepo: fakebillingrepo.NewFakeSaleRepo()},
		fakebillingrepo.NewFakeWarrantyRepo(),
		catalogue,
		stock,
	)
	require.NoError(t, err)

	bike := &products.Product{Name: "City Cruiser", Price: 50000, Available: true}
	bike.ApplyDefaults()
	require.NoError(t, catalogue.Upsert(bike))
	require.NoError(t, stockRepo.UpsertItem(&inventory.Item{
		DealerID: "dealer-1", ProductID: bike.ID, Quantity: 5,
	}))

	_, _, err = service.CreateSale(&users.User{ID: "dealer-1", Role: users.RoleDealer}, billing.SaleParams{
		DealerID:   "dealer-1",
		CustomerID: "customer-1",
		ProductID:  bike.ID,
		Quantity:   2,
	})
	require.Error(t, err)

	item, err := stockRepo.GetItem("dealer-1", bike.ID)
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)
}

func TestCreateSaleRollsBackWhenWarrantyWriteFails(t *testing.T) {
	catalogue := fakeproductrepo.NewFakeProductRepo()
	stockRepo := fakeinventoryrepo.NewFakeInventoryRepo()
	stock, err := inventory.NewService(stockRepo)
	require.NoError(t, err)

	saleRepo := fakebillingrepo.NewFakeSaleRepo()
	service, err := billing.NewService(
		saleRepo,
		&refusingWarrantyRepo{FakeWarrantyRepo: fakebillingrepo.NewFakeWarrantyRepo()},
		catalogue,
		stock,
	)
	require.NoError(t, err)

	bike := &products.Product{Name: "City Cruiser", Price: 50000, Available: true}
	bike.ApplyDefaults()
	require.NoError(t, catalogue.Upsert(bike))
	require.NoError(t, stockRepo.UpsertItem(&inventory.Item{
		DealerID: "dealer-1", ProductID: bike.ID, Quantity: 5,
	}))

	_, _, err = service.CreateSale(&users.User{ID: "dealer-1", Role: users.RoleDealer}, billing.SaleParams{
		DealerID:   "dealer-1",
		CustomerID: "customer-1",
		ProductID:  bike.ID,
		Quantity:   2,
	})
	require.Error(t, err)

	sales, err := saleRepo.ListAll()
	require.NoError(t, err)
	require.Empty(t, sales)

	item, err := stockRepo.GetItem("dealer-1", bike.ID)
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)
}
