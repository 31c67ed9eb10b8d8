package orders_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/inventory"
	fakeinventoryrepo "github.com/ebikepoint/erp/inventory/repofake"
	"github.com/ebikepoint/erp/orders"
	fakeorderrepo "github.com/ebikepoint/erp/orders/repofake"
	"github.com/ebikepoint/erp/products"
	fakeproductrepo "github.com/ebikepoint/erp/products/repofake"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service   *orders.Service
	catalogue *fakeproductrepo.FakeProductRepo
	stockRepo *fakeinventoryrepo.FakeInventoryRepo
	stock     *inventory.Service
	now       time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()

	catalogue := fakeproductrepo.NewFakeProductRepo()
	stockRepo := fakeinventoryrepo.NewFakeInventoryRepo()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	stock, err := inventory.NewService(stockRepo, inventory.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	service, err := orders.NewService(
		fakeorderrepo.NewFakeDealerOrderRepo(),
		fakeorderrepo.NewFakeCustomerOrderRepo(),
		catalogue,
		stock,
		orders.WithNowTime(func() time.Time { return now }),
	)
	require.NoError(t, err)

	return &fixture{service: service, catalogue: catalogue, stockRepo: stockRepo, stock: stock, now: now}
}

func (f *fixture) addProduct(t *testing.T, name string, price float64, stock int) *products.Product {
	t.Helper()
	product := &products.Product{Name: name, Price: price, Stock: stock, Available: true}
	product.ApplyDefaults()
	require.NoError(t, f.catalogue.Upsert(product))
	return product
}

func TestCreateDealerOrderPricesFromCatalogue(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)

	order, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 3},
	}, "restock")
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, order.Status)
	require.Equal(t, 45000.0, order.Items[0].UnitPrice)
	require.Equal(t, 135000.0, order.TotalAmount)
}

func TestCreateDealerOrderRejectsOverCommit(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 2)

	_, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 3},
	}, "")
	require.ErrorIs(t, err, errors.ErrInsufficientStock)
}

func TestApproveMovesStockToDealer(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)

	order, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 4},
	}, "")
	require.NoError(t, err)

	approved, err := f.service.Approve(order.ID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, orders.StatusApproved, approved.Status)
	require.Equal(t, "admin-1", approved.ApprovedBy)
	require.Equal(t, f.now, *approved.ApprovedAt)
	require.Equal(t, f.now.Add(orders.DeliveryLeadTime), *approved.ExpectedDelivery)

	remaining, err := f.catalogue.Get(bike.ID)
	require.NoError(t, err)
	require.Equal(t, 6, remaining.Stock)

	item, err := f.stockRepo.GetItem("dealer-1", bike.ID)
	require.NoError(t, err)
	require.Equal(t, 4, item.Quantity)

	txs, err := f.stockRepo.ListTransactions("dealer-1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, inventory.KindOrderApproval, txs[0].Kind)
	require.Equal(t, 4, txs[0].Delta)
}

func TestApproveOnlyPendingOrders(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)

	order, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 1},
	}, "")
	require.NoError(t, err)

	_, err = f.service.Approve(order.ID, "admin-1")
	require.NoError(t, err)

	_, err = f.service.Approve(order.ID, "admin-1")
	require.ErrorIs(t, err, errors.ErrInvalidTransition)
}

func TestApproveReverifiesStock(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 5)

	order, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 5},
	}, "")
	require.NoError(t, err)

	// Stock drained between placement and approval.
	require.NoError(t, f.catalogue.AdjustStock(bike.ID, -3))

	_, err = f.service.Approve(order.ID, "admin-1")
	require.ErrorIs(t, err, errors.ErrInsufficientStock)

	reloaded, err := f.service.GetDealerOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, reloaded.Status)
}

func TestRejectRecordsReason(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)

	order, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 2},
	}, "")
	require.NoError(t, err)

	rejected, err := f.service.Reject(order.ID, "admin-1", "credit hold")
	require.NoError(t, err)
	require.Equal(t, orders.StatusRejected, rejected.Status)
	require.Equal(t, "credit hold", rejected.RejectionReason)

	// Stock untouched.
	reloaded, err := f.catalogue.Get(bike.ID)
	require.NoError(t, err)
	require.Equal(t, 10, reloaded.Stock)
}

func TestShippedAndDeliveredTransitions(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)

	order, err := f.service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: bike.ID, Quantity: 1},
	}, "")
	require.NoError(t, err)

	_, err = f.service.MarkShipped(order.ID)
	require.ErrorIs(t, err, errors.ErrInvalidTransition)

	_, err = f.service.Approve(order.ID, "admin-1")
	require.NoError(t, err)

	shipped, err := f.service.MarkShipped(order.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusShipped, shipped.Status)

	delivered, err := f.service.MarkDelivered(order.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusDelivered, delivered.Status)
}

func TestCustomerOrderLifecycle(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)

	order, err := f.service.CreateCustomerOrder("customer-1", bike.ID, 2, "12 Hill Road, Pune")
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, order.Status)
	require.Equal(t, 90000.0, order.TotalAmount)

	_, err = f.service.UpdateCustomerOrderStatus(order.ID, orders.StatusDelivered)
	require.ErrorIs(t, err, errors.ErrInvalidTransition)

	_, err = f.service.UpdateCustomerOrderStatus(order.ID, orders.StatusApproved)
	require.NoError(t, err)
	_, err = f.service.UpdateCustomerOrderStatus(order.ID, orders.StatusShipped)
	require.NoError(t, err)
	final, err := f.service.UpdateCustomerOrderStatus(order.ID, orders.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, orders.StatusDelivered, final.Status)
}

func TestCustomerOrderUnavailableProduct(t *testing.T) {
	f := setup(t)
	bike := f.addProduct(t, "City Cruiser", 45000, 10)
	bike.Available = false
	require.NoError(t, f.catalogue.Upsert(bike))

	_, err := f.service.CreateCustomerOrder("customer-1", bike.ID, 1, "")
	require.ErrorIs(t, err, errors.ErrInsufficientStock)
}

// refusingInventoryRepo rejects item writes for one product id.
type refusingInventoryRepo struct {
	*fakeinventoryrepo.FakeInventoryRepo
	refuseProductID string
}

func (r *refusingInventoryRepo) UpsertItem(item *inventory.Item) error {
	if item.ProductID == r.refuseProductID {
		return fmt.Errorf("inventory store unavailable")
	}
	return r.FakeInventoryRepo.UpsertItem(item)
}

func TestApproveFailureRestoresStock(t *testing.T) {
	stockRepo := &refusingInventoryRepo{FakeInventoryRepo: fakeinventoryrepo.NewFakeInventoryRepo()}
	catalogue := fakeproductrepo.NewFakeProductRepo()
	stock, err := inventory.NewService(stockRepo)
	require.NoError(t, err)

	service, err := orders.NewService(
		fakeorderrepo.NewFakeDealerOrderRepo(),
		fakeorderrepo.NewFakeCustomerOrderRepo(),
		catalogue,
		stock,
	)
	require.NoError(t, err)

	cruiser := &products.Product{Name: "City Cruiser", Price: 45000, Stock: 10, Available: true}
	cruiser.ApplyDefaults()
	require.NoError(t, catalogue.Upsert(cruiser))
	blazer := &products.Product{Name: "Trail Blazer", Price: 60000, Stock: 8, Available: true}
	blazer.ApplyDefaults()
	require.NoError(t, catalogue.Upsert(blazer))
	stockRepo.refuseProductID = blazer.ID

	order, err := service.CreateDealerOrder("dealer-1", []orders.Item{
		{ProductID: cruiser.ID, Quantity: 4},
		{ProductID: blazer.ID, Quantity: 2},
	}, "")
	require.NoError(t, err)

	_, err = service.Approve(order.ID, "admin-1")
	require.Error(t, err)

	restored, err := catalogue.Get(cruiser.ID)
	require.NoError(t, err)
	require.Equal(t, 10, restored.Stock)
	restored, err = catalogue.Get(blazer.ID)
	require.NoError(t, err)
	require.Equal(t, 8, restored.Stock)

	item, err := stockRepo.GetItem("dealer-1", cruiser.ID)
	require.NoError(t, err)
	require.Equal(t, 0, item.Quantity)

	reloaded, err := service.GetDealerOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, reloaded.Status)
}
