package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/inventory"
	fakeinventoryrepo "github.com/ebikepoint/erp/inventory/repofake"
)

const (
	testDealerID  = "dealer-1"
	testProductID = "product-1"
)

type fixture struct {
	repo  *fakeinventoryrepo.FakeInventoryRepo
	stock *inventory.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	repo := fakeinventoryrepo.NewFakeInventoryRepo()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	stock, err := inventory.NewService(repo, inventory.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	return &fixture{repo: repo, stock: stock}
}

func (f *fixture) receive(t *testing.T, productID string, quantity int) {
	t.Helper()
	require.NoError(t, f.stock.Receive(testDealerID, productID, quantity, inventory.KindOrderApproval, "admin-1"))
}

func TestLowStockAtDefaultThresholdBoundary(t *testing.T) {
	f := setup(t)
	f.receive(t, "at-threshold", inventory.DefaultLowStockThreshold)
	f.receive(t, "above-threshold", inventory.DefaultLowStockThreshold+1)

	low, err := f.stock.LowStockItems(testDealerID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "at-threshold", low[0].ProductID)
}

func TestLowStockIncludesDepletedItem(t *testing.T) {
	f := setup(t)
	f.receive(t, testProductID, 3)
	require.NoError(t, f.stock.Deduct(testDealerID, testProductID, 3, inventory.KindSale, "emp-1"))

	low, err := f.stock.LowStockItems(testDealerID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, 0, low[0].Quantity)
}

func TestSetThresholdOverridesDefault(t *testing.T) {
	f := setup(t)
	f.receive(t, testProductID, 10)

	item, err := f.stock.SetThreshold(testDealerID, testProductID, 12)
	require.NoError(t, err)
	require.Equal(t, 12, item.LowStockThreshold)

	low, err := f.stock.LowStockItems(testDealerID)
	require.NoError(t, err)
	require.Len(t, low, 1)

	_, err = f.stock.SetThreshold(testDealerID, testProductID, 2)
	require.NoError(t, err)
	low, err = f.stock.LowStockItems(testDealerID)
	require.NoError(t, err)
	require.Empty(t, low)
}

func TestSetThresholdRejectsNegativeAndMissingRow(t *testing.T) {
	f := setup(t)
	f.receive(t, testProductID, 10)

	_, err := f.stock.SetThreshold(testDealerID, testProductID, -1)
	require.Error(t, err)

	_, err = f.stock.SetThreshold(testDealerID, "unknown-product", 3)
	require.ErrorIs(t, err, apperrors.ErrInventoryNotFound)
}
