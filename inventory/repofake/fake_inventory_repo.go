package fakeinventoryrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/inventory"
	"github.com/google/uuid"
)

var _ inventory.Repo = (*FakeInventoryRepo)(nil)

type FakeInventoryRepo struct {
	items        map[string]*inventory.Item // keyed dealerID+"/"+productID
	transactions []*inventory.Transaction
	lock         sync.RWMutex
}

func NewFakeInventoryRepo() *FakeInventoryRepo {
	return &FakeInventoryRepo{items: make(map[string]*inventory.Item)}
}

func itemKey(dealerID, productID string) string {
	return dealerID + "/" + productID
}

func (ir *FakeInventoryRepo) UpsertItem(item *inventory.Item) error {
	ir.lock.Lock()
	defer ir.lock.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.UpdatedAt = time.Now()
	ir.items[itemKey(item.DealerID, item.ProductID)] = item
	return nil
}

func (ir *FakeInventoryRepo) GetItem(dealerID, productID string) (*inventory.Item, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	item, ok := ir.items[itemKey(dealerID, productID)]
	if !ok {
		return nil, errors.ErrInventoryNotFound
	}
	copied := *item
	return &copied, nil
}

func (ir *FakeInventoryRepo) ListByDealer(dealerID string) ([]*inventory.Item, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	var matched []*inventory.Item
	for _, item := range ir.items {
		if item.DealerID == dealerID {
			copied := *item
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ProductID < matched[j].ProductID })
	return matched, nil
}

func (ir *FakeInventoryRepo) ListAll() ([]*inventory.Item, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	all := make([]*inventory.Item, 0, len(ir.items))
	for _, item := range ir.items {
		copied := *item
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DealerID != all[j].DealerID {
			return all[i].DealerID < all[j].DealerID
		}
		return all[i].ProductID < all[j].ProductID
	})
	return all, nil
}

func (ir *FakeInventoryRepo) RecordTransaction(tx *inventory.Transaction) error {
	ir.lock.Lock()
	defer ir.lock.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	ir.transactions = append(ir.transactions, tx)
	return nil
}

func (ir *FakeInventoryRepo) ListTransactions(dealerID string) ([]*inventory.Transaction, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	var matched []*inventory.Transaction
	for _, tx := range ir.transactions {
		if tx.DealerID == dealerID {
			copied := *tx
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}
