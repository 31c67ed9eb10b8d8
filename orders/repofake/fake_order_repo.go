package fakeorderrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/orders"
	"github.com/google/uuid"
)

var _ orders.DealerOrderRepo = (*FakeDealerOrderRepo)(nil)

type FakeDealerOrderRepo struct {
	orders map[string]*orders.DealerOrder
	lock   sync.RWMutex
}

func NewFakeDealerOrderRepo() *FakeDealerOrderRepo {
	return &FakeDealerOrderRepo{orders: make(map[string]*orders.DealerOrder)}
}

func (or *FakeDealerOrderRepo) Upsert(order *orders.DealerOrder) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.New().String()
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	or.orders[order.ID] = order
	return nil
}

func (or *FakeDealerOrderRepo) Get(id string) (*orders.DealerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	order, ok := or.orders[id]
	if !ok {
		return nil, errors.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (or *FakeDealerOrderRepo) ListByDealer(dealerID string) ([]*orders.DealerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	var matched []*orders.DealerOrder
	for _, order := range or.orders {
		if order.DealerID == dealerID {
			copied := *order
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (or *FakeDealerOrderRepo) ListByStatus(status orders.Status) ([]*orders.DealerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	var matched []*orders.DealerOrder
	for _, order := range or.orders {
		if order.Status == status {
			copied := *order
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (or *FakeDealerOrderRepo) ListAll() ([]*orders.DealerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	all := make([]*orders.DealerOrder, 0, len(or.orders))
	for _, order := range or.orders {
		copied := *order
		all = append(all, &copied)
	}
	sortNewestFirst(all)
	return all, nil
}

func sortNewestFirst(list []*orders.DealerOrder) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

var _ orders.CustomerOrderRepo = (*FakeCustomerOrderRepo)(nil)

type FakeCustomerOrderRepo struct {
	orders map[string]*orders.CustomerOrder
	lock   sync.RWMutex
}

func NewFakeCustomerOrderRepo() *FakeCustomerOrderRepo {
	return &FakeCustomerOrderRepo{orders: make(map[string]*orders.CustomerOrder)}
}

func (or *FakeCustomerOrderRepo) Upsert(order *orders.CustomerOrder) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.New().String()
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	or.orders[order.ID] = order
	return nil
}

func (or *FakeCustomerOrderRepo) Get(id string) (*orders.CustomerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	order, ok := or.orders[id]
	if !ok {
		return nil, errors.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (or *FakeCustomerOrderRepo) ListByCustomer(customerID string) ([]*orders.CustomerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	var matched []*orders.CustomerOrder
	for _, order := range or.orders {
		if order.CustomerID == customerID {
			copied := *order
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (or *FakeCustomerOrderRepo) ListAll() ([]*orders.CustomerOrder, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	all := make([]*orders.CustomerOrder, 0, len(or.orders))
	for _, order := range or.orders {
		copied := *order
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}
