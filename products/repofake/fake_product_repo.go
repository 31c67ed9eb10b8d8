package fakeproductrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/products"
	"github.com/google/uuid"
)

var _ products.Repo = (*FakeProductRepo)(nil)

type FakeProductRepo struct {
	products map[string]*products.Product
	lock     sync.RWMutex
}

func NewFakeProductRepo() *FakeProductRepo {
	return &FakeProductRepo{products: make(map[string]*products.Product)}
}

func (pr *FakeProductRepo) Upsert(product *products.Product) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	now := time.Now()
	if product.ID == "" {
		product.ID = uuid.New().String()
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	pr.products[product.ID] = product
	return nil
}

func (pr *FakeProductRepo) Delete(id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if _, ok := pr.products[id]; !ok {
		return errors.ErrProductNotFound
	}
	delete(pr.products, id)
	return nil
}

func (pr *FakeProductRepo) Get(id string) (*products.Product, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	product, ok := pr.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (pr *FakeProductRepo) List(filter products.Filter) ([]*products.Product, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	matched := make([]*products.Product, 0, len(pr.products))
	for _, p := range pr.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		if filter.OnlyAvailable && !p.Available {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

func (pr *FakeProductRepo) AdjustStock(id string, delta int) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	product, ok := pr.products[id]
	if !ok {
		return errors.ErrProductNotFound
	}
	if product.Stock+delta < 0 {
		return errors.ErrInsufficientStock
	}
	product.Stock += delta
	product.UpdatedAt = time.Now()
	return nil
}
