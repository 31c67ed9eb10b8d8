package fakebillingrepo

import (
	"sort"
	"sync"

	"github.com/ebikepoint/erp/billing"
	"github.com/ebikepoint/erp/internal/errors"
	"github.com/google/uuid"
)

var _ billing.SaleRepo = (*FakeSaleRepo)(nil)

type FakeSaleRepo struct {
	sales      map[string]*billing.Sale
	invoiceIds map[string]string // invoice number to sale id
	lock       sync.RWMutex
}

func NewFakeSaleRepo() *FakeSaleRepo {
	return &FakeSaleRepo{
		sales:      make(map[string]*billing.Sale),
		invoiceIds: make(map[string]string),
	}
}

func (sr *FakeSaleRepo) Upsert(sale *billing.Sale) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	sr.sales[sale.ID] = sale
	sr.invoiceIds[sale.InvoiceNumber] = sale.ID
	return nil
}

func (sr *FakeSaleRepo) Delete(id string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sale, ok := sr.sales[id]
	if !ok {
		return errors.ErrSaleNotFound
	}
	delete(sr.invoiceIds, sale.InvoiceNumber)
	delete(sr.sales, id)
	return nil
}

func (sr *FakeSaleRepo) Get(id string) (*billing.Sale, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	sale, ok := sr.sales[id]
	if !ok {
		return nil, errors.ErrSaleNotFound
	}
	copied := *sale
	return &copied, nil
}

func (sr *FakeSaleRepo) GetByInvoice(invoiceNumber string) (*billing.Sale, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	id, ok := sr.invoiceIds[invoiceNumber]
	if !ok {
		return nil, errors.ErrSaleNotFound
	}
	copied := *sr.sales[id]
	return &copied, nil
}

func (sr *FakeSaleRepo) ListByDealer(dealerID string) ([]*billing.Sale, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	var matched []*billing.Sale
	for _, sale := range sr.sales {
		if sale.DealerID == dealerID {
			copied := *sale
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (sr *FakeSaleRepo) ListByCustomer(customerID string) ([]*billing.Sale, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	var matched []*billing.Sale
	for _, sale := range sr.sales {
		if sale.CustomerID == customerID {
			copied := *sale
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (sr *FakeSaleRepo) ListAll() ([]*billing.Sale, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	all := make([]*billing.Sale, 0, len(sr.sales))
	for _, sale := range sr.sales {
		copied := *sale
		all = append(all, &copied)
	}
	sortNewestFirst(all)
	return all, nil
}

func sortNewestFirst(list []*billing.Sale) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

var _ billing.WarrantyRepo = (*FakeWarrantyRepo)(nil)

type FakeWarrantyRepo struct {
	warranties map[string]*billing.Warranty // keyed by invoice number
	lock       sync.RWMutex
}

func NewFakeWarrantyRepo() *FakeWarrantyRepo {
	return &FakeWarrantyRepo{warranties: make(map[string]*billing.Warranty)}
}

func (wr *FakeWarrantyRepo) Upsert(warranty *billing.Warranty) error {
	wr.lock.Lock()
	defer wr.lock.Unlock()

	if warranty.ID == "" {
		warranty.ID = uuid.New().String()
	}
	wr.warranties[warranty.InvoiceNumber] = warranty
	return nil
}

func (wr *FakeWarrantyRepo) GetByInvoice(invoiceNumber string) (*billing.Warranty, error) {
	wr.lock.RLock()
	defer wr.lock.RUnlock()

	warranty, ok := wr.warranties[invoiceNumber]
	if !ok {
		return nil, errors.ErrWarrantyNotFound
	}
	copied := *warranty
	return &copied, nil
}

func (wr *FakeWarrantyRepo) ListByCustomer(customerID string) ([]*billing.Warranty, error) {
	wr.lock.RLock()
	defer wr.lock.RUnlock()

	var matched []*billing.Warranty
	for _, warranty := range wr.warranties {
		if warranty.CustomerID == customerID {
			copied := *warranty
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].InvoiceNumber < matched[j].InvoiceNumber })
	return matched, nil
}
