// Package analytics aggregates the dashboard views served under
// /analytics. It owns no storage; every number is derived from the domain
// repositories at request time.
package analytics

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/ebikepoint/erp/billing"
	"github.com/ebikepoint/erp/inventory"
	"github.com/ebikepoint/erp/orders"
	"github.com/ebikepoint/erp/products"
	"github.com/ebikepoint/erp/users"
)

// Service derives dashboards from the domain repositories.
type Service struct {
	sales        billing.SaleRepo
	dealerOrders orders.DealerOrderRepo
	stock        inventory.Repo
	catalogue    products.Repo
	userRepo     users.UserRepo
}

// NewService initializes the analytics service with required dependencies.
func NewService(sales billing.SaleRepo, dealerOrders orders.DealerOrderRepo, stock inventory.Repo, catalogue products.Repo, userRepo users.UserRepo) (*Service, error) {
	if sales == nil || dealerOrders == nil || stock == nil || catalogue == nil || userRepo == nil {
		return nil, errors.New("[NewService] all repositories are required")
	}
	return &Service{
		sales:        sales,
		dealerOrders: dealerOrders,
		stock:        stock,
		catalogue:    catalogue,
		userRepo:     userRepo,
	}, nil
}

// AdminDashboard is the system-wide summary shown to admins.
type AdminDashboard struct {
	TotalProducts   int     `json:"totalProducts"`
	TotalDealers    int     `json:"totalDealers"`
	TotalCustomers  int     `json:"totalCustomers"`
	PendingOrders   int     `json:"pendingOrders"`
	TotalSales      int     `json:"totalSales"`
	TotalRevenue    float64 `json:"totalRevenue"`
	CentralStock    int     `json:"centralStock"`
	LowStockDealers int     `json:"lowStockDealers"`
}

// Admin builds the admin dashboard.
func (s *Service) Admin() (*AdminDashboard, error) {
	dashboard := &AdminDashboard{}

	catalogue, err := s.catalogue.List(products.Filter{})
	if err != nil {
		return nil, errors.Wrap(err, "[Admin] failed to list products")
	}
	dashboard.TotalProducts = len(catalogue)
	for _, product := range catalogue {
		dashboard.CentralStock += product.Stock
	}

	dealers, err := s.userRepo.ListByRole(users.RoleDealer)
	if err != nil {
		return nil, errors.Wrap(err, "[Admin] failed to list dealers")
	}
	dashboard.TotalDealers = len(dealers)

	customers, err := s.userRepo.ListByRole(users.RoleCustomer)
	if err != nil {
		return nil, errors.Wrap(err, "[Admin] failed to list customers")
	}
	dashboard.TotalCustomers = len(customers)

	pending, err := s.dealerOrders.ListByStatus(orders.StatusPending)
	if err != nil {
		return nil, errors.Wrap(err, "[Admin] failed to list pending orders")
	}
	dashboard.PendingOrders = len(pending)

	sales, err := s.sales.ListAll()
	if err != nil {
		return nil, errors.Wrap(err, "[Admin] failed to list sales")
	}
	dashboard.TotalSales = len(sales)
	for _, sale := range sales {
		dashboard.TotalRevenue += sale.TotalAmount
	}

	items, err := s.stock.ListAll()
	if err != nil {
		return nil, errors.Wrap(err, "[Admin] failed to list inventory")
	}
	lowDealers := map[string]bool{}
	for _, item := range items {
		if item.LowStock() {
			lowDealers[item.DealerID] = true
		}
	}
	dashboard.LowStockDealers = len(lowDealers)

	return dashboard, nil
}

// DealerDashboard is the per-dealer summary.
type DealerDashboard struct {
	TotalSales    int     `json:"totalSales"`
	Revenue       float64 `json:"revenue"`
	StockOnHand   int     `json:"stockOnHand"`
	LowStockItems int     `json:"lowStockItems"`
	PendingOrders int     `json:"pendingOrders"`
	StaffCount    int     `json:"staffCount"`
}

// Dealer builds the dashboard for one dealer.
func (s *Service) Dealer(dealerID string) (*DealerDashboard, error) {
	dashboard := &DealerDashboard{}

	sales, err := s.sales.ListByDealer(dealerID)
	if err != nil {
		return nil, errors.Wrap(err, "[Dealer] failed to list sales")
	}
	dashboard.TotalSales = len(sales)
	for _, sale := range sales {
		dashboard.Revenue += sale.TotalAmount
	}

	items, err := s.stock.ListByDealer(dealerID)
	if err != nil {
		return nil, errors.Wrap(err, "[Dealer] failed to list inventory")
	}
	for _, item := range items {
		dashboard.StockOnHand += item.Quantity
		if item.LowStock() {
			dashboard.LowStockItems++
		}
	}

	dealerOrders, err := s.dealerOrders.ListByDealer(dealerID)
	if err != nil {
		return nil, errors.Wrap(err, "[Dealer] failed to list orders")
	}
	for _, order := range dealerOrders {
		if order.Status == orders.StatusPending {
			dashboard.PendingOrders++
		}
	}

	staff, err := s.userRepo.ListByDealer(dealerID)
	if err != nil {
		return nil, errors.Wrap(err, "[Dealer] failed to list staff")
	}
	dashboard.StaffCount = len(staff)

	return dashboard, nil
}

// ProductSales is one row of the sales-by-product report.
type ProductSales struct {
	ProductID string  `json:"productId"`
	Units     int     `json:"units"`
	Revenue   float64 `json:"revenue"`
}

// MonthlySales is one row of the sales-by-month report.
type MonthlySales struct {
	Month   string  `json:"month"` // yyyy-mm
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}

// SalesReport is the sales analytics view. A dealerID narrows it to one
// dealer; empty covers all dealers.
type SalesReport struct {
	ByProduct []ProductSales `json:"byProduct"`
	ByMonth   []MonthlySales `json:"byMonth"`
}

// Sales builds the sales report.
func (s *Service) Sales(dealerID string) (*SalesReport, error) {
	var (
		sales []*billing.Sale
		err   error
	)
	if dealerID == "" {
		sales, err = s.sales.ListAll()
	} else {
		sales, err = s.sales.ListByDealer(dealerID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Sales] failed to list sales")
	}

	byProduct := map[string]*ProductSales{}
	byMonth := map[string]*MonthlySales{}
	for _, sale := range sales {
		product := byProduct[sale.ProductID]
		if product == nil {
			product = &ProductSales{ProductID: sale.ProductID}
			byProduct[sale.ProductID] = product
		}
		product.Units += sale.Quantity
		product.Revenue += sale.TotalAmount

		monthKey := sale.CreatedAt.Format("2006-01")
		month := byMonth[monthKey]
		if month == nil {
			month = &MonthlySales{Month: monthKey}
			byMonth[monthKey] = month
		}
		month.Units += sale.Quantity
		month.Revenue += sale.TotalAmount
	}

	report := &SalesReport{ByProduct: []ProductSales{}, ByMonth: []MonthlySales{}}
	for _, row := range byProduct {
		report.ByProduct = append(report.ByProduct, *row)
	}
	sort.Slice(report.ByProduct, func(i, j int) bool {
		return report.ByProduct[i].Revenue > report.ByProduct[j].Revenue
	})
	for _, row := range byMonth {
		report.ByMonth = append(report.ByMonth, *row)
	}
	sort.Slice(report.ByMonth, func(i, j int) bool {
		return report.ByMonth[i].Month < report.ByMonth[j].Month
	})
	return report, nil
}

// InventoryReport is the inventory analytics view.
type InventoryReport struct {
	CentralStock int               `json:"centralStock"`
	DealerStock  map[string]int    `json:"dealerStock"` // dealerID to units on hand
	LowStock     []*inventory.Item `json:"lowStock"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// Inventory builds the inventory report across all dealers.
func (s *Service) Inventory() (*InventoryReport, error) {
	report := &InventoryReport{
		DealerStock: map[string]int{},
		LowStock:    []*inventory.Item{},
		GeneratedAt: time.Now(),
	}

	catalogue, err := s.catalogue.List(products.Filter{})
	if err != nil {
		return nil, errors.Wrap(err, "[Inventory] failed to list products")
	}
	for _, product := range catalogue {
		report.CentralStock += product.Stock
	}

	items, err := s.stock.ListAll()
	if err != nil {
		return nil, errors.Wrap(err, "[Inventory] failed to list inventory")
	}
	for _, item := range items {
		report.DealerStock[item.DealerID] += item.Quantity
		if item.LowStock() {
			report.LowStock = append(report.LowStock, item)
		}
	}
	return report, nil
}
