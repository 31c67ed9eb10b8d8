package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ebikepoint/erp/analytics"
	"github.com/ebikepoint/erp/attendance"
	fakeattendancerepo "github.com/ebikepoint/erp/attendance/repofake"
	"github.com/ebikepoint/erp/auth"
	"github.com/ebikepoint/erp/billing"
	fakebillingrepo "github.com/ebikepoint/erp/billing/repofake"
	"github.com/ebikepoint/erp/internal/config"
	"github.com/ebikepoint/erp/inventory"
	fakeinventoryrepo "github.com/ebikepoint/erp/inventory/repofake"
	fakenotificationrepo "github.com/ebikepoint/erp/notifications/repofake"
	"github.com/ebikepoint/erp/orders"
	fakeorderrepo "github.com/ebikepoint/erp/orders/repofake"
	"github.com/ebikepoint/erp/products"
	fakeproductrepo "github.com/ebikepoint/erp/products/repofake"
	"github.com/ebikepoint/erp/products/sqliterepo"
	"github.com/ebikepoint/erp/servicing"
	fakerequestrepo "github.com/ebikepoint/erp/servicing/repofake"
	"github.com/ebikepoint/erp/storefront"
	"github.com/ebikepoint/erp/token"
	"github.com/ebikepoint/erp/token/refresh"
	"github.com/ebikepoint/erp/token/refresh/redisrepo"
	fakerefreshrepo "github.com/ebikepoint/erp/token/refresh/repofake"
	"github.com/ebikepoint/erp/users"
	fakeuserrepo "github.com/ebikepoint/erp/users/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	displayAppname(cfg.AppName)

	logger := newLogger(cfg)
	users.HashCost = cfg.Auth.BcryptCost

	handler, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}
	go listenAndServe(server)
	waitForStopSignal()
	return shutdown(server, cfg.HTTP.ShutdownTimeout)
}

func buildServer(cfg *config.AppConfig, logger zerolog.Logger) (*storefront.Server, error) {
	userRepo := fakeuserrepo.NewFakeUserRepo()
	stockRepo := fakeinventoryrepo.NewFakeInventoryRepo()
	saleRepo := fakebillingrepo.NewFakeSaleRepo()
	warrantyRepo := fakebillingrepo.NewFakeWarrantyRepo()
	dealerOrderRepo := fakeorderrepo.NewFakeDealerOrderRepo()
	customerOrderRepo := fakeorderrepo.NewFakeCustomerOrderRepo()

	catalogue, err := newProductRepo(cfg)
	if err != nil {
		return nil, err
	}

	tokens := token.New(cfg.Auth.SigningKey, cfg.Auth.Issuer,
		token.WithAccessTokenExpiry(cfg.Auth.AccessTokenExpiry))
	refreshMgr := refresh.NewManager(newRefreshRepo(cfg), cfg.Auth.RefreshTokenLength, cfg.Auth.RefreshTokenExpiry)

	authService, err := auth.NewService(userRepo, tokens, refreshMgr)
	if err != nil {
		return nil, err
	}
	stock, err := inventory.NewService(stockRepo)
	if err != nil {
		return nil, err
	}
	orderService, err := orders.NewService(dealerOrderRepo, customerOrderRepo, catalogue, stock)
	if err != nil {
		return nil, err
	}
	billingService, err := billing.NewService(saleRepo, warrantyRepo, catalogue, stock)
	if err != nil {
		return nil, err
	}
	servicingService, err := servicing.NewService(fakerequestrepo.NewFakeRequestRepo(), warrantyRepo, catalogue, userRepo)
	if err != nil {
		return nil, err
	}
	attendanceService, err := attendance.NewService(fakeattendancerepo.NewFakeAttendanceRepo())
	if err != nil {
		return nil, err
	}
	analyticsService, err := analytics.NewService(saleRepo, dealerOrderRepo, stockRepo, catalogue, userRepo)
	if err != nil {
		return nil, err
	}

	origins := make([]string, 0)
	for origin := range cfg.HTTP.Origins() {
		origins = append(origins, origin)
	}

	return storefront.New(cfg.AppName, storefront.Deps{
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
	}, logger, storefront.WithAllowedOrigins(origins))
}

// newProductRepo selects the catalogue store: SQLite when a path is
// configured, in-memory otherwise.
func newProductRepo(cfg *config.AppConfig) (products.Repo, error) {
	if cfg.Store.SQLitePath != "" {
		repo, err := sqliterepo.NewProductRepo(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqliterepo.NewProductRepo: %w", err)
		}
		return repo, nil
	}
	return fakeproductrepo.NewFakeProductRepo(), nil
}

// newRefreshRepo selects the refresh token store: Redis when an address is
// configured, in-memory otherwise.
func newRefreshRepo(cfg *config.AppConfig) refresh.Repo {
	if cfg.Store.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		return redisrepo.NewRefreshTokenRepo(client, cfg.Auth.RefreshTokenExpiry)
	}
	return fakerefreshrepo.NewFakeRefreshTokenRepo()
}

func newLogger(cfg *config.AppConfig) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
