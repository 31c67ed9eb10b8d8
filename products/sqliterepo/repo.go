// Package sqliterepo persists the product catalogue in SQLite. Nested
// sub-documents (specs, warranty terms, service charges) are stored as JSON
// columns; everything the storefront filters on has its own column.
package sqliterepo

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/products"
)

const productSchema = `
CREATE TABLE IF NOT EXISTS products (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	brand           TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	price           REAL NOT NULL,
	stock           INTEGER NOT NULL DEFAULT 0,
	available       INTEGER NOT NULL DEFAULT 1,
	image_url       TEXT NOT NULL DEFAULT '',
	specs           TEXT NOT NULL DEFAULT '{}',
	warranty        TEXT NOT NULL DEFAULT '{}',
	service_charges TEXT NOT NULL DEFAULT '[]',
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);
`

var _ products.Repo = (*ProductRepo)(nil)

type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo opens (or creates) the catalogue database at path.
func NewProductRepo(path string) (*ProductRepo, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "[NewProductRepo] failed to open database")
	}
	if _, err := db.Exec(productSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "[NewProductRepo] failed to apply schema")
	}
	return &ProductRepo{db: db}, nil
}

// Close releases the underlying database handle.
func (pr *ProductRepo) Close() error {
	return pr.db.Close()
}

func (pr *ProductRepo) Upsert(product *products.Product) error {
	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.New().String()
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	specs, err := json.Marshal(product.Specs)
	if err != nil {
		return errors.Wrap(err, "[Upsert] failed to encode specs")
	}
	warranty, err := json.Marshal(product.Warranty)
	if err != nil {
		return errors.Wrap(err, "[Upsert] failed to encode warranty")
	}
	charges, err := json.Marshal(product.ServiceCharges)
	if err != nil {
		return errors.Wrap(err, "[Upsert] failed to encode service charges")
	}

	_, err = pr.db.Exec(`
		INSERT INTO products
			(id, name, brand, category, description, price, stock, available,
			 image_url, specs, warranty, service_charges, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			category = excluded.category,
			description = excluded.description,
			price = excluded.price,
			stock = excluded.stock,
			available = excluded.available,
			image_url = excluded.image_url,
			specs = excluded.specs,
			warranty = excluded.warranty,
			service_charges = excluded.service_charges,
			updated_at = excluded.updated_at`,
		product.ID, product.Name, product.Brand, product.Category,
		product.Description, product.Price, product.Stock, product.Available,
		product.ImageURL, string(specs), string(warranty), string(charges),
		product.CreatedAt, product.UpdatedAt)
	return errors.Wrap(err, "[Upsert] failed to store product")
}

func (pr *ProductRepo) Delete(id string) error {
	res, err := pr.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "[Delete] failed to delete product")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[Delete] failed to read result")
	}
	if affected == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

func (pr *ProductRepo) Get(id string) (*products.Product, error) {
	row := pr.db.QueryRow(`
		SELECT id, name, brand, category, description, price, stock, available,
		       image_url, specs, warranty, service_charges, created_at, updated_at
		FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (pr *ProductRepo) List(filter products.Filter) ([]*products.Product, error) {
	query := `
		SELECT id, name, brand, category, description, price, stock, available,
		       image_url, specs, warranty, service_charges, created_at, updated_at
		FROM products WHERE 1=1`
	var args []any
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Brand != "" {
		query += ` AND brand = ?`
		args = append(args, filter.Brand)
	}
	if filter.OnlyAvailable {
		query += ` AND available = 1`
	}
	query += ` ORDER BY name`

	rows, err := pr.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "[List] failed to query products")
	}
	defer rows.Close()

	listed := []*products.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, product)
	}
	return listed, errors.Wrap(rows.Err(), "[List] row iteration")
}

func (pr *ProductRepo) AdjustStock(id string, delta int) error {
	res, err := pr.db.Exec(`
		UPDATE products SET stock = stock + ?, updated_at = ?
		WHERE id = ? AND stock + ? >= 0`,
		delta, time.Now().UTC(), id, delta)
	if err != nil {
		return errors.Wrap(err, "[AdjustStock] failed to update stock")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[AdjustStock] failed to read result")
	}
	if affected == 0 {
		if _, err := pr.Get(id); err != nil {
			return err
		}
		return apperrors.ErrInsufficientStock
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*products.Product, error) {
	var (
		product                  products.Product
		specs, warranty, charges string
	)
	err := row.Scan(&product.ID, &product.Name, &product.Brand,
		&product.Category, &product.Description, &product.Price,
		&product.Stock, &product.Available, &product.ImageURL,
		&specs, &warranty, &charges, &product.CreatedAt, &product.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanProduct] failed to scan row")
	}
	if err := json.Unmarshal([]byte(specs), &product.Specs); err != nil {
		return nil, errors.Wrap(err, "[scanProduct] failed to decode specs")
	}
	if err := json.Unmarshal([]byte(warranty), &product.Warranty); err != nil {
		return nil, errors.Wrap(err, "[scanProduct] failed to decode warranty")
	}
	if err := json.Unmarshal([]byte(charges), &product.ServiceCharges); err != nil {
		return nil, errors.Wrap(err, "[scanProduct] failed to decode service charges")
	}
	return &product, nil
}
