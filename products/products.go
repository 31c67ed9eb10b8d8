// Package products holds the e-bike catalogue: the product model with its
// specification, warranty and service-charge sub-documents, and the
// repository interface the storefront reads the catalogue through.
package products

import (
	"fmt"
	"time"
)

// Specs describes the technical specification of an e-bike model.
type Specs struct {
	MotorPowerWatts int     `json:"motorPowerWatts,omitempty"`
	BatteryCapacity string  `json:"batteryCapacity,omitempty"`
	RangeKM         int     `json:"rangeKm,omitempty"`
	TopSpeedKMH     int     `json:"topSpeedKmh,omitempty"`
	ChargingHours   float64 `json:"chargingHours,omitempty"`
	FrameMaterial   string  `json:"frameMaterial,omitempty"`
	WeightKG        float64 `json:"weightKg,omitempty"`
}

// WarrantyTerms is the warranty attached to a product at sale time.
type WarrantyTerms struct {
	Months       int `json:"months"`
	FreeServices int `json:"freeServices"`
}

// ServiceCharge is the price of one paid service visit after the free
// services are used up.
type ServiceCharge struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Product is one catalogue entry. Stock is the central stock held by the
// admin side; dealer-level stock lives in the inventory package.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Category       string          `json:"category"`
	Description    string          `json:"description,omitempty"`
	Price          float64         `json:"price"`
	Stock          int             `json:"stock"`
	Available      bool            `json:"available"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Specs          Specs           `json:"specs"`
	Warranty       WarrantyTerms   `json:"warranty"`
	ServiceCharges []ServiceCharge `json:"serviceCharges,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DefaultWarrantyMonths and DefaultFreeServices apply when a product is
// created without explicit warranty terms.
const (
	DefaultWarrantyMonths = 24
	DefaultFreeServices   = 4
)

// ApplyDefaults fills warranty terms for products created without them.
func (p *Product) ApplyDefaults() {
	if p.Warranty.Months == 0 {
		p.Warranty.Months = DefaultWarrantyMonths
	}
	if p.Warranty.FreeServices == 0 {
		p.Warranty.FreeServices = DefaultFreeServices
	}
}

// Validate checks the fields a catalogue write must carry.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("product price must be positive")
	}
	if p.Stock < 0 {
		return fmt.Errorf("product stock cannot be negative")
	}
	return nil
}
