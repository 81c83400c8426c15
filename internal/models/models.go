package models

import (
	"fmt"
)

// Rental duration tiers. The weekend tier is modeled as a 2-day rental.
const (
	DailyTierDays   = 1.0
	WeekendTierDays = 2.0
	WeeklyTierDays  = 7.0
)

// RentalMixError reports a rental mix whose percentages do not sum to 100.
type RentalMixError struct {
	Total float64
}

func (e *RentalMixError) Error() string {
	return fmt.Sprintf("rental mix percentages add up to %.1f%%, must equal 100%%", e.Total)
}

// TierPricing holds the hire price per rental-duration tier for one drone model.
type TierPricing struct {
	Daily   float64 `json:"daily" binding:"min=0"`
	Weekend float64 `json:"weekend" binding:"min=0"`
	Weekly  float64 `json:"weekly" binding:"min=0"`
}

// DroneModel describes one drone model in the fleet: how many units are
// purchased, what each costs, and the pricing at the three hire tiers.
type DroneModel struct {
	Name     string      `json:"name" binding:"required"`
	Quantity int         `json:"quantity" binding:"min=0"`
	UnitCost float64     `json:"unit_cost" binding:"min=0"`
	Pricing  TierPricing `json:"pricing"`
}

// AverageRevenuePerDay blends the model's three tier prices by the rental mix.
func (m DroneModel) AverageRevenuePerDay(mix RentalMix) float64 {
	return m.Pricing.Daily*mix.Daily/100 +
		m.Pricing.Weekend*mix.Weekend/100 +
		m.Pricing.Weekly*mix.Weekly/100
}

// AccessoryCost is a one-time accessory purchase. Amount is either a lump sum
// or, when PerUnit is set, a per-drone rate multiplied by the fleet size.
type AccessoryCost struct {
	Name    string  `json:"name" binding:"required"`
	Amount  float64 `json:"amount" binding:"min=0"`
	PerUnit bool    `json:"per_unit"`
}

// CostItem is a named cost line. Used for one-time setup costs (legal fees,
// website build) and for annual operational costs; the set of names is
// caller-defined, not fixed.
type CostItem struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"min=0"`
}

// AdditionalCost is a user-added ad-hoc one-time spend with a free-text note.
type AdditionalCost struct {
	Amount float64 `json:"amount" binding:"min=0"`
	Note   string  `json:"note"`
}

// RentalMix is the assumed percentage split of bookings across the three
// hire tiers. The three fields must sum to exactly 100.
type RentalMix struct {
	Daily   float64 `json:"daily" binding:"min=0,max=100"`
	Weekend float64 `json:"weekend" binding:"min=0,max=100"`
	Weekly  float64 `json:"weekly" binding:"min=0,max=100"`
}

func (m RentalMix) Total() float64 {
	return m.Daily + m.Weekend + m.Weekly
}

// Validate enforces the sums-to-100 invariant. This is the engine's one hard
// precondition; all other numeric validation belongs to the input collaborator.
func (m RentalMix) Validate() error {
	if m.Total() != 100 {
		return &RentalMixError{Total: m.Total()}
	}
	return nil
}

// AverageRentalDays is the mix-weighted mean rental duration in days,
// derived from the live mix rather than any fixed default split.
func (m RentalMix) AverageRentalDays() float64 {
	return (m.Daily*DailyTierDays + m.Weekend*WeekendTierDays + m.Weekly*WeeklyTierDays) / 100
}

// VariableCosts are the per-rental-day cost parameters.
type VariableCosts struct {
	ShippingPerRental  float64 `json:"shipping_per_rental" binding:"min=0"`
	PackagingPerRental float64 `json:"packaging_per_rental" binding:"min=0"`
	ProcessingFeePct   float64 `json:"processing_fee_pct" binding:"min=0,max=100"`
}

// TaxParams carries the VAT parameters for the modeled jurisdiction. An
// absent block means the caller wants the server defaults; an explicit
// zero rate means an unregistered business, so the two are kept distinct.
type TaxParams struct {
	VATRatePct            float64 `json:"vat_rate_pct" binding:"min=0,max=100"`
	RegistrationThreshold float64 `json:"registration_threshold" binding:"min=0"`
}

// BusinessConfig is the immutable snapshot of all user-supplied inputs for
// one calculation pass. The engine only ever reads a fully-formed snapshot;
// the input collaborator owns any mutation between evaluations.
type BusinessConfig struct {
	Models          []DroneModel     `json:"models" binding:"required,dive"`
	Accessories     []AccessoryCost  `json:"accessories" binding:"dive"`
	Setup           []CostItem       `json:"setup" binding:"dive"`
	Operational     []CostItem       `json:"operational" binding:"dive"`
	Mix             RentalMix        `json:"mix"`
	Variable        VariableCosts    `json:"variable"`
	AdditionalCosts []AdditionalCost `json:"additional_costs" binding:"dive"`
	Tax             *TaxParams       `json:"tax,omitempty"`
}

// TotalDrones is the fleet size across all models.
func (c *BusinessConfig) TotalDrones() int {
	total := 0
	for _, m := range c.Models {
		total += m.Quantity
	}
	return total
}

// AdditionalTotal sums the ad-hoc one-time costs.
func (c *BusinessConfig) AdditionalTotal() float64 {
	total := 0.0
	for _, a := range c.AdditionalCosts {
		total += a.Amount
	}
	return total
}
