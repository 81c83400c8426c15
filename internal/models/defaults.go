package models

// DefaultConfig returns the AeroRent UK starting configuration: the fleet,
// cost and pricing figures the calculator ships with before the user edits
// anything.
func DefaultConfig() *BusinessConfig {
	return &BusinessConfig{
		Models: []DroneModel{
			{
				Name:     "DJI Flip",
				Quantity: 3,
				UnitCost: 659,
				Pricing:  TierPricing{Daily: 49, Weekend: 85, Weekly: 165},
			},
			{
				Name:     "DJI Mini 4 Pro",
				Quantity: 1,
				UnitCost: 979,
				Pricing:  TierPricing{Daily: 65, Weekend: 109, Weekly: 210},
			},
		},
		Accessories: []AccessoryCost{
			{Name: "Hard cases", Amount: 50, PerUnit: true},
			{Name: "Extra batteries", Amount: 236},
			{Name: "ND filters", Amount: 180},
			{Name: "SD cards", Amount: 15, PerUnit: true},
		},
		Setup: []CostItem{
			{Name: "Website setup", Amount: 2500},
			{Name: "Legal fees", Amount: 500},
		},
		Operational: []CostItem{
			{Name: "E-commerce platform", Amount: 228},
			{Name: "Domain & hosting", Amount: 30},
			{Name: "Corporate insurance", Amount: 750},
			{Name: "CAA renewal", Amount: 11.79},
			{Name: "Digital marketing", Amount: 6000},
			{Name: "Repairs & maintenance", Amount: 295.60},
			{Name: "Accountant (12 months)", Amount: 600},
			{Name: "Shipping supplies", Amount: 1200},
		},
		Mix: RentalMix{Daily: 40, Weekend: 40, Weekly: 20},
		Variable: VariableCosts{
			ShippingPerRental:  32,
			PackagingPerRental: 3.50,
			ProcessingFeePct:   1.5,
		},
		Tax: &TaxParams{
			VATRatePct:            20,
			RegistrationThreshold: 90000,
		},
	}
}
