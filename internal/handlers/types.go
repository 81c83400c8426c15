package handlers

import "aerorent-calculator/internal/models"

// EvaluateRequest wraps a full business configuration for one calculation pass.
type EvaluateRequest struct {
	Config models.BusinessConfig `json:"config" binding:"required"`
}

// ProjectionsRequest asks for projections at caller-chosen utilisation levels.
type ProjectionsRequest struct {
	Config       models.BusinessConfig `json:"config" binding:"required"`
	Utilisations []float64             `json:"utilisations" binding:"required,min=1"`
}

// MetricsRequest optionally overrides the base utilisation the investment
// metrics and VAT analysis are evaluated at.
type MetricsRequest struct {
	Config             models.BusinessConfig `json:"config" binding:"required"`
	BaseUtilisationPct *float64              `json:"base_utilisation_pct"`
}
