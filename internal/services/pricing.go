package services

import (
	"fmt"
	"math"
	"ride-quote-service/internal/domain"
)

// Linear fare model: base + km * rate, floored at the minimum fare.
type PricingConfig struct {
	Currency    string
	BaseFare    float64
	PricePerKm  float64
	MinimumFare float64
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Currency:    "€",
		BaseFare:    3.0,
		PricePerKm:  0.9,
		MinimumFare: 6.0,
	}
}

type PricingService struct {
	config PricingConfig
}

func NewPricingService(cfg PricingConfig) *PricingService {
	return &PricingService{config: cfg}
}

func (p *PricingService) Config() PricingConfig { return p.config }

// CalculatePrice returns the fare for distanceKm rounded to cents.
// Negative or NaN distances, and distances whose fare is not representable,
// fail with domain.ErrInvalidInput.
func (p *PricingService) CalculatePrice(distanceKm float64) (float64, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return 0, fmt.Errorf("calculate price: distance_km=%v: %w", distanceKm, domain.ErrInvalidInput)
	}

	price := p.config.BaseFare + distanceKm*p.config.PricePerKm
	if price < p.config.MinimumFare {
		price = p.config.MinimumFare
	}

	cents := math.Round(price*100) / 100
	if math.IsInf(cents, 0) || math.IsNaN(cents) {
		return 0, fmt.Errorf("calculate price: distance_km=%v: fare out of range: %w", distanceKm, domain.ErrInvalidInput)
	}

	return cents, nil
}
