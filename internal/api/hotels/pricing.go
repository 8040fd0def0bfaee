package hotels

import "strings"

// PricingStrategy maps a travel tier to a plausible nightly price range.
// It is pluggable so a market-data-backed implementation can replace the
// static tiers without touching the service.
type PricingStrategy interface {
	NightlyRange(travelType string) (min, max float64)
}

// TierPricing is the default strategy: fixed USD ranges per tier.
type TierPricing struct{}

func (TierPricing) NightlyRange(travelType string) (float64, float64) {
	switch strings.ToLower(strings.TrimSpace(travelType)) {
	case "economy", "budget", "low":
		return 60, 160
	case "premium", "high":
		return 280, 600
	case "luxury":
		return 800, 2000
	default: // comfort
		return 140, 260
	}
}
