package hotels

import (
	"fmt"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

var mockAreas = []string{"Old Town", "Riverside", "Central Station", "Market District", "Harbor", "Uptown"}

// BuildMockHotels is the deterministic fallback list: count hotels spread
// evenly across the tier's nightly range, oriented around generic city
// areas. No I/O, never fails.
func BuildMockHotels(destination, travelType string, count int, pricing PricingStrategy) []types.Hotel {
	if destination == "" {
		destination = "Destination"
	}
	if travelType == "" {
		travelType = "comfort"
	}
	if count < 1 {
		count = 5
	}
	if pricing == nil {
		pricing = TierPricing{}
	}

	min, max := pricing.NightlyRange(travelType)

	hotels := make([]types.Hotel, 0, count)
	for i := 0; i < count; i++ {
		t := 0.0
		if count > 1 {
			t = float64(i) / float64(count-1)
		}
		nightly := float64(int(min + (max-min)*t))
		area := mockAreas[i%len(mockAreas)]

		hotels = append(hotels, types.Hotel{
			ID:           fmt.Sprintf("hotel_%d", i+1),
			Name:         fmt.Sprintf("%s %s Hotel %d", destination, travelType, i+1),
			Address:      fmt.Sprintf("%s area, %s", area, destination),
			Area:         area,
			Lat:          0.005 * float64(i),
			Lng:          0.005 * float64(i),
			NightlyPrice: types.Money{Amount: nightly, Currency: "USD"},
			Rating:       4.0 + 0.2*float64(i%3),
			URL:          "https://example.com",
			Description:  fmt.Sprintf("Comfortable base in %s for exploring %s.", area, destination),
		})
	}
	return hotels
}
