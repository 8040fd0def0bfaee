package tripplan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

func routeStops(names ...string) []types.Block {
	var blocks []types.Block
	for i, name := range names {
		blocks = append(blocks, types.Block{
			Section: types.BlockOrder[i%len(types.BlockOrder)],
			Options: []types.Option{{Name: name, Lat: 21.0 + float64(i)*0.01, Lng: 105.8}},
		})
	}
	return blocks
}

func TestOptimizeRouteReordersByModelOrder(t *testing.T) {
	client := &scriptedClient{respond: func(prompt string) string {
		if strings.Contains(prompt, "routing expert") {
			return `{"order": ["temple of literature", "Hoan Kiem Lake", "Dong Xuan Market"]}`
		}
		return ""
	}}
	svc := testService(client)

	stops := routeStops("Hoan Kiem Lake", "Dong Xuan Market", "Temple of Literature")
	out := svc.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		Hotel: &types.Hotel{Name: "Old Quarter Hotel", Lat: 21.03, Lng: 105.85},
		Stops: stops,
	})

	require.Len(t, out, 3)
	assert.Equal(t, "Temple of Literature", out[0].Options[0].Name)
	assert.Equal(t, "Hoan Kiem Lake", out[1].Options[0].Name)
	assert.Equal(t, "Dong Xuan Market", out[2].Options[0].Name)
}

func TestOptimizeRouteKeepsOriginalOnGarbage(t *testing.T) {
	client := &scriptedClient{respond: func(string) string { return "not json at all" }}
	svc := testService(client)

	stops := routeStops("Hoan Kiem Lake", "Dong Xuan Market")
	out := svc.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		Hotel: &types.Hotel{Name: "Old Quarter Hotel"},
		Stops: stops,
	})
	assert.Equal(t, stops, out)
}

func TestOptimizeRouteKeepsOriginalOnUnknownNames(t *testing.T) {
	client := &scriptedClient{respond: func(string) string {
		return `{"order": ["Somewhere Else", "Not A Stop"]}`
	}}
	svc := testService(client)

	stops := routeStops("Hoan Kiem Lake", "Dong Xuan Market")
	out := svc.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		Hotel: &types.Hotel{Name: "Old Quarter Hotel"},
		Stops: stops,
	})
	assert.Equal(t, stops, out)
}

func TestOptimizeRouteNilClient(t *testing.T) {
	svc := testService(nil)

	stops := routeStops("Hoan Kiem Lake")
	out := svc.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		Hotel: &types.Hotel{Name: "Old Quarter Hotel"},
		Stops: stops,
	})
	assert.Equal(t, stops, out)
}