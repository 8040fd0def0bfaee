package placesearch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
)

type recordedSearch struct {
	query string
	opts  textSearchOptions
}

type stubPlaces struct {
	searches  []recordedSearch
	searchFn  func(query string, opts textSearchOptions) ([]googlePlace, error)
	detailsFn func(placeID string) (*googleDetails, error)
}

func (s *stubPlaces) TextSearch(_ context.Context, query string, opts textSearchOptions) ([]googlePlace, error) {
	s.searches = append(s.searches, recordedSearch{query: query, opts: opts})
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(query, opts)
}

func (s *stubPlaces) Details(_ context.Context, placeID, _ string) (*googleDetails, error) {
	if s.detailsFn == nil {
		return &googleDetails{}, nil
	}
	return s.detailsFn(placeID)
}

func (s *stubPlaces) Photo(context.Context, string, int) (*http.Response, error) {
	return nil, nil
}

type stubCompletions struct {
	prompts   []string
	params    []completions.Params
	responses []string
}

func (s *stubCompletions) Complete(_ context.Context, prompt string, params completions.Params) string {
	s.prompts = append(s.prompts, prompt)
	s.params = append(s.params, params)
	if len(s.responses) == 0 {
		return ""
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp
}

func gplace(id, name, addr string, rating float64, reviews int, photo string) googlePlace {
	var p googlePlace
	p.PlaceID = id
	p.Name = name
	p.FormattedAddress = addr
	p.Rating = rating
	p.UserRatingsTotal = reviews
	p.Geometry.Location.Lat = 21.03
	p.Geometry.Location.Lng = 105.85
	if photo != "" {
		p.Photos = []googlePhoto{{PhotoReference: photo}}
	}
	return p
}

func newSearchService(places *stubPlaces, client completions.Client) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(places, client, DefaultConfig(), logger)
}

func TestWaitEstimate(t *testing.T) {
	tests := []struct {
		name    string
		rating  float64
		reviews int
		want    int
	}{
		{"unknown place", 0, 0, 8},
		{"average spot", 3.0, 50, 8},
		{"good spot with traffic", 4.5, 600, 20},
		{"popular favourite", 4.8, 1200, 30},
		{"review cap applies", 5.0, 100000, 35},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, waitEstimate(tc.rating, tc.reviews))
		})
	}
}

func TestSearchCapsResultsAndMapsFields(t *testing.T) {
	places := &stubPlaces{searchFn: func(string, textSearchOptions) ([]googlePlace, error) {
		var many []googlePlace
		for i := 0; i < 10; i++ {
			many = append(many, gplace("id", "Pho Thin", "13 Lo Duc, Hanoi", 4.6, 2100, "ref123"))
		}
		return many, nil
	}}
	svc := newSearchService(places, nil)

	resp := svc.Search(context.Background(), SearchRequest{Query: "pho", Location: "Hanoi"})
	require.Len(t, resp.Places, 8)
	require.Len(t, resp.AIDetails, 8)

	first := resp.Places[0]
	assert.Equal(t, "Pho Thin", first.Name)
	assert.Equal(t, "13 Lo Duc, Hanoi", first.Address)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.6, *first.Rating)
	assert.Equal(t, "ref123", first.PhotoRef)
	assert.Equal(t, 21.03, first.Coordinates.Latitude)

	assert.Equal(t, "Pho Thin", resp.AIDetails[0].NameEn)
	assert.Equal(t, "pho in Hanoi", places.searches[0].query)
}

func TestSearchFallbackSummaryWithoutModel(t *testing.T) {
	places := &stubPlaces{searchFn: func(string, textSearchOptions) ([]googlePlace, error) {
		return []googlePlace{
			gplace("1", "PhoLove", "Hanoi", 4.7, 120, ""),
			gplace("2", "Pho 10", "Hanoi", 4.4, 0, ""),
		}, nil
	}}
	svc := newSearchService(places, nil)

	resp := svc.Search(context.Background(), SearchRequest{Query: "pho", Location: "Hanoi"})
	assert.Contains(t, resp.AISummaryEn, "Top picks include **PhoLove** (4.7/5 from 120 reviews)")
	assert.Contains(t, resp.AISummaryEn, "**Pho 10** (4.4/5)")
	assert.Equal(t, resp.AISummaryEn, resp.AISummaryVi)
}

func TestSearchPlacesOutage(t *testing.T) {
	places := &stubPlaces{searchFn: func(string, textSearchOptions) ([]googlePlace, error) {
		return nil, assert.AnError
	}}
	svc := newSearchService(places, nil)

	resp := svc.Search(context.Background(), SearchRequest{Query: "pho", Location: "Hanoi"})
	assert.Empty(t, resp.Places)
	assert.Equal(t, "No AI summary available.", resp.AISummaryEn)
	assert.Equal(t, resp.AISummaryEn, resp.AISummaryVi)
}

func TestSearchTranslatesEnglishSummary(t *testing.T) {
	places := &stubPlaces{searchFn: func(string, textSearchOptions) ([]googlePlace, error) {
		return []googlePlace{gplace("1", "PhoLove", "Hanoi", 4.7, 120, "")}, nil
	}}
	client := &stubCompletions{responses: []string{
		"**PhoLove** (4.7/5 from 120 reviews) leads the pack.",
		"**PhoLove** (4.7/5 từ 120 lượt đánh giá) dẫn đầu.",
	}}
	svc := newSearchService(places, client)

	resp := svc.Search(context.Background(), SearchRequest{Query: "pho", Location: "Hanoi", Lang: "vi"})
	assert.Equal(t, "**PhoLove** (4.7/5 from 120 reviews) leads the pack.", resp.AISummaryEn)
	assert.Equal(t, "**PhoLove** (4.7/5 từ 120 lượt đánh giá) dẫn đầu.", resp.AISummaryVi)

	require.Len(t, client.prompts, 2)
	// The translation pass receives the English paragraph verbatim.
	assert.Equal(t, resp.AISummaryEn, client.prompts[1])
	assert.Contains(t, client.params[1].System, "Vietnamese")
}

func TestSearchFallsBackToDirectVietnamese(t *testing.T) {
	places := &stubPlaces{searchFn: func(string, textSearchOptions) ([]googlePlace, error) {
		return []googlePlace{gplace("1", "PhoLove", "Hanoi", 4.7, 120, "")}, nil
	}}
	client := &stubCompletions{responses: []string{
		"**PhoLove** leads the pack.",
		"", // translation fails
		"**PhoLove** dẫn đầu với hương vị đậm đà.",
	}}
	svc := newSearchService(places, client)

	resp := svc.Search(context.Background(), SearchRequest{Query: "pho", Location: "Hanoi", Lang: "vi"})
	assert.Equal(t, "**PhoLove** dẫn đầu với hương vị đậm đà.", resp.AISummaryVi)

	require.Len(t, client.prompts, 3)
	assert.True(t, strings.Contains(client.prompts[2], "tiếng Việt"))
}

func TestResolveBiasesAroundDestination(t *testing.T) {
	city := gplace("city", "Hanoi", "Hanoi, Vietnam", 0, 0, "")
	city.Geometry.Location.Lat = 21.0278
	city.Geometry.Location.Lng = 105.8342

	hotel := gplace("ChIJhotel", "Sofitel Legend Metropole", "15 Ngo Quyen, Hanoi", 4.7, 9800, "photoref")
	three := 3
	hotel.PriceLevel = &three

	places := &stubPlaces{
		searchFn: func(query string, opts textSearchOptions) ([]googlePlace, error) {
			if query == "Hanoi" {
				return []googlePlace{city}, nil
			}
			return []googlePlace{hotel}, nil
		},
		detailsFn: func(string) (*googleDetails, error) {
			d := &googleDetails{
				InternationalPhoneNumber: "+84 24 3826 6919",
				Website:                  "https://example.com",
			}
			d.OpeningHours.WeekdayText = []string{"Monday: Open 24 hours"}
			return d, nil
		},
	}
	svc := newSearchService(places, nil)

	resolved, err := svc.Resolve(context.Background(), ResolveRequest{
		Query:    "Metropole",
		Location: "Hanoi",
		Language: "en",
		Type:     "hotel",
	})
	require.NoError(t, err)

	require.Len(t, places.searches, 2)
	biased := places.searches[1]
	assert.Equal(t, "Metropole in Hanoi", biased.query)
	assert.Equal(t, 21.0278, biased.opts.Lat)
	assert.Equal(t, resolveBiasM, biased.opts.RadiusMeters)
	assert.Equal(t, "lodging", biased.opts.PlaceType)

	assert.Equal(t, "ChIJhotel", resolved.PlaceID)
	assert.Equal(t, "+84 24 3826 6919", resolved.Phone)
	assert.Equal(t, "https://example.com", resolved.Website)
	require.NotNil(t, resolved.PriceLevel)
	assert.Equal(t, 3, *resolved.PriceLevel)
	assert.Equal(t, []string{"Monday: Open 24 hours"}, resolved.OpeningHours)
	assert.Equal(t, "photoref", resolved.PhotoRef)
}

func TestResolveNoResults(t *testing.T) {
	places := &stubPlaces{}
	svc := newSearchService(places, nil)

	_, err := svc.Resolve(context.Background(), ResolveRequest{Query: "nowhere"})
	require.ErrorIs(t, err, ErrNoResults)
}
