package placesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	textSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	detailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"
	photoURL      = "https://maps.googleapis.com/maps/api/place/photo"

	searchTimeout  = 4 * time.Second
	detailsTimeout = 3 * time.Second
)

// googlePlace is the subset of a Places text-search result the API uses.
type googlePlace struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	PriceLevel       *int    `json:"price_level"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Photos []googlePhoto `json:"photos"`
}

type googlePhoto struct {
	PhotoReference string `json:"photo_reference"`
}

func (p googlePlace) photoRef() string {
	if len(p.Photos) > 0 {
		return p.Photos[0].PhotoReference
	}
	return ""
}

type googleDetails struct {
	FormattedPhoneNumber     string `json:"formatted_phone_number"`
	InternationalPhoneNumber string `json:"international_phone_number"`
	Website                  string `json:"website"`
	PriceLevel               *int   `json:"price_level"`
	OpeningHours             struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
}

// textSearchOptions bias or narrow a text search.
type textSearchOptions struct {
	Language string
	// Lat/Lng plus RadiusMeters bias results around a point.
	Lat, Lng     float64
	RadiusMeters int
	PlaceType    string
}

// PlacesAPI is the Google Places surface the search service consumes.
type PlacesAPI interface {
	TextSearch(ctx context.Context, query string, opts textSearchOptions) ([]googlePlace, error)
	Details(ctx context.Context, placeID, language string) (*googleDetails, error)
	Photo(ctx context.Context, ref string, maxWidth int) (*http.Response, error)
}

var _ PlacesAPI = (*GoogleClient)(nil)

// GoogleClient calls the Places web API directly over HTTP.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	// overridable in tests
	searchEndpoint  string
	detailsEndpoint string
	photoEndpoint   string
}

func NewGoogleClient(apiKey string, logger *slog.Logger) *GoogleClient {
	return &GoogleClient{
		apiKey:          apiKey,
		httpClient:      &http.Client{Timeout: searchTimeout},
		logger:          logger,
		searchEndpoint:  textSearchURL,
		detailsEndpoint: detailsURL,
		photoEndpoint:   photoURL,
	}
}

// Configured reports whether an API key is present. Handlers reject
// requests early when it is not.
func (c *GoogleClient) Configured() bool { return c.apiKey != "" }

func (c *GoogleClient) TextSearch(ctx context.Context, query string, opts textSearchOptions) ([]googlePlace, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	if opts.RadiusMeters > 0 {
		params.Set("location", fmt.Sprintf("%f,%f", opts.Lat, opts.Lng))
		params.Set("radius", strconv.Itoa(opts.RadiusMeters))
	}
	if opts.PlaceType != "" {
		params.Set("type", opts.PlaceType)
	}

	var body struct {
		Results []googlePlace `json:"results"`
	}
	if err := c.getJSON(ctx, c.searchEndpoint, params, searchTimeout, &body); err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}
	return body.Results, nil
}

func (c *GoogleClient) Details(ctx context.Context, placeID, language string) (*googleDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("key", c.apiKey)
	if language != "" {
		params.Set("language", language)
	}
	params.Set("fields", "formatted_phone_number,international_phone_number,website,opening_hours,price_level")

	var body struct {
		Result googleDetails `json:"result"`
	}
	if err := c.getJSON(ctx, c.detailsEndpoint, params, detailsTimeout, &body); err != nil {
		return nil, fmt.Errorf("places details: %w", err)
	}
	return &body.Result, nil
}

// Photo fetches a place photo. The caller owns the response body and the
// upstream status code is passed through, so the proxy can relay Google's
// redirected image bytes without exposing the API key.
func (c *GoogleClient) Photo(ctx context.Context, ref string, maxWidth int) (*http.Response, error) {
	params := url.Values{}
	params.Set("photo_reference", ref)
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.photoEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places photo: %w", err)
	}
	return resp, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, endpoint string, params url.Values, timeout time.Duration, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
