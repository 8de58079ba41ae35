package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/resilience"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

var ErrPlaceNotFound = errors.New("no geocoding results")

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.Place, error)
}

// NominatimClient resolves free-text place names. Nominatim's usage policy
// allows at most one request per second.
type NominatimClient struct {
	baseURL string
	country string
	client  *resilience.Client
	limiter *rate.Limiter
}

// NewNominatimClient appends country to every query when non-empty.
func NewNominatimClient(baseURL, country string, client *resilience.Client) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimClient{
		baseURL: baseURL,
		country: country,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

func (g *NominatimClient) Geocode(ctx context.Context, query string) (models.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Place{}, &models.ValidationError{Field: "query", Message: "cannot be empty"}
	}

	u, err := url.Parse(g.baseURL)
	if err != nil {
		return models.Place{}, &models.NetworkError{Source: g.client.Name(), Err: fmt.Errorf("error parsing nominatim url: %w", err)}
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("limit", "1")
	if g.country != "" {
		q.Set("q", query+", "+g.country)
	} else {
		q.Set("q", query)
	}
	u.RawQuery = q.Encode()

	if err := g.limiter.Wait(ctx); err != nil {
		return models.Place{}, &models.NetworkError{Source: g.client.Name(), Err: err}
	}

	var results []nominatimResult
	if err := g.client.GetJSON(ctx, u.String(), nil, &results); err != nil {
		return models.Place{}, err
	}
	if len(results) == 0 {
		return models.Place{}, fmt.Errorf("%w for %q", ErrPlaceNotFound, query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Place{}, &models.NetworkError{Source: g.client.Name(), Err: fmt.Errorf("parsing latitude: %w", err)}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Place{}, &models.NetworkError{Source: g.client.Name(), Err: fmt.Errorf("parsing longitude: %w", err)}
	}

	return models.Place{
		Query:       query,
		DisplayName: results[0].DisplayName,
		Coordinate:  models.Coordinate{Lat: lat, Lon: lon},
	}, nil
}
