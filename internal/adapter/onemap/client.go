// Package onemap implements domain.Geocoder against the OneMap Singapore
// address-search API.
package onemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/szting/sgtravel-co2-calculator/internal/domain"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
)

const searchPath = "/commonapi/search"

// Client implements domain.Geocoder using the OneMap search endpoint.
// One query per call, first ranked result only, no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a OneMap search client with a fixed per-call timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve searches OneMap for the address and returns the first ranked
// match. Zero matches, or a first match without a usable coordinate pair,
// yield domain.ErrNotFound; transport and decode faults are returned as
// classified errors for the caller to absorb.
func (c *Client) Resolve(ctx context.Context, address string) (domain.GeocodeResult, error) {
	params := url.Values{
		"searchVal":      {address},
		"returnGeom":     {"Y"},
		"getAddrDetails": {"Y"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+searchPath+"?"+params.Encode(), address)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	c.metrics.GeocodeRequests.WithLabelValues(outcomeLabel(err)).Inc()

	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL, address string) (domain.GeocodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeocodeResult{}, fmt.Errorf("onemap API error: status %d: %s", resp.StatusCode, body)
	}

	var searchResp response
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	if searchResp.Found == 0 || len(searchResp.Results) == 0 {
		return domain.GeocodeResult{}, domain.ErrNotFound
	}

	first := searchResp.Results[0]
	if !first.Latitude.ok || !first.Longitude.ok {
		return domain.GeocodeResult{}, fmt.Errorf("%w: result has no usable coordinate pair", domain.ErrNotFound)
	}
	coord := domain.Coordinate{Lat: first.Latitude.value, Lon: first.Longitude.value}
	if !coord.Valid() {
		return domain.GeocodeResult{}, fmt.Errorf("%w: coordinate out of range (%g, %g)", domain.ErrNotFound, coord.Lat, coord.Lon)
	}

	formatted := first.Address
	if formatted == "" {
		formatted = address
	}

	return domain.GeocodeResult{
		Coordinate:       coord,
		FormattedAddress: formatted,
	}, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// OneMap API response types. LATITUDE and LONGITUDE arrive as quoted
// strings in current responses but have historically been plain numbers, so
// both encodings are accepted.

type response struct {
	Found   int            `json:"found"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Latitude  flexFloat `json:"LATITUDE"`
	Longitude flexFloat `json:"LONGITUDE"`
	Address   string    `json:"ADDRESS"`
}

// flexFloat decodes a JSON number or a numeric string, tracking whether a
// usable value was present. Absent keys, null, empty, and non-numeric
// strings all leave ok false; the zero coordinate must never be mistaken
// for a real location.
type flexFloat struct {
	value float64
	ok    bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = flexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = flexFloat{}
		return nil
	}
	*f = flexFloat{value: v, ok: true}
	return nil
}
