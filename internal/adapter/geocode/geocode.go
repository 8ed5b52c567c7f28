// Package geocode resolves coordinates into human-readable addresses.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/geo"
)

// ErrNoAddress indicates the lookup succeeded but nothing is known about
// the coordinate.
var ErrNoAddress = errors.New("no address found for coordinate")

// Geocoder is the reverse-geocoding capability consumed by the add flow.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c geo.Coordinate) (string, error)
}

// NominatimClient talks to a Nominatim-compatible reverse geocoding endpoint.
type NominatimClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewNominatim builds a client for the given base URL
// (e.g. https://nominatim.openstreetmap.org).
func NewNominatim(baseURL string, timeout time.Duration, log *zap.Logger) *NominatimClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		Country     string `json:"country"`
		State       string `json:"state"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Suburb      string `json:"suburb"`
		Road        string `json:"road"`
		HouseNumber string `json:"house_number"`
	} `json:"address"`
}

// ReverseGeocode returns a display address assembled from the broadest
// component down to the house number.
func (n *NominatimClient) ReverseGeocode(ctx context.Context, c geo.Coordinate) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", c.Latitude))
	q.Set("lon", fmt.Sprintf("%f", c.Longitude))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "hush/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Error != "" {
		n.log.Debug("geocoder returned no result", zap.String("error", body.Error))
		return "", ErrNoAddress
	}

	addr := assemble(body)
	if addr == "" {
		return "", ErrNoAddress
	}
	return addr, nil
}

func assemble(body reverseResponse) string {
	a := body.Address
	locality := a.City
	if locality == "" {
		locality = a.Town
	}
	if locality == "" {
		locality = a.Village
	}
	parts := []string{a.Country, a.State, locality, a.Suburb, a.Road, a.HouseNumber}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
