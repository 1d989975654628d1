// Package geo resolves a coarse visitor location. Every failure is reported
// as an error; callers treat it as an unknown location.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// Location is a best-effort visitor location.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// ErrNotRoutable is returned for addresses that cannot be geolocated.
var ErrNotRoutable = errors.New("geo: address not routable")

// Client queries an ipapi.co compatible endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{}}
}

type ipapiResponse struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Lookup resolves ip to a location.
func (c *Client) Lookup(ctx context.Context, ip string) (Location, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return Location{}, ErrNotRoutable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.BaseURL, addr.String()), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Location{}, fmt.Errorf("geo lookup returned %d", resp.StatusCode)
	}

	var out ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Location{}, fmt.Errorf("decode geo response: %w", err)
	}
	if out.Error {
		return Location{}, fmt.Errorf("geo lookup: %s", out.Reason)
	}
	return Location{Country: out.CountryName, City: out.City}, nil
}
