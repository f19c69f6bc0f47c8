// Package postal resolves Indian postal codes through the public
// postalpincode.in API.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound means the code is well-formed but unknown to the API.
var ErrNotFound = errors.New("postal: code not found")

// ErrBadCode means the code is not a six-digit pincode.
var ErrBadCode = errors.New("postal: code must be six digits")

// Office is one delivery post office serving a pincode.
type Office struct {
	Name     string `json:"name"`
	Branch   string `json:"branchType"`
	District string `json:"district"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.postalpincode.in"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Name       string `json:"Name"`
		BranchType string `json:"BranchType"`
		District   string `json:"District"`
		State      string `json:"State"`
		Country    string `json:"Country"`
	} `json:"PostOffice"`
}

// Lookup returns the post offices serving the pincode.
func (c *Client) Lookup(ctx context.Context, code string) ([]Office, error) {
	if !validCode(code) {
		return nil, ErrBadCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+code, nil)
	if err != nil {
		return nil, fmt.Errorf("postal: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postal: lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postal: api returned status %d", resp.StatusCode)
	}

	// The API wraps the payload in a one-element array.
	var payload []apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("postal: decode response: %w", err)
	}
	if len(payload) == 0 || payload[0].Status != "Success" || len(payload[0].PostOffice) == 0 {
		return nil, ErrNotFound
	}

	offices := make([]Office, 0, len(payload[0].PostOffice))
	for _, po := range payload[0].PostOffice {
		offices = append(offices, Office{
			Name:     po.Name,
			Branch:   po.BranchType,
			District: po.District,
			State:    po.State,
			Country:  po.Country,
		})
	}
	return offices, nil
}

func validCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
