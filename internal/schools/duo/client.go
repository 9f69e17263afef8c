// Package duo fetches school records from the DUO open-data API.
package duo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sector resource IDs in the DUO datastore.
var Resources = []Resource{
	{Sector: "PO", ResourceID: "dcc9c9a5-6d01-410b-967f-810557588ba4"},
	{Sector: "VO", ResourceID: "5187f8d5-ff9c-4284-8e06-4311f0354956"},
	{Sector: "MBO", ResourceID: "1a946297-a7ca-48d5-9ae8-19ad73bf8176"},
}

// Resource maps an education sector to its DUO datastore resource.
type Resource struct {
	Sector     string
	ResourceID string
}

// Record is one school row. DUO field names vary per dataset, so rows
// stay schemaless.
type Record map[string]any

// Client calls the DUO datastore_search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a DUO client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchResponse struct {
	Result struct {
		Records []Record `json:"records"`
	} `json:"result"`
}

// FetchSector returns the schools of one sector, filtered to a gemeente.
// The datastore filter support varies per resource, so it walks down a
// fallback chain: structured filter, then free-text search, then an
// unfiltered fetch with local filtering. When local filtering matches
// nothing, the unfiltered records are returned as-is.
func (c *Client) FetchSector(ctx context.Context, resourceID, gemeente string) ([]Record, error) {
	filters, _ := json.Marshal(map[string]string{"GEMEENTE": gemeente})

	resp, err := c.search(ctx, url.Values{
		"resource_id": {resourceID},
		"filters":     {string(filters)},
		"limit":       {"1000"},
	})
	if err == nil && resp.StatusCode == http.StatusConflict {
		resp.Body.Close()
		resp, err = c.search(ctx, url.Values{
			"resource_id": {resourceID},
			"q":           {gemeente},
			"limit":       {"1000"},
		})
	}
	if err == nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		resp.Body.Close()
		resp, err = c.search(ctx, url.Values{
			"resource_id": {resourceID},
			"limit":       {"1000"},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("duo search %s: %w", resourceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("duo search %s: status %d", resourceID, resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode duo response: %w", err)
	}

	records := result.Result.Records
	filtered := filterGemeente(records, gemeente)
	if len(filtered) > 0 {
		return filtered, nil
	}
	return records, nil
}

func (c *Client) search(ctx context.Context, params url.Values) (*http.Response, error) {
	endpoint := c.baseURL + "/api/action/datastore_search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func filterGemeente(records []Record, gemeente string) []Record {
	needle := strings.ToLower(gemeente)
	var filtered []Record
	for _, r := range records {
		value := firstString(r, "GEMEENTE", "gemeente", "Gemeente")
		if strings.Contains(strings.ToLower(value), needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func firstString(r Record, keys ...string) string {
	for _, key := range keys {
		if value, ok := r[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
