package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public TheMealDB v1 API with the test key.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mealdb %s: unexpected status %d", e.Endpoint, e.Code)
}

// Client talks to the TheMealDB HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type mealsResponse struct {
	Meals []Meal `json:"meals"`
}

type stubsResponse struct {
	Meals []Stub `json:"meals"`
}

// SearchByName returns the full meals whose name matches name. A miss is an
// empty slice, not an error.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Meal, error) {
	var resp mealsResponse
	if err := c.get(ctx, "search.php", url.Values{"s": {name}}, &resp); err != nil {
		return nil, err
	}
	return resp.Meals, nil
}

// FilterByIngredient returns stubs for meals using the given main ingredient.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]Stub, error) {
	var resp stubsResponse
	if err := c.get(ctx, "filter.php", url.Values{"i": {ingredient}}, &resp); err != nil {
		return nil, err
	}
	return resp.Meals, nil
}

// LookupByID returns the full meal with the given id, or nil when the service
// has none.
func (c *Client) LookupByID(ctx context.Context, id string) (*Meal, error) {
	var resp mealsResponse
	if err := c.get(ctx, "lookup.php", url.Values{"i": {id}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, nil
	}
	return &resp.Meals[0], nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mealdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
