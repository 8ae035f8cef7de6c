package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type API struct {
	client  *http.Client
	baseURL string
}

func NewAPI(baseURL string) *API {
	return &API{client: http.DefaultClient, baseURL: baseURL}
}

// NewAPIWithClient is NewAPI with a caller supplied HTTP client.
func NewAPIWithClient(baseURL string, client *http.Client) *API {
	return &API{client: client, baseURL: baseURL}
}

func (a *API) BaseURL() string {
	return a.baseURL
}

func (a *API) Get(ctx context.Context, path string, params url.Values, v any) error {
	if params != nil {
		path += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", a.baseURL, path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return a.do(req, v)
}

// Post sends body as JSON and decodes the JSON response into v.
func (a *API) Post(ctx context.Context, path string, body any, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", a.baseURL, path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, v)
}

func (a *API) do(req *http.Request, v any) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: bad status: %s", req.Method, req.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
