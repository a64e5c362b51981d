// Package fetch retrieves source pages for scraping.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/karripar/va-backend-sub000/internal/utils"
)

// maxBodyBytes caps how much HTML is read from a source page.
const maxBodyBytes = 8 << 20

// Client fetches the raw HTML body of admin-configured source pages.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a Client using the provided http.Client, or
// http.DefaultClient when nil.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  "va-destinations/1.0",
	}
}

// FetchHTML performs a GET and returns the body as a string. Any non-200
// response is an upstream failure; there is no retry or partial result.
func (c *Client) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body from %s: %w", url, err)
	}
	return string(body), nil
}
