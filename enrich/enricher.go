// Package enrich fills in missing track metadata from the iTunes Search API.
// Enrichment is strictly best-effort: callers treat any failure as "no data".
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Metadata is the subset of catalog data the service cares about. Empty
// fields mean the catalog had nothing to offer.
type Metadata struct {
	CoverArtURL  string
	SoundClipURL string
	Genre        string
}

type Enricher interface {
	Enrich(ctx context.Context, artist, title string) (*Metadata, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtworkURL100    string `json:"artworkUrl100"`
		PreviewURL       string `json:"previewUrl"`
		PrimaryGenreName string `json:"primaryGenreName"`
	} `json:"results"`
}

// NewClient builds an enrichment client. The timeout bounds every lookup;
// the rate limiter keeps us under the catalog's unauthenticated quota
// (roughly 20 requests per minute).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(3*time.Second), 5),
	}
}

func (c *Client) Enrich(ctx context.Context, artist, title string) (*Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("term", artist+" "+title)
	q.Set("media", "music")
	q.Set("entity", "song")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog search returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ResultCount == 0 || len(body.Results) == 0 {
		return &Metadata{}, nil
	}

	r := body.Results[0]
	return &Metadata{
		CoverArtURL:  r.ArtworkURL100,
		SoundClipURL: r.PreviewURL,
		Genre:        r.PrimaryGenreName,
	}, nil
}
