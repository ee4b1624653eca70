package image

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

// Finder looks up a representative photo URL for a car. An empty URL
// with a nil error means no image was found.
type Finder interface {
	FindCarImage(ctx context.Context, make, model string, year int) (string, error)
}

// PexelsClient queries the Pexels photo search API. Every failure mode
// (timeout, network, non-2xx, bad payload) is reported as "no image";
// the catalog must never break because a photo provider is down.
type PexelsClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 12 * time.Second},
		baseURL:    pexelsSearchURL,
	}
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Large  string `json:"large"`
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *PexelsClient) FindCarImage(ctx context.Context, make, model string, year int) (string, error) {
	if c.apiKey == "" {
		return "", nil
	}

	terms := []string{make, model}
	if year > 0 {
		terms = append(terms, strconv.Itoa(year))
	}
	terms = append(terms, "car exterior front 3/4")

	params := url.Values{}
	params.Set("query", strings.Join(terms, " "))
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	params.Set("size", "large")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil
	}

	var payload pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", nil
	}
	if len(payload.Photos) == 0 {
		return "", nil
	}
	if u := payload.Photos[0].Src.Large; u != "" {
		return u, nil
	}
	return payload.Photos[0].Src.Medium, nil
}
