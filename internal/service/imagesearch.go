package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
)

// ImageSearchService queries Unsplash for the single top result of a
// search term, behind a read-through cache keyed by term. Cache entries
// are tiny (one URL string) and keys are bounded by distinct terms, so
// the default is to keep them forever; a TTL can be configured for
// deployments that care about thumbnail rot.
type ImageSearchService struct {
	client    *resty.Client
	accessKey string
	baseURL   string
	cache     *gocache.Cache
	ttl       time.Duration
}

// ImageSearchConfig holds configuration for the image search service.
type ImageSearchConfig struct {
	AccessKey string
	BaseURL   string
	// CacheTTL of zero means entries never expire.
	CacheTTL time.Duration
}

// NewImageSearchService creates a new image search service.
func NewImageSearchService(cfg *ImageSearchConfig) *ImageSearchService {
	client := resty.New()
	client.SetHeader("Accept-Version", "v1")
	client.SetTimeout(15 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	return &ImageSearchService{
		client:    client,
		accessKey: cfg.AccessKey,
		baseURL:   baseURL,
		cache:     gocache.New(ttl, 10*time.Minute),
		ttl:       ttl,
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Thumb string `json:"thumb"`
		} `json:"urls"`
	} `json:"results"`
	Errors []string `json:"errors"`
}

// TopImageURL returns the thumbnail URL of the top photo for term,
// serving repeats from the cache without a second external call.
func (s *ImageSearchService) TopImageURL(ctx context.Context, term string) (string, error) {
	cacheKey := "unsplash:" + term
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(string), nil
	}

	var resp unsplashSearchResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Client-ID "+s.accessKey).
		SetQueryParams(map[string]string{
			"query":    term,
			"per_page": "1",
		}).
		SetResult(&resp).
		SetError(&resp).
		Get(s.baseURL + "/search/photos")

	if err != nil {
		return "", fmt.Errorf("image search failed: %w", err)
	}

	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("image search error: %s", resp.Errors[0])
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return "", fmt.Errorf("image search error: status %d", httpResp.StatusCode())
	}

	if len(resp.Results) == 0 {
		return "", fmt.Errorf("no image results for %q", term)
	}

	url := resp.Results[0].URLs.Thumb
	if url == "" {
		return "", fmt.Errorf("empty thumbnail URL for %q", term)
	}

	s.cache.Set(cacheKey, url, s.ttl)

	return url, nil
}
