package service

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rudrodip/whatyouwant/internal/domain"
	"github.com/rudrodip/whatyouwant/internal/logger"
)

// Classifier maps a raw query to a classification result.
type Classifier interface {
	Classify(ctx context.Context, query string) (*domain.ClassificationResult, error)
}

// AssetResolver turns a classification into a renderable asset.
type AssetResolver interface {
	Resolve(ctx context.Context, result *domain.ClassificationResult) (*domain.ResolvedAsset, error)
}

// Renderer produces final meme bytes and markup from a resolved asset.
type Renderer interface {
	Render(ctx context.Context, caption string, asset *domain.ResolvedAsset) ([]byte, error)
	RenderDataURI(ctx context.Context, caption string, asset *domain.ResolvedAsset) (string, error)
	ShareCard(ctx context.Context, caption string, asset *domain.ResolvedAsset) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// MemeService orchestrates one generation request end to end:
// classify, resolve, render, and record telemetry off the hot path.
type MemeService struct {
	classifier Classifier
	resolver   AssetResolver
	renderer   Renderer
	sink       *TelemetrySink
	cache      *gocache.Cache
	log        *logger.Logger
}

// MemeConfig holds configuration for the meme service.
type MemeConfig struct {
	// CacheTTL bounds how long classifications are reused for an
	// identical query. Zero or negative keeps them until restart.
	CacheTTL time.Duration
}

// GenerateRequest carries one meme request through the service.
type GenerateRequest struct {
	Query    string
	ClientIP string
	Referrer string
}

// RenderResult is a rendered meme ready to stream to a client.
type RenderResult struct {
	Data        []byte
	ContentType string
}

// NewMemeService creates a new meme service.
func NewMemeService(classifier Classifier, resolver AssetResolver, renderer Renderer, sink *TelemetrySink, cfg *MemeConfig, log *logger.Logger) *MemeService {
	ttl := gocache.NoExpiration
	if cfg != nil && cfg.CacheTTL > 0 {
		ttl = cfg.CacheTTL
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &MemeService{
		classifier: classifier,
		resolver:   resolver,
		renderer:   renderer,
		sink:       sink,
		cache:      gocache.New(ttl, 10*time.Minute),
		log:        log,
	}
}

// Generate produces a meme URL for the query: a remote URL when the
// classification already points at a hosted image, a PNG data URI
// otherwise.
func (s *MemeService) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	result, err := s.classify(ctx, req.Query)
	if err != nil {
		return "", err
	}
	s.record(req, result)

	asset, err := s.resolver.Resolve(ctx, result)
	if err != nil {
		return "", fmt.Errorf("failed to resolve asset: %w", err)
	}

	if asset.Kind == domain.AssetRemote && asset.Direct {
		return asset.URL, nil
	}
	if asset.Kind == domain.AssetRemote && result.Type == domain.TypeImage {
		return asset.URL, nil
	}

	uri, err := s.renderer.RenderDataURI(ctx, req.Query, asset)
	if err != nil {
		return "", fmt.Errorf("failed to render meme: %w", err)
	}
	return uri, nil
}

// Render produces meme bytes for streaming. Direct images are proxied
// as-is, everything else is composited onto the base template.
func (s *MemeService) Render(ctx context.Context, req *GenerateRequest) (*RenderResult, error) {
	result, err := s.classify(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	s.record(req, result)

	asset, err := s.resolver.Resolve(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset: %w", err)
	}

	if asset.Direct {
		data, contentType, err := s.renderer.Fetch(ctx, asset.URL)
		if err != nil {
			return nil, err
		}
		if contentType == "" {
			contentType = "image/png"
		}
		return &RenderResult{Data: data, ContentType: contentType}, nil
	}

	data, err := s.renderer.Render(ctx, req.Query, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to render meme: %w", err)
	}
	return &RenderResult{Data: data, ContentType: "image/png"}, nil
}

// Card produces the SVG share card for the query.
func (s *MemeService) Card(ctx context.Context, req *GenerateRequest) (string, error) {
	result, err := s.classify(ctx, req.Query)
	if err != nil {
		return "", err
	}
	s.record(req, result)

	asset, err := s.resolver.Resolve(ctx, result)
	if err != nil {
		return "", fmt.Errorf("failed to resolve asset: %w", err)
	}
	return s.renderer.ShareCard(ctx, req.Query, asset)
}

// classify returns the cached classification for a query, calling the
// classifier only on a miss. Identical queries share one result.
func (s *MemeService) classify(ctx context.Context, query string) (*domain.ClassificationResult, error) {
	key := "meme:" + query
	if cached, found := s.cache.Get(key); found {
		if result, ok := cached.(*domain.ClassificationResult); ok {
			return result, nil
		}
	}

	result, err := s.classifier.Classify(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to classify query: %w", err)
	}
	s.cache.SetDefault(key, result)

	s.log.WithFields(logger.Fields{
		logger.FieldQuery:      query,
		logger.FieldOutputType: string(result.Type),
	}).Debug("query classified")
	return result, nil
}

func (s *MemeService) record(req *GenerateRequest, result *domain.ClassificationResult) {
	if s.sink == nil {
		return
	}
	s.sink.Record(RequestEvent{
		Query:      req.Query,
		OutputType: string(result.Type),
		Output:     result.Output,
		ClientIP:   req.ClientIP,
		Referrer:   req.Referrer,
	})
}
