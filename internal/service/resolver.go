package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rudrodip/whatyouwant/internal/domain"
)

// ImageSearcher resolves a search term to a single image URL.
type ImageSearcher interface {
	TopImageURL(ctx context.Context, term string) (string, error)
}

// Resolver maps a validated classification to a concrete renderable
// asset. Pure branch over the type tag; the only side effect is the
// outsource search call. A single unresolved result collapses the whole
// request to failure.
type Resolver struct {
	searcher ImageSearcher
}

// NewResolver creates a new resolver backed by the given searcher.
func NewResolver(searcher ImageSearcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Resolve turns a classification into a ResolvedAsset. The input must
// already be validated; an unexpected type here is still an error, never
// a fallback.
func (r *Resolver) Resolve(ctx context.Context, result *domain.ClassificationResult) (*domain.ResolvedAsset, error) {
	switch result.Type {
	case domain.TypeImage:
		// v2 emits absolute URLs; v1 mixed in store-relative paths.
		if isRemoteURL(result.Output) {
			return &domain.ResolvedAsset{Kind: domain.AssetRemote, URL: result.Output}, nil
		}
		key, err := SanitizeAssetKey(result.Output)
		if err != nil {
			return nil, err
		}
		return &domain.ResolvedAsset{Kind: domain.AssetStored, Key: key}, nil

	case domain.TypeDirectImage:
		if !isRemoteURL(result.Output) {
			return nil, fmt.Errorf("direct_image output %q is not a URL", result.Output)
		}
		return &domain.ResolvedAsset{Kind: domain.AssetRemote, URL: result.Output, Direct: true}, nil

	case domain.TypeOverlay:
		key, err := SanitizeAssetKey(result.Output)
		if err != nil {
			return nil, err
		}
		return &domain.ResolvedAsset{Kind: domain.AssetStored, Key: key}, nil

	case domain.TypeEmoji:
		return &domain.ResolvedAsset{Kind: domain.AssetGlyph, Glyph: result.Output}, nil

	case domain.TypeOutsource:
		if r.searcher == nil {
			return nil, fmt.Errorf("no image searcher configured")
		}
		url, err := r.searcher.TopImageURL(ctx, result.Output)
		if err != nil {
			return nil, fmt.Errorf("outsource lookup for %q: %w", result.Output, err)
		}
		return &domain.ResolvedAsset{Kind: domain.AssetRemote, URL: url}, nil

	default:
		return nil, fmt.Errorf("unknown classification type %q", result.Type)
	}
}

// SanitizeAssetKey normalizes a model-supplied relative path into a key
// rooted under the asset store. Keys that would escape the root are
// rejected outright, not repaired.
func SanitizeAssetKey(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty asset path")
	}
	if strings.ContainsRune(raw, '\\') || strings.ContainsRune(raw, 0) {
		return "", fmt.Errorf("invalid asset path %q", raw)
	}

	cleaned := path.Clean(strings.TrimPrefix(raw, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("asset path %q escapes the asset root", raw)
	}

	return cleaned, nil
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
