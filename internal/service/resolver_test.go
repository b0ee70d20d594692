package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rudrodip/whatyouwant/internal/domain"
)

type fakeSearcher struct {
	url   string
	err   error
	calls int
}

func (f *fakeSearcher) TopImageURL(ctx context.Context, term string) (string, error) {
	f.calls++
	return f.url, f.err
}

func TestResolver_Resolve(t *testing.T) {
	searcher := &fakeSearcher{url: "https://images.example.com/thumb.jpg"}
	r := NewResolver(searcher)

	tests := []struct {
		name   string
		result *domain.ClassificationResult
		want   domain.ResolvedAsset
	}{
		{
			name:   "image with absolute url",
			result: &domain.ClassificationResult{Type: domain.TypeImage, Output: "https://cdn.example.com/meme.png"},
			want:   domain.ResolvedAsset{Kind: domain.AssetRemote, URL: "https://cdn.example.com/meme.png"},
		},
		{
			name:   "image with relative path",
			result: &domain.ClassificationResult{Type: domain.TypeImage, Output: "/memes/dank.png"},
			want:   domain.ResolvedAsset{Kind: domain.AssetStored, Key: "memes/dank.png"},
		},
		{
			name:   "direct image",
			result: &domain.ClassificationResult{Type: domain.TypeDirectImage, Output: "https://giphy.example.com/x.gif"},
			want:   domain.ResolvedAsset{Kind: domain.AssetRemote, URL: "https://giphy.example.com/x.gif", Direct: true},
		},
		{
			name:   "overlay",
			result: &domain.ClassificationResult{Type: domain.TypeOverlay, Output: "overlays/sunglasses.png"},
			want:   domain.ResolvedAsset{Kind: domain.AssetStored, Key: "overlays/sunglasses.png"},
		},
		{
			name:   "emoji",
			result: &domain.ClassificationResult{Type: domain.TypeEmoji, Output: "🗿"},
			want:   domain.ResolvedAsset{Kind: domain.AssetGlyph, Glyph: "🗿"},
		},
		{
			name:   "outsource goes through search",
			result: &domain.ClassificationResult{Type: domain.TypeOutsource, Output: "capybara"},
			want:   domain.ResolvedAsset{Kind: domain.AssetRemote, URL: "https://images.example.com/thumb.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.result)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestResolver_ResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		searcher ImageSearcher
		result   *domain.ClassificationResult
	}{
		{
			name:   "direct image must be a url",
			result: &domain.ClassificationResult{Type: domain.TypeDirectImage, Output: "not-a-url"},
		},
		{
			name:   "unknown type",
			result: &domain.ClassificationResult{Type: "video", Output: "x"},
		},
		{
			name:   "outsource without searcher",
			result: &domain.ClassificationResult{Type: domain.TypeOutsource, Output: "cat"},
		},
		{
			name:     "outsource search failure",
			searcher: &fakeSearcher{err: fmt.Errorf("upstream down")},
			result:   &domain.ClassificationResult{Type: domain.TypeOutsource, Output: "cat"},
		},
		{
			name:   "overlay escaping the asset root",
			result: &domain.ClassificationResult{Type: domain.TypeOverlay, Output: "../../etc/passwd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.searcher)
			if _, err := r.Resolve(context.Background(), tt.result); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSanitizeAssetKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain key", raw: "overlays/dog.png", want: "overlays/dog.png"},
		{name: "leading slash stripped", raw: "/overlays/dog.png", want: "overlays/dog.png"},
		{name: "redundant segments cleaned", raw: "overlays//./dog.png", want: "overlays/dog.png"},
		{name: "empty", raw: "", wantErr: true},
		{name: "dot only", raw: ".", wantErr: true},
		{name: "parent traversal", raw: "../secret.png", wantErr: true},
		{name: "nested traversal", raw: "overlays/../../secret.png", wantErr: true},
		{name: "absolute traversal", raw: "/../secret.png", wantErr: true},
		{name: "backslash", raw: `overlays\dog.png`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeAssetKey(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got key %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
