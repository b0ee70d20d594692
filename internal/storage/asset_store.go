package storage

import (
	"context"
	"io"
)

// AssetStore serves the fixed set of static assets: the base template,
// the default share image, and the overlay specials. Keys are relative
// paths, pre-sanitized by the caller.
type AssetStore interface {
	// Open returns a reader for the asset at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if an asset exists.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for an asset, if the store has one;
	// empty string otherwise.
	URL(key string) string
}

// ReadAsset is a convenience that opens and fully reads one asset.
func ReadAsset(ctx context.Context, store AssetStore, key string) ([]byte, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
