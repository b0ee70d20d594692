package domain

// OutputType is the closed category tag produced by the classifier.
// The set of valid values depends on the active taxonomy version; the
// constants below are the union across versions.
type OutputType string

const (
	// TypeImage is a known asset URL (v2) or hosted image (v1).
	TypeImage OutputType = "image"
	// TypeDirectImage is a literal remote image returned as-is,
	// bypassing compositing on the streaming path. Introduced in v2.
	TypeDirectImage OutputType = "direct_image"
	// TypeOverlay is a relative key under the static asset store. v1 only.
	TypeOverlay OutputType = "overlay"
	// TypeEmoji is a single glyph rendered as text.
	TypeEmoji OutputType = "emoji"
	// TypeOutsource falls back to a photo-search query.
	TypeOutsource OutputType = "outsource"
)

// ClassificationResult is the validated {type, output} pair extracted
// from model text. Output's meaning depends on Type.
type ClassificationResult struct {
	Type   OutputType `json:"type"`
	Output string     `json:"output"`
}

// AssetKind tells the compositor how to treat a resolved asset.
type AssetKind string

const (
	// AssetRemote is an image fetched from a fully-qualified URL.
	AssetRemote AssetKind = "remote"
	// AssetStored is an image read from the static asset store.
	AssetStored AssetKind = "stored"
	// AssetGlyph is literal text rendered in place of an image.
	AssetGlyph AssetKind = "glyph"
)

// ResolvedAsset is a fully addressable overlay source. Exactly one of
// URL, Key, or Glyph is set depending on Kind. Ephemeral, lives only
// within one request.
type ResolvedAsset struct {
	Kind AssetKind
	// URL is the remote image location for AssetRemote.
	URL string
	// Key is the sanitized asset-store key for AssetStored.
	Key string
	// Glyph is the literal text content for AssetGlyph.
	Glyph string
	// Direct marks assets that short-circuit compositing on the
	// streaming path (direct_image classification).
	Direct bool
}
