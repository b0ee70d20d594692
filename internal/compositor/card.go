package compositor

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rudrodip/whatyouwant/internal/domain"
	"github.com/rudrodip/whatyouwant/internal/storage"
)

var captionEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeCaption escapes caption text for embedding in markup. Queries
// are user input, so raw & < > must never reach the SVG body.
func EscapeCaption(s string) string {
	return captionEscaper.Replace(s)
}

// ShareCard builds an SVG share card with the same layout as the
// rendered meme: base template, overlay region, three caption lines.
func (c *Compositor) ShareCard(ctx context.Context, caption string, asset *domain.ResolvedAsset) (string, error) {
	if asset == nil {
		return "", fmt.Errorf("no resolved asset")
	}

	baseHref, err := c.embeddedAsset(ctx, c.baseKey)
	if err != nil {
		return "", err
	}

	var overlay string
	switch asset.Kind {
	case domain.AssetRemote:
		overlay = fmt.Sprintf(
			`<image href="%s" x="%d" y="%d" width="%d" height="%d" preserveAspectRatio="xMidYMid slice"/>`,
			attrEscaper.Replace(asset.URL), OverlayLeft, OverlayTop, OverlaySize, OverlaySize,
		)
	case domain.AssetStored:
		href, err := c.embeddedAsset(ctx, asset.Key)
		if err != nil {
			return "", err
		}
		overlay = fmt.Sprintf(
			`<image href="%s" x="%d" y="%d" width="%d" height="%d" preserveAspectRatio="xMidYMid slice"/>`,
			href, OverlayLeft, OverlayTop, OverlaySize, OverlaySize,
		)
	case domain.AssetGlyph:
		overlay = fmt.Sprintf(
			`<text x="%d" y="%d" font-size="%d" text-anchor="middle" dominant-baseline="central">%s</text>`,
			OverlayLeft+OverlaySize/2, OverlayTop+OverlaySize/2, glyphSize, EscapeCaption(asset.Glyph),
		)
	default:
		return "", fmt.Errorf("unknown asset kind %q", asset.Kind)
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		CanvasWidth, CanvasHeight, CanvasWidth, CanvasHeight,
	)
	fmt.Fprintf(&b, `<image href="%s" width="%d" height="%d"/>`, baseHref, CanvasWidth, CanvasHeight)
	b.WriteString(overlay)

	lines := []string{captionFirstLine, caption, captionLastLine}
	y := captionBaseY
	for _, line := range lines {
		fmt.Fprintf(&b,
			`<text x="%d" y="%d" font-size="%d" font-weight="bold" text-anchor="middle">%s</text>`,
			CanvasWidth/2, y, captionSize, EscapeCaption(line),
		)
		y += captionLeading
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}

func (c *Compositor) embeddedAsset(ctx context.Context, key string) (string, error) {
	data, err := storage.ReadAsset(ctx, c.assets, key)
	if err != nil {
		return "", fmt.Errorf("failed to load asset %q: %w", key, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
