package compositor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rudrodip/whatyouwant/internal/domain"
	"github.com/rudrodip/whatyouwant/internal/storage"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// Canvas geometry is fixed: every meme is the same size with the
// overlay anchored at the same spot, whatever the inputs.
const (
	CanvasWidth  = 1010
	CanvasHeight = 730

	OverlaySize = 180
	OverlayLeft = 627
	OverlayTop  = 468

	captionFirstLine = "Yeh lo tumhare liye"
	captionLastLine  = "le aya hun"

	captionSize    = 60
	captionBaseY   = 80
	captionLeading = 55

	glyphSize = 140

	// maxFetchBytes caps remote overlay downloads.
	maxFetchBytes = 10 << 20
)

// Config holds compositor configuration.
type Config struct {
	// BaseImage is the asset-store key of the base template.
	BaseImage string
	// FontPath optionally points at a TTF on disk; Go bold is used
	// when empty.
	FontPath string
}

// Compositor renders the final meme: base template, overlay asset in
// the fixed region, caption text on top.
type Compositor struct {
	assets  storage.AssetStore
	baseKey string
	font    *opentype.Font
	client  *resty.Client
}

// New creates a compositor over the given asset store.
func New(assets storage.AssetStore, cfg *Config) (*Compositor, error) {
	fontBytes := gobold.TTF
	if cfg.FontPath != "" {
		b, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %q: %w", cfg.FontPath, err)
		}
		fontBytes = b
	}

	fnt, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	baseKey := cfg.BaseImage
	if baseKey == "" {
		baseKey = "base.png"
	}

	client := resty.New()
	client.SetTimeout(20 * time.Second)

	return &Compositor{
		assets:  assets,
		baseKey: baseKey,
		font:    fnt,
		client:  client,
	}, nil
}

// Render composites caption and asset onto the base template and
// returns the encoded PNG. The output canvas is always
// CanvasWidth×CanvasHeight.
func (c *Compositor) Render(ctx context.Context, caption string, asset *domain.ResolvedAsset) ([]byte, error) {
	if asset == nil {
		return nil, fmt.Errorf("no resolved asset")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))

	base, err := c.loadBase(ctx)
	if err != nil {
		return nil, err
	}
	if base.Bounds().Dx() == CanvasWidth && base.Bounds().Dy() == CanvasHeight {
		stddraw.Draw(canvas, canvas.Bounds(), base, base.Bounds().Min, stddraw.Src)
	} else {
		draw.CatmullRom.Scale(canvas, canvas.Bounds(), base, base.Bounds(), draw.Src, nil)
	}

	switch asset.Kind {
	case domain.AssetRemote:
		data, _, err := c.Fetch(ctx, asset.URL)
		if err != nil {
			return nil, err
		}
		if err := c.drawOverlay(canvas, data); err != nil {
			return nil, err
		}
	case domain.AssetStored:
		data, err := storage.ReadAsset(ctx, c.assets, asset.Key)
		if err != nil {
			return nil, err
		}
		if err := c.drawOverlay(canvas, data); err != nil {
			return nil, err
		}
	case domain.AssetGlyph:
		if err := c.drawGlyph(canvas, asset.Glyph); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown asset kind %q", asset.Kind)
	}

	if err := c.drawCaption(canvas, caption); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode meme: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDataURI renders and wraps the PNG as a base64 data URI.
func (c *Compositor) RenderDataURI(ctx context.Context, caption string, asset *domain.ResolvedAsset) (string, error) {
	data, err := c.Render(ctx, caption, asset)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Fetch downloads a remote image and returns its bytes and content type.
// Also used by the streaming path to proxy direct images.
func (c *Compositor) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image %q: %w", url, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", fmt.Errorf("failed to fetch image %q: status %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, "", fmt.Errorf("empty image body from %q", url)
	}
	if len(body) > maxFetchBytes {
		return nil, "", fmt.Errorf("image %q exceeds %d bytes", url, maxFetchBytes)
	}
	return body, resp.Header().Get("Content-Type"), nil
}

func (c *Compositor) loadBase(ctx context.Context) (image.Image, error) {
	data, err := storage.ReadAsset(ctx, c.assets, c.baseKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load base template: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base template: %w", err)
	}
	return img, nil
}

// drawOverlay decodes and scales an overlay image into the fixed region.
func (c *Compositor) drawOverlay(canvas *image.RGBA, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode overlay: %w", err)
	}

	region := image.Rect(OverlayLeft, OverlayTop, OverlayLeft+OverlaySize, OverlayTop+OverlaySize)
	draw.CatmullRom.Scale(canvas, region, img, img.Bounds(), draw.Over, nil)
	return nil
}

// drawGlyph renders the emoji variant as text centered in the overlay
// region instead of a raster asset.
func (c *Compositor) drawGlyph(canvas *image.RGBA, glyph string) error {
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    glyphSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create glyph face: %w", err)
	}
	defer face.Close()

	width := font.MeasureString(face, glyph)
	metrics := face.Metrics()

	x := OverlayLeft + (OverlaySize-width.Round())/2
	y := OverlayTop + (OverlaySize+metrics.Ascent.Round()-metrics.Descent.Round())/2

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(glyph)
	return nil
}

// drawCaption renders the three caption lines centered near the top.
func (c *Compositor) drawCaption(canvas *image.RGBA, caption string) error {
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create caption face: %w", err)
	}
	defer face.Close()

	lines := []string{captionFirstLine, caption, captionLastLine}
	y := captionBaseY
	for _, line := range lines {
		width := font.MeasureString(face, line)
		drawer := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P((CanvasWidth-width.Round())/2, y),
		}
		drawer.DrawString(line)
		y += captionLeading
	}
	return nil
}
