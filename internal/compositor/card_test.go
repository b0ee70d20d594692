package compositor

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rudrodip/whatyouwant/internal/domain"
)

func TestEscapeCaption(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cold coffee", want: "cold coffee"},
		{name: "ampersand", in: "tom & jerry", want: "tom &amp; jerry"},
		{name: "angle brackets", in: "<b>bold</b>", want: "&lt;b&gt;bold&lt;/b&gt;"},
		{name: "script tag", in: `<script>alert(1)</script>`, want: "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{name: "already escaped stays literal", in: "&amp;", want: "&amp;amp;"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCaption(tt.in); got != tt.want {
				t.Errorf("EscapeCaption(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShareCard_EscapesQuery(t *testing.T) {
	comp, _ := newTestCompositor(t, CanvasWidth, CanvasHeight)

	query := `<script>alert("x")</script> & more`
	svg, err := comp.ShareCard(context.Background(), query, &domain.ResolvedAsset{
		Kind:  domain.AssetGlyph,
		Glyph: "🔥",
	})
	if err != nil {
		t.Fatalf("share card: %v", err)
	}

	if strings.Contains(svg, "<script>") {
		t.Error("raw script tag leaked into markup")
	}
	if !strings.Contains(svg, "&lt;script&gt;") {
		t.Error("query was not escaped")
	}
	if !strings.Contains(svg, "&amp; more") {
		t.Error("ampersand was not escaped")
	}
}

func TestShareCard_Layout(t *testing.T) {
	comp, _ := newTestCompositor(t, CanvasWidth, CanvasHeight)

	svg, err := comp.ShareCard(context.Background(), "capybara", &domain.ResolvedAsset{
		Kind: domain.AssetRemote,
		URL:  "https://images.example.com/t.jpg?a=1&b=2",
	})
	if err != nil {
		t.Fatalf("share card: %v", err)
	}

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not a complete svg document")
	}
	if !strings.Contains(svg, fmt.Sprintf(`width="%d" height="%d"`, CanvasWidth, CanvasHeight)) {
		t.Error("canvas dimensions missing")
	}
	if !strings.Contains(svg, fmt.Sprintf(`x="%d" y="%d" width="%d" height="%d"`, OverlayLeft, OverlayTop, OverlaySize, OverlaySize)) {
		t.Error("overlay region missing")
	}
	if !strings.Contains(svg, "Yeh lo tumhare liye") || !strings.Contains(svg, "le aya hun") {
		t.Error("caption lines missing")
	}
	if !strings.Contains(svg, "capybara") {
		t.Error("query line missing")
	}
	// Query string in the href must be attribute-escaped.
	if !strings.Contains(svg, "t.jpg?a=1&amp;b=2") {
		t.Error("remote url was not escaped")
	}
	if strings.Contains(svg, "a=1&b=2") {
		t.Error("raw ampersand leaked into attribute")
	}

	// The base template is embedded, never referenced by path.
	if !strings.Contains(svg, "data:image/png;base64,") {
		t.Error("base template not embedded")
	}
}

func TestShareCard_StoredAssetEmbedded(t *testing.T) {
	comp, dir := newTestCompositor(t, CanvasWidth, CanvasHeight)
	writeTestPNG(t, filepath.Join(dir, "overlay.png"), 50, 50, color.RGBA{R: 255, A: 255})

	svg, err := comp.ShareCard(context.Background(), "red", &domain.ResolvedAsset{
		Kind: domain.AssetStored,
		Key:  "overlay.png",
	})
	if err != nil {
		t.Fatalf("share card: %v", err)
	}

	// Two embedded images: base plus overlay.
	if strings.Count(svg, "data:image/png;base64,") != 2 {
		t.Errorf("embedded image count = %d, want 2", strings.Count(svg, "data:image/png;base64,"))
	}
}
