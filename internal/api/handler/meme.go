package handler

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rudrodip/whatyouwant/internal/api/middleware"
	"github.com/rudrodip/whatyouwant/internal/service"
	"github.com/rudrodip/whatyouwant/internal/storage"
)

// Query length bounds, counted in runes after trimming.
const (
	minQueryLen = 2
	maxQueryLen = 50
)

const genericFailure = "Failed to generate meme"

// MemeGenerator is the service surface the handlers need.
type MemeGenerator interface {
	Generate(ctx context.Context, req *service.GenerateRequest) (string, error)
	Render(ctx context.Context, req *service.GenerateRequest) (*service.RenderResult, error)
	Card(ctx context.Context, req *service.GenerateRequest) (string, error)
}

// MemeHandler handles meme generation endpoints.
type MemeHandler struct {
	memes        MemeGenerator
	assets       storage.AssetStore
	defaultImage string
}

// NewMemeHandler creates a new meme handler.
func NewMemeHandler(memes MemeGenerator, assets storage.AssetStore, defaultImage string) *MemeHandler {
	if defaultImage == "" {
		defaultImage = "og.png"
	}
	return &MemeHandler{
		memes:        memes,
		assets:       assets,
		defaultImage: defaultImage,
	}
}

type generateRequest struct {
	Query string `json:"query"`
}

type generateResponse struct {
	MemeURL string `json:"meme_url"`
}

// Generate handles POST /api/v1/generate.
func (h *MemeHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	query, ok := validQuery(req.Query)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query must be between 2 and 50 characters",
		})
		return
	}

	memeURL, err := h.memes.Generate(c.Request.Context(), &service.GenerateRequest{
		Query:    query,
		ClientIP: middleware.ClientIP(c),
		Referrer: c.Request.Referer(),
	})
	if err != nil {
		middleware.GetLogger(c).Errorf("Meme generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericFailure})
		return
	}

	c.JSON(http.StatusOK, generateResponse{MemeURL: memeURL})
}

// Og handles GET /api/v1/og. Always answers with an image: the
// rendered meme when a valid query is present, the static default
// otherwise or on any failure.
func (h *MemeHandler) Og(c *gin.Context) {
	query, ok := validQuery(c.Query("query"))
	if !ok {
		h.serveDefault(c)
		return
	}

	result, err := h.memes.Render(c.Request.Context(), &service.GenerateRequest{
		Query:    query,
		ClientIP: middleware.ClientIP(c),
		Referrer: c.Query("ref"),
	})
	if err != nil {
		middleware.GetLogger(c).Errorf("Meme render failed: %v", err)
		h.serveDefault(c)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Card handles GET /api/v1/card and returns the SVG share card.
func (h *MemeHandler) Card(c *gin.Context) {
	query, ok := validQuery(c.Query("query"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query must be between 2 and 50 characters",
		})
		return
	}

	svg, err := h.memes.Card(c.Request.Context(), &service.GenerateRequest{
		Query:    query,
		ClientIP: middleware.ClientIP(c),
		Referrer: c.Query("ref"),
	})
	if err != nil {
		middleware.GetLogger(c).Errorf("Share card failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericFailure})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

func (h *MemeHandler) serveDefault(c *gin.Context) {
	data, err := storage.ReadAsset(c.Request.Context(), h.assets, h.defaultImage)
	if err != nil {
		middleware.GetLogger(c).Errorf("Default image unavailable: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericFailure})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", data)
}

// validQuery trims the raw query and enforces the length bounds.
func validQuery(raw string) (string, bool) {
	query := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(query)
	if n < minQueryLen || n > maxQueryLen {
		return "", false
	}
	return query, true
}
