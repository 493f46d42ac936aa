package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// ImageGenerator turns a prompt into an image reference: a local file path
// or a URL.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageSaver persists generated image bytes and returns their path.
type ImageSaver interface {
	Save(data []byte, ext string) (string, error)
}

// ClipDropConfig configures ClipDropGenerator.
type ClipDropConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

const maxErrorBody = 2048

// ClipDropGenerator posts the prompt to a ClipDrop-style text-to-image
// endpoint. An image response body is saved through the ImageSaver; a JSON
// body is read for an image URL or a base64 payload.
type ClipDropGenerator struct {
	cfg    ClipDropConfig
	saver  ImageSaver
	client *http.Client
}

// NewClipDropGenerator fails with a *ConfigError when no key is set.
func NewClipDropGenerator(cfg ClipDropConfig, saver ImageSaver, client *http.Client) (*ClipDropGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, missingKey("DREAM_IMAGE_API_KEY")
	}
	if cfg.Endpoint == "" {
		return nil, &ConfigError{Setting: "images.endpoint", Reason: "empty"}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ClipDropGenerator{cfg: cfg, saver: saver, client: client}, nil
}

type clipDropJSON struct {
	ImageURL string `json:"image_url"`
	Image    string `json:"image"`
}

func (g *ClipDropGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Provider: "clipdrop", Err: err}
	}
	req.Header.Set("x-api-key", g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &GenerationError{Provider: "clipdrop", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &GenerationError{Provider: "clipdrop", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Provider: "clipdrop", Err: err}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return g.fromJSON(data)
	}
	return g.save(data, extensionFor(mediaType))
}

func (g *ClipDropGenerator) fromJSON(data []byte) (string, error) {
	var out clipDropJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &GenerationError{Provider: "clipdrop", Err: fmt.Errorf("%w: %v", ErrUnusableResponse, err)}
	}
	if out.ImageURL != "" {
		return out.ImageURL, nil
	}
	if out.Image != "" {
		raw, err := base64.StdEncoding.DecodeString(out.Image)
		if err != nil {
			return "", &GenerationError{Provider: "clipdrop", Err: fmt.Errorf("%w: %v", ErrUnusableResponse, err)}
		}
		return g.save(raw, ".png")
	}
	return "", &GenerationError{Provider: "clipdrop", Err: ErrUnusableResponse}
}

func (g *ClipDropGenerator) save(data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", &GenerationError{Provider: "clipdrop", Err: ErrUnusableResponse}
	}
	path, err := g.saver.Save(data, ext)
	if err != nil {
		return "", &GenerationError{Provider: "clipdrop", Err: err}
	}
	return path, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
