package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

// OpenAIImageConfig configures OpenAIImageGenerator.
type OpenAIImageConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIImageGenerator uses the OpenAI Images API, asking for a base64
// payload that is saved locally.
type OpenAIImageGenerator struct {
	client *openai.Client
	cfg    OpenAIImageConfig
	saver  ImageSaver
}

// NewOpenAIImageGenerator fails with a *ConfigError when no key is set.
func NewOpenAIImageGenerator(cfg OpenAIImageConfig, saver ImageSaver) (*OpenAIImageGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, missingKey("DREAM_IMAGE_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.ImageModelDallE3)
	}
	return &OpenAIImageGenerator{client: NewOpenAIClient(cfg.APIKey, cfg.BaseURL), cfg: cfg, saver: saver}, nil
}

func (g *OpenAIImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	res, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.cfg.Model),
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		genErr := &GenerationError{Provider: "openai", Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			genErr.StatusCode = apiErr.StatusCode
			genErr.Body = apiErr.Message
		}
		return "", genErr
	}
	if len(res.Data) == 0 {
		return "", &GenerationError{Provider: "openai", Err: ErrUnusableResponse}
	}

	img := res.Data[0]
	if img.B64JSON != "" {
		raw, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return "", &GenerationError{Provider: "openai", Err: fmt.Errorf("%w: %v", ErrUnusableResponse, err)}
		}
		path, err := g.saver.Save(raw, ".png")
		if err != nil {
			return "", &GenerationError{Provider: "openai", Err: err}
		}
		return path, nil
	}
	if img.URL != "" {
		return img.URL, nil
	}
	return "", &GenerationError{Provider: "openai", Err: ErrUnusableResponse}
}
