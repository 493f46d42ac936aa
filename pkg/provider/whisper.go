package provider

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

// Transcriber converts a recorded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// WhisperConfig configures WhisperTranscriber.
type WhisperConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Timeout  time.Duration
}

// WhisperTranscriber calls the OpenAI transcription endpoint. Calls are not
// retried.
type WhisperTranscriber struct {
	client *openai.Client
	cfg    WhisperConfig
}

// NewWhisperTranscriber fails with a *ConfigError when no key is set.
func NewWhisperTranscriber(cfg WhisperConfig) (*WhisperTranscriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, missingKey("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.AudioModelWhisper1)
	}
	return &WhisperTranscriber{client: NewOpenAIClient(cfg.APIKey, cfg.BaseURL), cfg: cfg}, nil
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", &TranscriptionError{AudioPath: audioPath, Err: err}
	}
	defer f.Close()

	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(w.cfg.Model),
	}
	if w.cfg.Language != "" {
		params.Language = openai.String(w.cfg.Language)
	}

	res, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", &TranscriptionError{AudioPath: audioPath, Err: err}
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", &TranscriptionError{AudioPath: audioPath, Err: ErrUnusableResponse}
	}
	return text, nil
}
