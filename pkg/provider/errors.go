// Package provider wraps the external services a journal depends on:
// speech-to-text, image generation and LLM mood detection.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnusableResponse is returned when a service answered but its payload
// cannot be used (empty transcript, no image, unparseable JSON).
var ErrUnusableResponse = errors.New("unusable response from provider")

// ConfigError reports a missing or invalid setting. It is raised before any
// network call is attempted.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

func missingKey(setting string) error {
	return &ConfigError{Setting: setting, Reason: "no API key configured"}
}

// TranscriptionError wraps a failed speech-to-text call.
type TranscriptionError struct {
	AudioPath string
	Err       error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription of %s failed: %v", e.AudioPath, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// GenerationError wraps a failed image generation call. StatusCode and Body
// are set when the service answered with a non-2xx status.
type GenerationError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s image generation failed: status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s image generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Unavailable stands in for a collaborator that could not be built, so the
// build error surfaces when the feature is used rather than at startup.
type Unavailable struct {
	Err error
}

func (u Unavailable) Generate(context.Context, string) (string, error)   { return "", u.Err }
func (u Unavailable) Transcribe(context.Context, string) (string, error) { return "", u.Err }
func (u Unavailable) DetectMood(context.Context, string) (string, error) { return "", u.Err }
