package config

import (
	"fmt"
	"strings"
)

// Validate checks the loaded configuration and normalises enum-like fields.
// Credentials are not required here: a missing key only fails the feature
// that needs it.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendJSON:
		if c.Storage.HistoryPath == "" {
			return fmt.Errorf("storage.history_path must be set for the json backend")
		}
	case BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q (got %q)", BackendJSON, BackendSQLite, c.Storage.Backend)
	}

	c.Images.Provider = strings.ToLower(strings.TrimSpace(c.Images.Provider))
	switch c.Images.Provider {
	case ProviderClipDrop:
		if c.Images.Endpoint == "" {
			return fmt.Errorf("images.endpoint must be set for the clipdrop provider")
		}
	case ProviderOpenAI:
	default:
		return fmt.Errorf("images.provider must be %q or %q (got %q)", ProviderClipDrop, ProviderOpenAI, c.Images.Provider)
	}
	if c.Images.Dir == "" {
		return fmt.Errorf("images.dir must be set")
	}

	if c.Images.Timeout <= 0 {
		return fmt.Errorf("images.timeout must be > 0 (got %v)", c.Images.Timeout)
	}
	if c.Transcription.Timeout <= 0 {
		return fmt.Errorf("transcription.timeout must be > 0 (got %v)", c.Transcription.Timeout)
	}
	if c.EmotionLog.Timeout <= 0 {
		return fmt.Errorf("emotion_log.timeout must be > 0 (got %v)", c.EmotionLog.Timeout)
	}
	if c.Images.OrphanAge < 0 {
		return fmt.Errorf("images.orphan_age must be >= 0 (got %v)", c.Images.OrphanAge)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}
