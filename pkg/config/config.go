package config

import "time"

// Config is the root application configuration.
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Lexicon       LexiconConfig       `yaml:"lexicon"`
	Images        ImagesConfig        `yaml:"images"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	EmotionLog    EmotionLogConfig    `yaml:"emotion_log"`
	Log           LogConfig           `yaml:"log"`
	Server        ServerConfig        `yaml:"server"`
}

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Image providers.
const (
	ProviderClipDrop = "clipdrop"
	ProviderOpenAI   = "openai"
)

// StorageConfig selects where the dream history lives.
type StorageConfig struct {
	Backend     string `yaml:"backend"      env:"DREAM_STORAGE_BACKEND" env-default:"json"`
	HistoryPath string `yaml:"history_path" env:"DREAM_HISTORY_PATH"    env-default:"dreams_history.json"`
	// DBPath empty means the per-user data directory.
	DBPath     string `yaml:"db_path"     env:"DREAM_DB_PATH"`
	EnableWAL  bool   `yaml:"enable_wal"  env:"DREAM_DB_WAL"  env-default:"true"`
	SyncPragma string `yaml:"sync_pragma" env:"DREAM_DB_SYNC" env-default:"NORMAL"`
}

// LexiconConfig optionally replaces the built-in symbol and emotion tables.
type LexiconConfig struct {
	Path string `yaml:"path" env:"DREAM_LEXICON_PATH"`
}

// ImagesConfig configures illustration generation.
type ImagesConfig struct {
	Provider string        `yaml:"provider" env:"DREAM_IMAGE_PROVIDER" env-default:"clipdrop"`
	Dir      string        `yaml:"dir"      env:"DREAM_IMAGES_DIR"     env-default:"generated_images"`
	APIKey   string        `yaml:"api_key"  env:"DREAM_IMAGE_API_KEY"`
	Endpoint string        `yaml:"endpoint" env:"DREAM_IMAGE_ENDPOINT" env-default:"https://clipdrop-api.co/text-to-image/v1"`
	Model    string        `yaml:"model"    env:"DREAM_IMAGE_MODEL"    env-default:"dall-e-3"`
	Timeout  time.Duration `yaml:"timeout"  env:"DREAM_IMAGE_TIMEOUT"  env-default:"60s"`
	// OrphanAge is how old an unreferenced image must be before cleanup removes it.
	OrphanAge time.Duration `yaml:"orphan_age" env:"DREAM_IMAGE_ORPHAN_AGE" env-default:"24h"`
}

// TranscriptionConfig configures speech-to-text.
type TranscriptionConfig struct {
	APIKey   string        `yaml:"api_key"  env:"OPENAI_API_KEY"`
	Model    string        `yaml:"model"    env:"DREAM_TRANSCRIPTION_MODEL"    env-default:"whisper-1"`
	Language string        `yaml:"language" env:"DREAM_TRANSCRIPTION_LANGUAGE" env-default:"fr"`
	Timeout  time.Duration `yaml:"timeout"  env:"DREAM_TRANSCRIPTION_TIMEOUT"  env-default:"120s"`
}

// EmotionLogConfig configures the flat CSV mood log.
type EmotionLogConfig struct {
	// Enabled appends every recorded dream to the log. The emotion-log
	// commands work on the file either way.
	Enabled bool   `yaml:"enabled" env:"DREAM_EMOTION_LOG_ENABLED" env-default:"false"`
	Path    string `yaml:"path"    env:"DREAM_EMOTION_LOG_PATH"    env-default:"dreams_history.csv"`
	// UseLLM enables mood detection through OpenAI when a key is available.
	UseLLM  bool          `yaml:"use_llm" env:"DREAM_EMOTION_USE_LLM" env-default:"false"`
	Model   string        `yaml:"model"   env:"DREAM_EMOTION_MODEL"   env-default:"gpt-4o-mini"`
	Timeout time.Duration `yaml:"timeout" env:"DREAM_EMOTION_TIMEOUT" env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"DREAM_SERVER_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"DREAM_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"DREAM_SERVER_WRITE_TIMEOUT"    env-default:"180s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DREAM_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// MaxUploadBytes bounds audio uploads and import bodies.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"DREAM_SERVER_MAX_UPLOAD_BYTES" env-default:"26214400"`
}
