package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/dreamjournal/pkg/analysis"
	"github.com/unowned-ai/dreamjournal/pkg/config"
	pkgdb "github.com/unowned-ai/dreamjournal/pkg/db"
	"github.com/unowned-ai/dreamjournal/pkg/emotionlog"
	"github.com/unowned-ai/dreamjournal/pkg/history"
	"github.com/unowned-ai/dreamjournal/pkg/images"
	"github.com/unowned-ai/dreamjournal/pkg/journal"
	"github.com/unowned-ai/dreamjournal/pkg/lexicon"
	"github.com/unowned-ai/dreamjournal/pkg/provider"
	"github.com/unowned-ai/dreamjournal/pkg/utils"
)

var (
	configPath  string
	backendFlag string
	historyFlag string
	dbPath      string
	logLevel    string
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	analyzer   *analysis.Analyzer
	images     *images.Dir
	emotionLog *emotionlog.Log
	svc        *journal.Service
	db         *sql.DB
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Storage.Backend = backendFlag
	}
	if flags.Changed("history") {
		cfg.Storage.HistoryPath = historyFlag
	}
	if flags.Changed("dbpath") {
		cfg.Storage.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lex := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		lex, err = lexicon.Load(cfg.Lexicon.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		analyzer: analysis.New(lex),
		images:   images.NewDir(cfg.Images.Dir, logger),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var detector provider.MoodDetector
	if cfg.EmotionLog.UseLLM {
		detector = a.moodDetector()
	}

	a.emotionLog = emotionlog.New(cfg.EmotionLog.Path, detector, a.analyzer, logger)

	opts := journal.Options{
		Store:       store,
		Analyzer:    a.analyzer,
		Images:      a.images,
		Generator:   a.imageGenerator(),
		Transcriber: a.transcriber(),
		Logger:      logger,
	}
	if cfg.EmotionLog.Enabled {
		opts.EmotionLog = a.emotionLog
	}
	a.svc = journal.New(opts)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (history.Store, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		path, err := utils.ResolveAndEnsurePath(a.cfg.Storage.DBPath, utils.GetDefaultDBPath())
		if err != nil {
			return nil, err
		}
		conn, err := pkgdb.OpenDBConnection(path, a.cfg.Storage.EnableWAL, a.cfg.Storage.SyncPragma)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pkgdb.UpgradeDB(ctx, conn, a.logger, path, pkgdb.TargetSchemaVersion); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
		}
		a.db = conn
		a.logger.Debug("using sqlite history", "path", path)
		return history.NewSQLStore(conn, a.images, a.logger), nil
	default:
		path, err := utils.ResolveAndEnsurePath(a.cfg.Storage.HistoryPath, filepath.Join(utils.GetDefaultDataDir(), "dreams_history.json"))
		if err != nil {
			return nil, err
		}
		a.logger.Debug("using json history", "path", path)
		return history.NewFileStore(path, a.images, a.logger), nil
	}
}

// imageGenerator falls back to a stand-in that reports the configuration
// problem on use, so commands that never illustrate still work without a key.
func (a *app) imageGenerator() provider.ImageGenerator {
	ic := a.cfg.Images
	var (
		gen provider.ImageGenerator
		err error
	)
	switch ic.Provider {
	case config.ProviderOpenAI:
		gen, err = provider.NewOpenAIImageGenerator(provider.OpenAIImageConfig{
			APIKey:  ic.APIKey,
			Model:   ic.Model,
			Timeout: ic.Timeout,
		}, a.images)
	default:
		gen, err = provider.NewClipDropGenerator(provider.ClipDropConfig{
			APIKey:   ic.APIKey,
			Endpoint: ic.Endpoint,
			Timeout:  ic.Timeout,
		}, a.images, &http.Client{})
	}
	if err != nil {
		a.logger.Debug("image generation unavailable", "provider", ic.Provider, "error", err)
		return provider.Unavailable{Err: err}
	}
	return gen
}

func (a *app) transcriber() provider.Transcriber {
	tc := a.cfg.Transcription
	t, err := provider.NewWhisperTranscriber(provider.WhisperConfig{
		APIKey:   tc.APIKey,
		Model:    tc.Model,
		Language: tc.Language,
		Timeout:  tc.Timeout,
	})
	if err != nil {
		a.logger.Debug("transcription unavailable", "error", err)
		return provider.Unavailable{Err: err}
	}
	return t
}

func (a *app) moodDetector() provider.MoodDetector {
	ec := a.cfg.EmotionLog
	d, err := provider.NewOpenAIMoodDetector(provider.MoodConfig{
		APIKey:  a.cfg.Transcription.APIKey,
		Model:   ec.Model,
		Timeout: ec.Timeout,
	})
	if err != nil {
		a.logger.Warn("LLM mood detection unavailable, using rule-based mood", "error", err)
		return nil
	}
	return d
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := a.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		a.logger.Warn("WAL checkpoint failed during close", "error", err)
	}
	return a.db.Close()
}

// withApp wraps a command body with app construction and teardown.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}
