// Package journal ties the analyzer, the history store and the external
// providers together into the operations exposed by the CLI, the MCP server
// and the HTTP API.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/unowned-ai/dreamjournal/pkg/analysis"
	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/emotionlog"
	"github.com/unowned-ai/dreamjournal/pkg/history"
	"github.com/unowned-ai/dreamjournal/pkg/images"
	"github.com/unowned-ai/dreamjournal/pkg/provider"
	"github.com/unowned-ai/dreamjournal/pkg/stats"
)

var (
	ErrEmptyDream    = errors.New("dream text is empty")
	ErrDreamNotFound = errors.New("dream not found")
	ErrInvalidScore  = errors.New("score must be between 1 and 10")
)

// Options wires a Service. Store is required; the rest may be nil.
type Options struct {
	Store       history.Store
	Analyzer    *analysis.Analyzer
	Images      *images.Dir
	Generator   provider.ImageGenerator
	Transcriber provider.Transcriber
	EmotionLog  *emotionlog.Log
	Logger      *slog.Logger
}

// Service is safe for concurrent use as far as its Store is.
type Service struct {
	store       history.Store
	analyzer    *analysis.Analyzer
	images      *images.Dir
	generator   provider.ImageGenerator
	transcriber provider.Transcriber
	emotionLog  *emotionlog.Log
	logger      *slog.Logger
	now         func() time.Time
}

func New(opts Options) *Service {
	s := &Service{
		store:       opts.Store,
		analyzer:    opts.Analyzer,
		images:      opts.Images,
		generator:   opts.Generator,
		transcriber: opts.Transcriber,
		emotionLog:  opts.EmotionLog,
		logger:      opts.Logger,
		now:         time.Now,
	}
	if s.analyzer == nil {
		s.analyzer = analysis.New(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.generator == nil {
		s.generator = provider.Unavailable{Err: &provider.ConfigError{Setting: "images", Reason: "no image generator configured"}}
	}
	if s.transcriber == nil {
		s.transcriber = provider.Unavailable{Err: &provider.ConfigError{Setting: "transcription", Reason: "no transcriber configured"}}
	}
	return s
}

// RecordInput is what the dreamer submits besides the narrative.
type RecordInput struct {
	Title    string
	Text     string
	Metadata dreams.Metadata
	// SkipImage records the dream without calling the image generator.
	SkipImage bool
}

// Entry is a record together with its position in the history, which is
// what Delete and Get take.
type Entry struct {
	Index  int           `json:"index"`
	Record dreams.Record `json:"record"`
}

// Analyze runs the rule-based analysis without recording anything.
func (s *Service) Analyze(text string) analysis.Result {
	return s.analyzer.Analyze(text)
}

// Record analyses the narrative, illustrates it and appends it to the
// history. The narrative is stored exactly as submitted. A failed image
// generation aborts the recording.
func (s *Service) Record(ctx context.Context, in RecordInput) (dreams.Record, error) {
	text := in.Text
	if strings.TrimSpace(text) == "" {
		return dreams.Record{}, ErrEmptyDream
	}
	if err := validateScore(in.Metadata.SleepQuality); err != nil {
		return dreams.Record{}, fmt.Errorf("sleep quality: %w", err)
	}
	if err := validateScore(in.Metadata.DreamClarity); err != nil {
		return dreams.Record{}, fmt.Errorf("dream clarity: %w", err)
	}

	meta := in.Metadata
	if meta.Style == "" {
		meta.Style = dreams.Styles[0]
	}
	if meta.Mood == "" {
		meta.Mood = dreams.Moods[0]
	}

	now := s.now()
	rec := dreams.Record{
		Title:    strings.TrimSpace(in.Title),
		Text:     text,
		Analysis: s.analyzer.Analyze(text),
		Metadata: meta,
		Date:     dreams.NewDate(now),
	}
	if rec.Title == "" {
		rec.Title = dreams.DefaultTitle(now, meta.InputType)
	}

	if !in.SkipImage {
		ref, err := s.generator.Generate(ctx, dreams.ImagePrompt(strings.TrimSpace(text), meta.Style, meta.Mood))
		if err != nil {
			return dreams.Record{}, fmt.Errorf("illustrate dream: %w", err)
		}
		rec.ImagePath = ref
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return dreams.Record{}, fmt.Errorf("save dream: %w", err)
	}
	s.logger.Info("dream recorded", "title", rec.Title, "symbols", len(rec.Analysis.Symbols), "image", rec.ImagePath)

	if s.emotionLog != nil {
		if _, err := s.emotionLog.Record(ctx, text, rec.ImagePath); err != nil {
			s.logger.Warn("could not append to emotion log", "error", err)
		}
	}
	return rec, nil
}

// Transcribe converts an audio file to text.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return s.transcriber.Transcribe(ctx, audioPath)
}

// RecordAudio transcribes audioPath and records the transcript as an audio
// dream.
func (s *Service) RecordAudio(ctx context.Context, audioPath string, in RecordInput) (dreams.Record, error) {
	text, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return dreams.Record{}, err
	}
	in.Text = text
	in.Metadata.InputType = dreams.InputTypeAudio
	return s.Record(ctx, in)
}

func validateScore(v *int) error {
	if v == nil {
		return nil
	}
	if *v < 1 || *v > 10 {
		return fmt.Errorf("%w (got %d)", ErrInvalidScore, *v)
	}
	return nil
}

// ListOptions narrows and orders a listing.
type ListOptions struct {
	Query  string
	Filter dreams.FilterOptions
	Sort   dreams.SortOrder
}

// List returns matching records with their history index.
func (s *Service) List(ctx context.Context, opts ListOptions) []Entry {
	out := []Entry{}
	for i, r := range s.store.Load(ctx) {
		if opts.Filter.Match(r) && dreams.Matches(r, opts.Query) {
			out = append(out, Entry{Index: i, Record: r})
		}
	}
	less := opts.Sort.Less()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i].Record, out[j].Record) })
	return out
}

// Get returns the record at index.
func (s *Service) Get(ctx context.Context, index int) (dreams.Record, error) {
	all := s.store.Load(ctx)
	if index < 0 || index >= len(all) {
		return dreams.Record{}, fmt.Errorf("%w: index %d (history has %d)", ErrDreamNotFound, index, len(all))
	}
	return all[index], nil
}

// Delete removes the record at index and its local image.
func (s *Service) Delete(ctx context.Context, index int) (bool, error) {
	ok, err := s.store.Delete(ctx, index)
	if err != nil {
		return false, fmt.Errorf("delete dream %d: %w", index, err)
	}
	if ok {
		s.logger.Info("dream deleted", "index", index)
	}
	return ok, nil
}

// History returns the whole collection in stored order.
func (s *Service) History(ctx context.Context) []dreams.Record {
	return s.store.Load(ctx)
}

func (s *Service) Statistics(ctx context.Context) stats.Statistics {
	return stats.ComputeStatistics(s.store.Load(ctx))
}

func (s *Service) Insights(ctx context.Context) stats.Insights {
	return stats.ComputeInsights(s.store.Load(ctx))
}

func (s *Service) Keywords(ctx context.Context, n int) []dreams.KeywordCount {
	return dreams.TopKeywords(s.store.Load(ctx), n)
}

func (s *Service) Gallery(ctx context.Context) []dreams.Record {
	return dreams.Gallery(s.store.Load(ctx))
}

// FilterChoices lists the dream types and declared emotions present in the
// history.
func (s *Service) FilterChoices(ctx context.Context) (types, emotions []string) {
	all := s.store.Load(ctx)
	return dreams.DistinctDreamTypes(all), dreams.DistinctEmotions(all)
}

func (s *Service) Export(ctx context.Context, path string) (int, error) {
	all := s.store.Load(ctx)
	if err := history.Export(all, path); err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *Service) ExportTo(ctx context.Context, w io.Writer) error {
	return history.ExportTo(w, s.store.Load(ctx))
}

func (s *Service) Import(ctx context.Context, path string) (int, error) {
	n, err := history.Import(ctx, s.store, path)
	if err == nil {
		s.logger.Info("dreams imported", "path", path, "added", n)
	}
	return n, err
}

func (s *Service) ImportReader(ctx context.Context, r io.Reader) (int, error) {
	return history.ImportReader(ctx, s.store, r)
}

// CleanupImages removes unreferenced images older than maxAge.
func (s *Service) CleanupImages(ctx context.Context, maxAge time.Duration) int {
	if s.images == nil {
		return 0
	}
	var refs []string
	for _, r := range s.store.Load(ctx) {
		refs = append(refs, r.ImagePath)
	}
	return s.images.CleanupOrphans(refs, maxAge)
}

