// Package emotionlog keeps the flat CSV log of dreams and their overall mood,
// with the header Rêve,Emotion,Image.
package emotionlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/unowned-ai/dreamjournal/pkg/analysis"
	"github.com/unowned-ai/dreamjournal/pkg/provider"
	"github.com/unowned-ai/dreamjournal/pkg/utils"
)

var header = []string{"Rêve", "Emotion", "Image"}

// Entry is one row of the log.
type Entry struct {
	Dream   string `json:"dream"`
	Emotion string `json:"emotion"`
	Image   string `json:"image"`
}

// Log is a CSV file rewritten on every append. Like the JSON history it is
// not safe for concurrent writers.
type Log struct {
	path     string
	detector provider.MoodDetector
	analyzer *analysis.Analyzer
	logger   *slog.Logger
}

// New returns a Log at path. detector may be nil, in which case moods are
// derived from the rule-based analysis.
func New(path string, detector provider.MoodDetector, analyzer *analysis.Analyzer, logger *slog.Logger) *Log {
	if analyzer == nil {
		analyzer = analysis.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{path: path, detector: detector, analyzer: analyzer, logger: logger}
}

// Load reads every entry. A missing file is an empty log.
func (l *Log) Load() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse emotion log: %w", err)
	}

	entries := []Entry{}
	for i, row := range rows {
		if i == 0 && row[0] == header[0] {
			continue
		}
		entries = append(entries, Entry{Dream: row[0], Emotion: row[1], Image: row[2]})
	}
	return entries, nil
}

// Append adds one row, rewriting the whole file.
func (l *Log) Append(e Entry) error {
	entries, err := l.Load()
	if err != nil {
		return err
	}
	entries = append(entries, e)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, en := range entries {
		if err := w.Write([]string{en.Dream, en.Emotion, en.Image}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return utils.WriteFileAtomic(l.path, buf.Bytes(), 0o644)
}

// Record detects the mood of text and appends it with image.
func (l *Log) Record(ctx context.Context, text, image string) (Entry, error) {
	e := Entry{Dream: text, Emotion: l.Mood(ctx, text), Image: image}
	if err := l.Append(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Mood asks the detector when there is one and falls back to the analysis
// when it is absent or fails.
func (l *Log) Mood(ctx context.Context, text string) string {
	if l.detector != nil {
		mood, err := l.detector.DetectMood(ctx, text)
		if err == nil {
			return mood
		}
		l.logger.Warn("mood detection failed, using rule-based mood", "error", err)
	}
	return MoodFromAnalysis(l.analyzer.Analyze(text))
}

var (
	happyEmotions    = map[string]bool{"joie": true, "sérénité": true, "amour": true}
	stressfulEmotion = map[string]bool{"peur": true, "anxiété": true, "colère": true, "tristesse": true, "confusion": true}
)

// MoodFromAnalysis maps the first detected emotion onto a mood.
func MoodFromAnalysis(res analysis.Result) string {
	if len(res.Emotions) == 0 {
		return provider.MoodNeutral
	}
	first := res.Emotions[0]
	switch {
	case happyEmotions[first]:
		return provider.MoodHappy
	case stressfulEmotion[first]:
		return provider.MoodStressful
	default:
		return provider.MoodNeutral
	}
}
