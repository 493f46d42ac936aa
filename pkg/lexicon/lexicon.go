// Package lexicon holds the keyword tables the dream analyzer matches against.
//
// Both tables are ordered: analysis output follows declaration order, so the
// tables are slices rather than maps. A YAML file with the same shape can
// replace the built-in tables without a rebuild.
package lexicon

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyLexicon = errors.New("lexicon has no symbols and no emotions")
	ErrDuplicateKey = errors.New("duplicate lexicon key")
)

// Symbol is a recognized dream-content keyword mapped to a fixed meaning.
// Triggers are extra surface forms (conjugations, synonyms) that also detect
// the symbol; the key itself always does.
type Symbol struct {
	Key      string   `yaml:"key" json:"key"`
	Meaning  string   `yaml:"meaning" json:"meaning"`
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// Emotion is an emotion category detected when any of its triggers appears.
type Emotion struct {
	Name     string   `yaml:"name" json:"name"`
	Triggers []string `yaml:"triggers" json:"triggers"`
}

// Lexicon bundles the symbol and emotion tables.
type Lexicon struct {
	Symbols  []Symbol  `yaml:"symbols" json:"symbols"`
	Emotions []Emotion `yaml:"emotions" json:"emotions"`
}

// Default returns a copy of the built-in French lexicon.
func Default() *Lexicon {
	lex := &Lexicon{
		Symbols:  make([]Symbol, len(defaultSymbols)),
		Emotions: make([]Emotion, len(defaultEmotions)),
	}
	copy(lex.Symbols, defaultSymbols)
	copy(lex.Emotions, defaultEmotions)
	return lex
}

// Load reads a lexicon from a YAML file. Keys and triggers are lowercased so
// matching against lowercased text stays correct.
func Load(path string) (*Lexicon, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(b, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	lex.normalize()

	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return &lex, nil
}

// Validate checks that keys are present and unique within each table.
func (l *Lexicon) Validate() error {
	if len(l.Symbols) == 0 && len(l.Emotions) == 0 {
		return ErrEmptyLexicon
	}

	seen := make(map[string]struct{}, len(l.Symbols))
	for i, s := range l.Symbols {
		if s.Key == "" {
			return fmt.Errorf("symbol #%d has an empty key", i)
		}
		if _, ok := seen[s.Key]; ok {
			return fmt.Errorf("%w: symbol %q", ErrDuplicateKey, s.Key)
		}
		seen[s.Key] = struct{}{}
	}

	seen = make(map[string]struct{}, len(l.Emotions))
	for i, e := range l.Emotions {
		if e.Name == "" {
			return fmt.Errorf("emotion #%d has an empty name", i)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: emotion %q", ErrDuplicateKey, e.Name)
		}
		if len(e.Triggers) == 0 {
			return fmt.Errorf("emotion %q has no triggers", e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Meaning returns the meaning attached to a symbol key.
func (l *Lexicon) Meaning(key string) (string, bool) {
	for _, s := range l.Symbols {
		if s.Key == key {
			return s.Meaning, true
		}
	}
	return "", false
}

func (l *Lexicon) normalize() {
	for i := range l.Symbols {
		l.Symbols[i].Key = strings.ToLower(strings.TrimSpace(l.Symbols[i].Key))
		l.Symbols[i].Triggers = lowerAll(l.Symbols[i].Triggers)
	}
	for i := range l.Emotions {
		l.Emotions[i].Name = strings.ToLower(strings.TrimSpace(l.Emotions[i].Name))
		l.Emotions[i].Triggers = lowerAll(l.Emotions[i].Triggers)
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
