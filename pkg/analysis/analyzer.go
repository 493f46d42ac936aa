// Package analysis implements the rule-based dream analyzer.
//
// Matching is plain substring containment over the lowercased narrative: a
// keyword found inside a longer word still counts. Every rule table is
// evaluated in declaration order, and first-match tables stop at the first
// rule whose predicate holds.
package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/unowned-ai/dreamjournal/pkg/lexicon"
)

// Analyzer turns a dream narrative into a Result. It is safe for concurrent
// use; it holds no mutable state.
type Analyzer struct {
	lex *lexicon.Lexicon
}

// New returns an Analyzer over lex. A nil lexicon selects lexicon.Default().
func New(lex *lexicon.Lexicon) *Analyzer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Analyzer{lex: lex}
}

// Analyze never fails: an empty narrative yields zero counts, no symbols or
// emotions, and a complexity score of 0.
func (a *Analyzer) Analyze(text string) Result {
	lower := strings.ToLower(text)

	symbols := a.detectSymbols(lower)
	emotions := a.detectEmotions(lower)
	f := newFacts(lower, symbols, emotions)

	words := len(strings.Fields(text))

	return Result{
		Interpretation:        interpret(f),
		Symbols:               symbols,
		Emotions:              emotions,
		WordCount:             words,
		ComplexityScore:       complexityScore(text, lower, words),
		Themes:                matchThemes(f),
		PsychologicalInsights: allMatches(insightRules, f),
	}
}

func (a *Analyzer) detectSymbols(lower string) []string {
	found := make([]string, 0)
	seen := make(map[string]struct{})
	for _, s := range a.lex.Symbols {
		if _, dup := seen[s.Key]; dup {
			continue
		}
		if strings.Contains(lower, s.Key) || containsAny(lower, s.Triggers) {
			seen[s.Key] = struct{}{}
			found = append(found, s.Key)
		}
	}
	return found
}

func (a *Analyzer) detectEmotions(lower string) []string {
	found := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range a.lex.Emotions {
		if _, dup := seen[e.Name]; dup {
			continue
		}
		if containsAny(lower, e.Triggers) {
			seen[e.Name] = struct{}{}
			found = append(found, e.Name)
		}
	}
	return found
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// complexWords are counted by occurrence, not by presence.
var complexWords = []string{"étrange", "mystérieu", "inexplicable", "symboli", "surréaliste"}

func complexityScore(text, lower string, words int) float64 {
	sentences := 0
	for _, part := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}

	complex := 0
	for _, w := range complexWords {
		complex += strings.Count(lower, w)
	}

	lengthScore := math.Min(float64(words)/100, 1)
	sentenceScore := math.Min(float64(sentences)/10, 1)
	vocabularyScore := math.Min(float64(complex)/5, 1)

	score := (lengthScore + sentenceScore + vocabularyScore) / 3 * 10
	return math.Round(score*10) / 10
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
