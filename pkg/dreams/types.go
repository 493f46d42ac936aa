package dreams

import (
	"fmt"
	"time"

	"github.com/unowned-ai/dreamjournal/pkg/analysis"
)

// Dream types offered when recording a dream.
const (
	TypeNormal      = "Rêve normal"
	TypeNightmare   = "Cauchemar"
	TypeLucid       = "Rêve lucide"
	TypeRecurring   = "Rêve récurrent"
	TypePremonitory = "Rêve prémonitoire"

	// TypeUnspecified is shown for records without a dream type.
	TypeUnspecified = "Non spécifié"
)

const (
	InputTypeText  = "text"
	InputTypeAudio = "audio"
)

const (
	titleDateLayout  = "02/01/2006"
	displayLayout    = "02/01/2006 15:04"
	summaryRuneLimit = 100
)

// DreamTypes lists the accepted dream_type values in display order.
var DreamTypes = []string{TypeNormal, TypeNightmare, TypeLucid, TypeRecurring, TypePremonitory}

// Image styles and moods used to build the illustration prompt.
var (
	Styles = []string{"réaliste", "artistique", "surréaliste", "minimaliste", "fantasy"}
	Moods  = []string{"mystérieuse", "colorée", "sombre", "lumineuse", "onirique"}
)

// Record is one journal entry. Text, Analysis and Date never change after
// creation; ImagePath may point at a file that no longer exists.
type Record struct {
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Analysis  analysis.Result `json:"analysis"`
	ImagePath string          `json:"image_path"`
	Metadata  Metadata        `json:"metadata"`
	Date      string          `json:"date"`
}

// Metadata holds what the dreamer declared about the dream. Scores are
// pointers so an unanswered question stays distinguishable from zero.
type Metadata struct {
	SleepQuality *int     `json:"sleep_quality,omitempty"`
	DreamClarity *int     `json:"dream_clarity,omitempty"`
	Emotions     []string `json:"emotions,omitempty"`
	DreamType    string   `json:"dream_type,omitempty"`
	Style        string   `json:"style,omitempty"`
	Mood         string   `json:"mood,omitempty"`
	InputType    string   `json:"input_type,omitempty"`
}

// Time parses the record date. ok is false when the date is unusable.
func (r Record) Time() (time.Time, bool) {
	t, err := ParseDate(r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayDate renders the date as DD/MM/YYYY HH:MM, or the raw string when it
// does not parse.
func (r Record) DisplayDate() string {
	t, ok := r.Time()
	if !ok {
		return r.Date
	}
	return t.Format(displayLayout)
}

// Summary returns the first hundred runes of the text.
func (r Record) Summary() string {
	runes := []rune(r.Text)
	if len(runes) <= summaryRuneLimit {
		return r.Text
	}
	return string(runes[:summaryRuneLimit]) + "..."
}

// IntPtr is a convenience for filling optional scores.
func IntPtr(v int) *int { return &v }

// ImagePrompt builds the illustration prompt for a narrative.
func ImagePrompt(text, style, mood string) string {
	return fmt.Sprintf("%s, style %s, ambiance %s", text, style, mood)
}
