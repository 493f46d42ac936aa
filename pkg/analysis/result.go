package analysis

// Result is the structured analysis of one dream narrative. It is computed
// once when a dream is recorded and stored verbatim with the record.
type Result struct {
	Interpretation        string   `json:"interpretation"`
	Symbols               []string `json:"symbols"`
	Emotions              []string `json:"emotions"`
	WordCount             int      `json:"word_count"`
	ComplexityScore       float64  `json:"complexity_score"`
	Themes                []string `json:"themes"`
	PsychologicalInsights []string `json:"psychological_insights"`
}

// HasSymbol reports whether key was detected.
func (r Result) HasSymbol(key string) bool {
	for _, s := range r.Symbols {
		if s == key {
			return true
		}
	}
	return false
}

// HasEmotion reports whether the emotion category was detected.
func (r Result) HasEmotion(name string) bool {
	for _, e := range r.Emotions {
		if e == name {
			return true
		}
	}
	return false
}
