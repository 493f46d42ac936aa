package stats

import (
	"math"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
)

// Insights describes when and how the dreamer records dreams.
type Insights struct {
	MostActiveWeekday       string                    `json:"most_active_weekday,omitempty"`
	MostActiveHour          *int                      `json:"most_active_hour,omitempty"`
	SleepClarityCorrelation float64                   `json:"sleep_clarity_correlation"`
	EmotionEvolution        map[string]map[string]int `json:"emotion_evolution"`
	TotalAnalysisPeriodDays int                       `json:"total_analysis_period_days"`
	AverageDreamsPerWeek    float64                   `json:"average_dreams_per_week"`
}

// ComputeInsights derives temporal patterns from history. Records whose
// date does not parse are skipped by every time-based figure.
func ComputeInsights(history []dreams.Record) Insights {
	in := Insights{EmotionEvolution: make(map[string]map[string]int)}
	if len(history) == 0 {
		return in
	}

	weekdays := make(map[string]int)
	hours := make(map[int]int)
	var weekdayOrder []string
	var hourOrder []int
	var xs, ys []float64

	for _, r := range history {
		if q, c := r.Metadata.SleepQuality, r.Metadata.DreamClarity; q != nil && c != nil {
			xs = append(xs, float64(*q))
			ys = append(ys, float64(*c))
		}

		day := dreams.DayKey(r.Date)
		if len(r.Metadata.Emotions) > 0 {
			counts, ok := in.EmotionEvolution[day]
			if !ok {
				counts = make(map[string]int)
				in.EmotionEvolution[day] = counts
			}
			for _, e := range r.Metadata.Emotions {
				counts[e]++
			}
		}

		t, ok := r.Time()
		if !ok {
			continue
		}
		wd := t.Weekday().String()
		if weekdays[wd] == 0 {
			weekdayOrder = append(weekdayOrder, wd)
		}
		weekdays[wd]++
		if hours[t.Hour()] == 0 {
			hourOrder = append(hourOrder, t.Hour())
		}
		hours[t.Hour()]++
	}

	in.MostActiveWeekday = mode(weekdayOrder, weekdays)
	if len(hourOrder) > 0 {
		h := mode(hourOrder, hours)
		in.MostActiveHour = &h
	}
	in.SleepClarityCorrelation = pearson(xs, ys)

	p := span(history)
	in.TotalAnalysisPeriodDays = p.days()
	in.AverageDreamsPerWeek = perWeek(len(history), p)
	return in
}

// pearson uses the sum formula and rounds to three places. Fewer than two
// pairs or a zero denominator give 0.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if len(xs) < 2 {
		return 0
	}
	var sx, sy, sxy, sxx, syy float64
	for i := range xs {
		x, y := xs[i], ys[i]
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
		syy += y * y
	}
	den := math.Sqrt((n*sxx - sx*sx) * (n*syy - sy*sy))
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return round((n*sxy-sx*sy)/den, 3)
}
