// Package stats aggregates a dream history. Every function is pure and
// returns zero values for an empty history.
package stats

import (
	"math"
	"time"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
)

// Statistics summarises a history.
type Statistics struct {
	TotalDreams         int            `json:"total_dreams"`
	AverageSleepQuality float64        `json:"average_sleep_quality"`
	AverageDreamClarity float64        `json:"average_dream_clarity"`
	MostCommonDreamType string         `json:"most_common_dream_type,omitempty"`
	DreamTypes          map[string]int `json:"dream_types"`
	Emotions            map[string]int `json:"emotions"`
	Symbols             map[string]int `json:"symbols"`
	FirstDream          string         `json:"first_dream,omitempty"`
	LastDream           string         `json:"last_dream,omitempty"`
	DreamFrequency      float64        `json:"dream_frequency"`
}

// ComputeStatistics aggregates history. Averages only count records where the
// score is present and are 0 when none is. Records without a dream type are
// left out of the type distribution.
func ComputeStatistics(history []dreams.Record) Statistics {
	st := Statistics{
		TotalDreams: len(history),
		DreamTypes:  make(map[string]int),
		Emotions:    make(map[string]int),
		Symbols:     make(map[string]int),
	}
	if len(history) == 0 {
		return st
	}

	var sleep, clarity mean
	var typeOrder []string
	for _, r := range history {
		sleep.add(r.Metadata.SleepQuality)
		clarity.add(r.Metadata.DreamClarity)

		if t := r.Metadata.DreamType; t != "" {
			if st.DreamTypes[t] == 0 {
				typeOrder = append(typeOrder, t)
			}
			st.DreamTypes[t]++
		}
		for _, e := range r.Metadata.Emotions {
			st.Emotions[e]++
		}
		for _, s := range r.Analysis.Symbols {
			st.Symbols[s]++
		}
	}
	st.AverageSleepQuality = sleep.value()
	st.AverageDreamClarity = clarity.value()
	st.MostCommonDreamType = mode(typeOrder, st.DreamTypes)

	p := span(history)
	if p.ok {
		st.FirstDream = p.firstDate
		st.LastDream = p.lastDate
	}
	st.DreamFrequency = perWeek(len(history), p)
	return st
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *int) {
	if v == nil {
		return
	}
	m.sum += float64(*v)
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// mode returns the key with the highest count; ties go to the key that
// appears first in order.
func mode[K comparable](order []K, counts map[K]int) K {
	var best K
	bestCount := 0
	for _, k := range order {
		if c := counts[k]; c > bestCount {
			best, bestCount = k, c
		}
	}
	return best
}

// period is the range of parseable record dates in a history.
type period struct {
	first, last         time.Time
	firstDate, lastDate string
	ok                  bool
}

// span returns the earliest and latest parseable dates along with the
// stored strings they came from.
func span(history []dreams.Record) period {
	var p period
	for _, r := range history {
		t, valid := r.Time()
		if !valid {
			continue
		}
		if !p.ok || t.Before(p.first) {
			p.first, p.firstDate = t, r.Date
		}
		if !p.ok || t.After(p.last) {
			p.last, p.lastDate = t, r.Date
		}
		p.ok = true
	}
	return p
}

// days counts whole days between first and last on their wall clocks, so a
// daylight saving change inside the period does not shorten it.
func (p period) days() int {
	if !p.ok {
		return 0
	}
	return int(wallClock(p.last).Sub(wallClock(p.first)).Hours() / 24)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// perWeek is count divided by the span in weeks. Fewer than two records give
// 0; a span of zero whole days gives the raw count.
func perWeek(count int, p period) float64 {
	if count < 2 || !p.ok {
		return 0
	}
	days := p.days()
	if days == 0 {
		return float64(count)
	}
	return round(float64(count)/(float64(days)/7), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
