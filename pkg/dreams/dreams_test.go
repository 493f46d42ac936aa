package dreams

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/dreamjournal/pkg/analysis"
)

func sample() []Record {
	return []Record{
		{
			Title:    "Le lac",
			Text:     "Je nageais dans une eau calme",
			Analysis: analysis.Result{Symbols: []string{"eau"}},
			Metadata: Metadata{Emotions: []string{"Sérénité"}, DreamType: TypeNormal},
			Date:     "2024-03-01T08:00:00.000000",
		},
		{
			Title:    "Poursuite",
			Text:     "Un loup me poursuivait dans la forêt",
			Analysis: analysis.Result{Symbols: []string{"forêt", "poursuite"}},
			Metadata: Metadata{Emotions: []string{"Peur"}, DreamType: TypeNightmare},
			Date:     "2024-03-03T02:30:00.000000",
		},
		{
			Title: "Anonyme",
			Text:  "Rien de spécial",
			Date:  "2024-03-02T10:00:00.000000",
		},
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T08:00:00.123456", time.Date(2024, 3, 1, 8, 0, 0, 123456000, time.Local)},
		{"2024-03-01T08:00:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
		{"2024-03-01T08:00:00Z", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, err := ParseDate("hier soir")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestNewDateRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 10000, time.Local)
	s := NewDate(now)
	assert.Equal(t, "2024-05-06T07:08:09.000010", s)

	back, err := ParseDate(s)
	require.NoError(t, err)
	assert.True(t, now.Equal(back))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-01", DayKey("2024-03-01T08:00:00.000000"))
	assert.Equal(t, "2024-03-01", DayKey("2024-03-01Tgarbage"))
	assert.Equal(t, "court", DayKey("court"))
}

func TestDefaultTitle(t *testing.T) {
	at := time.Date(2024, 12, 24, 22, 0, 0, 0, time.Local)
	assert.Equal(t, "Rêve du 24/12/2024", DefaultTitle(at, InputTypeText))
	assert.Equal(t, "Rêve vocal du 24/12/2024", DefaultTitle(at, InputTypeAudio))
}

func TestSearch(t *testing.T) {
	h := sample()

	assert.Len(t, Search("", h), 3)
	assert.Len(t, Search("   ", h), 3)

	got := Search("LAC", h)
	require.Len(t, got, 1)
	assert.Equal(t, "Le lac", got[0].Title)

	got = Search("poursuite", h)
	require.Len(t, got, 1)

	got = Search("peur", h)
	require.Len(t, got, 1, "declared emotions are searched")
	assert.Equal(t, "Poursuite", got[0].Title)

	assert.Empty(t, Search("dragon", h))
}

func TestFilter(t *testing.T) {
	h := sample()

	got := Filter(h, FilterOptions{DreamType: TypeNightmare})
	require.Len(t, got, 1)
	assert.Equal(t, "Poursuite", got[0].Title)

	got = Filter(h, FilterOptions{DreamType: TypeUnspecified})
	require.Len(t, got, 1)
	assert.Equal(t, "Anonyme", got[0].Title)

	got = Filter(h, FilterOptions{Emotion: "Sérénité"})
	require.Len(t, got, 1)
	assert.Equal(t, "Le lac", got[0].Title)

	assert.Len(t, Filter(h, FilterOptions{}), 3)
	assert.Empty(t, Filter(h, FilterOptions{DreamType: TypeNormal, Emotion: "Peur"}))
}

func TestSort(t *testing.T) {
	h := sample()

	titles := func(rs []Record) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Poursuite", "Anonyme", "Le lac"}, titles(Sort(h, SortDateDesc)))
	assert.Equal(t, []string{"Le lac", "Anonyme", "Poursuite"}, titles(Sort(h, SortDateAsc)))
	assert.Equal(t, []string{"Anonyme", "Le lac", "Poursuite"}, titles(Sort(h, SortTitle)))
	assert.Equal(t, "Le lac", h[0].Title, "input is not reordered")
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, o)

	o, err = ParseSortOrder("title")
	require.NoError(t, err)
	assert.Equal(t, SortTitle, o)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}

func TestDistinct(t *testing.T) {
	h := sample()
	assert.Equal(t, []string{TypeNormal, TypeNightmare, TypeUnspecified}, DistinctDreamTypes(h))
	assert.Equal(t, []string{"Sérénité", "Peur"}, DistinctEmotions(h))
}

func TestTopKeywords(t *testing.T) {
	h := []Record{
		{Text: "Une maison immense, une maison vide"},
		{Text: "La maison du vent et des étoiles"},
		{Text: "Dans le vent"},
	}

	got := TopKeywords(h, 10)
	require.NotEmpty(t, got)
	assert.Equal(t, KeywordCount{Word: "maison", Count: 3}, got[0])

	assert.Equal(t, KeywordCount{Word: "vent", Count: 2}, got[1])

	for _, k := range got {
		assert.NotEqual(t, "dans", k.Word, "stop words are skipped")
		assert.Greater(t, len([]rune(k.Word)), 3)
	}

	assert.Len(t, TopKeywords(h, 1), 1)
}

func TestTopKeywordsTiesKeepFirstAppearance(t *testing.T) {
	h := []Record{{Text: "soleil lune soleil étoile étoile"}}
	got := TopKeywords(h, 2)
	assert.Equal(t, []KeywordCount{{"soleil", 2}, {"étoile", 2}}, got)
}

func TestGallery(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(present, []byte("png"), 0o644))

	h := []Record{
		{Title: "local", ImagePath: present},
		{Title: "missing", ImagePath: filepath.Join(dir, "gone.png")},
		{Title: "remote", ImagePath: "https://example.com/img.png"},
		{Title: "none"},
	}

	got := Gallery(h)
	require.Len(t, got, 2)
	assert.Equal(t, "local", got[0].Title)
	assert.Equal(t, "remote", got[1].Title)
}

func TestSummary(t *testing.T) {
	short := Record{Text: "court"}
	assert.Equal(t, "court", short.Summary())

	long := Record{Text: string(make([]rune, 150))}
	assert.Len(t, []rune(long.Summary()), 103)
}

func TestImagePrompt(t *testing.T) {
	assert.Equal(t, "un lac, style onirique, ambiance sombre", ImagePrompt("un lac", "onirique", "sombre"))
}
