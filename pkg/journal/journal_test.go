package journal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/emotionlog"
	"github.com/unowned-ai/dreamjournal/pkg/history"
	"github.com/unowned-ai/dreamjournal/pkg/images"
	"github.com/unowned-ai/dreamjournal/pkg/provider"
)

type fakeGenerator struct {
	prompts []string
	ref     string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.ref, g.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return f.text, f.err
}

type fixture struct {
	svc   *Service
	store *history.FileStore
	gen   *fakeGenerator
	dir   string
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	dir := t.TempDir()
	imgs := images.NewDir(filepath.Join(dir, "images"), nil)
	store := history.NewFileStore(filepath.Join(dir, "dreams_history.json"), imgs, nil)
	gen := &fakeGenerator{ref: "https://img.example/dream.png"}

	opts.Store = store
	opts.Images = imgs
	if opts.Generator == nil {
		opts.Generator = gen
	}
	svc := New(opts)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 7, 30, 0, 0, time.Local) }
	return &fixture{svc: svc, store: store, gen: gen, dir: dir}
}

func TestRecord(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	rec, err := f.svc.Record(ctx, RecordInput{
		Text: "  Je volais au-dessus de la mer, j'étais heureux  ",
		Metadata: dreams.Metadata{
			SleepQuality: dreams.IntPtr(8),
			Emotions:     []string{"Joie"},
			DreamType:    dreams.TypeLucid,
			Style:        "fantasy",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Rêve du 15/06/2024", rec.Title)
	assert.Equal(t, "  Je volais au-dessus de la mer, j'étais heureux  ", rec.Text, "narrative is stored as submitted")
	assert.Equal(t, "2024-06-15T07:30:00.000000", rec.Date)
	assert.Equal(t, "https://img.example/dream.png", rec.ImagePath)
	assert.Contains(t, rec.Analysis.Symbols, "voler")
	assert.Equal(t, "mystérieuse", rec.Metadata.Mood)
	assert.Empty(t, rec.Metadata.InputType)

	require.Len(t, f.gen.prompts, 1)
	assert.Equal(t, "Je volais au-dessus de la mer, j'étais heureux, style fantasy, ambiance mystérieuse", f.gen.prompts[0])

	stored := f.store.Load(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, rec, stored[0])
}

func TestRecordRejectsEmptyText(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Record(context.Background(), RecordInput{Text: " \n\t"})
	assert.ErrorIs(t, err, ErrEmptyDream)
	assert.Empty(t, f.gen.prompts)
}

func TestRecordRejectsOutOfRangeScores(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Record(context.Background(), RecordInput{
		Text:     "un rêve",
		Metadata: dreams.Metadata{DreamClarity: dreams.IntPtr(11)},
	})
	assert.ErrorIs(t, err, ErrInvalidScore)
	assert.Empty(t, f.store.Load(context.Background()))
}

func TestRecordImageFailureIsNotSaved(t *testing.T) {
	genErr := &provider.GenerationError{Provider: "clipdrop", StatusCode: 402, Body: "no credits"}
	f := newFixture(t, Options{Generator: &fakeGenerator{err: genErr}})

	_, err := f.svc.Record(context.Background(), RecordInput{Text: "une maison"})
	var ge *provider.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 402, ge.StatusCode)
	assert.Empty(t, f.store.Load(context.Background()))
}

func TestRecordSkipImage(t *testing.T) {
	f := newFixture(t, Options{Generator: provider.Unavailable{Err: errors.New("no key")}})
	rec, err := f.svc.Record(context.Background(), RecordInput{Title: "Sans image", Text: "une maison", SkipImage: true})
	require.NoError(t, err)
	assert.Empty(t, rec.ImagePath)
	assert.Equal(t, "Sans image", rec.Title)
}

func TestRecordWithoutGeneratorIsConfigError(t *testing.T) {
	dir := t.TempDir()
	svc := New(Options{Store: history.NewFileStore(filepath.Join(dir, "h.json"), nil, nil)})
	_, err := svc.Record(context.Background(), RecordInput{Text: "une maison"})
	var ce *provider.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestRecordAudio(t *testing.T) {
	f := newFixture(t, Options{Transcriber: fakeTranscriber{text: "Je tombais dans le vide"}})

	rec, err := f.svc.RecordAudio(context.Background(), "reve.wav", RecordInput{})
	require.NoError(t, err)
	assert.Equal(t, "Rêve vocal du 15/06/2024", rec.Title)
	assert.Equal(t, dreams.InputTypeAudio, rec.Metadata.InputType)
	assert.Equal(t, "Je tombais dans le vide", rec.Text)
}

func TestRecordAudioTranscriptionFailure(t *testing.T) {
	tErr := &provider.TranscriptionError{AudioPath: "reve.wav", Err: errors.New("boom")}
	f := newFixture(t, Options{Transcriber: fakeTranscriber{err: tErr}})

	_, err := f.svc.RecordAudio(context.Background(), "reve.wav", RecordInput{})
	var te *provider.TranscriptionError
	assert.ErrorAs(t, err, &te)
	assert.Empty(t, f.store.Load(context.Background()))
}

func TestRecordAppendsEmotionLog(t *testing.T) {
	dir := t.TempDir()
	log := emotionlog.New(filepath.Join(dir, "dreams_history.csv"), nil, nil, nil)
	f := newFixture(t, Options{EmotionLog: log})

	_, err := f.svc.Record(context.Background(), RecordInput{Text: "J'avais peur du serpent"})
	require.NoError(t, err)

	entries, err := log.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, provider.MoodStressful, entries[0].Emotion)
	assert.Equal(t, "https://img.example/dream.png", entries[0].Image)
}

func seed(t *testing.T, f *fixture) {
	t.Helper()
	recs := []dreams.Record{
		{Title: "B lac", Text: "Une eau calme", Date: "2024-01-02T08:00:00.000000",
			Metadata: dreams.Metadata{DreamType: dreams.TypeNormal, Emotions: []string{"Sérénité"}}},
		{Title: "A loup", Text: "Un loup dans la forêt", Date: "2024-01-03T08:00:00.000000",
			Metadata: dreams.Metadata{DreamType: dreams.TypeNightmare, Emotions: []string{"Peur"}}},
		{Title: "C lac", Text: "Encore le lac", Date: "2024-01-01T08:00:00.000000"},
	}
	require.NoError(t, f.store.AppendAll(context.Background(), recs))
}

func TestListKeepsHistoryIndex(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f)
	ctx := context.Background()

	got := f.svc.List(ctx, ListOptions{})
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 0, 2}, indexes(got))

	got = f.svc.List(ctx, ListOptions{Sort: dreams.SortTitle})
	assert.Equal(t, []int{1, 0, 2}, indexes(got))

	got = f.svc.List(ctx, ListOptions{Query: "lac", Sort: dreams.SortDateAsc})
	assert.Equal(t, []int{2, 0}, indexes(got))

	got = f.svc.List(ctx, ListOptions{Filter: dreams.FilterOptions{DreamType: dreams.TypeUnspecified}})
	assert.Equal(t, []int{2}, indexes(got))

	assert.NotNil(t, f.svc.List(ctx, ListOptions{Query: "dragon"}))
}

func indexes(entries []Entry) []int {
	var out []int
	for _, e := range entries {
		out = append(out, e.Index)
	}
	return out
}

func TestGetAndDelete(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f)
	ctx := context.Background()

	rec, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A loup", rec.Title)

	_, err = f.svc.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrDreamNotFound)

	ok, err := f.svc.Delete(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, f.svc.History(ctx), 3)

	ok, err = f.svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, f.svc.History(ctx), 2)
}

func TestAggregates(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f)
	ctx := context.Background()

	st := f.svc.Statistics(ctx)
	assert.Equal(t, 3, st.TotalDreams)
	assert.Equal(t, dreams.TypeNormal, st.MostCommonDreamType)

	in := f.svc.Insights(ctx)
	assert.Equal(t, 2, in.TotalAnalysisPeriodDays)

	kw := f.svc.Keywords(ctx, 1)
	require.Len(t, kw, 1)

	types, emotions := f.svc.FilterChoices(ctx)
	assert.Equal(t, []string{dreams.TypeNormal, dreams.TypeNightmare, dreams.TypeUnspecified}, types)
	assert.Equal(t, []string{"Sérénité", "Peur"}, emotions)
}

func TestExportImport(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f)
	ctx := context.Background()

	path := filepath.Join(f.dir, "export.json")
	n, err := f.svc.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	added, err := f.svc.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportTo(ctx, &buf))

	other := newFixture(t, Options{})
	added, err = other.svc.ImportReader(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
}

func TestCleanupImagesKeepsReferenced(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	imgDir := filepath.Join(f.dir, "images")
	require.NoError(t, os.MkdirAll(imgDir, 0o755))

	kept := filepath.Join(imgDir, "kept.png")
	orphan := filepath.Join(imgDir, "orphan.png")
	for _, p := range []string{kept, orphan} {
		require.NoError(t, os.WriteFile(p, []byte("png"), 0o644))
		old := time.Now().Add(-48 * time.Hour)
		require.NoError(t, os.Chtimes(p, old, old))
	}
	require.NoError(t, f.store.Append(ctx, dreams.Record{Title: "x", Text: "y", ImagePath: kept, Date: "2024-01-01T00:00:00.000000"}))

	assert.Equal(t, 1, f.svc.CleanupImages(ctx, 24*time.Hour))
	_, err := os.Stat(kept)
	assert.NoError(t, err)
	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
}
