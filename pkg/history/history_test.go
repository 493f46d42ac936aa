package history

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/dreamjournal/pkg/analysis"
	"github.com/unowned-ai/dreamjournal/pkg/db"
	"github.com/unowned-ai/dreamjournal/pkg/dreams"
)

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *recordingRemover) Remove(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, ref)
}

func record(title, text, date string) dreams.Record {
	return dreams.Record{
		Title:     title,
		Text:      text,
		Date:      date,
		ImagePath: "generated_images/" + title + ".png",
		Analysis:  analysis.New(nil).Analyze(text),
		Metadata: dreams.Metadata{
			SleepQuality: dreams.IntPtr(7),
			Emotions:     []string{"Joie"},
			DreamType:    dreams.TypeLucid,
		},
	}
}

func newFileStore(t *testing.T, images ImageRemover) Store {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "dreams_history.json"), images, nil)
}

func newSQLStore(t *testing.T, images ImageRemover) Store {
	t.Helper()
	conn, err := db.OpenDBConnection(filepath.Join(t.TempDir(), "dreams.db"), true, "NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.UpgradeDB(context.Background(), conn, nil, "test", db.TargetSchemaVersion))
	return NewSQLStore(conn, images, nil)
}

var backends = []struct {
	name string
	open func(t *testing.T, images ImageRemover) Store
}{
	{"file", newFileStore},
	{"sqlite", newSQLStore},
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			rm := &recordingRemover{}
			s := b.open(t, rm)

			assert.Empty(t, s.Load(ctx))
			assert.NotNil(t, s.Load(ctx))

			a := record("a", "Je volais dans le ciel avec joie", "2024-01-01T08:00:00.000000")
			bb := record("b", "J'avais peur dans une maison sombre", "2024-01-02T08:00:00.000000")
			c := record("c", "Un lac calme", "2024-01-03T08:00:00.000000")
			c.Metadata.SleepQuality = nil

			require.NoError(t, s.Append(ctx, a))
			require.NoError(t, s.AppendAll(ctx, []dreams.Record{bb, c}))

			got := s.Load(ctx)
			require.Len(t, got, 3)
			assert.Equal(t, []dreams.Record{a, bb, c}, got)

			ok, err := s.Delete(ctx, 3)
			require.NoError(t, err)
			assert.False(t, ok)
			ok, err = s.Delete(ctx, -1)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Len(t, s.Load(ctx), 3)
			assert.Empty(t, rm.removed)

			ok, err = s.Delete(ctx, 1)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []dreams.Record{a, c}, s.Load(ctx))
			assert.Equal(t, []string{bb.ImagePath}, rm.removed)

			d := record("d", "Encore un rêve", "2024-01-04T08:00:00.000000")
			require.NoError(t, s.Append(ctx, d))
			assert.Equal(t, []dreams.Record{a, c, d}, s.Load(ctx))
		})
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dreams_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, nil, nil)
	assert.Empty(t, s.Load(ctx))

	err := s.Append(ctx, record("a", "texte", "2024-01-01T08:00:00.000000"))
	require.Error(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b), "a broken history is never overwritten")
}

func TestFileStoreWritesPrettyArray(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "h.json"), nil, nil)
	require.NoError(t, s.Append(ctx, record("a", "texte", "2024-01-01T08:00:00.000000")))

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "[\n  {\n"))
	assert.Contains(t, string(b), `"sleep_quality": 7`)
	assert.NotContains(t, string(b), `"dream_clarity"`)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			src := b.open(t, nil)
			recs := []dreams.Record{
				record("a", "Je volais dans le ciel avec joie", "2024-01-01T08:00:00.000000"),
				record("b", "J'avais peur dans une maison sombre", "2024-01-02T08:00:00.000000"),
			}
			require.NoError(t, src.AppendAll(ctx, recs))

			path := filepath.Join(t.TempDir(), "export.json")
			require.NoError(t, Export(src.Load(ctx), path))

			dst := b.open(t, nil)
			n, err := Import(ctx, dst, path)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Equal(t, src.Load(ctx), dst.Load(ctx))

			n, err = Import(ctx, dst, path)
			require.NoError(t, err)
			assert.Equal(t, 0, n, "second import adds nothing")
			assert.Len(t, dst.Load(ctx), 2)
		})
	}
}

func TestImportDedupWithinFile(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, nil)

	long := strings.Repeat("é", 50)
	payload := `[
	  {"title": "x", "text": "` + long + `suite A", "date": "2024-01-01T08:00:00"},
	  {"title": "y", "text": "` + long + `suite B", "date": "2024-01-01T08:00:00"},
	  {"title": "z", "text": "` + long + `suite C", "date": "2024-01-02T08:00:00"}
	]`
	n, err := ImportReader(ctx, s, strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := s.Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Title)
	assert.Equal(t, "z", got[1].Title)
}

func TestImportInvalid(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, nil)

	_, err := Import(ctx, s, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrInvalidImport)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "object", payload: `{"title": "x"}`},
		{name: "null", payload: `null`},
		{name: "not json", payload: `not json`},
		{name: "string", payload: `"text"`},
		{name: "trailing data", payload: `[{"title": "x", "text": "a", "date": "2024-01-01T08:00:00"}] trailing`},
		{name: "second array", payload: `[] []`},
		{name: "bad date", payload: `[{"title": "x", "text": "a", "date": "d"}]`},
		{name: "missing date", payload: `[{"title": "x", "text": "a"}]`},
		{name: "missing title", payload: `[{"text": "a", "date": "2024-01-01T08:00:00"}]`},
		{name: "blank title", payload: `[{"title": "  ", "text": "a", "date": "2024-01-01T08:00:00"}]`},
		{
			name: "one bad record among good ones",
			payload: `[
			  {"title": "ok", "text": "a", "date": "2024-01-01T08:00:00"},
			  {"title": "ko", "text": "b", "date": "hier"}
			]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ImportReader(ctx, s, strings.NewReader(tt.payload))
			assert.ErrorIs(t, err, ErrInvalidImport)
			assert.Equal(t, 0, n)
		})
	}
	assert.Empty(t, s.Load(ctx), "nothing is imported partially")

	n, err := ImportReader(ctx, s, strings.NewReader("[]\n  "))
	require.NoError(t, err, "trailing whitespace is fine")
	assert.Equal(t, 0, n)
}

func TestExportTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportTo(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSQLStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, record("r", "texte", fmt.Sprintf("2024-01-%02dT08:00:00", i+1))))
		}()
	}
	wg.Wait()
	assert.Len(t, s.Load(ctx), 20)
}
