package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/history"
	"github.com/unowned-ai/dreamjournal/pkg/journal"
	"github.com/unowned-ai/dreamjournal/pkg/provider"
	"github.com/unowned-ai/dreamjournal/pkg/stats"
)

type stubGenerator struct{ err error }

func (g stubGenerator) Generate(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return "https://img.example/dream.png", nil
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return "Je nageais dans la mer", nil
}

func newServer(t *testing.T, gen provider.ImageGenerator) *httptest.Server {
	t.Helper()
	store := history.NewFileStore(filepath.Join(t.TempDir(), "dreams_history.json"), nil, nil)
	svc := journal.New(journal.Options{Store: store, Generator: gen, Transcriber: stubTranscriber{}})
	srv := httptest.NewServer(NewRouter(svc, Options{}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	srv := newServer(t, stubGenerator{})
	resp := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	srv := newServer(t, stubGenerator{})

	resp := postJSON(t, srv.URL+"/analyze", analyzeRequest{Text: "Je volais dans le ciel avec joie"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Symbols   []string `json:"symbols"`
		WordCount int      `json:"word_count"`
	}
	decode(t, resp, &res)
	assert.Equal(t, []string{"voler", "ciel"}, res.Symbols)
	assert.Equal(t, 7, res.WordCount)

	resp = postJSON(t, srv.URL+"/analyze", analyzeRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecordListGetDelete(t *testing.T) {
	srv := newServer(t, stubGenerator{})

	resp := postJSON(t, srv.URL+"/dreams", recordRequest{
		Text:     "Une maison immense",
		Metadata: dreams.Metadata{DreamType: dreams.TypeRecurring, Emotions: []string{"Peur"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec dreams.Record
	decode(t, resp, &rec)
	assert.Equal(t, "https://img.example/dream.png", rec.ImagePath)
	assert.Contains(t, rec.Analysis.Symbols, "maison")

	resp = postJSON(t, srv.URL+"/dreams", recordRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv.URL+"/dreams?type="+url.QueryEscape(dreams.TypeRecurring))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []journal.Entry
	decode(t, resp, &entries)
	require.Len(t, entries, 1)

	resp = get(t, srv.URL+"/dreams?sort=random")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv.URL+"/dreams/0")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, srv.URL+"/dreams/9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, srv.URL+"/dreams/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	del := func(path string) int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusNotFound, del("/dreams/4"))
	assert.Equal(t, http.StatusNoContent, del("/dreams/0"))

	resp = get(t, srv.URL+"/dreams")
	decode(t, resp, &entries)
	assert.Empty(t, entries)
}

func TestRecordProviderErrors(t *testing.T) {
	srv := newServer(t, stubGenerator{err: &provider.GenerationError{Provider: "clipdrop", StatusCode: 500}})
	resp := postJSON(t, srv.URL+"/dreams", recordRequest{Text: "un lac"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	srv = newServer(t, provider.Unavailable{Err: &provider.ConfigError{Setting: "DREAM_IMAGE_API_KEY", Reason: "not set"}})
	resp = postJSON(t, srv.URL+"/dreams", recordRequest{Text: "un lac"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/dreams", recordRequest{Text: "un lac", SkipImage: true})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRecordAudio(t *testing.T) {
	srv := newServer(t, stubGenerator{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", "reve.wav")
	require.NoError(t, err)
	_, err = fw.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("style", "surréaliste"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/dreams/audio", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rec dreams.Record
	decode(t, resp, &rec)
	assert.Equal(t, "Je nageais dans la mer", rec.Text)
	assert.Equal(t, dreams.InputTypeAudio, rec.Metadata.InputType)
	assert.Equal(t, "surréaliste", rec.Metadata.Style)
	assert.True(t, strings.HasPrefix(rec.Title, "Rêve vocal du "))
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newServer(t, stubGenerator{})
	for _, txt := range []string{"un lac", "une forêt"} {
		resp := postJSON(t, src.URL+"/dreams", recordRequest{Text: txt})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := get(t, src.URL+"/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var exported bytes.Buffer
	_, err := exported.ReadFrom(resp.Body)
	require.NoError(t, err)

	dst := newServer(t, stubGenerator{})
	for _, want := range []int{2, 0} {
		resp, err := http.Post(dst.URL+"/import", "application/json", bytes.NewReader(exported.Bytes()))
		require.NoError(t, err)
		var out importResponse
		decode(t, resp, &out)
		resp.Body.Close()
		assert.Equal(t, want, out.Added)
	}

	resp, err = http.Post(dst.URL+"/import", "application/json", strings.NewReader(`{"not":"an array"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAggregates(t *testing.T) {
	srv := newServer(t, stubGenerator{})
	resp := postJSON(t, srv.URL+"/dreams", recordRequest{
		Text:     "soleil soleil sur la mer",
		Metadata: dreams.Metadata{SleepQuality: dreams.IntPtr(7), Emotions: []string{"Joie"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var st stats.Statistics
	decode(t, get(t, srv.URL+"/stats"), &st)
	assert.Equal(t, 1, st.TotalDreams)
	assert.Equal(t, 7.0, st.AverageSleepQuality)

	var in stats.Insights
	decode(t, get(t, srv.URL+"/insights"), &in)
	assert.Equal(t, 0.0, in.AverageDreamsPerWeek)

	var kws []dreams.KeywordCount
	decode(t, get(t, srv.URL+"/keywords?n=1"), &kws)
	require.Len(t, kws, 1)
	assert.Equal(t, "soleil", kws[0].Word)
	assert.Equal(t, http.StatusBadRequest, get(t, srv.URL+"/keywords?n=zero").StatusCode)

	var gallery []dreams.Record
	decode(t, get(t, srv.URL+"/gallery"), &gallery)
	assert.Len(t, gallery, 1)

	var f filtersResponse
	decode(t, get(t, srv.URL+"/filters"), &f)
	assert.Equal(t, []string{dreams.TypeUnspecified}, f.DreamTypes)
	assert.Equal(t, []string{"Joie"}, f.Emotions)
}

func TestJSONBodiesAreLimited(t *testing.T) {
	store := history.NewFileStore(filepath.Join(t.TempDir(), "dreams_history.json"), nil, nil)
	svc := journal.New(journal.Options{Store: store, Generator: stubGenerator{}, Transcriber: stubTranscriber{}})
	srv := httptest.NewServer(NewRouter(svc, Options{MaxUploadBytes: 64}))
	t.Cleanup(srv.Close)

	long := strings.Repeat("Je volais au-dessus de la mer. ", 10)

	resp := postJSON(t, srv.URL+"/analyze", map[string]string{"text": long})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/dreams", map[string]any{"text": long, "skip_image": true})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Empty(t, store.Load(context.Background()))

	resp = postJSON(t, srv.URL+"/analyze", map[string]string{"text": "Je volais"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
