// Package api serves the journal over HTTP with JSON bodies.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/history"
	"github.com/unowned-ai/dreamjournal/pkg/journal"
	"github.com/unowned-ai/dreamjournal/pkg/provider"
)

const defaultKeywordLimit = 10

type Options struct {
	// MaxUploadBytes bounds audio uploads and import bodies. Zero means 25 MiB.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

type handler struct {
	svc       *journal.Service
	maxUpload int64
	logger    *slog.Logger
}

// NewRouter returns the HTTP routes over svc.
func NewRouter(svc *journal.Service, opts Options) http.Handler {
	h := &handler{svc: svc, maxUpload: opts.MaxUploadBytes, logger: opts.Logger}
	if h.maxUpload <= 0 {
		h.maxUpload = 25 << 20
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/analyze", h.analyze)
	r.Route("/dreams", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.record)
		r.Post("/audio", h.recordAudio)
		r.Get("/{index}", h.get)
		r.Delete("/{index}", h.delete)
	})
	r.Get("/stats", h.statistics)
	r.Get("/insights", h.insights)
	r.Get("/keywords", h.keywords)
	r.Get("/gallery", h.gallery)
	r.Get("/filters", h.filters)
	r.Get("/export", h.export)
	r.Post("/import", h.importDreams)
	return r
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *handler) analyze(w http.ResponseWriter, req *http.Request) {
	var in analyzeRequest
	if !h.decodeBody(w, req, &in) {
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeError(w, http.StatusBadRequest, journal.ErrEmptyDream)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Analyze(in.Text))
}

type recordRequest struct {
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Metadata  dreams.Metadata `json:"metadata"`
	SkipImage bool            `json:"skip_image"`
}

func (r recordRequest) input() journal.RecordInput {
	return journal.RecordInput{Title: r.Title, Text: r.Text, Metadata: r.Metadata, SkipImage: r.SkipImage}
}

func (h *handler) record(w http.ResponseWriter, req *http.Request) {
	var in recordRequest
	if !h.decodeBody(w, req, &in) {
		return
	}
	rec, err := h.svc.Record(req.Context(), in.input())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// recordAudio takes a multipart form with the recording in "audio" and
// optional "title", "style", "mood" and "skip_image" fields.
func (h *handler) recordAudio(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, h.maxUpload)
	if err := req.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	file, header, err := req.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing audio file: %w", err))
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "dream-*"+filepath.Ext(header.Filename))
	if err != nil {
		h.fail(w, err)
		return
	}
	defer os.Remove(tmp.Name())
	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	skip, _ := strconv.ParseBool(req.FormValue("skip_image"))
	in := journal.RecordInput{
		Title: req.FormValue("title"),
		Metadata: dreams.Metadata{
			Style: req.FormValue("style"),
			Mood:  req.FormValue("mood"),
		},
		SkipImage: skip,
	}
	rec, err := h.svc.RecordAudio(req.Context(), tmp.Name(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) list(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	order, err := dreams.ParseSortOrder(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.List(req.Context(), journal.ListOptions{
		Query: q.Get("q"),
		Filter: dreams.FilterOptions{
			DreamType: q.Get("type"),
			Emotion:   q.Get("emotion"),
		},
		Sort: order,
	}))
}

func (h *handler) get(w http.ResponseWriter, req *http.Request) {
	index, ok := indexParam(w, req)
	if !ok {
		return
	}
	rec, err := h.svc.Get(req.Context(), index)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journal.Entry{Index: index, Record: rec})
}

func (h *handler) delete(w http.ResponseWriter, req *http.Request) {
	index, ok := indexParam(w, req)
	if !ok {
		return
	}
	deleted, err := h.svc.Delete(req.Context(), index)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: index %d", journal.ErrDreamNotFound, index))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) statistics(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Statistics(req.Context()))
}

func (h *handler) insights(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Insights(req.Context()))
}

func (h *handler) keywords(w http.ResponseWriter, req *http.Request) {
	n := defaultKeywordLimit
	if s := req.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("n must be a positive integer"))
			return
		}
		n = v
	}
	writeJSON(w, http.StatusOK, h.svc.Keywords(req.Context(), n))
}

func (h *handler) gallery(w http.ResponseWriter, req *http.Request) {
	g := h.svc.Gallery(req.Context())
	if g == nil {
		g = []dreams.Record{}
	}
	writeJSON(w, http.StatusOK, g)
}

type filtersResponse struct {
	DreamTypes []string `json:"dream_types"`
	Emotions   []string `json:"emotions"`
}

func (h *handler) filters(w http.ResponseWriter, req *http.Request) {
	types, emotions := h.svc.FilterChoices(req.Context())
	writeJSON(w, http.StatusOK, filtersResponse{DreamTypes: nonNil(types), Emotions: nonNil(emotions)})
}

func (h *handler) export(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="dreams_export.json"`)
	if err := h.svc.ExportTo(req.Context(), w); err != nil {
		h.logger.Error("export failed", "error", err)
	}
}

type importResponse struct {
	Added int `json:"added"`
}

func (h *handler) importDreams(w http.ResponseWriter, req *http.Request) {
	body := http.MaxBytesReader(w, req.Body, h.maxUpload)
	n, err := h.svc.ImportReader(req.Context(), body)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Added: n})
}

func indexParam(w http.ResponseWriter, req *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(req, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("index must be an integer"))
		return 0, false
	}
	return index, true
}

// decodeBody reads a JSON body of at most maxUpload bytes into v and writes
// the error response when it cannot.
func (h *handler) decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	body := http.MaxBytesReader(w, req.Body, h.maxUpload)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return false
		}
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// fail maps service errors onto status codes.
func (h *handler) fail(w http.ResponseWriter, err error) {
	var (
		cfgErr *provider.ConfigError
		genErr *provider.GenerationError
		trErr  *provider.TranscriptionError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, journal.ErrEmptyDream), errors.Is(err, journal.ErrInvalidScore), errors.Is(err, history.ErrInvalidImport):
		status = http.StatusBadRequest
	case errors.Is(err, journal.ErrDreamNotFound):
		status = http.StatusNotFound
	case errors.As(err, &cfgErr):
		status = http.StatusServiceUnavailable
	case errors.As(err, &genErr), errors.As(err, &trErr), errors.Is(err, provider.ErrUnusableResponse):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err)
	}
	writeError(w, status, err)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("could not encode response", "error", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
