package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/utils"
)

// FileStore keeps the whole history as one pretty-printed JSON array.
//
// Every mutation rewrites the file (read, modify, write through a temporary
// file and rename). There is no locking: two writers interleaving can lose
// one of their updates. Use SQLStore when that matters.
type FileStore struct {
	path   string
	images ImageRemover
	logger *slog.Logger
}

// NewFileStore returns a FileStore backed by path. images may be nil.
func NewFileStore(path string, images ImageRemover, logger *slog.Logger) *FileStore {
	if images == nil {
		images = noopRemover{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, images: images, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) []dreams.Record {
	recs, err := s.read()
	if err != nil {
		s.logger.Warn("could not load dream history", "path", s.path, "error", err)
		return []dreams.Record{}
	}
	return recs
}

// read distinguishes a missing file (empty history) from a broken one.
func (s *FileStore) read() ([]dreams.Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []dreams.Record{}, nil
		}
		return nil, err
	}
	var recs []dreams.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if recs == nil {
		recs = []dreams.Record{}
	}
	return recs, nil
}

func (s *FileStore) Append(ctx context.Context, rec dreams.Record) error {
	return s.AppendAll(ctx, []dreams.Record{rec})
}

// AppendAll refuses to touch a file it cannot parse rather than replacing
// it with recs alone.
func (s *FileStore) AppendAll(_ context.Context, recs []dreams.Record) error {
	if len(recs) == 0 {
		return nil
	}
	current, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(current, recs...))
}

func (s *FileStore) Delete(_ context.Context, index int) (bool, error) {
	current, err := s.read()
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(current) {
		return false, nil
	}
	removed := current[index]
	rest := append(current[:index:index], current[index+1:]...)
	if err := s.write(rest); err != nil {
		return false, err
	}
	s.images.Remove(removed.ImagePath)
	return true, nil
}

func (s *FileStore) write(recs []dreams.Record) error {
	if err := utils.WriteJSONFileAtomic(s.path, recs, true); err != nil {
		return fmt.Errorf("save dream history %s: %w", s.path, err)
	}
	return nil
}
