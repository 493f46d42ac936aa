package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/utils"
)

// dedupPrefixRunes is how much of the narrative takes part in the import
// identity of a record.
const dedupPrefixRunes = 50

// Export writes history to path as a pretty-printed JSON array.
func Export(history []dreams.Record, path string) error {
	if history == nil {
		history = []dreams.Record{}
	}
	if err := utils.WriteJSONFileAtomic(path, history, true); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	return nil
}

// ExportTo streams history as a pretty-printed JSON array.
func ExportTo(w io.Writer, history []dreams.Record) error {
	if history == nil {
		history = []dreams.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(history)
}

// Import reads a JSON array of records from path and appends those not
// already present. It returns how many were added.
func Import(ctx context.Context, store Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s does not exist", ErrInvalidImport, path)
		}
		return 0, err
	}
	defer f.Close()
	return ImportReader(ctx, store, f)
}

// ImportReader is Import over an arbitrary source. A record is a duplicate
// when an existing or earlier imported record has the same date and the same
// first fifty characters of text. New records are appended in one write.
// Any record without a title or a parseable date rejects the whole import.
func ImportReader(ctx context.Context, store Store, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)
	var incoming []dreams.Record
	if err := dec.Decode(&incoming); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if incoming == nil {
		return 0, fmt.Errorf("%w: top level is not an array", ErrInvalidImport)
	}
	if _, err := dec.Token(); err != io.EOF {
		return 0, fmt.Errorf("%w: unexpected data after the array", ErrInvalidImport)
	}
	for i, rec := range incoming {
		if err := validateRecord(rec); err != nil {
			return 0, fmt.Errorf("%w: record %d: %v", ErrInvalidImport, i, err)
		}
	}

	seen := make(map[dedupKey]struct{})
	for _, rec := range store.Load(ctx) {
		seen[keyOf(rec)] = struct{}{}
	}

	var fresh []dreams.Record
	for _, rec := range incoming {
		k := keyOf(rec)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, rec)
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := store.AppendAll(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

func validateRecord(rec dreams.Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return errors.New("missing title")
	}
	if _, err := dreams.ParseDate(rec.Date); err != nil {
		return err
	}
	return nil
}

type dedupKey struct {
	date   string
	prefix string
}

func keyOf(rec dreams.Record) dedupKey {
	runes := []rune(rec.Text)
	if len(runes) > dedupPrefixRunes {
		runes = runes[:dedupPrefixRunes]
	}
	return dedupKey{date: rec.Date, prefix: string(runes)}
}
