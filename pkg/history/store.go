// Package history persists the ordered collection of dream records.
package history

import (
	"context"
	"errors"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
)

// ErrInvalidImport is returned when an import source is missing or is not a
// JSON array of records.
var ErrInvalidImport = errors.New("invalid import file")

// Store is an ordered, append-mostly collection of records. Indices are
// positions in the order returned by Load.
type Store interface {
	// Load never fails: storage problems are logged and yield an empty history.
	Load(ctx context.Context) []dreams.Record
	Append(ctx context.Context, rec dreams.Record) error
	// AppendAll adds recs in one write.
	AppendAll(ctx context.Context, recs []dreams.Record) error
	// Delete removes the record at index. An out-of-range index reports false
	// and changes nothing.
	Delete(ctx context.Context, index int) (bool, error)
}

// ImageRemover deletes the illustration of a removed record. Implementations
// must ignore URLs and swallow failures.
type ImageRemover interface {
	Remove(ref string)
}

type noopRemover struct{}

func (noopRemover) Remove(string) {}
