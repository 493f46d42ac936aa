package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
)

const (
	insertDreamStatement = `
	INSERT INTO dreams (id, position, title, text, analysis, image_path, metadata, date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	nextPositionStatement = `
	SELECT COALESCE(MAX(position), -1) + 1 FROM dreams
	`

	listDreamsStatement = `
	SELECT title, text, analysis, image_path, metadata, date
	FROM dreams
	ORDER BY position ASC
	`

	dreamAtIndexStatement = `
	SELECT id, image_path
	FROM dreams
	ORDER BY position ASC
	LIMIT 1 OFFSET ?
	`

	deleteDreamStatement = `
	DELETE FROM dreams
	WHERE id = ?
	`
)

// SQLStore keeps the history in SQLite. Each mutation runs in one
// transaction, so concurrent appends are not lost. The schema must be in
// place (db.UpgradeDB) before use.
type SQLStore struct {
	db     *sql.DB
	images ImageRemover
	logger *slog.Logger
}

// NewSQLStore wraps an open connection. images may be nil.
func NewSQLStore(db *sql.DB, images ImageRemover, logger *slog.Logger) *SQLStore {
	if images == nil {
		images = noopRemover{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{db: db, images: images, logger: logger}
}

func (s *SQLStore) Load(ctx context.Context) []dreams.Record {
	recs, err := s.list(ctx)
	if err != nil {
		s.logger.Warn("could not load dream history", "error", err)
		return []dreams.Record{}
	}
	return recs
}

func (s *SQLStore) list(ctx context.Context) ([]dreams.Record, error) {
	rows, err := s.db.QueryContext(ctx, listDreamsStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []dreams.Record{}
	for rows.Next() {
		var (
			rec                    dreams.Record
			analysisJSON, metaJSON string
		)
		if err := rows.Scan(&rec.Title, &rec.Text, &analysisJSON, &rec.ImagePath, &metaJSON, &rec.Date); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(analysisJSON), &rec.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLStore) Append(ctx context.Context, rec dreams.Record) error {
	return s.AppendAll(ctx, []dreams.Record{rec})
}

func (s *SQLStore) AppendAll(ctx context.Context, recs []dreams.Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pos int64
	if err := tx.QueryRowContext(ctx, nextPositionStatement).Scan(&pos); err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	for _, rec := range recs {
		analysisJSON, err := json.Marshal(rec.Analysis)
		if err != nil {
			return err
		}
		metaJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, insertDreamStatement,
			uuid.NewString(),
			pos,
			rec.Title,
			rec.Text,
			string(analysisJSON),
			rec.ImagePath,
			string(metaJSON),
			rec.Date,
		)
		if err != nil {
			return fmt.Errorf("insert dream: %w", err)
		}
		pos++
	}
	return tx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, index int) (bool, error) {
	if index < 0 {
		return false, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var id, imagePath string
	err = tx.QueryRowContext(ctx, dreamAtIndexStatement, index).Scan(&id, &imagePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if _, err := tx.ExecContext(ctx, deleteDreamStatement, id); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	s.images.Remove(imagePath)
	return true, nil
}
