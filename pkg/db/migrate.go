package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// TargetSchemaVersion is the highest schema version this build supports
	// for the dream history component.
	TargetSchemaVersion int64 = 1
	// HistoryComponent is the versioned component holding dream records.
	HistoryComponent = "dreamhistory"
)

// GetComponentSchemaVersion retrieves the schema version for a component.
// Returns 0 if the component is not found or the versions table does not exist yet.
func GetComponentSchemaVersion(ctx context.Context, db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM dreamjournal_versions WHERE component = ?;`
	row := db.QueryRowContext(ctx, query, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "dreamjournal_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates every table and records schemaVersionToSet for
// the history component.
func InitializeSchema(ctx context.Context, db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.ExecContext(ctx, SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO dreamjournal_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.ExecContext(ctx, insertVersionSQL, HistoryComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", HistoryComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the history component of db to appTargetSchemaVersion.
// dbIdentifierForLog only appears in log lines and errors.
func UpgradeDB(ctx context.Context, db *sql.DB, logger *slog.Logger, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	if logger == nil {
		logger = slog.Default()
	}
	currentDBVersion, err := GetComponentSchemaVersion(ctx, db, HistoryComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		logger.Info("initializing database schema",
			"component", HistoryComponent, "db", dbIdentifierForLog, "version", appTargetSchemaVersion)
		if err := InitializeSchema(ctx, db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", HistoryComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		logger.Debug("database schema up to date",
			"component", HistoryComponent, "db", dbIdentifierForLog, "version", currentDBVersion)
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", HistoryComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", HistoryComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
