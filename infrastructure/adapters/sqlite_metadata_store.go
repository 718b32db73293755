package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
	"time"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

const assetFieldsTable = "asset_fields"

// sqliteMetadataStore keeps one row per asset and field, so an update only ever touches
// the rows of the fields it names.
type sqliteMetadataStore struct {
	logger outbound.LoggerPort
	db     *sql.DB
	now    func() time.Time
}

// OpenSQLite opens the database at path and applies the schema.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Writers are serialised on a single connection; SQLite allows one writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

func NewSQLiteMetadataStore(logger outbound.LoggerPort, db *sql.DB) outbound.MetadataStorePort {
	return &sqliteMetadataStore{
		logger: logger,
		db:     db,
		now:    time.Now,
	}
}

func (s *sqliteMetadataStore) Update(ctx context.Context, update *domain.MetadataUpdate) (*domain.MetadataRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin metadata update: %w", err)
	}
	defer tx.Rollback()

	attrs, err := loadFields(ctx, tx, update.AssetID)
	if err != nil {
		return nil, err
	}

	record, err := domain.RecordFromAttributes(attrs)
	if err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", update.AssetID, err)
	}

	now := s.now().UTC()
	if err := update.ApplyTo(&record, len(attrs) > 0, now); err != nil {
		return nil, err
	}

	fields := []domain.FieldValue{
		{Name: domain.AttrAssetID, Value: update.AssetID},
		{Name: domain.AttrUpdatedAt, Value: now},
	}
	for _, f := range update.Fields {
		if f.Name != domain.AttrAssetID && f.Name != domain.AttrUpdatedAt {
			fields = append(fields, f)
		}
	}

	insert := sq.Insert(assetFieldsTable).Columns("asset_id", "field", "value", "updated_at")
	for _, f := range fields {
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.Name, err)
		}
		insert = insert.Values(update.AssetID.String(), f.Name, string(value), now.Format(time.RFC3339Nano))
	}
	query, args, err := insert.
		Suffix("ON CONFLICT (asset_id, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upsert metadata fields", map[string]interface{}{
			"asset_id": update.AssetID,
		})
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit metadata update: %w", err)
	}
	return &record, nil
}

func (s *sqliteMetadataStore) Get(ctx context.Context, id domain.AssetID) (*domain.MetadataRecord, error) {
	attrs, err := loadFields(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}

	record, err := domain.RecordFromAttributes(attrs)
	if err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", id, err)
	}
	return &record, nil
}

func (s *sqliteMetadataStore) Scan(ctx context.Context) ([]domain.MetadataRecord, error) {
	query, args, err := sq.Select("asset_id", "field", "value").
		From(assetFieldsTable).
		OrderBy("asset_id", "field").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan metadata: %w", err)
	}
	defer rows.Close()

	records := make([]domain.MetadataRecord, 0)
	var current string
	attrs := make(map[string]json.RawMessage)
	flush := func() error {
		if len(attrs) == 0 {
			return nil
		}
		record, err := domain.RecordFromAttributes(attrs)
		if err != nil {
			return fmt.Errorf("decode metadata %s: %w", current, err)
		}
		records = append(records, record)
		attrs = make(map[string]json.RawMessage)
		return nil
	}

	for rows.Next() {
		var assetID, field, value string
		if err := rows.Scan(&assetID, &field, &value); err != nil {
			return nil, err
		}
		if assetID != current {
			if err := flush(); err != nil {
				return nil, err
			}
			current = assetID
		}
		attrs[field] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return records, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func loadFields(ctx context.Context, q queryer, id domain.AssetID) (map[string]json.RawMessage, error) {
	query, args, err := sq.Select("field", "value").
		From(assetFieldsTable).
		Where(sq.Eq{"asset_id": id.String()}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", id, err)
	}
	defer rows.Close()

	attrs := make(map[string]json.RawMessage)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, err
		}
		attrs[field] = json.RawMessage(value)
	}
	return attrs, rows.Err()
}
