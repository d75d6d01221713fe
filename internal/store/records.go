package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marineportal/internal/models"
)

// timestampLayout is fixed-width so that text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// InsertRecord writes one record as a JSON document.
func (s *Store) InsertRecord(ctx context.Context, rec models.Record) error {
	if rec == nil {
		return fmt.Errorf("record is required")
	}
	if err := CheckKinds(rec.Kind(), []models.Record{rec}); err != nil {
		return err
	}
	return insertDocument(ctx, s.db, rec)
}

// InsertRecords writes all records in a single transaction.
func (s *Store) InsertRecords(ctx context.Context, kind models.Kind, recs []models.Record) (err error) {
	if err := CheckKinds(kind, recs); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, rec := range recs {
		if err := insertDocument(ctx, tx, rec); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountRecords counts the documents in kind's collection.
func (s *Store) CountRecords(ctx context.Context, kind models.Kind) (int64, error) {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return 0, err
	}
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE collection = ?", kind.Collection()).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListRecords returns every record of kind ordered by timestamp descending.
func (s *Store) ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT body FROM documents WHERE collection = ? ORDER BY timestamp DESC, seq DESC",
		kind.Collection(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		rec, err := decodeDocument(kind, []byte(body))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertDocument(ctx context.Context, db execer, rec models.Record) error {
	models.Normalize(rec)
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", rec.Kind(), err)
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO documents (id, collection, timestamp, body) VALUES (?, ?, ?, ?)",
		uuid.NewString(),
		rec.Kind().Collection(),
		formatTimestamp(rec.CreatedAt()),
		string(body),
	)
	return err
}

func decodeDocument(kind models.Kind, body []byte) (models.Record, error) {
	rec, err := models.NewRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, rec); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", kind, err)
	}
	models.Normalize(rec)
	return rec, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
