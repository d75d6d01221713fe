package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marineportal/internal/models"
)

type memoryDocument struct {
	id        string
	seq       int64
	timestamp time.Time
	body      []byte
}

// MemoryStore keeps documents in process memory. It backs `memory:` URIs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	seq         int64
	collections map[models.Kind][]memoryDocument
	closed      bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[models.Kind][]memoryDocument{}}
}

// InsertRecord stores a copy of rec.
func (m *MemoryStore) InsertRecord(ctx context.Context, rec models.Record) error {
	if rec == nil {
		return fmt.Errorf("record is required")
	}
	return m.InsertRecords(ctx, rec.Kind(), []models.Record{rec})
}

// InsertRecords stores copies of recs. Either all records are stored or none.
func (m *MemoryStore) InsertRecords(ctx context.Context, kind models.Kind, recs []models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckKinds(kind, recs); err != nil {
		return err
	}

	docs := make([]memoryDocument, 0, len(recs))
	for _, rec := range recs {
		models.Normalize(rec)
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s document: %w", kind, err)
		}
		docs = append(docs, memoryDocument{id: uuid.NewString(), timestamp: rec.CreatedAt(), body: body})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("memory store is closed")
	}
	for i := range docs {
		m.seq++
		docs[i].seq = m.seq
	}
	m.collections[kind] = append(m.collections[kind], docs...)
	return nil
}

// CountRecords counts records of kind.
func (m *MemoryStore) CountRecords(ctx context.Context, kind models.Kind) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := models.ParseKind(string(kind)); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.collections[kind])), nil
}

// ListRecords returns decoded copies so callers cannot mutate stored records.
func (m *MemoryStore) ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := models.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	m.mu.RLock()
	docs := make([]memoryDocument, len(m.collections[kind]))
	copy(docs, m.collections[kind])
	m.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		ti, tj := docs[i].timestamp, docs[j].timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return docs[i].seq > docs[j].seq
	})

	out := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeDocument(kind, doc.body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Ping reports whether the store is still open.
func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("memory store is closed")
	}
	return ctx.Err()
}

// Close marks the store closed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
