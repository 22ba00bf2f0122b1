package index

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"agent-router/internal/embeddings"
)

// PostgresIndex reads the pgvector tables written by the corpus ingestion
// job. It never writes.
type PostgresIndex struct {
	db          *sql.DB
	documentIDs []uuid.UUID
}

const pingTimeout = 5 * time.Second

// NewPostgres opens the index and checks it is reachable. documentIDs
// restricts retrieval to those documents; empty means the whole corpus.
func NewPostgres(dsn string, documentIDs []uuid.UUID) (*PostgresIndex, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	idx := NewPostgresFromDB(db, documentIDs)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := idx.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

// NewPostgresFromDB wraps an already opened handle.
func NewPostgresFromDB(db *sql.DB, documentIDs []uuid.UUID) *PostgresIndex {
	return &PostgresIndex{db: db, documentIDs: documentIDs}
}

func (s *PostgresIndex) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresIndex) Close() error {
	return s.db.Close()
}

const topKQuery = `
	SELECT
		c.id,
		c.document_id,
		c.ord,
		c.text,
		1 - (e.vector <=> $1::vector) AS similarity,
		COALESCE(s.summary, ''),
		COALESCE(s.key_points, ARRAY[]::TEXT[])
	FROM embeddings e
	JOIN chunks c ON c.id = e.chunk_id
	LEFT JOIN summaries s ON s.document_id = c.document_id
	WHERE cardinality($2::uuid[]) = 0 OR c.document_id = ANY($2::uuid[])
	ORDER BY e.vector <=> $1::vector
	LIMIT $3`

func (s *PostgresIndex) TopK(ctx context.Context, vector embeddings.Vector, k int) ([]Passage, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	rows, err := s.db.QueryContext(ctx, topKQuery, vectorToString(vector), pq.Array(uuidStrings(s.documentIDs)), k)
	if err != nil {
		return nil, fmt.Errorf("top-k query: %w", err)
	}
	defer rows.Close()

	var results []Passage
	for rows.Next() {
		var (
			p         Passage
			keyPoints []string
		)
		if err := rows.Scan(&p.ChunkID, &p.DocumentID, &p.Ord, &p.Text, &p.Score, &p.Summary, pq.Array(&keyPoints)); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		p.KeyPoints = keyPoints
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passages: %w", err)
	}
	return results, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// vectorToString converts a Vector ([]float32) to pgvector array format.
// Format: "[0.1,0.2,0.3,...]"
func vectorToString(v embeddings.Vector) string {
	if len(v) == 0 {
		return "[]"
	}
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = strconv.FormatFloat(float64(val), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
