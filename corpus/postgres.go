package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "transit-agent/errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// PostgresStore loads the historical corpus from Postgres. The inquiries table
// is populated by the external ingestion job; this store only reads it.
type PostgresStore struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(connStr string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, apperrors.WrapError(err, "open corpus database")
	}
	if err := db.Ping(); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCorpusUnavailable, err.Error())
	}
	logger.Info("Connected to corpus database")
	return &PostgresStore{DB: db, logger: logger}, nil
}

// EnsureSchema creates the required tables if they do not already exist.
// The embedding column uses pgvector; its dimension matches the embedding
// backend and is fixed at ingestion time.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS inquiries (
            id UUID PRIMARY KEY,
            inquiry_text TEXT NOT NULL,
            response_text TEXT NOT NULL,
            embedding vector(768),
            line_numbers INT[] DEFAULT '{}'::INT[],
            created_date TIMESTAMPTZ DEFAULT NOW(),
            is_official BOOLEAN DEFAULT FALSE
        )`,
		`CREATE INDEX IF NOT EXISTS idx_inquiries_created_date ON inquiries(created_date DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// ListRecords returns the full corpus ordered by creation date. Records with
// no embedding yet are returned with a nil vector; the engine skips them for
// the embedding strategy.
func (s *PostgresStore) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, inquiry_text, response_text, embedding, line_numbers, created_date, is_official
        FROM inquiries
        ORDER BY created_date ASC`)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCorpusUnavailable, err.Error())
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			embStr   sql.NullString
			rawLines []byte
			created  time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.InquiryText, &rec.ResponseText, &embStr, &rawLines, &created, &rec.IsOfficial); err != nil {
			return nil, fmt.Errorf("scan corpus row: %w", err)
		}
		if embStr.Valid {
			var vec pgvector.Vector
			if err := vec.Scan(embStr.String); err != nil {
				s.logger.Warn("Malformed embedding in corpus row, treating as missing",
					zap.String("record_id", rec.ID), zap.Error(err))
			} else {
				rec.Embedding = vec.Slice()
			}
		}
		rec.LineNumbers = parseIntArray(rawLines)
		rec.CreatedDate = created
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCorpusUnavailable, err.Error())
	}
	return records, nil
}

// parseIntArray decodes a Postgres int[] literal like {30,40}.
func parseIntArray(raw []byte) []int {
	if len(raw) < 2 {
		return nil
	}
	var out []int
	n := 0
	inNum := false
	for _, b := range raw {
		switch {
		case b >= '0' && b <= '9':
			n = n*10 + int(b-'0')
			inNum = true
		default:
			if inNum {
				out = append(out, n)
				n = 0
				inNum = false
			}
		}
	}
	return out
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
