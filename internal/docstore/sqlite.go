package docstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/docsift/docsift/pkg/types"
)

// SQLiteStore implements Store on a SQLite database. The driver is
// selected at build time: mattn/go-sqlite3 with the sqlite_vec tag,
// modernc.org/sqlite otherwise.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, doc *types.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("put document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Replace semantics: cascade clears sections and chunks.
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, doc.ID); err != nil {
		return fmt.Errorf("clear existing document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, name, raw_text, created_at) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.RawText, time.Now())
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	sectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (document_id, position, title, std_title, section_num, start_offset, end_offset, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare section insert: %w", err)
	}
	defer func() { _ = sectionStmt.Close() }()

	for i, sec := range doc.Sections {
		if _, err := sectionStmt.ExecContext(ctx, doc.ID, i, sec.Title, sec.StdTitle, sec.SectionNum, sec.StartOffset, sec.EndOffset, sec.Content); err != nil {
			return fmt.Errorf("insert section %d: %w", i, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, position, content, section_title, section_num, embedding, dimension)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer func() { _ = chunkStmt.Close() }()

	for i, chunk := range doc.Chunks {
		blob := serializeVector(doc.Embeddings[i])
		if _, err := chunkStmt.ExecContext(ctx, doc.ID, i, chunk.Text, chunk.Section, chunk.SectionNum, blob, len(doc.Embeddings[i])); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*types.Document, error) {
	doc := &types.Document{ID: id}

	err := s.db.QueryRowContext(ctx,
		`SELECT name, raw_text FROM documents WHERE id = ?`, id).
		Scan(&doc.Name, &doc.RawText)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	doc.FullText = doc.RawText

	if err := s.loadSections(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.loadChunks(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *SQLiteStore) loadSections(ctx context.Context, doc *types.Document) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, std_title, section_num, start_offset, end_offset, content
		FROM sections WHERE document_id = ? ORDER BY position`, doc.ID)
	if err != nil {
		return fmt.Errorf("query sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sec types.Section
		var num sql.NullString
		if err := rows.Scan(&sec.Title, &sec.StdTitle, &num, &sec.StartOffset, &sec.EndOffset, &sec.Content); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		sec.SectionNum = num.String
		doc.Sections = append(doc.Sections, sec)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadChunks(ctx context.Context, doc *types.Document) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content, section_title, section_num, embedding
		FROM chunks WHERE document_id = ? ORDER BY position`, doc.ID)
	if err != nil {
		return fmt.Errorf("query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var chunk types.Chunk
		var title, num sql.NullString
		var blob []byte
		if err := rows.Scan(&chunk.Text, &title, &num, &blob); err != nil {
			return fmt.Errorf("scan chunk: %w", err)
		}
		chunk.Section = title.String
		chunk.SectionNum = num.String
		doc.Chunks = append(doc.Chunks, chunk)
		doc.Embeddings = append(doc.Embeddings, deserializeVector(blob))
	}
	return rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.created_at,
		       (SELECT COUNT(*) FROM sections s WHERE s.document_id = d.id),
		       (SELECT COUNT(*) FROM chunks c WHERE c.document_id = d.id)
		FROM documents d ORDER BY d.created_at DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.Sections, &info.Chunks); err != nil {
			return nil, fmt.Errorf("scan document info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// serializeVector converts a float32 slice to a little-endian byte blob
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}
