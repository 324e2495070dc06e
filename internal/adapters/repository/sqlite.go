package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/okian/marathon/internal/domain/model"

	_ "modernc.org/sqlite"
)

// DriverSQLite is the driver name of SQLiteStore.
const DriverSQLite = "sqlite"

// Every collection lives in one table of JSON documents. seq keeps
// insertion order; the bib index serves runner lookups.
const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		collection TEXT NOT NULL,
		body       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);
	CREATE INDEX IF NOT EXISTS idx_documents_bib ON documents(collection, json_extract(body, '$.bib_number'));
`

const selectFirstRunner = `
	SELECT seq, body FROM documents
	WHERE collection = ? AND json_extract(body, '$.bib_number') = ?
	ORDER BY seq LIMIT 1`

// SQLiteStore is an embedded document store on top of SQLite.
type SQLiteStore struct {
	db       *sql.DB
	reporter sizeReporter
}

// OpenSQLite opens or creates the database file at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, storeErr("open sqlite", err)
	}
	// A single connection serializes writers and keeps the file consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, storeErr("init sqlite schema", err)
	}

	s := &SQLiteStore{db: db}
	s.reporter.start(ctx, s, o.metricsUpdateInterval)
	return s, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func knownCollection(c string) error {
	if slices.Contains(collections, c) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
}

// Driver implements Store.
func (s *SQLiteStore) Driver() string { return DriverSQLite }

func sqliteFind[T any](ctx context.Context, db *sql.DB, collection string) ([]T, error) {
	defer observe(DriverSQLite, "find", time.Now())

	rows, err := db.QueryContext(ctx, `SELECT body FROM documents WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, storeErr("find "+collection, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, storeErr("scan "+collection, err)
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, storeErr("decode "+collection, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("find "+collection, err)
	}
	return out, nil
}

// Runners implements Store.
func (s *SQLiteStore) Runners(ctx context.Context) ([]model.Runner, error) {
	return sqliteFind[model.Runner](ctx, s.db, model.CollectionRunners)
}

// Sponsors implements Store.
func (s *SQLiteStore) Sponsors(ctx context.Context) ([]model.Sponsor, error) {
	return sqliteFind[model.Sponsor](ctx, s.db, model.CollectionSponsors)
}

// Stalls implements Store.
func (s *SQLiteStore) Stalls(ctx context.Context) ([]model.Stall, error) {
	return sqliteFind[model.Stall](ctx, s.db, model.CollectionRefreshments)
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	if err := knownCollection(collection); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, storeErr("count "+collection, err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertDoc(ctx context.Context, db execer, collection string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return storeErr("encode "+collection, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, body) VALUES (?, ?, ?)`,
		uuid.NewString(), collection, string(body))
	if err != nil {
		return storeErr("insert "+collection, err)
	}
	return nil
}

// InsertRunner implements Store.
func (s *SQLiteStore) InsertRunner(ctx context.Context, r model.Runner) error {
	defer observe(DriverSQLite, "insert", time.Now())
	return insertDoc(ctx, s.db, model.CollectionRunners, r)
}

// UpdateRunner implements Store. Only the patched keys of the stored
// document are replaced; other keys are kept as stored.
func (s *SQLiteStore) UpdateRunner(ctx context.Context, bib string, p model.RunnerPatch) (bool, error) {
	defer observe(DriverSQLite, "update", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storeErr("update runner", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		seq  int64
		body string
	)
	err = tx.QueryRowContext(ctx, selectFirstRunner, model.CollectionRunners, bib).Scan(&seq, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("update runner", err)
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return false, storeErr("decode runner", err)
	}
	for k, v := range p.Fields() {
		raw, err := json.Marshal(v)
		if err != nil {
			return false, storeErr("encode runner", err)
		}
		doc[k] = raw
	}
	updated, err := json.Marshal(doc)
	if err != nil {
		return false, storeErr("encode runner", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE documents SET body = ? WHERE seq = ?`, string(updated), seq); err != nil {
		return false, storeErr("update runner", err)
	}
	if err := tx.Commit(); err != nil {
		return false, storeErr("update runner", err)
	}
	return true, nil
}

// DeleteRunner implements Store.
func (s *SQLiteStore) DeleteRunner(ctx context.Context, bib string) (bool, error) {
	defer observe(DriverSQLite, "delete", time.Now())

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE seq = (
			SELECT seq FROM documents
			WHERE collection = ? AND json_extract(body, '$.bib_number') = ?
			ORDER BY seq LIMIT 1
		)`, model.CollectionRunners, bib)
	if err != nil {
		return false, storeErr("delete runner", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("delete runner", err)
	}
	return n > 0, nil
}

// Seed implements Store. The three collections are written in one
// transaction.
func (s *SQLiteStore) Seed(ctx context.Context, runners []model.Runner, sponsors []model.Sponsor, stalls []model.Stall) error {
	defer observe(DriverSQLite, "seed", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("seed", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range runners {
		if err := insertDoc(ctx, tx, model.CollectionRunners, r); err != nil {
			return err
		}
	}
	for _, sp := range sponsors {
		if err := insertDoc(ctx, tx, model.CollectionSponsors, sp); err != nil {
			return err
		}
	}
	for _, st := range stalls {
		if err := insertDoc(ctx, tx, model.CollectionRefreshments, st); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return storeErr("seed", err)
	}
	return nil
}

// Close stops the metrics updater and closes the database.
func (s *SQLiteStore) Close() error {
	s.reporter.stop()
	if err := s.db.Close(); err != nil {
		return storeErr("close sqlite", err)
	}
	return nil
}
