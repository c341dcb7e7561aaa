package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amandeeptherockstar/portfolio/content"
)

// Store wraps a SQLite database that indexes loaded documents by slug and
// fingerprint, so content changes can be detected across restarts.
type Store struct {
	db *sql.DB
}

// IndexEntry is one indexed document.
type IndexEntry struct {
	Slug        string
	SourcePath  string
	Fingerprint string
	FirstSeen   time.Time
	LastChanged time.Time
}

// SyncReport lists the slugs whose fingerprint entered, changed in or left
// the index during a Sync.
type SyncReport struct {
	Added   []string
	Changed []string
	Removed []string
}

// Empty reports whether the sync changed nothing.
func (r SyncReport) Empty() bool {
	return len(r.Added) == 0 && len(r.Changed) == 0 && len(r.Removed) == 0
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the request path read while a reload writes; synchronous=NORMAL
	// is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    slug TEXT PRIMARY KEY,
    source_path TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    first_seen TEXT NOT NULL,
    last_changed TEXT NOT NULL
);
`)
	return err
}

// Sync records the fingerprints of docs at time now. New slugs are added,
// slugs whose fingerprint differs get last_changed bumped, and slugs that
// are no longer present are removed. Shadowed duplicates are ignored.
func (s *Store) Sync(ctx context.Context, col *content.Collection, now time.Time) (SyncReport, error) {
	var report SyncReport
	stamp := now.UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return report, err
	}
	defer tx.Rollback()

	known := make(map[string]string)
	rows, err := tx.QueryContext(ctx, `SELECT slug, fingerprint FROM documents`)
	if err != nil {
		return report, err
	}
	for rows.Next() {
		var slug, fp string
		if err := rows.Scan(&slug, &fp); err != nil {
			rows.Close()
			return report, err
		}
		known[slug] = fp
	}
	if err := rows.Close(); err != nil {
		return report, err
	}

	seen := make(map[string]struct{})
	for _, d := range col.Listing(true) {
		seen[d.Slug] = struct{}{}
		fp, ok := known[d.Slug]
		switch {
		case !ok:
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO documents (slug, source_path, fingerprint, first_seen, last_changed) VALUES (?, ?, ?, ?, ?)`,
				d.Slug, d.SourcePath, d.Fingerprint, stamp, stamp); err != nil {
				return report, err
			}
			report.Added = append(report.Added, d.Slug)
		case fp != d.Fingerprint:
			if _, err := tx.ExecContext(ctx,
				`UPDATE documents SET source_path = ?, fingerprint = ?, last_changed = ? WHERE slug = ?`,
				d.SourcePath, d.Fingerprint, stamp, d.Slug); err != nil {
				return report, err
			}
			report.Changed = append(report.Changed, d.Slug)
		}
	}
	for slug := range known {
		if _, ok := seen[slug]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE slug = ?`, slug); err != nil {
			return report, err
		}
		report.Removed = append(report.Removed, slug)
	}
	if err := tx.Commit(); err != nil {
		return report, err
	}
	sortStrings(report.Added, report.Changed, report.Removed)
	return report, nil
}

// GetEntry returns the index entry for slug.
func (s *Store) GetEntry(ctx context.Context, slug string) (IndexEntry, error) {
	e := IndexEntry{Slug: slug}
	var first, last string
	err := s.db.QueryRowContext(ctx,
		`SELECT source_path, fingerprint, first_seen, last_changed FROM documents WHERE slug = ?`, slug).
		Scan(&e.SourcePath, &e.Fingerprint, &first, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexEntry{}, content.ErrNotFound
	}
	if err != nil {
		return IndexEntry{}, err
	}
	if e.FirstSeen, err = parseStamp(first); err != nil {
		return IndexEntry{}, err
	}
	if e.LastChanged, err = parseStamp(last); err != nil {
		return IndexEntry{}, err
	}
	return e, nil
}

// LastChanged returns the last change time of every slug whose content
// changed after it was first indexed. Documents never edited since they
// appeared are left out; their own dates are authoritative.
func (s *Store) LastChanged(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, last_changed FROM documents WHERE last_changed <> first_seen`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var slug, last string
		if err := rows.Scan(&slug, &last); err != nil {
			return nil, err
		}
		t, err := parseStamp(last)
		if err != nil {
			return nil, err
		}
		out[slug] = t
	}
	return out, rows.Err()
}

func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse index timestamp %q: %w", s, err)
	}
	return t, nil
}
