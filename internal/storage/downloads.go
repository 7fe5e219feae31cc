// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/morganforge/cohort-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrRecordNotFound = errors.New("download record not found")
	ErrEmptyArtifact  = errors.New("artifact is empty")
)

// =============================================================================
// LEDGER TYPES
// =============================================================================

// Kind classifies a downloaded artifact.
type Kind string

const (
	// KindConsentArchive is a zip of signed consent PDFs for a study.
	KindConsentArchive Kind = "consent_archive"
	// KindMetricCSV is a raw metric data export.
	KindMetricCSV Kind = "metric_csv"
	// KindChartImage is a rendered metric plot PNG.
	KindChartImage Kind = "chart_image"
)

// Record is one ledger row describing a saved artifact.
type Record struct {
	ID             int64
	StudyID        string
	ParticipantNum int    // 0 when the artifact is not participant-scoped
	Metric         string // empty for consent archives
	Kind           Kind
	Path           string
	Size           int64
	FetchedAt      time.Time
}

// =============================================================================
// DOWNLOAD STORE
// =============================================================================

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS downloads (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    study_id        TEXT    NOT NULL,
    participant_num INTEGER NOT NULL DEFAULT 0,
    metric          TEXT    NOT NULL DEFAULT '',
    kind            TEXT    NOT NULL,
    path            TEXT    NOT NULL,
    size            INTEGER NOT NULL,
    fetched_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_fetched ON downloads(fetched_at);
CREATE INDEX IF NOT EXISTS idx_downloads_study ON downloads(study_id);
`

// DownloadStore saves artifact bytes and tracks them in a SQLite
// ledger. Files are written atomically so a crash never leaves a
// half-written artifact next to a ledger row that claims it.
type DownloadStore struct {
	// BaseDir is the directory artifacts are written to.
	// Default: ~/.cohort/downloads/
	BaseDir string

	// MaxRecords limits retained downloads (0 = unlimited). The oldest
	// artifacts are pruned, files included, when the limit is exceeded.
	MaxRecords int

	db *sql.DB
}

// NewDownloadStore creates a store rooted at ~/.cohort/downloads.
func NewDownloadStore() (*DownloadStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewDownloadStoreWithDir(filepath.Join(homeDir, ".cohort", "downloads"))
}

// NewDownloadStoreWithDir creates a store with a custom directory.
func NewDownloadStoreWithDir(baseDir string) (*DownloadStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(baseDir, "ledger.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return &DownloadStore{
		BaseDir:    baseDir,
		MaxRecords: 200,
		db:         db,
	}, nil
}

// Close releases the underlying database handle.
func (s *DownloadStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the artifact bytes under BaseDir and records them in the
// ledger, returning the completed record. filename is a suggestion; it
// is sanitized and timestamped to avoid collisions.
func (s *DownloadStore) Save(rec Record, filename string, data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, ErrEmptyArtifact
	}

	rec.FetchedAt = time.Now()
	rec.Size = int64(len(data))
	rec.Path = filepath.Join(s.BaseDir, s.uniqueName(filename, rec.FetchedAt))

	// RELIABILITY: Atomic write with fsync prevents data loss on crash.
	if err := util.AtomicWriteFile(rec.Path, data, 0644); err != nil {
		return Record{}, err
	}

	res, err := s.db.Exec(
		`INSERT INTO downloads (study_id, participant_num, metric, kind, path, size, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.StudyID, rec.ParticipantNum, rec.Metric, string(rec.Kind),
		rec.Path, rec.Size, rec.FetchedAt.Unix(),
	)
	if err != nil {
		os.Remove(rec.Path)
		return Record{}, fmt.Errorf("failed to record download: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return Record{}, err
	}

	// The artifact is already stored; a failed prune must not fail the
	// save, but it must not pass silently either or the ledger grows
	// past MaxRecords unnoticed.
	if s.MaxRecords > 0 {
		if _, err := s.enforceLimit(); err != nil {
			log.Printf("downloads: failed to prune past %d records: %v", s.MaxRecords, err)
		}
	}
	return rec, nil
}

// uniqueName sanitizes the suggested filename and prefixes a timestamp
// so repeated downloads of the same artifact never clobber each other.
func (s *DownloadStore) uniqueName(filename string, at time.Time) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "download"
	}
	// Nanosecond precision so back-to-back downloads of the same
	// artifact get distinct paths.
	return at.Format("20060102-150405.000000000") + "_" + base
}

// enforceLimit prunes the oldest downloads beyond MaxRecords and
// reports how many were removed.
func (s *DownloadStore) enforceLimit() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM downloads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count downloads: %w", err)
	}
	if count <= s.MaxRecords {
		return 0, nil
	}
	return s.Prune(s.MaxRecords)
}

// =============================================================================
// LIST / DELETE
// =============================================================================

// List returns all recorded downloads, most recent first.
func (s *DownloadStore) List() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, study_id, participant_num, metric, kind, path, size, fetched_at
		 FROM downloads ORDER BY fetched_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByStudy returns the downloads recorded for one study, most
// recent first.
func (s *DownloadStore) ListByStudy(studyID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, study_id, participant_num, metric, kind, path, size, fetched_at
		 FROM downloads WHERE study_id = ? ORDER BY fetched_at DESC, id DESC`, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var rec Record
		var kind string
		var fetched int64
		if err := rows.Scan(&rec.ID, &rec.StudyID, &rec.ParticipantNum, &rec.Metric,
			&kind, &rec.Path, &rec.Size, &fetched); err != nil {
			return nil, err
		}
		rec.Kind = Kind(kind)
		rec.FetchedAt = time.Unix(fetched, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes one record and its artifact file.
func (s *DownloadStore) Delete(id int64) error {
	var path string
	err := s.db.QueryRow(`SELECT path FROM downloads WHERE id = ?`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM downloads WHERE id = ?`, id); err != nil {
		return err
	}

	// The row is authoritative; a missing file is not an error.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Prune keeps the newest keep records and deletes the rest, artifact
// files included. It returns the number of records removed.
func (s *DownloadStore) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	rows, err := s.db.Query(
		`SELECT id, path FROM downloads ORDER BY fetched_at DESC, id DESC LIMIT -1 OFFSET ?`, keep)
	if err != nil {
		return 0, err
	}

	type victim struct {
		id   int64
		path string
	}
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.id, &v.path); err != nil {
			rows.Close()
			return 0, err
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, v := range victims {
		if _, err := s.db.Exec(`DELETE FROM downloads WHERE id = ?`, v.id); err != nil {
			return 0, err
		}
		if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
			return 0, err
		}
	}
	return len(victims), nil
}
