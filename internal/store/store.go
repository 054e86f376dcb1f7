// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists occurrences and identifications in SQLite and
// serves read snapshots to the consensus engine.
// Implements: prd001-identification (R1-R4);
//
//	docs/ARCHITECTURE § Occurrence Store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "occurrence.db"
)

// Store manages the occurrence SQLite database. It is the write side of
// the identification workflow and the read Source the consensus engine
// depends on.
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens or creates the occurrence database at
// dataDir/index/occurrence.db, creating the schema if needed (R1.2, R1.3).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS occurrences (
			ref TEXT PRIMARY KEY,
			location TEXT,
			observed_at TEXT,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS identifications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			identifier TEXT NOT NULL,
			occurrence_ref TEXT NOT NULL REFERENCES occurrences(ref),
			subject_index INTEGER NOT NULL DEFAULT 0,
			scientific_name TEXT NOT NULL,
			taxon_rank TEXT,
			kingdom TEXT,
			is_agreement INTEGER NOT NULL DEFAULT 0,
			submitted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_identifications_occurrence
			ON identifications(occurrence_ref)`,
		`CREATE INDEX IF NOT EXISTS idx_identifications_subject
			ON identifications(occurrence_ref, subject_index)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// --- occurrences ---

// PutOccurrence inserts or updates an occurrence record (R1.4).
func (s *Store) PutOccurrence(ctx context.Context, occ types.Occurrence) error {
	if strings.TrimSpace(occ.Ref) == "" {
		return fmt.Errorf("occurrence ref is required")
	}

	observedAt := ""
	if !occ.ObservedAt.IsZero() {
		observedAt = occ.ObservedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO occurrences (ref, location, observed_at, notes)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(ref) DO UPDATE SET
			location=excluded.location, observed_at=excluded.observed_at,
			notes=excluded.notes`,
		occ.Ref, occ.Location, observedAt, occ.Notes,
	)
	if err != nil {
		return fmt.Errorf("upserting occurrence %s: %w", occ.Ref, err)
	}
	return nil
}

// GetOccurrence returns one occurrence record, or nil when unknown.
func (s *Store) GetOccurrence(ctx context.Context, ref string) (*types.Occurrence, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT ref, location, observed_at, notes FROM occurrences WHERE ref = ?`, ref)

	var (
		occ        types.Occurrence
		observedAt sql.NullString
		location   sql.NullString
		notes      sql.NullString
	)
	err := row.Scan(&occ.Ref, &location, &observedAt, &notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying occurrence %s: %w", ref, err)
	}

	occ.Location = location.String
	occ.Notes = notes.String
	if observedAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, observedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing observed_at for %s: %w", ref, err)
		}
		occ.ObservedAt = t
	}
	return &occ, nil
}

// ListOccurrences returns all occurrence records ordered by ref.
func (s *Store) ListOccurrences(ctx context.Context) ([]types.Occurrence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ref, location, observed_at, notes FROM occurrences ORDER BY ref`)
	if err != nil {
		return nil, fmt.Errorf("querying occurrences: %w", err)
	}
	defer rows.Close()

	var occurrences []types.Occurrence
	for rows.Next() {
		var (
			occ        types.Occurrence
			observedAt sql.NullString
			location   sql.NullString
			notes      sql.NullString
		)
		if err := rows.Scan(&occ.Ref, &location, &observedAt, &notes); err != nil {
			return nil, fmt.Errorf("scanning occurrence: %w", err)
		}
		occ.Location = location.String
		occ.Notes = notes.String
		if observedAt.String != "" {
			t, err := time.Parse(time.RFC3339Nano, observedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing observed_at for %s: %w", occ.Ref, err)
			}
			occ.ObservedAt = t
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, rows.Err()
}

// --- identifications ---

// validateEntry enforces the submission-boundary invariants: the consensus
// engine downstream treats entries as authoritative and performs no
// validation of its own (R2.1-R2.3).
func validateEntry(e types.IdentificationEntry) error {
	switch {
	case strings.TrimSpace(e.Identifier) == "":
		return fmt.Errorf("identifier is required")
	case strings.TrimSpace(e.OccurrenceRef) == "":
		return fmt.Errorf("occurrence ref is required")
	case strings.TrimSpace(e.ScientificName) == "":
		return fmt.Errorf("scientific name is required")
	case e.SubjectIndex < 0:
		return fmt.Errorf("subject index must be non-negative, got %d", e.SubjectIndex)
	}
	return nil
}

// AddIdentification records one identification. A missing occurrence record
// gets a stub row so the submission never dangles (R2.4). A zero
// SubmittedAt defaults to the current time.
func (s *Store) AddIdentification(ctx context.Context, e types.IdentificationEntry) error {
	if err := validateEntry(e); err != nil {
		return fmt.Errorf("invalid identification: %w", err)
	}

	submittedAt := e.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO occurrences (ref) VALUES (?)`, e.OccurrenceRef,
	); err != nil {
		return fmt.Errorf("inserting occurrence stub: %w", err)
	}

	isAgreement := 0
	if e.IsAgreement {
		isAgreement = 1
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO identifications
			(identifier, occurrence_ref, subject_index, scientific_name,
			 taxon_rank, kingdom, is_agreement, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Identifier, e.OccurrenceRef, e.SubjectIndex, e.ScientificName,
		e.TaxonRank, e.Kingdom, isAgreement, submittedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("inserting identification: %w", err)
	}

	return tx.Commit()
}

// WithdrawIdentifications removes every identification an identifier has
// submitted for one subject of an occurrence. Returns the number removed.
func (s *Store) WithdrawIdentifications(ctx context.Context, occurrenceRef, identifier string, subjectIndex int) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM identifications
		 WHERE occurrence_ref = ? AND identifier = ? AND subject_index = ?`,
		occurrenceRef, identifier, subjectIndex,
	)
	if err != nil {
		return 0, fmt.Errorf("withdrawing identifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting withdrawn rows: %w", err)
	}
	return int(n), nil
}

// identificationQuery is the shared SELECT for identification snapshots.
// Rows come back in submission order (submitted_at, then insertion order)
// so downstream first-encounter tie-breaks are deterministic across calls.
const identificationQuery = `SELECT identifier, occurrence_ref, subject_index,
	scientific_name, taxon_rank, kingdom, is_agreement, submitted_at
FROM identifications WHERE occurrence_ref = ?`

// FetchIdentifications returns every identification for an occurrence.
func (s *Store) FetchIdentifications(ctx context.Context, occurrenceRef string) ([]types.IdentificationEntry, error) {
	return s.queryIdentifications(ctx,
		identificationQuery+` ORDER BY submitted_at, rowid`, occurrenceRef)
}

// FetchSubjectIdentifications returns the identifications targeting one
// subject of an occurrence.
func (s *Store) FetchSubjectIdentifications(ctx context.Context, occurrenceRef string, subjectIndex int) ([]types.IdentificationEntry, error) {
	return s.queryIdentifications(ctx,
		identificationQuery+` AND subject_index = ? ORDER BY submitted_at, rowid`,
		occurrenceRef, subjectIndex)
}

func (s *Store) queryIdentifications(ctx context.Context, query string, args ...any) ([]types.IdentificationEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying identifications: %w", err)
	}
	defer rows.Close()

	var entries []types.IdentificationEntry
	for rows.Next() {
		var (
			e           types.IdentificationEntry
			taxonRank   sql.NullString
			kingdom     sql.NullString
			isAgreement int
			submittedAt string
		)
		if err := rows.Scan(&e.Identifier, &e.OccurrenceRef, &e.SubjectIndex,
			&e.ScientificName, &taxonRank, &kingdom, &isAgreement, &submittedAt); err != nil {
			return nil, fmt.Errorf("scanning identification: %w", err)
		}
		e.TaxonRank = taxonRank.String
		e.Kingdom = kingdom.String
		e.IsAgreement = isAgreement != 0
		t, err := time.Parse(time.RFC3339Nano, submittedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing submitted_at: %w", err)
		}
		e.SubmittedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListSubjects returns the distinct subject indices present for an
// occurrence with per-subject counts and latest submission times (R3.1).
func (s *Store) ListSubjects(ctx context.Context, occurrenceRef string) ([]types.SubjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject_index, COUNT(*), MAX(submitted_at)
		 FROM identifications WHERE occurrence_ref = ?
		 GROUP BY subject_index ORDER BY subject_index`,
		occurrenceRef,
	)
	if err != nil {
		return nil, fmt.Errorf("querying subjects: %w", err)
	}
	defer rows.Close()

	var subjects []types.SubjectSummary
	for rows.Next() {
		var (
			summary types.SubjectSummary
			latest  string
		)
		if err := rows.Scan(&summary.SubjectIndex, &summary.IdentificationCount, &latest); err != nil {
			return nil, fmt.Errorf("scanning subject summary: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, latest)
		if err != nil {
			return nil, fmt.Errorf("parsing latest submission: %w", err)
		}
		summary.LatestSubmission = t
		subjects = append(subjects, summary)
	}
	return subjects, rows.Err()
}
