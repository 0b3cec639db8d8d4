package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements CommunityStore on a SQLite database at
// <data dir>/mvca.db.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens or creates the database under dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// Save upserts rec.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	edges := rec.EdgeList()
	var homophily sql.NullFloat64
	if h := rec.ProbabilityHomophilicAttachment; h != nil {
		homophily = sql.NullFloat64{Float64: *h, Valid: true}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO communities (
			id, created_at, number_of_nodes, number_of_elites, degree,
			elite_competence, mass_competence,
			probability_preferential_attachment, probability_homophilic_attachment,
			edge_count, edges
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			number_of_nodes = excluded.number_of_nodes,
			number_of_elites = excluded.number_of_elites,
			degree = excluded.degree,
			elite_competence = excluded.elite_competence,
			mass_competence = excluded.mass_competence,
			probability_preferential_attachment = excluded.probability_preferential_attachment,
			probability_homophilic_attachment = excluded.probability_homophilic_attachment,
			edge_count = excluded.edge_count,
			edges = excluded.edges`,
		rec.ID, createdAt.Format(time.RFC3339Nano),
		rec.NumberOfNodes, rec.NumberOfElites, rec.Degree,
		rec.EliteCompetence, rec.MassCompetence,
		rec.ProbabilityPreferentialAttachment, homophily,
		len(edges), EncodeEdgeBlob(edges))
	if err != nil {
		return fmt.Errorf("failed to save community %s: %w", rec.ID, err)
	}
	return nil
}

// Load returns the record stored under id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec       Record
		createdAt string
		homophily sql.NullFloat64
		edgeCount int
		blob      []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, number_of_nodes, number_of_elites, degree,
			elite_competence, mass_competence,
			probability_preferential_attachment, probability_homophilic_attachment,
			edge_count, edges
		FROM communities WHERE id = ?`, id).Scan(
		&rec.ID, &createdAt, &rec.NumberOfNodes, &rec.NumberOfElites, &rec.Degree,
		&rec.EliteCompetence, &rec.MassCompetence,
		&rec.ProbabilityPreferentialAttachment, &homophily,
		&edgeCount, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load community %s: %w", id, err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", id, err)
	}
	if homophily.Valid {
		h := homophily.Float64
		rec.ProbabilityHomophilicAttachment = &h
	}
	edges, err := DecodeEdgeBlob(blob)
	if err != nil {
		return nil, fmt.Errorf("community %s: %w", id, err)
	}
	if len(edges) != edgeCount {
		return nil, fmt.Errorf("%w: community %s has %d edges, expected %d", ErrChecksum, id, len(edges), edgeCount)
	}
	rec.Edges = CompressEdges(edges)
	return &rec, nil
}

// List returns summaries ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, number_of_nodes, number_of_elites, degree,
			edge_count, probability_homophilic_attachment
		FROM communities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
			homophily sql.NullFloat64
		)
		if err := rows.Scan(&sum.ID, &createdAt, &sum.NumberOfNodes, &sum.NumberOfElites,
			&sum.Degree, &sum.EdgeCount, &homophily); err != nil {
			return nil, fmt.Errorf("failed to scan community row: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", sum.ID, err)
		}
		if homophily.Valid {
			h := homophily.Float64
			sum.ProbabilityHomophilicAttachment = &h
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the record stored under id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM communities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete community %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete community %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
