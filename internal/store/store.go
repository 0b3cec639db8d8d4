// Package store persists communities so they can be replayed and voted on
// again without regenerating their networks.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no community is stored under an id.
	ErrNotFound = errors.New("community not found")
	// ErrChecksum is returned when a stored payload fails verification.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrInvalidID is returned for ids that are empty or unsafe as file names.
	ErrInvalidID = errors.New("invalid community id")
	// ErrInvalidRecord is returned when a record is internally inconsistent.
	ErrInvalidRecord = errors.New("invalid community record")
)

// Summary is the listing view of a stored community.
type Summary struct {
	ID                              string    `json:"id"`
	CreatedAt                       time.Time `json:"created_at"`
	NumberOfNodes                   int       `json:"number_of_nodes"`
	NumberOfElites                  int       `json:"number_of_elites"`
	Degree                          int       `json:"degree"`
	EdgeCount                       int       `json:"edge_count"`
	ProbabilityHomophilicAttachment *float64  `json:"probability_homophilic_attachment"`
}

// CommunityStore defines how community records are persisted.
type CommunityStore interface {
	// Save stores rec under rec.ID, replacing any previous record.
	Save(ctx context.Context, rec *Record) error
	// Load returns the record stored under id or ErrNotFound.
	Load(ctx context.Context, id string) (*Record, error)
	// List returns summaries ordered by id.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
