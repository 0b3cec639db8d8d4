package store

import (
	"fmt"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateID checks that id is usable both as a key and as a file name.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// ValidateRecord checks the structural consistency of rec. Edges must
// reference existing nodes without self-loops or duplicates. Parameter
// ranges are checked when the record is rebuilt.
func ValidateRecord(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if err := ValidateID(rec.ID); err != nil {
		return err
	}
	n := rec.NumberOfNodes
	if n <= 0 {
		return fmt.Errorf("%w: number_of_nodes must be positive, got %d", ErrInvalidRecord, n)
	}
	for source, targets := range rec.Edges {
		if source < 0 || source >= n {
			return fmt.Errorf("%w: source %d out of range [0, %d)", ErrInvalidRecord, source, n)
		}
		seen := make(map[int]bool, len(targets))
		for _, target := range targets {
			switch {
			case target < 0 || target >= n:
				return fmt.Errorf("%w: target %d out of range [0, %d)", ErrInvalidRecord, target, n)
			case target == source:
				return fmt.Errorf("%w: self-loop on node %d", ErrInvalidRecord, source)
			case seen[target]:
				return fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalidRecord, source, target)
			}
			seen[target] = true
		}
	}
	return nil
}
