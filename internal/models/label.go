package models

import "fmt"

// Label is a binary opinion or vote.
type Label string

const (
	// EliteSignal is the opinion favoring the elite segment.
	EliteSignal Label = "elite"
	// MassSignal is the opinion favoring the mass segment.
	MassSignal Label = "mass"
)

// GroundTruth is the label that counts as correct. A node's private opinion
// equals GroundTruth with probability equal to its competence, and accuracy
// is the fraction of community votes that come out as GroundTruth.
const GroundTruth = MassSignal

// Opposite returns the other label.
func (l Label) Opposite() Label {
	if l == EliteSignal {
		return MassSignal
	}
	return EliteSignal
}

// Valid reports whether l is one of the two known labels.
func (l Label) Valid() bool {
	return l == EliteSignal || l == MassSignal
}

// ParseLabel converts a string into a Label.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("invalid label %q (valid: elite, mass)", s)
	}
	return l, nil
}
