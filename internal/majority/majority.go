// Package majority resolves binary labels by simple majority.
package majority

import (
	"errors"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
)

// ErrEmpty is returned when there is nothing to aggregate.
var ErrEmpty = errors.New("majority: no values to aggregate")

// Decide returns the label held by strictly more than half of values.
// An exact tie is broken uniformly at random using src.
func Decide(values []models.Label, src rng.Source) (models.Label, error) {
	elite := 0
	for _, v := range values {
		if v == models.EliteSignal {
			elite++
		}
	}
	return DecideCounts(elite, len(values), src)
}

// DecideCounts is Decide over pre-counted votes: elite of total hold
// EliteSignal, the rest hold MassSignal.
func DecideCounts(elite, total int, src rng.Source) (models.Label, error) {
	if total <= 0 {
		return "", ErrEmpty
	}
	mass := total - elite
	switch {
	case 2*elite > total:
		return models.EliteSignal, nil
	case 2*mass > total:
		return models.MassSignal, nil
	}
	if src.IntN(2) == 0 {
		return models.MassSignal, nil
	}
	return models.EliteSignal, nil
}
