package community

import (
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/majority"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
)

// UpdateOpinions draws each node's private signal: GroundTruth with
// probability equal to its competence, the opposite label otherwise.
func (c *Community) UpdateOpinions() {
	for node, p := range c.competence {
		if c.src.Float64() < p {
			c.opinions[node] = models.GroundTruth
		} else {
			c.opinions[node] = models.GroundTruth.Opposite()
		}
	}
}

// UpdateVotes refreshes opinions, then sets each node's vote to the
// majority opinion of its neighborhood.
func (c *Community) UpdateVotes() error {
	c.UpdateOpinions()
	for node, hood := range c.neighborhoods {
		elite := 0
		for _, n := range hood {
			if c.opinions[n] == models.EliteSignal {
				elite++
			}
		}
		v, err := majority.DecideCounts(elite, len(hood), c.src)
		if err != nil {
			return err
		}
		c.votes[node] = v
	}
	return nil
}

// Vote runs one round and returns the majority of all votes.
func (c *Community) Vote() (models.Label, error) {
	if err := c.UpdateVotes(); err != nil {
		return "", err
	}
	return majority.Decide(c.votes, c.src)
}

// EstimateAccuracy runs numTrials independent votes and reports the share
// that came out as GroundTruth, with a normal-approximation interval.
func (c *Community) EstimateAccuracy(numTrials int, alpha float64) (estimate.Result, error) {
	return estimate.Estimate(c.Vote, numTrials, alpha)
}

// EstimateAccuracyWithMethod is EstimateAccuracy with a chosen interval method.
func (c *Community) EstimateAccuracyWithMethod(numTrials int, alpha float64, method estimate.Method) (estimate.Result, error) {
	return estimate.EstimateWithMethod(c.Vote, numTrials, alpha, method)
}
