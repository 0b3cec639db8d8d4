// Package estimate runs repeated voting trials and reports accuracy with a
// binomial confidence interval.
package estimate

import (
	"errors"
	"fmt"
	"math"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrNoTrials is returned when fewer than one trial is requested.
	ErrNoTrials = errors.New("estimate: number of trials must be positive")
	// ErrInvalidAlpha is returned when alpha is outside (0, 1).
	ErrInvalidAlpha = errors.New("estimate: alpha must be in (0, 1)")
	// ErrInvalidMethod is returned for an unknown interval method.
	ErrInvalidMethod = errors.New("estimate: unknown interval method")
)

// DefaultAlpha is the significance level used when none is configured.
const DefaultAlpha = 0.05

// Method selects how the confidence interval is computed.
type Method string

const (
	// MethodNormal is the normal-approximation (Wald) interval clipped to [0, 1].
	MethodNormal Method = "normal"
	// MethodClopperPearson is the exact beta-quantile interval.
	MethodClopperPearson Method = "clopper-pearson"
	// MethodWilson is the Wilson score interval.
	MethodWilson Method = "wilson"
)

// ParseMethod converts a string into a Method. Empty selects MethodNormal.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodNormal, nil
	case MethodNormal, MethodClopperPearson, MethodWilson:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

// Trial runs one independent vote and returns its outcome.
type Trial func() (models.Label, error)

// Result is the outcome of an estimation run.
type Result struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Successes int     `json:"successes"`
	Trials    int     `json:"trials"`
	Alpha     float64 `json:"alpha"`
	Method    Method  `json:"method"`
}

// Estimate runs trial numTrials times and reports the share of outcomes
// equal to models.GroundTruth. Precision is the width of the normal
// interval at significance alpha.
func Estimate(trial Trial, numTrials int, alpha float64) (Result, error) {
	return EstimateWithMethod(trial, numTrials, alpha, MethodNormal)
}

// EstimateWithMethod is Estimate with an explicit interval method.
// Inputs are validated before any trial runs.
func EstimateWithMethod(trial Trial, numTrials int, alpha float64, method Method) (Result, error) {
	if numTrials <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrNoTrials, numTrials)
	}
	if err := checkAlpha(alpha); err != nil {
		return Result{}, err
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return Result{}, err
	}
	if method == "" {
		method = MethodNormal
	}

	successes := 0
	for i := 0; i < numTrials; i++ {
		outcome, err := trial()
		if err != nil {
			return Result{}, fmt.Errorf("trial %d: %w", i, err)
		}
		if outcome == models.GroundTruth {
			successes++
		}
	}

	lower, upper, err := Interval(successes, numTrials, alpha, method)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Accuracy:  float64(successes) / float64(numTrials),
		Precision: upper - lower,
		Lower:     lower,
		Upper:     upper,
		Successes: successes,
		Trials:    numTrials,
		Alpha:     alpha,
		Method:    method,
	}, nil
}

// Interval returns the two-sided confidence interval for successes out of
// trials at significance alpha.
func Interval(successes, trials int, alpha float64, method Method) (lower, upper float64, err error) {
	if trials <= 0 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrNoTrials, trials)
	}
	if successes < 0 || successes > trials {
		return 0, 0, fmt.Errorf("estimate: successes %d outside [0, %d]", successes, trials)
	}
	if err := checkAlpha(alpha); err != nil {
		return 0, 0, err
	}

	switch method {
	case MethodNormal, "":
		lower, upper = normalInterval(successes, trials, alpha)
	case MethodClopperPearson:
		lower, upper = clopperPearsonInterval(successes, trials, alpha)
	case MethodWilson:
		lower, upper = wilsonInterval(successes, trials, alpha)
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	return lower, upper, nil
}

func checkAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}
	return nil
}

func zScore(alpha float64) float64 {
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

func normalInterval(successes, trials int, alpha float64) (float64, float64) {
	p := float64(successes) / float64(trials)
	half := zScore(alpha) * math.Sqrt(p*(1-p)/float64(trials))
	return clip(p - half), clip(p + half)
}

func clopperPearsonInterval(successes, trials int, alpha float64) (float64, float64) {
	s, n := float64(successes), float64(trials)
	lower, upper := 0.0, 1.0
	if successes > 0 {
		lower = distuv.Beta{Alpha: s, Beta: n - s + 1}.Quantile(alpha / 2)
	}
	if successes < trials {
		upper = distuv.Beta{Alpha: s + 1, Beta: n - s}.Quantile(1 - alpha/2)
	}
	return lower, upper
}

func wilsonInterval(successes, trials int, alpha float64) (float64, float64) {
	n := float64(trials)
	p := float64(successes) / n
	z := zScore(alpha)
	z2 := z * z
	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	half := z / denom * math.Sqrt(p*(1-p)/n+z2/(4*n*n))
	return clip(center - half), clip(center + half)
}

func clip(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
