package score

import (
	"fmt"
	"math"
	"time"

	"github.com/codespark/inspire/core"
)

// Component normalization constants. Popularity saturates at 1000 stars;
// recency and maturity at one year.
const (
	popularitySaturation = 1000.0
	daysPerYear          = 365.0
)

// Weights holds the relative weight of each inspiration-score component.
// Weights must be non-negative and sum to 1.0.
type Weights struct {
	Popularity    float64
	Recency       float64
	Documentation float64
	Maturity      float64
}

// DefaultWeights returns the standard component weighting.
func DefaultWeights() Weights {
	return Weights{
		Popularity:    0.30,
		Recency:       0.25,
		Documentation: 0.25,
		Maturity:      0.20,
	}
}

// Validate checks that all weights are non-negative and sum to 1.0
// within a small tolerance.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"popularity":    w.Popularity,
		"recency":       w.Recency,
		"documentation": w.Documentation,
		"maturity":      w.Maturity,
	} {
		if value < 0 {
			return fmt.Errorf("%w: %s weight is negative", core.ErrInvalidArgument, name)
		}
	}

	sum := w.Popularity + w.Recency + w.Documentation + w.Maturity
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %v, expected 1.0", core.ErrInvalidArgument, sum)
	}
	return nil
}

// Scorer computes the inspiration quality score of a repository: a bounded
// [0,1] composite of popularity, recency, documentation, and maturity.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Score returns the inspiration score of repo evaluated at now.
// The evaluation time is an explicit parameter so scores are reproducible;
// callers normally pass time.Now().UTC() and tests pin a fixed clock.
//
// Each component is clamped to [0,1] before weighting, so no extreme input
// can push the total past its bound. The final clamp is mathematically
// redundant given the component caps, but kept as an explicit invariant
// guard.
func (s *Scorer) Score(repo *core.Repository, now time.Time) float64 {
	total := s.weights.Popularity * popularityScore(repo.Stars)
	total += s.weights.Recency * recencyScore(repo.PushedAt, now)
	total += s.weights.Documentation * documentationScore(repo)
	total += s.weights.Maturity * maturityScore(repo.CreatedAt, now)
	return math.Min(total, 1.0)
}

// popularityScore saturates at popularitySaturation stars.
func popularityScore(stars int64) float64 {
	return clamp01(float64(stars) / popularitySaturation)
}

// recencyScore decays linearly over a year since the last activity.
// An unknown last-activity timestamp contributes nothing.
func recencyScore(pushedAt, now time.Time) float64 {
	if pushedAt.IsZero() {
		return 0
	}
	return clamp01(1 - float64(daysBetween(pushedAt, now))/daysPerYear)
}

// documentationScore averages three boolean signals: description, wiki,
// readme.
func documentationScore(repo *core.Repository) float64 {
	var present float64
	if repo.HasDescription() {
		present++
	}
	if repo.HasWiki {
		present++
	}
	if repo.HasReadme {
		present++
	}
	return present / 3
}

// maturityScore saturates after a year of age.
func maturityScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	return clamp01(float64(daysBetween(createdAt, now)) / daysPerYear)
}

// daysBetween counts whole UTC days from t to now, truncating partial days.
// A t after now yields a negative count, which the component clamps handle.
func daysBetween(t, now time.Time) int {
	return int(now.UTC().Sub(t.UTC()).Hours() / 24)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
