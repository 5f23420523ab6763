package score

import (
	"testing"
	"time"

	"github.com/codespark/inspire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed evaluation clock; all scorer tests measure against this instant.
var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights())
	require.NoError(t, err)
	return s
}

func TestWeightsValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultWeights().Validate())
	})

	t.Run("negative weight", func(t *testing.T) {
		w := Weights{Popularity: -0.1, Recency: 0.4, Documentation: 0.4, Maturity: 0.3}
		assert.ErrorIs(t, w.Validate(), core.ErrInvalidArgument)
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		w := Weights{Popularity: 0.5, Recency: 0.5, Documentation: 0.5, Maturity: 0.5}
		assert.ErrorIs(t, w.Validate(), core.ErrInvalidArgument)
	})
}

func TestScoreBounds(t *testing.T) {
	s := newScorer(t)

	tests := []struct {
		name string
		repo *core.Repository
	}{
		{"zero value", &core.Repository{}},
		{"negative stars", &core.Repository{Stars: -500}},
		{
			"everything maximal",
			&core.Repository{
				Stars:       5_000_000,
				Description: "desc",
				HasWiki:     true,
				HasReadme:   true,
				CreatedAt:   now.AddDate(-10, 0, 0),
				PushedAt:    now,
			},
		},
		{
			"activity in the future",
			&core.Repository{PushedAt: now.Add(48 * time.Hour), CreatedAt: now.Add(48 * time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.repo, now)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScoreComponents(t *testing.T) {
	s := newScorer(t)

	t.Run("popularity saturates at 1000 stars", func(t *testing.T) {
		at1000 := s.Score(&core.Repository{Stars: 1000}, now)
		at9999 := s.Score(&core.Repository{Stars: 9999}, now)
		assert.Equal(t, at1000, at9999)
		assert.InDelta(t, 0.30, at1000, 1e-9)
	})

	t.Run("popularity is proportional below saturation", func(t *testing.T) {
		got := s.Score(&core.Repository{Stars: 500}, now)
		assert.InDelta(t, 0.15, got, 1e-9)
	})

	t.Run("unknown activity contributes nothing", func(t *testing.T) {
		got := s.Score(&core.Repository{}, now)
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("recency decays over a year", func(t *testing.T) {
		fresh := s.Score(&core.Repository{PushedAt: now.Add(-time.Hour)}, now)
		stale := s.Score(&core.Repository{PushedAt: now.AddDate(0, -6, 0)}, now)
		dead := s.Score(&core.Repository{PushedAt: now.AddDate(-3, 0, 0)}, now)
		assert.Greater(t, fresh, stale)
		assert.Greater(t, stale, dead)
		assert.InDelta(t, 0.0, dead, 1e-9)
		assert.InDelta(t, 0.25, fresh, 1e-9)
	})

	t.Run("documentation averages three signals", func(t *testing.T) {
		none := s.Score(&core.Repository{}, now)
		one := s.Score(&core.Repository{Description: "x"}, now)
		all := s.Score(&core.Repository{Description: "x", HasWiki: true, HasReadme: true}, now)
		assert.InDelta(t, 0.25/3, one-none, 1e-9)
		assert.InDelta(t, 0.25, all-none, 1e-9)
	})

	t.Run("maturity saturates after a year", func(t *testing.T) {
		yearOld := s.Score(&core.Repository{CreatedAt: now.AddDate(-1, 0, -1)}, now)
		decadeOld := s.Score(&core.Repository{CreatedAt: now.AddDate(-10, 0, 0)}, now)
		assert.Equal(t, yearOld, decadeOld)
		assert.InDelta(t, 0.20, yearOld, 1e-9)
	})

	t.Run("day granularity truncation", func(t *testing.T) {
		// 23 hours is zero whole days: same score as right now.
		a := s.Score(&core.Repository{PushedAt: now.Add(-23 * time.Hour)}, now)
		b := s.Score(&core.Repository{PushedAt: now}, now)
		assert.Equal(t, a, b)
	})
}

func TestScoreRanksByPopularity(t *testing.T) {
	s := newScorer(t)

	// Identical recency, documentation, and maturity; only stars differ.
	base := core.Repository{
		Description: "desc",
		HasWiki:     true,
		HasReadme:   true,
		CreatedAt:   now.AddDate(-2, 0, 0),
		PushedAt:    now.AddDate(0, 0, -10),
	}

	small, medium, large := base, base, base
	small.Stars = 10
	medium.Stars = 500
	large.Stars = 5000

	scores := []float64{
		s.Score(&small, now),
		s.Score(&medium, now),
		s.Score(&large, now),
	}
	assert.Less(t, scores[0], scores[1])
	assert.Less(t, scores[1], scores[2])
}

func TestScoreIsReproducible(t *testing.T) {
	s := newScorer(t)
	repo := &core.Repository{
		Stars:     123,
		CreatedAt: now.AddDate(-1, -2, -3),
		PushedAt:  now.AddDate(0, 0, -42),
	}
	assert.Equal(t, s.Score(repo, now), s.Score(repo, now))
}
