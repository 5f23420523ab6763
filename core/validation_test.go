package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateRepository(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		repo    *Repository
		wantErr error
	}{
		{
			name: "valid repository",
			repo: &Repository{
				FullName:  "golang/go",
				Name:      "go",
				CreatedAt: now.AddDate(-5, 0, 0),
				PushedAt:  now.Add(-time.Hour),
			},
		},
		{
			name: "zero timestamps are valid",
			repo: &Repository{FullName: "golang/go"},
		},
		{
			name:    "nil repository",
			repo:    nil,
			wantErr: ErrInvalidRepository,
		},
		{
			name:    "empty full name",
			repo:    &Repository{Name: "go"},
			wantErr: ErrEmptyFullName,
		},
		{
			name: "created in the future",
			repo: &Repository{
				FullName:  "golang/go",
				CreatedAt: now.Add(24 * time.Hour),
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "pushed in the future",
			repo: &Repository{
				FullName: "golang/go",
				PushedAt: now.Add(24 * time.Hour),
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepository(tt.repo)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidRepository)
		})
	}
}
