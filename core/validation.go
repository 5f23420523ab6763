// Copyright 2026 Codespark Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateRepository validates a Repository at the ingestion boundary.
//
// Validation rules:
//   - FullName must not be empty
//   - CreatedAt and PushedAt must not be in the future
//
// NOT validated:
//   - Id (0 is valid; the engine derives one from FullName when unset)
//   - Stars (negative values are clamped by the quality scorer)
//   - textual fields (blank text has a defined embedding fallback)
func ValidateRepository(repo *Repository) error {
	if repo == nil {
		return fmt.Errorf("%w: repository is nil", ErrInvalidRepository)
	}

	if repo.FullName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, ErrEmptyFullName)
	}

	if !IsValidTimestamp(repo.CreatedAt) {
		return fmt.Errorf("%w: created at: %w", ErrInvalidRepository, ErrInvalidTimestamp)
	}

	if !IsValidTimestamp(repo.PushedAt) {
		return fmt.Errorf("%w: pushed at: %w", ErrInvalidRepository, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
// The zero value is valid; it means the timestamp is unknown.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
