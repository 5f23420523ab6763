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

import "errors"

// Engine error taxonomy. Every failure surfaced by the engine wraps one of
// these sentinels, so callers can classify with errors.Is.
var (
	// ErrEmbedding indicates the external embedding model failed or timed out.
	// Callers may treat this as retryable.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector's length differs from the
	// configured embedding dimension. Not retryable; fix the configuration.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidArgument indicates a caller-supplied parameter is out of
	// range, such as k <= 0, a negative weight, or a blend factor outside
	// [0,1]. Not retryable.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPersistence indicates an I/O or format failure while saving or
	// loading a snapshot. Callers may treat this as retryable.
	ErrPersistence = errors.New("persistence failed")
)

// Validation errors for repository records at the ingestion boundary.
var (
	// ErrInvalidRepository indicates a Repository failed validation.
	ErrInvalidRepository = errors.New("invalid repository")

	// ErrEmptyFullName indicates the FullName field is empty.
	ErrEmptyFullName = errors.New("repository full name cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
