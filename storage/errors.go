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


package storage

import "errors"

var (
	// ErrNoSnapshot indicates the store holds no snapshot to load.
	ErrNoSnapshot = errors.New("no snapshot stored")

	// ErrManifestMismatch indicates the manifest and entry records disagree,
	// e.g. a missing manifest or an entry count that differs from it.
	ErrManifestMismatch = errors.New("snapshot manifest mismatch")

	// ErrStorageClosed indicates the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")
)
