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


// Package engine ties the vectorizer, the nearest-neighbor index, and the
// quality scorer into a single ranking surface.
//
// AddItems is atomic per batch, Search returns a deterministically ordered
// blend of retrieval similarity and inspiration quality, and Save/Load move
// whole index snapshots through a storage.SnapshotStore.
package engine
