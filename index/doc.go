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


// Package index implements an exact linear-scan k-nearest-neighbor index
// over append-only (vector, repository) entries.
//
// Linear scan is deliberate: the engine targets hundreds to low thousands of
// entries per process, rebuilt per session, where an approximate structure
// buys nothing and risks correctness. The contract (InsertBatch, KNN, Clear)
// leaves room for a sub-linear implementation behind the same surface.
package index
