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


// Package vectorize maps repository records and query text onto
// fixed-dimension embedding vectors.
//
// The Vectorizer owns the text composition rules (field order and per-field
// character caps), the blank-text zero-vector fallback, and optional L2
// normalization. All embedding calls are atomic per batch: no partial
// results are ever returned.
package vectorize
