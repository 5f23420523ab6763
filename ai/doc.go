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


// Package ai defines the embedding-model boundary of the ranking engine.
//
// The engine treats the embedding model as an opaque deterministic mapping
// from text to fixed-dimension vectors. This package holds the Embedder
// interface together with its configuration; implementations live in
// sub-packages:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: deterministic test double with no external dependencies
//
// Public constructors in ai/openai return the ai.Embedder interface to keep
// callers decoupled from the concrete client. The mock constructor returns a
// concrete type so tests can inject behavior and assert call counts.
package ai
