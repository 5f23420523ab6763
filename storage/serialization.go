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

import (
	"github.com/codespark/inspire/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Manifest describes the snapshot a store holds. The manifest and the entry
// records form a matched pair; loading one without the other is a
// persistence error.
type Manifest struct {
	Version    int
	Dimension  int
	Metric     string
	Normalized bool
	Count      int
}

// ManifestVersion is the current snapshot format version.
const ManifestVersion = 1

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *Entry) []byte {
	buf := make([]byte, entryMUS{}.Size(*entry))
	entryMUS{}.Marshal(*entry, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*Entry, error) {
	entry, _, err := entryMUS{}.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalManifest serializes a Manifest to bytes.
func MarshalManifest(m *Manifest) []byte {
	buf := make([]byte, manifestMUS{}.Size(*m))
	manifestMUS{}.Marshal(*m, buf)
	return buf
}

// UnmarshalManifest deserializes a Manifest from bytes.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	m, _, err := manifestMUS{}.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type entryMUS struct{}

func (entryMUS) Marshal(e Entry, bs []byte) (n int) {
	n = core.RepositoryMUS.Marshal(e.Repository, bs)
	n += core.VectorMUS.Marshal(e.Vector, bs[n:])
	return n
}

func (entryMUS) Unmarshal(bs []byte) (e Entry, n int, err error) {
	var n1 int
	if e.Repository, n, err = core.RepositoryMUS.Unmarshal(bs); err != nil {
		return e, n, err
	}
	if e.Vector, n1, err = core.VectorMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	return e, n + n1, nil
}

func (entryMUS) Size(e Entry) int {
	return core.RepositoryMUS.Size(e.Repository) + core.VectorMUS.Size(e.Vector)
}

type manifestMUS struct{}

func (manifestMUS) Marshal(m Manifest, bs []byte) (n int) {
	n = varint.Int.Marshal(m.Version, bs)
	n += varint.Int.Marshal(m.Dimension, bs[n:])
	n += ord.String.Marshal(m.Metric, bs[n:])
	n += ord.Bool.Marshal(m.Normalized, bs[n:])
	n += varint.Int.Marshal(m.Count, bs[n:])
	return n
}

func (manifestMUS) Unmarshal(bs []byte) (m Manifest, n int, err error) {
	var n1 int
	if m.Version, n, err = varint.Int.Unmarshal(bs); err != nil {
		return m, n, err
	}
	if m.Dimension, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Metric, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Normalized, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	return m, n, nil
}

func (manifestMUS) Size(m Manifest) int {
	return varint.Int.Size(m.Version) +
		varint.Int.Size(m.Dimension) +
		ord.String.Size(m.Metric) +
		ord.Bool.Size(m.Normalized) +
		varint.Int.Size(m.Count)
}
