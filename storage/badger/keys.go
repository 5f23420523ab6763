package badger

import "encoding/binary"

// Key prefixes for the snapshot records.
const (
	manifestKey = "man"
	entryPrefix = "ent"
)

// makeManifestKey generates the key for the snapshot manifest.
func makeManifestKey() []byte {
	return []byte(manifestKey)
}

// makeEntryKey generates a key for an index entry by insertion sequence.
// Format: prefix:seq, with the sequence in BigEndian order so lexicographic
// iteration yields insertion order.
func makeEntryKey(seq uint64) []byte {
	prefix := entryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
