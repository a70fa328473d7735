// Package history implements shell-style recall of previously submitted
// composer entries, partitioned per conversation.
package history

import "strings"

const (
	// DefaultLimit is the maximum number of entries kept per partition.
	DefaultLimit = 200

	// DefaultPartition is the key used when the caller supplies none.
	DefaultPartition = "__default__"
)

// Store holds recorded entries per partition, oldest first.
// It is not safe for concurrent use.
type Store struct {
	entries map[string][]string
	limit   int
}

// NewStore creates an empty Store. A limit <= 0 uses DefaultLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		entries: make(map[string][]string),
		limit:   limit,
	}
}

// PartitionKey resolves a caller-supplied key, mapping "" to DefaultPartition.
func PartitionKey(key string) string {
	if key == "" {
		return DefaultPartition
	}
	return key
}

// Limit returns the per-partition bound.
func (s *Store) Limit() int {
	return s.limit
}

// Record appends the trimmed value to the partition. Empty values and
// repeats of the partition's newest entry are dropped. Returns true if the
// value was stored.
func (s *Store) Record(key, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	key = PartitionKey(key)
	seq := s.entries[key]
	if len(seq) > 0 && seq[len(seq)-1] == value {
		return false
	}

	seq = append(seq, value)
	if over := len(seq) - s.limit; over > 0 {
		seq = append(seq[:0:0], seq[over:]...)
	}
	s.entries[key] = seq
	return true
}

// Sequence returns a copy of the partition's entries, oldest first.
func (s *Store) Sequence(key string) []string {
	seq := s.entries[PartitionKey(key)]
	out := make([]string, len(seq))
	copy(out, seq)
	return out
}

// Len returns the number of entries in the partition.
func (s *Store) Len(key string) int {
	return len(s.entries[PartitionKey(key)])
}

// at returns the entry at index i of the partition; callers keep i in range.
func (s *Store) at(key string, i int) string {
	return s.entries[PartitionKey(key)][i]
}
