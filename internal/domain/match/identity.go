package match

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Identity derives a stable match identifier from the venue and start
// date. Innings rows from the three datasets that share a venue and date
// resolve to the same identifier, which is what lets them be joined
// without a shared match ID in the source data.
func Identity(venue string, startDate time.Time) string {
	sum := sha256.Sum256([]byte(venue + "_" + startDate.Format("2006-01-02")))
	return hex.EncodeToString(sum[:])
}

// Index assigns dense integer ordinals to match identifiers in
// first-seen order. Not safe for concurrent use.
type Index struct {
	ordinals map[string]int
	order    []string
}

func NewIndex() *Index {
	return &Index{ordinals: make(map[string]int)}
}

// Ordinal returns the ordinal for id, assigning the next one on first
// sight.
func (ix *Index) Ordinal(id string) int {
	if n, ok := ix.ordinals[id]; ok {
		return n
	}
	n := len(ix.order)
	ix.ordinals[id] = n
	ix.order = append(ix.order, id)
	return n
}

// IDs returns the identifiers in first-seen order.
func (ix *Index) IDs() []string {
	return ix.order
}

func (ix *Index) Len() int {
	return len(ix.order)
}
