package cards

import (
	"strings"
	"sync"

	"github.com/armon/go-radix"
)

// NameIndex is a radix-tree index over lowercased card names. It answers
// prefix queries and finds the longest card name starting at a position in
// free text, which is how rulings that quote other cards get their names
// normalized.
type NameIndex struct {
	mu   sync.RWMutex
	tree *radix.Tree
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{tree: radix.New()}
}

// Insert registers a card name. Names are matched case-insensitively.
func (ix *NameIndex) Insert(name string, p PhysicalCard) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.tree.Insert(strings.ToLower(name), p)
}

// Len returns the number of indexed names.
func (ix *NameIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tree.Len()
}

// Get looks up an exact name.
func (ix *NameIndex) Get(name string) (PhysicalCard, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	v, ok := ix.tree.Get(strings.ToLower(name))
	if !ok {
		return PhysicalCard{}, false
	}
	return v.(PhysicalCard), true
}

// WithPrefix returns all printings whose name starts with prefix, in
// lexicographic name order.
func (ix *NameIndex) WithPrefix(prefix string) []PhysicalCard {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []PhysicalCard
	ix.tree.WalkPrefix(strings.ToLower(prefix), func(_ string, v interface{}) bool {
		out = append(out, v.(PhysicalCard))
		return false
	})
	return out
}

// MatchAt returns the longest indexed card name that s begins with, so a
// caller scanning rulings text can substitute card names token by token.
func (ix *NameIndex) MatchAt(s string) (string, PhysicalCard, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	name, v, ok := ix.tree.LongestPrefix(strings.ToLower(s))
	if !ok {
		return "", PhysicalCard{}, false
	}
	return name, v.(PhysicalCard), true
}
