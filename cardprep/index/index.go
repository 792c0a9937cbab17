// Package index maintains an inverted index from vocabulary token ids to the
// cards whose rulings text contains them.
package index

import (
	roaring "github.com/RoaringBitmap/roaring"
)

// TokenIndex holds one roaring bitmap of card row ids per token id.
type TokenIndex struct {
	postings map[int]*roaring.Bitmap
}

// New returns an empty index.
func New() *TokenIndex {
	return &TokenIndex{postings: make(map[int]*roaring.Bitmap)}
}

// Add records that card rowID contains tokenID.
func (ix *TokenIndex) Add(tokenID int, rowID uint32) {
	bm, ok := ix.postings[tokenID]
	if !ok {
		bm = roaring.New()
		ix.postings[tokenID] = bm
	}
	bm.Add(rowID)
}

// AddSequence records every token of a vectorized rulings sequence for one
// card row.
func (ix *TokenIndex) AddSequence(rowID uint32, seq []int) {
	for _, tok := range seq {
		ix.Add(tok, rowID)
	}
}

// Cardinality returns how many cards contain tokenID.
func (ix *TokenIndex) Cardinality(tokenID int) uint64 {
	if bm, ok := ix.postings[tokenID]; ok {
		return bm.GetCardinality()
	}
	return 0
}

// All returns the cards containing every given token.
func (ix *TokenIndex) All(tokenIDs ...int) *roaring.Bitmap {
	if len(tokenIDs) == 0 {
		return roaring.New()
	}
	res := ix.clone(ix.postings[tokenIDs[0]])
	for _, id := range tokenIDs[1:] {
		bm, ok := ix.postings[id]
		if !ok {
			return roaring.New()
		}
		res.And(bm)
	}
	return res
}

// Any returns the cards containing at least one of the given tokens.
func (ix *TokenIndex) Any(tokenIDs ...int) *roaring.Bitmap {
	res := roaring.New()
	for _, id := range tokenIDs {
		if bm, ok := ix.postings[id]; ok {
			res.Or(bm)
		}
	}
	return res
}

func (ix *TokenIndex) clone(b *roaring.Bitmap) *roaring.Bitmap {
	if b == nil {
		return roaring.New()
	}
	c := roaring.New()
	c.Or(b) // copy
	return c
}
