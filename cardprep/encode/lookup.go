// Package encode maps categorical string columns to numeric feature vectors.
package encode

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/xremming/cardprep/cardprep/dataset"
)

// Mode selects the output layout of a StringLookup.
type Mode int

const (
	// OneHot marks only the looked-up index with 1.
	OneHot Mode = iota
	// Count accumulates occurrence counts per index.
	Count
)

// OOVIndex is the overflow bucket every unseen value maps to.
const OOVIndex = 0

// StringLookup learns a string -> index mapping for one named column over a
// reference dataset and encodes raw strings for that column into fixed-width
// numeric vectors. Index 0 is reserved for out-of-vocabulary values; learned
// values start at index 1 in first-seen order.
type StringLookup struct {
	column string
	index  map[string]int
	values []string
	mode   Mode
}

// LearnStringLookup scans the named column of ds and returns a lookup over
// its distinct values.
func LearnStringLookup(column string, ds *dataset.Dataset, mode Mode) (*StringLookup, error) {
	vals, err := ds.Strings(column)
	if err != nil {
		return nil, fmt.Errorf("failed to learn lookup for column %q: %w", column, err)
	}
	return NewStringLookup(column, vals, mode), nil
}

// NewStringLookup builds a lookup from an explicit value stream. Duplicates
// collapse to their first occurrence.
func NewStringLookup(column string, values []string, mode Mode) *StringLookup {
	l := &StringLookup{column: column, index: make(map[string]int), mode: mode}
	for _, v := range values {
		if _, ok := l.index[v]; ok {
			continue
		}
		l.values = append(l.values, v)
		l.index[v] = len(l.values) // index 0 stays the OOV bucket
	}
	return l
}

// Column returns the column name this lookup was learned for.
func (l *StringLookup) Column() string { return l.column }

// Width returns the encoded vector width: distinct values plus the OOV bucket.
func (l *StringLookup) Width() int { return len(l.values) + 1 }

// Lookup returns the index for value, OOVIndex when unseen.
func (l *StringLookup) Lookup(value string) int {
	if idx, ok := l.index[value]; ok {
		return idx
	}
	return OOVIndex
}

// Encode turns one raw value into a Width-sized vector.
func (l *StringLookup) Encode(value string) []float64 {
	vec := make([]float64, l.Width())
	vec[l.Lookup(value)] = 1
	return vec
}

// EncodeBatch turns a batch of raw strings into a len(values) x Width dense
// matrix. In Count mode repeated values accumulate; in OneHot mode each row
// still marks exactly one index, since a row carries a single value.
func (l *StringLookup) EncodeBatch(values []string) *mat.Dense {
	m := mat.NewDense(len(values), l.Width(), nil)
	for i, v := range values {
		j := l.Lookup(v)
		switch l.mode {
		case Count:
			m.Set(i, j, m.At(i, j)+1)
		default:
			m.Set(i, j, 1)
		}
	}
	return m
}

// EncodeSet folds a multi-valued field (for example a space-separated type
// line) into a single Width-sized vector, counting or marking each member.
func (l *StringLookup) EncodeSet(values []string) []float64 {
	vec := make([]float64, l.Width())
	for _, v := range values {
		j := l.Lookup(v)
		if l.mode == Count {
			vec[j]++
		} else {
			vec[j] = 1
		}
	}
	return vec
}
