// Package dataset wraps tabular card data into shuffled, batched, prefetched
// input for model training.
package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
)

// Record is one row of tabular input: column name -> scalar or string value.
// Records are copied on the way in and never mutated afterwards.
type Record map[string]any

// Table is column-oriented input: column name -> column values. All columns
// must have the same length.
type Table map[string][]any

// Batch is a fixed group of consecutive records in columnar layout, the shape
// training frameworks consume.
type Batch struct {
	Columns map[string][]any
	Size    int
}

// Dataset is an immutable ordered collection of records. Shuffle returns a
// reordered copy; the receiver is never modified.
type Dataset struct {
	columns []string
	records []Record
}

// FromRecords copies recs into a new Dataset. Column order follows the first
// record; every record must carry the same columns.
func FromRecords(recs []Record) (*Dataset, error) {
	d := &Dataset{records: make([]Record, 0, len(recs))}
	for i, rec := range recs {
		if i == 0 {
			for col := range rec {
				d.columns = append(d.columns, col)
			}
			sortColumns(d.columns)
		} else if len(rec) != len(d.columns) {
			return nil, fmt.Errorf("record %d has %d columns, want %d", i, len(rec), len(d.columns))
		}
		cp := make(Record, len(rec))
		for col, val := range rec {
			if i > 0 {
				if _, ok := recs[0][col]; !ok {
					return nil, fmt.Errorf("record %d has unexpected column %q", i, col)
				}
			}
			cp[col] = val
		}
		d.records = append(d.records, cp)
	}
	return d, nil
}

// FromTable converts a column-oriented table into a Dataset.
func FromTable(t Table) (*Dataset, error) {
	d := &Dataset{}
	n := -1
	for col, vals := range t {
		if n >= 0 && len(vals) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", col, len(vals), n)
		}
		n = len(vals)
		d.columns = append(d.columns, col)
	}
	sortColumns(d.columns)
	if n < 0 {
		n = 0
	}
	d.records = make([]Record, n)
	for i := 0; i < n; i++ {
		rec := make(Record, len(d.columns))
		for _, col := range d.columns {
			rec[col] = t[col][i]
		}
		d.records[i] = rec
	}
	return d, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Columns returns the column names in stable order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Record returns a copy of row i.
func (d *Dataset) Record(i int) Record {
	cp := make(Record, len(d.records[i]))
	for col, val := range d.records[i] {
		cp[col] = val
	}
	return cp
}

// Column returns all values of one column in row order.
func (d *Dataset) Column(name string) ([]any, error) {
	if !d.hasColumn(name) {
		return nil, fmt.Errorf("no such column: %q", name)
	}
	out := make([]any, len(d.records))
	for i, rec := range d.records {
		out[i] = rec[name]
	}
	return out, nil
}

// Strings returns a string column. Non-string values are an error.
func (d *Dataset) Strings(name string) ([]string, error) {
	vals, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, val := range vals {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("column %q row %d is %T, not string", name, i, val)
		}
		out[i] = s
	}
	return out, nil
}

// Shuffle returns a copy of the dataset with rows permuted by the seeded
// source, so runs are reproducible.
func (d *Dataset) Shuffle(seed int64) *Dataset {
	out := &Dataset{columns: d.Columns(), records: make([]Record, len(d.records))}
	copy(out.records, d.records)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out.records), func(i, j int) {
		out.records[i], out.records[j] = out.records[j], out.records[i]
	})
	return out
}

// Batches splits the dataset into columnar batches of the given size. The
// final batch may be smaller.
func (d *Dataset) Batches(size int) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive: %d", size)
	}
	out := make([]Batch, 0, (len(d.records)+size-1)/size)
	for start := 0; start < len(d.records); start += size {
		end := start + size
		if end > len(d.records) {
			end = len(d.records)
		}
		b := Batch{Columns: make(map[string][]any, len(d.columns)), Size: end - start}
		for _, col := range d.columns {
			vals := make([]any, 0, b.Size)
			for _, rec := range d.records[start:end] {
				vals = append(vals, rec[col])
			}
			b.Columns[col] = vals
		}
		out = append(out, b)
	}
	return out, nil
}

// Prefetch streams batches through a buffered channel so delivery overlaps
// with consumption. The channel closes after the last batch or when ctx is
// cancelled.
func (d *Dataset) Prefetch(ctx context.Context, size, buffer int) (<-chan Batch, error) {
	if buffer < 0 {
		buffer = 0
	}
	batches, err := d.Batches(size)
	if err != nil {
		return nil, err
	}
	ch := make(chan Batch, buffer)
	go func() {
		defer close(ch)
		for _, b := range batches {
			select {
			case ch <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// sortColumns keeps column order deterministic regardless of map iteration.
func sortColumns(cols []string) {
	sort.Strings(cols)
}

func (d *Dataset) hasColumn(name string) bool {
	for _, col := range d.columns {
		if col == name {
			return true
		}
	}
	return false
}
