package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() Table {
	return Table{
		"name":   []any{"a", "b", "c", "d", "e"},
		"kind":   []any{"creature", "land", "creature", "sorcery", "land"},
		"number": []any{1, 2, 3, 4, 5},
	}
}

func TestFromTable(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, []string{"kind", "name", "number"}, ds.Columns())

	names, err := ds.Strings("name")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
}

func TestFromTableRaggedColumns(t *testing.T) {
	_, err := FromTable(Table{
		"a": []any{1, 2},
		"b": []any{1},
	})
	assert.Error(t, err)
}

func TestFromRecords(t *testing.T) {
	ds, err := FromRecords([]Record{
		{"name": "a", "n": 1},
		{"name": "b", "n": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"n", "name"}, ds.Columns())
}

func TestFromRecordsMismatchedColumns(t *testing.T) {
	_, err := FromRecords([]Record{
		{"name": "a"},
		{"other": "b"},
	})
	assert.Error(t, err)
}

func TestFromRecordsCopies(t *testing.T) {
	recs := []Record{{"name": "a"}}
	ds, err := FromRecords(recs)
	require.NoError(t, err)

	recs[0]["name"] = "mutated"
	assert.Equal(t, "a", ds.Record(0)["name"])
}

func TestStringsRejectsNonStrings(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	_, err = ds.Strings("number")
	assert.Error(t, err)
}

func TestShuffleDeterministic(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	s1 := ds.Shuffle(42)
	s2 := ds.Shuffle(42)

	n1, err := s1.Strings("name")
	require.NoError(t, err)
	n2, err := s2.Strings("name")
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	// the receiver keeps its order
	orig, err := ds.Strings("name")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, orig)

	// same multiset of rows
	assert.ElementsMatch(t, orig, n1)
}

func TestBatches(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	batches, err := ds.Batches(2)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, 2, batches[0].Size)
	assert.Equal(t, 2, batches[1].Size)
	assert.Equal(t, 1, batches[2].Size)

	assert.Equal(t, []any{"a", "b"}, batches[0].Columns["name"])
	assert.Equal(t, []any{"e"}, batches[2].Columns["name"])
}

func TestBatchesInvalidSize(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	_, err = ds.Batches(0)
	assert.Error(t, err)
}

func TestPrefetch(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	ch, err := ds.Prefetch(context.Background(), 2, 1)
	require.NoError(t, err)

	var sizes []int
	for b := range ch {
		sizes = append(sizes, b.Size)
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestPrefetchCancel(t *testing.T) {
	ds, err := FromTable(testTable())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := ds.Prefetch(ctx, 1, 0)
	require.NoError(t, err)

	<-ch
	cancel()

	// channel must close shortly after cancellation
	for range ch {
	}
}
