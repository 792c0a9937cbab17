package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindows(t *testing.T) {
	got, err := Windows([]int{1, 162, 26, 19, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 162, 26}, {162, 26, 19}, {26, 19, 0}}, got)
}

func TestWindowsWidthOne(t *testing.T) {
	got, err := Windows([]int{4, 5, 6}, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{4}, {5}, {6}}, got)
}

func TestWindowsExactLength(t *testing.T) {
	got, err := Windows([]int{7, 8}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{7, 8}}, got)
}

func TestWindowsShortInput(t *testing.T) {
	// shorter input degrades to a single short window, no error
	got, err := Windows([]int{1, 2}, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}}, got)

	got, err = Windows([]int{}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{}}, got)
}

func TestWindowsInvalidWidth(t *testing.T) {
	_, err := Windows([]int{1, 2, 3}, 0)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	_, err = Windows([]int{1, 2, 3}, -1)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestWindowsProperties(t *testing.T) {
	seq := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	for n := 1; n <= len(seq); n++ {
		wins, err := Windows(seq, n)
		require.NoError(t, err)
		require.Len(t, wins, len(seq)-n+1, "width %d", n)

		var lasts []int
		for _, w := range wins {
			assert.Len(t, w, n)
			lasts = append(lasts, w[len(w)-1])
		}
		// the trail of last elements reproduces seq[n-1:]
		assert.Equal(t, seq[n-1:], lasts, "width %d", n)
	}
}

func TestWindowsDoesNotAliasInput(t *testing.T) {
	seq := []int{1, 2, 3, 4}
	wins, err := Windows(seq, 2)
	require.NoError(t, err)

	seq[0] = 99
	assert.Equal(t, []int{1, 2}, wins[0])
}
