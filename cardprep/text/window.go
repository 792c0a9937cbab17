package text

import "fmt"

// ErrInvalidWidth is returned by Windows for a non-positive width.
var ErrInvalidWidth = fmt.Errorf("invalid window width")

// Windows slices seq into overlapping contiguous windows of width n, advancing
// one element per step. For len(seq) >= n the result has len(seq)-n+1 windows
// of exactly n elements. Shorter input degrades without error: the first
// window holds whatever is available and no later window is emitted, so only
// the first window can ever be short.
func Windows(seq []int, n int) ([][]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, n)
	}

	head := n
	if head > len(seq) {
		head = len(seq)
	}

	first := make([]int, head)
	copy(first, seq[:head])

	out := make([][]int, 0, len(seq)-head+1)
	out = append(out, first)

	for _, next := range seq[head:] {
		prev := out[len(out)-1]
		win := make([]int, 0, len(prev))
		win = append(win, prev[1:]...)
		win = append(win, next)
		out = append(out, win)
	}

	return out, nil
}
