package combinator

import (
	"iter"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// pool is the garments of one category together with how many of them a
// candidate may take.
type pool struct {
	items []types.Selection
	maxK  int
}

// subsets yields every k-subset of items for k = 0..maxK, in ascending k and
// lexicographic index order. The yielded slice is reused between iterations.
func subsets(items []types.Selection, maxK int) iter.Seq[[]types.Selection] {
	return func(yield func([]types.Selection) bool) {
		n := len(items)
		maxK = max(0, min(maxK, n))
		idx := make([]int, 0, maxK)
		buf := make([]types.Selection, 0, maxK)

		for k := 0; k <= maxK; k++ {
			idx = idx[:k]
			for i := range idx {
				idx[i] = i
			}
			for {
				buf = buf[:0]
				for _, i := range idx {
					buf = append(buf, items[i])
				}
				if !yield(buf) {
					return
				}

				j := k - 1
				for j >= 0 && idx[j] == n-k+j {
					j--
				}
				if j < 0 {
					break
				}
				idx[j]++
				for l := j + 1; l < k; l++ {
					idx[l] = idx[l-1] + 1
				}
			}
		}
	}
}

// crossProduct yields the concatenation of one subset from every pool. The
// first pool varies slowest. The yielded slice is reused between iterations.
func crossProduct(pools []pool) iter.Seq[[]types.Selection] {
	return func(yield func([]types.Selection) bool) {
		size := 0
		for _, p := range pools {
			size += min(p.maxK, len(p.items))
		}
		buf := make([]types.Selection, 0, size)

		var walk func(i int) bool
		walk = func(i int) bool {
			if i == len(pools) {
				return yield(buf)
			}
			mark := len(buf)
			for sub := range subsets(pools[i].items, pools[i].maxK) {
				buf = append(buf[:mark], sub...)
				if !walk(i + 1) {
					return false
				}
			}
			buf = buf[:mark]
			return true
		}
		walk(0)
	}
}
