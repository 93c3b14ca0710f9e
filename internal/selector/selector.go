// Package selector picks the rows of a loaded table that get copied.
package selector

import (
	"math/rand/v2"

	"github.com/nconklindev/copyrows/internal/types"
)

type Options struct {
	N    int
	Mode types.Mode
	// Seed makes random selection reproducible. Nil means a fresh sample
	// on every run.
	Seed *int64
}

// Select returns a new table with the same columns as table and at most
// min(N, table.Len()) rows chosen according to opts.Mode.
func Select(table *types.Table, opts Options) *types.Table {
	total := table.Len()
	if opts.N <= 0 || total == 0 {
		return table.WithRows(nil)
	}
	n := min(opts.N, total)

	switch opts.Mode {
	case types.ModeTail:
		return table.WithRows(table.Rows[total-n:])
	case types.ModeRandom:
		rows := make([][]string, 0, n)
		for _, idx := range sample(total, n, newRand(opts.Seed)) {
			rows = append(rows, table.Rows[idx])
		}
		return table.WithRows(rows)
	default:
		return table.WithRows(table.Rows[:n])
	}
}

// sample draws n distinct indices from [0, total) with a partial
// Fisher-Yates shuffle. The order of the result is the draw order.
func sample(total, n int, r *rand.Rand) []int {
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + r.IntN(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:n]
}

func newRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := uint64(*seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
