package selector

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/copyrows/internal/types"
)

func numberTable(n int) *types.Table {
	table := &types.Table{Headers: []string{"id", "name"}}
	for i := 1; i <= n; i++ {
		table.Rows = append(table.Rows, []string{fmt.Sprint(i), fmt.Sprintf("row%d", i)})
	}
	return table
}

func ids(table *types.Table) []string {
	out := make([]string, 0, table.Len())
	for _, row := range table.Rows {
		out = append(out, row[0])
	}
	return out
}

func TestSelect_HeadTail(t *testing.T) {
	table := numberTable(5)

	tests := []struct {
		name string
		n    int
		mode types.Mode
		want []string
	}{
		{"head", 3, types.ModeHead, []string{"1", "2", "3"}},
		{"tail", 3, types.ModeTail, []string{"3", "4", "5"}},
		{"head clamped", 10, types.ModeHead, []string{"1", "2", "3", "4", "5"}},
		{"tail clamped", 10, types.ModeTail, []string{"1", "2", "3", "4", "5"}},
		{"head one", 1, types.ModeHead, []string{"1"}},
		{"tail one", 1, types.ModeTail, []string{"5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(table, Options{N: tt.n, Mode: tt.mode})
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Select() rows mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, table.Headers, got.Headers)
		})
	}
}

func TestSelect_Empty(t *testing.T) {
	seed := int64(1)

	tests := []struct {
		name  string
		table *types.Table
		n     int
	}{
		{"zero n", numberTable(5), 0},
		{"negative n", numberTable(5), -2},
		{"empty table", numberTable(0), 3},
	}

	for _, tt := range tests {
		for _, mode := range types.Modes {
			t.Run(tt.name+"/"+string(mode), func(t *testing.T) {
				got := Select(tt.table, Options{N: tt.n, Mode: mode, Seed: &seed})
				assert.Equal(t, []string{"id", "name"}, got.Headers)
				assert.NotNil(t, got.Rows)
				assert.Empty(t, got.Rows)
			})
		}
	}
}

func TestSelect_RandomSeeded(t *testing.T) {
	table := numberTable(50)
	seed := int64(42)

	first := Select(table, Options{N: 10, Mode: types.ModeRandom, Seed: &seed})
	second := Select(table, Options{N: 10, Mode: types.ModeRandom, Seed: &seed})

	require.Equal(t, 10, first.Len())
	if diff := cmp.Diff(ids(first), ids(second)); diff != "" {
		t.Errorf("seeded selection not reproducible (-first +second):\n%s", diff)
	}

	seen := make(map[string]bool)
	for _, id := range ids(first) {
		assert.False(t, seen[id], "row %s selected twice", id)
		seen[id] = true
	}
}

func TestSelect_RandomDifferentSeeds(t *testing.T) {
	table := numberTable(100)
	a, b := int64(1), int64(2)

	first := Select(table, Options{N: 20, Mode: types.ModeRandom, Seed: &a})
	second := Select(table, Options{N: 20, Mode: types.ModeRandom, Seed: &b})

	assert.NotEqual(t, ids(first), ids(second))
}

func TestSelect_RandomAllRows(t *testing.T) {
	table := numberTable(8)

	got := Select(table, Options{N: 20, Mode: types.ModeRandom})
	gotIDs := ids(got)
	sort.Strings(gotIDs)

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, gotIDs)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	table := numberTable(5)
	seed := int64(3)

	_ = Select(table, Options{N: 5, Mode: types.ModeRandom, Seed: &seed})

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(table))
}
