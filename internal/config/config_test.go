package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/copyrows/internal/types"
)

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n"), 0o600))
	return path
}

func TestParse_Valid(t *testing.T) {
	input := writeInput(t)

	cfg, err := Parse([]string{input, "out.xlsx", "3", "HEAD"})
	require.NoError(t, err)
	assert.Equal(t, input, cfg.InputPath)
	assert.Equal(t, "out.xlsx", cfg.OutputPath)
	assert.Equal(t, 3, cfg.N)
	assert.Equal(t, types.ModeHead, cfg.Mode)
	assert.Empty(t, cfg.SheetName)
	assert.Nil(t, cfg.Seed)
}

func TestParse_OptionalValues(t *testing.T) {
	input := writeInput(t)

	tests := []struct {
		name      string
		args      []string
		wantSheet string
		wantSeed  *int64
	}{
		{"sheet only", []string{input, "o.csv", "1", "random", "Data"}, "Data", nil},
		{"empty sheet is absent", []string{input, "o.csv", "1", "random", ""}, "", nil},
		{"sheet and seed", []string{input, "o.csv", "1", "random", "Data", "42"}, "Data", ptr(int64(42))},
		{"negative seed", []string{input, "o.csv", "1", "random", "", "-7"}, "", ptr(int64(-7))},
		{"empty seed is absent", []string{input, "o.csv", "1", "random", "", ""}, "", nil},
		{"extra values ignored", []string{input, "o.csv", "1", "random", "", "1", "extra"}, "", ptr(int64(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSheet, cfg.SheetName)
			assert.Equal(t, tt.wantSeed, cfg.Seed)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	input := writeInput(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"no args", nil, ErrUsage, Usage},
		{"three args", []string{input, "o.csv", "3"}, ErrUsage, Usage},
		{"negative count", []string{input, "o.csv", "-3", "head"}, ErrInvalidCount, "N must be a non-negative integer (got: -3)"},
		{"non-numeric count", []string{input, "o.csv", "three", "head"}, ErrInvalidCount, "N must be a non-negative integer (got: three)"},
		{"empty count", []string{input, "o.csv", "", "head"}, ErrInvalidCount, ""},
		{"decimal count", []string{input, "o.csv", "1.5", "head"}, ErrInvalidCount, ""},
		{"bad mode", []string{input, "o.csv", "3", "middle"}, ErrInvalidMode, "MODE must be one of: head, tail, random"},
		{"bad seed", []string{input, "o.csv", "3", "random", "", "4x"}, ErrInvalidSeed, "SEED must be an integer (got: 4x)"},
		{"double sign seed", []string{input, "o.csv", "3", "random", "", "--4"}, ErrInvalidSeed, ""},
		{"seed overflow", []string{input, "o.csv", "3", "random", "", "99999999999999999999"}, ErrInvalidSeed, ""},
		{"missing input", []string{filepath.Join(dir, "nope.csv"), "o.csv", "3", "head"}, ErrInputNotFound, "not found"},
		{"directory input", []string{dir, "o.csv", "3", "head"}, ErrInputNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_CheckOrder(t *testing.T) {
	// A bad count is reported before a missing input file.
	_, err := Parse([]string{"missing.csv", "o.csv", "x", "head"})
	require.ErrorIs(t, err, ErrInvalidCount)

	// A bad seed is reported before a missing input file.
	_, err = Parse([]string{"missing.csv", "o.csv", "1", "random", "", "s"})
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount("0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ParseCount("007")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = ParseCount("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, n)
}

func ptr[T any](v T) *T {
	return &v
}
