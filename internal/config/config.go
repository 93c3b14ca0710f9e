// Package config turns the positional command-line values into a validated
// Config. Each kind of bad input has its own sentinel error so callers can
// tell them apart with errors.Is.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/nconklindev/copyrows/internal/types"
)

const Usage = "usage: copy_rows INPUT_FILE OUTPUT_FILE N MODE [SHEET_NAME] [SEED]"

const (
	minArgs = 4
	maxArgs = 6
)

var (
	ErrUsage         = errors.New(Usage)
	ErrInvalidCount  = errors.New("N must be a non-negative integer")
	ErrInvalidMode   = errors.New("MODE must be one of: head, tail, random")
	ErrInvalidSeed   = errors.New("SEED must be an integer")
	ErrInputNotFound = errors.New("not found")
)

var (
	countPattern = regexp.MustCompile(`^[0-9]+$`)
	seedPattern  = regexp.MustCompile(`^-?[0-9]+$`)
)

type Config struct {
	InputPath  string
	OutputPath string
	N          int
	Mode       types.Mode
	// SheetName is empty when the first sheet should be read.
	SheetName string
	// Seed is nil when random selection should vary between runs.
	Seed *int64
}

// Parse validates args (program name already stripped) in the order
// N, mode, seed, input file, and returns the first failure.
func Parse(args []string) (*Config, error) {
	if len(args) < minArgs {
		return nil, ErrUsage
	}
	if len(args) > maxArgs {
		slog.Warn("Ignoring extra arguments.", "extra", args[maxArgs:])
	}

	cfg := &Config{
		InputPath:  args[0],
		OutputPath: args[1],
	}

	n, err := ParseCount(args[2])
	if err != nil {
		return nil, err
	}
	cfg.N = n

	mode, ok := types.ParseMode(args[3])
	if !ok {
		return nil, ErrInvalidMode
	}
	cfg.Mode = mode

	if len(args) >= 5 && args[4] != "" {
		cfg.SheetName = args[4]
	}

	if len(args) >= 6 && args[5] != "" {
		seed, err := ParseSeed(args[5])
		if err != nil {
			return nil, err
		}
		cfg.Seed = &seed
	}

	if err := checkInput(cfg.InputPath); err != nil {
		return nil, err
	}

	slog.Debug("Arguments validated.",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"n", cfg.N,
		"mode", cfg.Mode,
		"sheet", cfg.SheetName,
		"seeded", cfg.Seed != nil,
	)
	return cfg, nil
}

// ParseCount accepts decimal digits only. Values past the int range are
// clamped, since N is clamped to the row count later anyway.
func ParseCount(s string) (int, error) {
	if !countPattern.MatchString(s) {
		return 0, fmt.Errorf("%w (got: %s)", ErrInvalidCount, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return math.MaxInt, nil
		}
		return 0, fmt.Errorf("%w (got: %s)", ErrInvalidCount, s)
	}
	return n, nil
}

func ParseSeed(s string) (int64, error) {
	if !seedPattern.MatchString(s) {
		return 0, fmt.Errorf("%w (got: %s)", ErrInvalidSeed, s)
	}
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w (got: %s)", ErrInvalidSeed, s)
	}
	return seed, nil
}

func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input file '%s' %w", path, ErrInputNotFound)
		}
		return fmt.Errorf("input file '%s': %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input file '%s' %w", path, ErrInputNotFound)
	}
	return nil
}
