package asmout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"kilc/internal/il"
)

// FileNames assigns output files to units in order. A unit whose sanitized id
// is already taken gets a numeric suffix, so "a/b" and "a_b" land in a_b.asm
// and a_b_2.asm.
func FileNames(units []*il.Unit) []string {
	names := make([]string, len(units))
	taken := make(map[string]bool, len(units))
	for i, u := range units {
		base := il.SanitizeLabel(u.ID)
		name := base + ".asm"
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d.asm", base, n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// WriteAll renders every unit into dir in parallel and returns the written
// paths in unit order. Units must not be mutated while writing.
func WriteAll(ctx context.Context, dir string, units []*il.Unit) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	names := FileNames(units)
	paths := make([]string, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(runtime.GOMAXPROCS(0), len(units))))
	for i, u := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			path := filepath.Join(dir, names[i])
			if err := os.WriteFile(path, []byte(Render(u)), 0o644); err != nil {
				return fmt.Errorf("unit %s: %w", u.ID, err)
			}
			// индексы уникальны, мьютекс не нужен
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
