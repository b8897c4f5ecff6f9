// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming derives output file paths and resolves collisions between
// input files that would map to the same output name.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Stem returns the base filename without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath builds the target path for an input file: the input's stem
// plus an operation-specific suffix and extension, placed under outputDir.
// The suffix guarantees the output name differs from the input name even
// when the extension is unchanged (e.g. PDF compression).
func OutputPath(input, outputDir, suffix, ext string) string {
	return filepath.Join(outputDir, Stem(input)+suffix+ext)
}

// Resolver tracks output paths claimed by input files within one batch run
// and disambiguates duplicates deterministically: when two distinct inputs
// request the same output path, later claimants receive a " (N)" suffix in
// claim order. Resolving the same input twice returns the same path.
// All methods are goroutine-safe.
type Resolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path -> owning input path
	counters map[string]int    // requested path -> next dup counter
}

// NewResolver returns a ready-to-use Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output path for input. If requested is
// unclaimed, or already owned by this input, it is returned as-is;
// otherwise a numbered variant is generated.
func (r *Resolver) Resolve(input, requested string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, claimed := r.owners[requested]
	if !claimed || owner == input {
		r.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	n := r.counters[requested]
	if n == 0 {
		n = 2
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		cOwner, cClaimed := r.owners[candidate]
		if !cClaimed || cOwner == input {
			r.counters[requested] = n + 1
			r.owners[candidate] = input
			return candidate
		}
		n++
	}
}
