// Package compress collapses geohash sets into minimal prefix sets: any
// group of 32 sibling cells is replaced by their parent, bottom-up, after
// redundant descendants of present ancestors are pruned.
package compress

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hdt3213/geocover/datastruct/set"
	"github.com/hdt3213/geocover/geohash"
)

// ErrNullInput reports a missing input collection.
var ErrNullInput = errors.New("compress: nil input")

type options struct {
	minLevel int
	maxLevel int
}

// Option customizes a Compress call.
type Option func(*options)

// WithMinLevel sets the precision compression will not merge beyond.
// Hashes already shorter than the minimum pass through untouched.
func WithMinLevel(level int) Option {
	return func(o *options) {
		o.minLevel = level
	}
}

// WithMaxLevel sets the precision longer hashes are truncated to before
// compression.
func WithMaxLevel(level int) Option {
	return func(o *options) {
		o.maxLevel = level
	}
}

// Compress returns the minimal prefix set covering the same region as the
// given geohashes, sorted lexicographically. Covered area is preserved
// except that hashes longer than the maximum level are truncated to it.
// Compressing an already compressed set is a no-op.
func Compress(hashes []string, opts ...Option) ([]string, error) {
	if hashes == nil {
		return nil, ErrNullInput
	}
	o := &options{
		minLevel: geohash.MinPrecision,
		maxLevel: geohash.MaxPrecision,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.minLevel < geohash.MinPrecision || o.maxLevel > geohash.MaxPrecision || o.minLevel > o.maxLevel {
		return nil, fmt.Errorf("%w: levels [%d, %d]", geohash.ErrInvalidPrecision, o.minLevel, o.maxLevel)
	}

	kept := normalize(hashes, o.maxLevel)
	pruned := prune(kept)
	merged := merge(pruned, o.minLevel)

	result := merged.ToSlice()
	sort.Strings(result)
	return result, nil
}

// normalize drops empty strings, truncates beyond maxLevel and dedupes.
func normalize(hashes []string, maxLevel int) *set.Set {
	kept := set.Make()
	for _, hash := range hashes {
		if hash == "" {
			continue
		}
		if len(hash) > maxLevel {
			hash = hash[:maxLevel]
		}
		kept.Add(hash)
	}
	return kept
}

// prune drops any hash whose proper-prefix ancestor is present. Candidates
// are visited in ascending length so ancestors are settled first.
func prune(kept *set.Set) *set.Set {
	candidates := kept.ToSlice()
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) < len(candidates[j])
	})
	pruned := set.Make()
	for _, hash := range candidates {
		covered := false
		for i := 1; i < len(hash); i++ {
			if pruned.Has(hash[:i]) {
				covered = true
				break
			}
		}
		if !covered {
			pruned.Add(hash)
		}
	}
	return pruned
}

// merge replaces complete 32-sibling groups with their parent, from the
// deepest present level down to minLevel+1 so freshly created parents merge
// in turn. Hashes at or below minLevel are never merged further.
func merge(pruned *set.Set, minLevel int) *set.Set {
	deepest := 0
	pruned.ForEach(func(member string) bool {
		if len(member) > deepest {
			deepest = len(member)
		}
		return true
	})
	for level := deepest; level > minLevel; level-- {
		groups := make(map[string]int)
		pruned.ForEach(func(member string) bool {
			if len(member) == level {
				groups[member[:level-1]]++
			}
			return true
		})
		for parent, count := range groups {
			if count != len(geohash.Alphabet) {
				continue
			}
			for i := 0; i < len(geohash.Alphabet); i++ {
				pruned.Remove(parent + geohash.Alphabet[i:i+1])
			}
			pruned.Add(parent)
		}
	}
	return pruned
}
