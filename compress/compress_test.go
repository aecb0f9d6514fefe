package compress

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hdt3213/geocover/geohash"
)

func TestCompressSiblingMerge(t *testing.T) {
	children, err := geohash.Children("tdnu2")
	assert.NoError(t, err)
	result, err := Compress(children)
	assert.NoError(t, err)
	assert.Equal(t, []string{"tdnu2"}, result)
}

func TestCompressPrune(t *testing.T) {
	result, err := Compress([]string{"y0", "y01", "z2"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"y0", "z2"}, result)
}

func TestCompressCascade(t *testing.T) {
	// all grandchildren collapse through their parents to the grandparent
	children, err := geohash.Children("tdnu2")
	assert.NoError(t, err)
	var grandchildren []string
	for _, child := range children {
		gc, err := geohash.Children(child)
		assert.NoError(t, err)
		grandchildren = append(grandchildren, gc...)
	}
	assert.Len(t, grandchildren, 32*32)
	result, err := Compress(grandchildren)
	assert.NoError(t, err)
	assert.Equal(t, []string{"tdnu2"}, result)
}

func TestCompressIncompleteGroup(t *testing.T) {
	children, err := geohash.Children("tdnu2")
	assert.NoError(t, err)
	// 31 of 32 siblings stay as they are
	result, err := Compress(children[:31])
	assert.NoError(t, err)
	expect := append([]string{}, children[:31]...)
	sort.Strings(expect)
	assert.Equal(t, expect, result)
}

func TestCompressNormalize(t *testing.T) {
	result, err := Compress([]string{"", "tdnu21", "tdnu21", ""})
	assert.NoError(t, err)
	assert.Equal(t, []string{"tdnu21"}, result)

	// truncation above max level
	result, err = Compress([]string{"tdnu21xyz"}, WithMaxLevel(4))
	assert.NoError(t, err)
	assert.Equal(t, []string{"tdnu"}, result)
}

func TestCompressMinLevelPassThrough(t *testing.T) {
	// entries already shorter than the minimum survive untouched
	result, err := Compress([]string{"t"}, WithMinLevel(3))
	assert.NoError(t, err)
	assert.Equal(t, []string{"t"}, result)

	// a complete group at the minimum level is not merged further
	children, err := geohash.Children("tdnu2")
	assert.NoError(t, err)
	result, err = Compress(children, WithMinLevel(6))
	assert.NoError(t, err)
	expect := append([]string{}, children...)
	sort.Strings(expect)
	assert.Equal(t, expect, result)
}

func TestCompressErrors(t *testing.T) {
	_, err := Compress(nil)
	assert.ErrorIs(t, err, ErrNullInput)

	_, err = Compress([]string{"u"}, WithMinLevel(0))
	assert.ErrorIs(t, err, geohash.ErrInvalidPrecision)
	_, err = Compress([]string{"u"}, WithMaxLevel(13))
	assert.ErrorIs(t, err, geohash.ErrInvalidPrecision)
	_, err = Compress([]string{"u"}, WithMinLevel(5), WithMaxLevel(4))
	assert.ErrorIs(t, err, geohash.ErrInvalidPrecision)
}

func TestCompressEmpty(t *testing.T) {
	result, err := Compress([]string{})
	assert.NoError(t, err)
	assert.Empty(t, result)
}

func TestCompressIdempotent(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		input := randomHashes(rnd, 200)
		once, err := Compress(input)
		assert.NoError(t, err)
		twice, err := Compress(once)
		assert.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestCompressPreservesCoverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		input := randomHashes(rnd, 100)
		output, err := Compress(input)
		assert.NoError(t, err)

		deepest := 0
		for _, hash := range input {
			if len(hash) > deepest {
				deepest = len(hash)
			}
		}
		assert.Equal(t, expand(t, dedupe(input), deepest), expand(t, output, deepest))
	}
}

func randomHashes(rnd *rand.Rand, n int) []string {
	hashes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		length := 1 + rnd.Intn(3)
		buf := make([]byte, length)
		for j := range buf {
			// a narrow alphabet slice makes shared prefixes (and so pruning)
			// likely; with three characters no complete 32-sibling group forms
			buf[j] = geohash.Alphabet[rnd.Intn(3)]
		}
		hashes = append(hashes, string(buf))
	}
	return hashes
}

func dedupe(hashes []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(hashes))
	for _, hash := range hashes {
		if !seen[hash] {
			seen[hash] = true
			out = append(out, hash)
		}
	}
	return out
}

// expand materializes the cell set at a fixed depth so coverages compare
func expand(t *testing.T, hashes []string, depth int) map[string]bool {
	t.Helper()
	cells := make(map[string]bool)
	var walk func(hash string)
	walk = func(hash string) {
		if len(hash) >= depth {
			cells[hash[:depth]] = true
			return
		}
		children, err := geohash.Children(hash)
		if err != nil {
			t.Fatal(err)
		}
		for _, child := range children {
			walk(child)
		}
	}
	for _, hash := range hashes {
		walk(hash)
	}
	return cells
}
