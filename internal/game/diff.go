package game

import (
	"errors"
	"fmt"
	"math"
)

var ErrMalformedDiff = errors.New("malformed map diff")

// DiffToken is one entry of a run-length map diff: either Skip unchanged
// cells, or a single replacement Tile.
type DiffToken struct {
	Skip    int
	Tile    Tile
	Replace bool
}

func SkipToken(n int) DiffToken     { return DiffToken{Skip: n} }
func ReplaceToken(t Tile) DiffToken { return DiffToken{Tile: t, Replace: true} }

// Diff is a run-length encoded update over the flattened grid.
type Diff []DiffToken

// Cells returns how many grid cells the diff covers, or -1 if a skip count
// is negative or the total does not fit in an int.
func (d Diff) Cells() int {
	n := 0
	for _, tok := range d {
		if tok.Replace {
			if n == math.MaxInt {
				return -1
			}
			n++
			continue
		}
		if tok.Skip < 0 || tok.Skip > math.MaxInt-n {
			return -1
		}
		n += tok.Skip
	}
	return n
}

// Apply rebuilds g from diff, marks every revealed cell as visible and
// refreshes king sightings. A diff that does not cover exactly the whole
// grid is rejected and g is left untouched.
func Apply(g *Grid, diff Diff, self Color, kings *Kings) error {
	if !g.Initialized() {
		return ErrNotInitialized
	}
	if n := diff.Cells(); n != g.Size() {
		return fmt.Errorf("%w: covers %d cells, grid has %d", ErrMalformedDiff, n, g.Size())
	}

	next := make([]Tile, len(g.tiles))
	j := 0
	for _, tok := range diff {
		if tok.Replace {
			next[j] = tok.Tile
			j++
			continue
		}
		if tok.Skip > len(next)-j {
			return fmt.Errorf("%w: skip of %d past cell %d", ErrMalformedDiff, tok.Skip, j)
		}
		copy(next[j:j+tok.Skip], g.tiles[j:j+tok.Skip])
		j += tok.Skip
	}

	for i, t := range next {
		if !IsUnrevealed(t) {
			g.visible[i] = true
		}
		if kings != nil && t.Type == King && t.HasOwner {
			kings.observe(g.position(i), t.Owner, self)
		}
	}
	g.tiles = next

	if kings != nil {
		kings.prune(g)
	}
	return nil
}

// Encode produces the diff that turns prev into next. Both slices must have
// the same length.
func Encode(prev, next []Tile) Diff {
	var out Diff
	run := 0
	for i := range next {
		if i < len(prev) && prev[i] == next[i] {
			run++
			continue
		}
		if run > 0 {
			out = append(out, SkipToken(run))
			run = 0
		}
		out = append(out, ReplaceToken(next[i]))
	}
	if run > 0 {
		out = append(out, SkipToken(run))
	}
	return out
}
