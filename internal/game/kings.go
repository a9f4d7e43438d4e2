package game

// EnemyKing is a sighted enemy king and the color that owned it.
type EnemyKing struct {
	Pos   Position
	Color Color
}

// Kings tracks our own king and every enemy king seen so far.
type Kings struct {
	own     Position
	hasOwn  bool
	enemies []EnemyKing
}

// Own returns our king's position once it has been observed.
func (k *Kings) Own() (Position, bool) {
	return k.own, k.hasOwn
}

// Enemies returns the tracked enemy kings in discovery order.
func (k *Kings) Enemies() []EnemyKing {
	out := make([]EnemyKing, len(k.enemies))
	copy(out, k.enemies)
	return out
}

// Tracking reports whether a king of color c is already known.
func (k *Kings) Tracking(c Color) bool {
	for _, e := range k.enemies {
		if e.Color == c {
			return true
		}
	}
	return false
}

func (k *Kings) observe(p Position, owner, self Color) {
	if owner == self {
		k.own = p
		k.hasOwn = true
		return
	}
	if !k.Tracking(owner) {
		k.enemies = append(k.enemies, EnemyKing{Pos: p, Color: owner})
	}
}

// prune drops kings whose cell now shows another owner. A cell that went
// back to Fog keeps its entry.
func (k *Kings) prune(g *Grid) {
	kept := k.enemies[:0]
	for _, e := range k.enemies {
		t, err := g.TileAt(e.Pos)
		if err != nil {
			continue
		}
		if t.OwnedBy(e.Color) || t.Type == Fog {
			kept = append(kept, e)
		}
	}
	k.enemies = kept
}
