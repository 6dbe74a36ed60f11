package deploy

import (
	"sort"

	"github.com/tabletop-rl/warhex/internal/game/core"
)

// exposureCache holds the per-candidate-hex count of deployed enemies with
// line of sight. Deployment places one unit at a time, so the common case
// is a single added enemy between calls: an O(pool) incremental update.
// A multi-unit diff or a deployer change forces a full rebuild.
type exposureCache struct {
	valid    bool
	deployer int
	enemyIDs []int
	counts   map[core.Hex]int
}

// sync brings the cache up to date against the score context. Returns
// true when a full rebuild was required.
func (c *exposureCache) sync(pool []core.Hex, sctx ScoreContext) bool {
	current := make([]int, len(sctx.EnemyUnits))
	for i, e := range sctx.EnemyUnits {
		current[i] = e.ID
	}
	sort.Ints(current)

	if c.valid && c.deployer == sctx.Player {
		if equalIDs(c.enemyIDs, current) {
			return false
		}
		if added, ok := singleAddition(c.enemyIDs, current); ok {
			c.incrementalAdd(added, pool, sctx)
			c.enemyIDs = current
			return false
		}
	}

	c.rebuild(pool, sctx)
	c.deployer = sctx.Player
	c.enemyIDs = current
	c.valid = true
	return true
}

// exposure returns the cached LOS exposure count for a hex
func (c *exposureCache) exposure(h core.Hex) int {
	return c.counts[h]
}

// incrementalAdd folds one newly deployed enemy into the counts
func (c *exposureCache) incrementalAdd(addedID int, pool []core.Hex, sctx ScoreContext) {
	var addedPos core.Hex
	found := false
	for _, e := range sctx.EnemyUnits {
		if e.ID == addedID {
			addedPos = e.Pos
			found = true
			break
		}
	}
	if !found {
		return
	}
	for _, h := range pool {
		if sctx.LOS.HasLOS(addedPos, h) {
			c.counts[h]++
		}
	}
}

// rebuild recomputes the full exposure table
func (c *exposureCache) rebuild(pool []core.Hex, sctx ScoreContext) {
	c.counts = make(map[core.Hex]int, len(pool))
	for _, h := range pool {
		for _, e := range sctx.EnemyUnits {
			if sctx.LOS.HasLOS(e.Pos, h) {
				c.counts[h]++
			}
		}
	}
}

// equalIDs compares two sorted id slices
func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// singleAddition reports whether b is a plus exactly one new id, and
// which id that is. Both slices must be sorted.
func singleAddition(a, b []int) (int, bool) {
	if len(b) != len(a)+1 {
		return 0, false
	}
	added := 0
	foundAdded := false
	i := 0
	for j := 0; j < len(b); j++ {
		if i < len(a) && a[i] == b[j] {
			i++
			continue
		}
		if foundAdded {
			return 0, false
		}
		added = b[j]
		foundAdded = true
	}
	if i != len(a) || !foundAdded {
		return 0, false
	}
	return added, true
}
