package deploy

import "github.com/tabletop-rl/warhex/internal/game/core"

// LineOfSight abstracts the visibility primitive the planner scores with.
// Real terrain-aware implementations live outside this core.
type LineOfSight interface {
	HasLOS(from, to core.Hex) bool
}

// WallLOS is the default implementation: sight is blocked when any wall
// hex lies on the straight hex line between the endpoints.
type WallLOS struct {
	Walls map[core.Hex]bool
}

// HasLOS reports whether from can see to
func (w WallLOS) HasLOS(from, to core.Hex) bool {
	if from.Equal(to) {
		return true
	}
	for _, h := range hexLine(from, to) {
		if h.Equal(from) || h.Equal(to) {
			continue
		}
		if w.Walls[h] {
			return false
		}
	}
	return true
}

// hexLine samples the straight line between two hexes by linear
// interpolation in cube space, one step per hex of distance
func hexLine(from, to core.Hex) []core.Hex {
	n := from.DistanceTo(to)
	if n == 0 {
		return []core.Hex{from}
	}

	aq, ar := offsetToAxial(from)
	bq, br := offsetToAxial(to)

	line := make([]core.Hex, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		q := float64(aq) + (float64(bq)-float64(aq))*t
		r := float64(ar) + (float64(br)-float64(ar))*t
		line = append(line, axialRound(q, r))
	}
	return line
}

func offsetToAxial(h core.Hex) (q, r int) {
	q = h.Col - (h.Row-(h.Row&1))/2
	r = h.Row
	return q, r
}

func axialToOffset(q, r int) core.Hex {
	return core.Hex{Col: q + (r-(r&1))/2, Row: r}
}

// axialRound rounds fractional cube coordinates to the nearest hex
func axialRound(qf, rf float64) core.Hex {
	sf := -qf - rf

	q := roundHalfAway(qf)
	r := roundHalfAway(rf)
	s := roundHalfAway(sf)

	dq := absFloat(float64(q) - qf)
	dr := absFloat(float64(r) - rf)
	ds := absFloat(float64(s) - sf)

	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}

	return axialToOffset(q, r)
}

func roundHalfAway(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return -int(-f + 0.5)
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
