package core

import "fmt"

// Hex represents a position on the board using odd-row offset coordinates.
type Hex struct {
	Col, Row int
}

// NewHex creates a new hex with the given column and row values
func NewHex(col, row int) Hex {
	return Hex{Col: col, Row: row}
}

// FromIndex creates a hex from a board array index using row-major ordering
func FromIndex(idx, width int) Hex {
	return Hex{
		Col: idx % width,
		Row: idx / width,
	}
}

// IsValid checks if the hex is within the given board bounds
func (h Hex) IsValid(width, height int) bool {
	return h.Col >= 0 && h.Col < width && h.Row >= 0 && h.Row < height
}

// ToIndex converts the hex to a board array index using row-major ordering
func (h Hex) ToIndex(width int) int {
	return h.Row*width + h.Col
}

// toAxial converts odd-row offset coordinates to axial coordinates
func (h Hex) toAxial() (q, r int) {
	q = h.Col - (h.Row-(h.Row&1))/2
	r = h.Row
	return q, r
}

// DistanceTo calculates the hex-grid distance to another hex
func (h Hex) DistanceTo(other Hex) int {
	aq, ar := h.toAxial()
	bq, br := other.toAxial()

	dq := aq - bq
	dr := ar - br
	ds := dq + dr
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	return (dq + dr + ds) / 2
}

// IsAdjacentTo checks if this hex shares an edge with another
func (h Hex) IsAdjacentTo(other Hex) bool {
	return h.DistanceTo(other) == 1
}

// evenRowOffsets and oddRowOffsets hold the six neighbor deltas for
// odd-row offset grids; the column delta depends on row parity.
var (
	evenRowOffsets = [6]Hex{
		{Col: 1, Row: 0}, {Col: -1, Row: 0},
		{Col: 0, Row: -1}, {Col: -1, Row: -1},
		{Col: 0, Row: 1}, {Col: -1, Row: 1},
	}
	oddRowOffsets = [6]Hex{
		{Col: 1, Row: 0}, {Col: -1, Row: 0},
		{Col: 1, Row: -1}, {Col: 0, Row: -1},
		{Col: 1, Row: 1}, {Col: 0, Row: 1},
	}
)

// Neighbors returns the six adjacent hexes of this hex
func (h Hex) Neighbors() []Hex {
	offsets := &evenRowOffsets
	if h.Row&1 == 1 {
		offsets = &oddRowOffsets
	}

	neighbors := make([]Hex, 6)
	for i, o := range offsets {
		neighbors[i] = Hex{Col: h.Col + o.Col, Row: h.Row + o.Row}
	}
	return neighbors
}

// ValidNeighbors returns only the neighbors that are within the given bounds
func (h Hex) ValidNeighbors(width, height int) []Hex {
	neighbors := h.Neighbors()
	valid := make([]Hex, 0, 6)

	for _, n := range neighbors {
		if n.IsValid(width, height) {
			valid = append(valid, n)
		}
	}

	return valid
}

// Equal checks if two hexes are equal
func (h Hex) Equal(other Hex) bool {
	return h.Col == other.Col && h.Row == other.Row
}

// String returns a string representation of the hex
func (h Hex) String() string {
	return fmt.Sprintf("(%d,%d)", h.Col, h.Row)
}

// BoardCenter returns the hex closest to the center of a width x height board.
// Used as the deterministic tie-breaker anchor for deployment scoring.
func BoardCenter(width, height int) Hex {
	return Hex{Col: width / 2, Row: height / 2}
}
