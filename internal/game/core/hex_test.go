package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexIndexRoundTrip(t *testing.T) {
	width := 7
	for idx := 0; idx < width*5; idx++ {
		h := FromIndex(idx, width)
		assert.Equal(t, idx, h.ToIndex(width))
	}
}

func TestHexIsValid(t *testing.T) {
	tests := []struct {
		name  string
		hex   Hex
		valid bool
	}{
		{"origin", NewHex(0, 0), true},
		{"interior", NewHex(3, 4), true},
		{"max corner", NewHex(7, 7), true},
		{"negative col", NewHex(-1, 0), false},
		{"negative row", NewHex(0, -1), false},
		{"col overflow", NewHex(8, 0), false},
		{"row overflow", NewHex(0, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.hex.IsValid(8, 8))
		})
	}
}

func TestHexDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Hex
		want int
	}{
		{"same hex", NewHex(3, 3), NewHex(3, 3), 0},
		{"east neighbor", NewHex(0, 0), NewHex(1, 0), 1},
		{"south-east neighbor", NewHex(0, 0), NewHex(0, 1), 1},
		{"two rows straight down", NewHex(0, 0), NewHex(0, 2), 2},
		{"along a row", NewHex(0, 0), NewHex(3, 0), 3},
		{"diagonal staircase", NewHex(0, 0), NewHex(2, 1), 3},
		{"odd row start", NewHex(2, 1), NewHex(2, 3), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.DistanceTo(tt.b))
			assert.Equal(t, tt.want, tt.b.DistanceTo(tt.a), "distance must be symmetric")
		})
	}
}

func TestHexNeighbors(t *testing.T) {
	for _, h := range []Hex{NewHex(4, 4), NewHex(4, 5)} {
		neighbors := h.Neighbors()
		assert.Len(t, neighbors, 6)
		seen := make(map[Hex]bool)
		for _, n := range neighbors {
			assert.Equal(t, 1, h.DistanceTo(n), "neighbor %s of %s must be at distance 1", n, h)
			assert.False(t, seen[n], "duplicate neighbor %s", n)
			seen[n] = true
		}
	}
}

func TestHexValidNeighborsAtCorner(t *testing.T) {
	// The origin of an even row has only three on-board neighbors
	valid := NewHex(0, 0).ValidNeighbors(8, 8)
	assert.Len(t, valid, 3)
	for _, n := range valid {
		assert.True(t, n.IsValid(8, 8))
	}
}

func TestHexIsAdjacentTo(t *testing.T) {
	h := NewHex(3, 3)
	for _, n := range h.Neighbors() {
		assert.True(t, h.IsAdjacentTo(n))
	}
	assert.False(t, h.IsAdjacentTo(h))
	assert.False(t, h.IsAdjacentTo(NewHex(3, 5)))
}

func TestBoardCenter(t *testing.T) {
	assert.Equal(t, NewHex(4, 4), BoardCenter(8, 8))
	assert.Equal(t, NewHex(6, 5), BoardCenter(12, 10))
}
