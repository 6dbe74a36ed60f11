package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotLayoutCoversSpaceExactly(t *testing.T) {
	// The heuristic region, target region and the four singleton slots
	// must tile [0, SpaceSize) with no gaps or overlaps
	assert.Equal(t, SlotTargetBase, SlotHeuristicBase+NumHeuristicSlots)
	assert.Equal(t, SlotCharge, SlotTargetBase+NumTargetSlots)
	assert.Equal(t, SlotFight, SlotCharge+1)
	assert.Equal(t, SlotWait, SlotFight+1)
	assert.Equal(t, SlotAdvance, SlotWait+1)
	assert.Equal(t, SpaceSize, SlotAdvance+1)
}

func TestMaskValidIndices(t *testing.T) {
	m := NewMask()
	assert.Len(t, m, SpaceSize)
	assert.False(t, m.Any())
	assert.Empty(t, m.ValidIndices())

	m[SlotWait] = true
	m[SlotHeuristicBase] = true
	assert.True(t, m.Any())
	assert.Equal(t, []int{SlotHeuristicBase, SlotWait}, m.ValidIndices())
}
