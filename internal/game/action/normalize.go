package action

import (
	"math"

	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// Normalize converts an arbitrary raw action from a caller (human UI,
// scripted bot, RL policy bridge) into a validated action index. It
// rejects booleans and other non-integer-compatible values, unwraps
// single-element numeric slices, and range-checks against the action
// space. Out-of-range input is an error, never clamped.
func Normalize(raw any, p phase.Phase, source string, actionSpaceSize int) (int, error) {
	idx, err := toIndex(raw, p, source)
	if err != nil {
		return -1, err
	}

	if idx < 0 || idx >= actionSpaceSize {
		return -1, newError(CodeOutOfRange, p, source, raw)
	}
	return idx, nil
}

// toIndex reduces raw to a plain int, recursing one level into
// single-element slices so policy bridges that emit [1]-shaped arrays
// still work.
func toIndex(raw any, p phase.Phase, source string) (int, error) {
	switch v := raw.(type) {
	case bool:
		// bool satisfies many numeric-ish conversions upstream; it is
		// explicitly not an action index
		return -1, newError(CodeInvalidType, p, source, raw)
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float32:
		return floatToIndex(float64(v), p, source, raw)
	case float64:
		return floatToIndex(v, p, source, raw)
	case []int:
		if len(v) != 1 {
			return -1, newError(CodeInvalidShape, p, source, raw)
		}
		return v[0], nil
	case []int64:
		if len(v) != 1 {
			return -1, newError(CodeInvalidShape, p, source, raw)
		}
		return int(v[0]), nil
	case []float64:
		if len(v) != 1 {
			return -1, newError(CodeInvalidShape, p, source, raw)
		}
		return floatToIndex(v[0], p, source, raw)
	case []float32:
		if len(v) != 1 {
			return -1, newError(CodeInvalidShape, p, source, raw)
		}
		return floatToIndex(float64(v[0]), p, source, raw)
	case []any:
		if len(v) != 1 {
			return -1, newError(CodeInvalidShape, p, source, raw)
		}
		return toIndex(v[0], p, source)
	default:
		return -1, newError(CodeInvalidType, p, source, raw)
	}
}

func floatToIndex(f float64, p phase.Phase, source string, raw any) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return -1, newError(CodeInvalidType, p, source, raw)
	}
	return int(f), nil
}

// ValidateAgainstMask checks a normalized index against the legality mask.
// A false mask bit yields a masked_out error carrying the list of currently
// valid indices; an index beyond the mask length is out_of_range.
func ValidateAgainstMask(actionInt int, mask Mask, p phase.Phase, source string, unitID int) error {
	if actionInt < 0 || actionInt >= len(mask) {
		err := newError(CodeOutOfRange, p, source, actionInt)
		err.UnitID = unitID
		return err
	}

	if !mask[actionInt] {
		err := newError(CodeMaskedOut, p, source, actionInt)
		err.UnitID = unitID
		err.ValidIndices = mask.ValidIndices()
		return err
	}

	return nil
}
