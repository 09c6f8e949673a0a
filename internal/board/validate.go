package board

import (
	"github.com/mesh-intelligence/boardstore/internal/coerce"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// maxNestingDepth bounds recursion into nested children. Items at this depth
// keep their fields but lose their own children list.
const maxNestingDepth = 8

const (
	minOpacity = 0.1
	maxOpacity = 1.0
)

// Validate normalizes item in place so every recognized field lies within
// the limits of cfg. It never fails: invalid values are replaced by the
// nearest legal value or the field default. Validating an already valid
// item leaves it unchanged.
func Validate(item types.Item, cfg types.Config) {
	validateDepth(item, cfg, 0)
}

func validateDepth(item types.Item, cfg types.Config, depth int) {
	if item == nil {
		return
	}

	if v, ok := item[types.FieldSize]; ok {
		item[types.FieldSize] = clampSize(v, cfg.MaxItemSize)
	}

	_, hasX := item[types.FieldX]
	_, hasY := item[types.FieldY]
	if hasX || hasY {
		item[types.FieldX] = clampCoord(item[types.FieldX], cfg.MaxBoardSize)
		item[types.FieldY] = clampCoord(item[types.FieldY], cfg.MaxBoardSize)
	}

	if v, ok := item[types.FieldOpacity]; ok {
		if o := clampOpacity(v); o == maxOpacity {
			delete(item, types.FieldOpacity)
		} else {
			item[types.FieldOpacity] = o
		}
	}

	if v, ok := item[types.FieldChildren]; ok {
		if depth >= maxNestingDepth {
			delete(item, types.FieldChildren)
			return
		}
		children := childList(v)
		if len(children) > cfg.MaxChildren {
			children = children[:cfg.MaxChildren:cfg.MaxChildren]
		}
		for _, c := range children {
			if child, ok := types.AsItem(c); ok {
				validateDepth(child, cfg, depth+1)
			}
		}
		item[types.FieldChildren] = children
	}
}

// clampSize parses an integer size. Unparsable input and zero become 1.
func clampSize(v any, maxSize int) int {
	n, ok := coerce.ParseInt(v)
	if !ok || n == 0 {
		n = 1
	}
	return int(min(max(n, 1), int64(maxSize)))
}

// clampCoord parses a coordinate, bounds it to the board and keeps one
// decimal. Unparsable input becomes 0.
func clampCoord(v any, boardSize float64) float64 {
	f, ok := coerce.ParseFloat(v)
	if !ok {
		f = 0
	}
	return coerce.RoundTenth(coerce.Clamp(f, 0, boardSize))
}

// clampOpacity bounds opacity to [0.1, 1]. Non-numeric input becomes 1.
func clampOpacity(v any) float64 {
	f, ok := coerce.Number(v)
	if !ok {
		return maxOpacity
	}
	return coerce.Clamp(f, minOpacity, maxOpacity)
}

// childList returns v as a generic list. Anything that is not a list is
// replaced by an empty one.
func childList(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []types.Item:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = c
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = c
		}
		return out
	default:
		return []any{}
	}
}
