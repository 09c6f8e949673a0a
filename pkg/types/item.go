package types

// Recognized item fields. All other fields are opaque and stored as given.
const (
	FieldTime     = "time"
	FieldSize     = "size"
	FieldX        = "x"
	FieldY        = "y"
	FieldOpacity  = "opacity"
	FieldChildren = "_children"
	FieldType     = "type"
	FieldTool     = "tool"
)

// Item is one drawable object on a board: a flat set of named fields plus an
// optional ordered list of nested items under FieldChildren.
type Item map[string]any

// Board maps item identifiers to items. A nil Item is a present-but-null
// entry, which is distinct from an absent identifier.
type Board map[string]Item

// Children returns the nested child items. Entries that are not objects are
// skipped. Returns nil when the item has no children list.
func (it Item) Children() []Item {
	raw, ok := it[FieldChildren].([]any)
	if !ok {
		return nil
	}
	children := make([]Item, 0, len(raw))
	for _, c := range raw {
		if child, ok := AsItem(c); ok {
			children = append(children, child)
		}
	}
	return children
}

// Clone returns a deep copy of the item. Nested maps and slices are copied so
// the result shares no mutable state with the receiver.
func (it Item) Clone() Item {
	if it == nil {
		return nil
	}
	out := make(Item, len(it))
	for k, v := range it {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for id, it := range b {
		out[id] = it.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Item:
		return x.Clone()
	case map[string]any:
		return map[string]any(Item(x).Clone())
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []Item:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e.Clone()
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Item(e).Clone()
		}
		return out
	default:
		return v
	}
}

// AsItem reports whether v is an object value and returns it as an Item.
// A nil map is not an object.
func AsItem(v any) (Item, bool) {
	switch x := v.(type) {
	case Item:
		return x, x != nil
	case map[string]any:
		return Item(x), x != nil
	default:
		return nil, false
	}
}
