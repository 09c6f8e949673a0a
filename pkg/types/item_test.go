package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemClone_DeepCopiesChildLists(t *testing.T) {
	tests := []struct {
		name     string
		children func(child Item) any
	}{
		{"generic list", func(c Item) any { return []any{c} }},
		{"typed item list", func(c Item) any { return []Item{c} }},
		{"map list", func(c Item) any { return []map[string]any{c} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child := Item{"color": "red"}
			orig := Item{FieldChildren: tt.children(child)}

			cp := orig.Clone()
			child["color"] = "blue"

			got := cp.Children()
			require.Len(t, got, 1)
			assert.Equal(t, "red", got[0]["color"])
		})
	}
}

func TestItemClone_Nil(t *testing.T) {
	var it Item
	assert.Nil(t, it.Clone())
}
