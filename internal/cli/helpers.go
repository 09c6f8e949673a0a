package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// Input errors.
var (
	errInvalidItem  = errors.New("invalid item")
	errItemNotFound = errors.New("item not found")
)

// stdinArg stands for standard input wherever an item is expected.
const stdinArg = "-"

// parseItem decodes a JSON object from arg, or from standard input when arg
// is "-". Numbers are kept as json.Number so validation sees what the user
// typed.
func parseItem(cmd *cobra.Command, arg string) (types.Item, error) {
	var r io.Reader = strings.NewReader(arg)
	if arg == stdinArg {
		r = cmd.InOrStdin()
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidItem, err)
	}
	it, ok := types.AsItem(raw)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", errInvalidItem)
	}
	return it, nil
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONLine prints v as compact JSON on one line.
func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// describe renders the type and tool of it for plain-text listings.
func describe(it types.Item) string {
	typ, _ := it[types.FieldType].(string)
	tool, _ := it[types.FieldTool].(string)
	if typ == "" {
		typ = "-"
	}
	if tool == "" {
		tool = "-"
	}
	return typ + "\t" + tool
}
