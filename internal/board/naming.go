package board

import (
	"path/filepath"
	"strings"
	"time"
)

// stampLayout is an ISO-8601 UTC timestamp with millisecond precision and
// the colons removed so the result is a portable file name.
const stampLayout = "2006-01-02T150405.000Z"

// BoardFile returns the backing file path for the board called name.
func BoardFile(historyDir, name string) string {
	return filepath.Join(historyDir, "board-"+escapeComponent(name)+".json")
}

// stampedName derives a side file name from base: used for both the
// temporary file written during a save and the quarantine copy of an
// unreadable board.
func stampedName(base string, now time.Time) string {
	return base + "." + now.UTC().Format(stampLayout) + ".bak"
}

const upperHex = "0123456789ABCDEF"

// escapeComponent percent-encodes every byte of s except ASCII letters,
// digits and - _ . ! ~ * ' ( ), the set URI components leave unreserved.
func escapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
