package types

import "errors"

// BoardStore defines the operations a single board accepts. Mutations never
// fail; not-found conditions are reported as a false result.
type BoardStore interface {
	// Set stamps the item's time, validates it and stores it under id,
	// replacing any previous item.
	Set(id string, item Item)

	// AddChild appends child to the parent's children list. Returns false
	// when parentID does not resolve to an item.
	AddChild(parentID string, child Item) bool

	// Update shallow-merges patch into the item stored under id. The type
	// and tool fields of patch are ignored. When id does not resolve, the
	// patch is stored as a new item only if create is true or id holds a
	// null entry.
	Update(id string, patch Item, create bool)

	// Delete removes the item stored under id. Deleting an absent id is not
	// an error.
	Delete(id string)

	// Get returns a copy of the item stored under id.
	Get(id string) (Item, bool)

	// GetAll returns copies of every item whose id sorts after sinceID, or
	// every item when sinceID is empty, ordered by id.
	GetAll(sinceID string) []Item
}

// BoardRegistry hands out one BoardStore per board name.
type BoardRegistry interface {
	// Open returns the store for name, loading it from disk on first access.
	Open(name string) (BoardStore, error)

	// Evict flushes and forgets the store for name. Evicting a board that is
	// not open is not an error.
	Evict(name string) error

	// Close flushes every open store and rejects further Opens. Idempotent.
	Close() error
}

// Registry errors.
var (
	ErrBoardNameEmpty = errors.New("board name must not be empty")
	ErrRegistryClosed = errors.New("registry is closed")
)
