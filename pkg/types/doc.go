// Package types defines the Item and Board data model, the store and
// registry interfaces, configuration limits, and standard errors for the
// whiteboard store.
package types
