// Package history records completed translations in a local SQLite
// database so they can be listed later with --history.
package history
