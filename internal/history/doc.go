// Package history provides JSON-based persistence for daily scraped values.
//
// A history file is a single JSON object mapping ISO-8601 calendar dates
// (2006-01-02) to the text captured on that day. Each run loads the whole
// file, overwrites at most the entry for the current day, and writes the
// whole file back. Files live in a data directory managed by Store.
package history
