// Package scraper runs extraction rules against live pages.
//
// A Rule names an entry page, an optional selector for a featured link on that
// page, and the selector whose text is the day's data point. The scraper
// fetches the entry page, follows the featured link when one is configured,
// and extracts the target text. Every rule shares the same fetch and extract
// pipeline; adding a tracked value is a configuration change.
package scraper
