// Package fetch performs the HTTP GET requests behind every scrape.
//
// A Client issues exactly one request per call and hands back the final URL,
// status code and body. Deciding whether a status counts as success is left to
// the caller; only transport failures are returned as errors.
package fetch
