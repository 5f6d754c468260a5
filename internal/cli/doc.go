// Package cli implements the command-line interface for dp-headlines.
//
// The cli package provides the Cobra-based root command that loads the
// configuration, sets up logging, runs every extraction rule once through the
// monitor, logs the resulting data directory, and reports a run summary
// (text/JSON). It is meant to be invoked on a schedule and exits zero whenever
// the run completes, even if no data point could be captured.
package cli
