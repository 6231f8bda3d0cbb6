// Package logging builds the slog loggers used across bootleg-splitter.
//
// Two formats are supported: "console" for colored, human readable lines on
// a terminal and "json" for machine consumption.
package logging
