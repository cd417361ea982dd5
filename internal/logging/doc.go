// Package logging assembles structured slog loggers for the skillbox CLI.
//
// Console lines go to stderr so stdout stays reserved for command results.
// When a log file is configured every record is also written there as JSON
// through a size-rotated writer. Components tag their lines with
// NewComponentLogger so console output reads "INFO transcribe: Uploading ...".
package logging
