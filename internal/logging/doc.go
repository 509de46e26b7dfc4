// Package logging provides opt-in structured file logging for WordTracker.
// With --debug, JSON logs are written to ~/.wordtracker/logs/wordtracker.log
// with size-based rotation; the logs command reads them back.
//
// Without --debug only warnings reach stderr so report output stays clean.
package logging
