// Package logtail reads the tail of Tesserama's log file.
//
// The log is written by slog's text handler, one record per line:
//
//	time=2024-03-05T10:00:00.000+01:00 level=INFO msg="document saved" path=/home/me/cards.csv records=12
//
// Read scans the file once and keeps the last N lines in a ring buffer, so
// memory stays proportional to N rather than to the file size. Lines below
// the requested level are dropped while scanning; lines that carry no level
// attribute are kept.
//
// A missing log file is not an error: logging may simply never have run.
package logtail
