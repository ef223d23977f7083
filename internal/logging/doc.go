// Package logging assembles structured slog loggers and attribute helpers used
// across rackscope.
//
// It owns the console and JSON handlers, level parsing, and output fan-in to
// stdout, stderr and the optional log file. Library packages never construct
// handlers themselves: they accept a *slog.Logger, fall back to NewNop when
// handed nil, and tag their lines with NewComponentLogger so every record
// carries a component field.
//
// Warnings and errors go through WarnWithContext and ErrorWithContext, which
// guarantee the event_type, error_hint and impact keys are present.
package logging
