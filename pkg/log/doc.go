/*
Package log provides structured logging for the query execution core
using zerolog.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│  Global Logger (zerolog.Logger)                           │
	│    - initialized once via log.Init()                      │
	│    - thread-safe for concurrent pipeline workers           │
	│  Configuration                                             │
	│    - Level: debug/info/warn/error                         │
	│    - Format: JSON (server) or console (CLI)               │
	│    - Output: stdout or a caller-supplied io.Writer         │
	│  Component loggers                                         │
	│    - WithComponent("buffer"|"hashindex"|"enumerator"|...)  │
	│    - WithQueryID(id), WithPipelineID(id)                   │
	└────────────────────────────────────────────────────────┘

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	bufLog := log.WithComponent("buffer")
	bufLog.Debug().Int("page_id", 12).Msg("evicted frame")

	qlog := log.WithQueryID(stmt.ID)
	qlog.Info().Dur("compile_time", d).Msg("compiled")

# Conventions

Every subsystem package (buffer, hashindex, enumerator, processor, ...)
creates one component logger at construction time and threads it
through its operator/struct state rather than calling the package
global directly — the exception is cmd/graphdb, which logs through the
global Logger before a Database exists.

Never log property values or literal parameters at Info level or
above; query text and bound literals may contain data the engine has
no business persisting into a log sink. Debug level may include them
for local troubleshooting only.
*/
package log
