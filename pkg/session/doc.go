// Package session is the in-process Go API a caller embeds: Database
// owns every piece of shared engine state the way manager.Manager owns
// cluster state in the teacher, and Connection is a thin per-caller
// handle over it, mirroring the teacher's Manager/Store split.
//
// Database.Open wires the buffer manager, catalog, on-disk graph
// storage, worker pool, and metrics collector together; everything
// downstream (query compilation, plan enumeration, mutation) goes
// through a Connection so a Database can serve multiple concurrent
// callers without each one re-opening storage.
package session
