// Package jobs tracks image-processing requests as asynchronous jobs.
//
// Each submission creates a job in PROCESSING state and schedules the
// pipeline (decode -> detect -> redact or compress -> store result) on
// its own goroutine; the submitter never blocks on completion. Jobs
// move exactly once to a terminal status, COMPLETED or ERROR, and are
// removed only by an explicit Clear. Callers poll Status by the opaque
// job id until they observe a terminal state.
//
// # Consistency
//
// The registry is a single mutex-guarded map. Terminal results are
// written as a whole under the lock, so a concurrent Status call
// observes either the prior PROCESSING job or the fully written
// terminal job, never a partial write. Ids are UUIDs and are never
// reused; no pipeline runs twice for the same id.
//
// # Timeout
//
// The processing timeout is advisory: it is checked once before
// detection starts, and an already-exceeded budget skips detection
// (the job completes on the compress-only path). It does not interrupt
// an in-flight recognizer call.
package jobs
