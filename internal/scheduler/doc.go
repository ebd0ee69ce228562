// Package scheduler runs independent render jobs on a bounded worker pool.
// Jobs do not depend on each other, so a failing job never stops the rest;
// the pool drains the full queue and reports which jobs did not finish.
// Cancelling the context skips all jobs that have not started yet.
package scheduler
