// Package history persists per-target pagination cursors between runs,
// enabling incremental re-scraping. Writes are atomic; reads never fail the
// caller.
package history
