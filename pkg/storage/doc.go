// Package storage manages downloaded media files on disk.
//
// The Manager type owns one output directory. It scans the directory at
// construction, keeps an in-memory index of downloaded post IDs for fast
// duplicate detection and writes files atomically via a temporary file
// and rename. All operations are safe for concurrent use.
package storage
