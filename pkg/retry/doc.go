// Package retry provides configurable retry with backoff for transient
// failures. Listing-page fetches are never retried through this package;
// pagination aborts on the first failure to keep the cursor consistent.
// Media downloads are the intended consumer.
package retry
