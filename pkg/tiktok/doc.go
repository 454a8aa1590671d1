// Package tiktok implements the HTTP client, endpoint construction and wire
// models for the TikTok web API. All request throttling lives here; callers
// never talk to the platform directly.
package tiktok
