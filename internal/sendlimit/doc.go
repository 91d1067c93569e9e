// Package sendlimit enforces the soft daily send cap.
//
// Counts live in a Redis day bucket so multiple processes share one cap.
// When Redis is unavailable the limiter falls back to counting sent rows
// in Postgres, which is slower but never blocks a send run entirely.
package sendlimit
