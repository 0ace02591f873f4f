// Package config provides configuration structures and utilities for pubscan.
// It defines the main options for extraction runs, per-source heuristic
// profiles loaded from the .pubscan file, and report generation preferences.
package config
