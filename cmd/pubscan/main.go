// Package main provides the entry point for the pubscan CLI.
//
// Pubscan extracts publication records from pasted publication lists.
// It detects year anchors, scans for quartile tokens and titles, and
// reports complete records alongside entries that need manual review.
//
// Usage:
//
//	pubscan extract <file>
//	cat paste.txt | pubscan extract
//
// See --help for all available options.
package main

// main is the entry point for pubscan.
func main() {
	Execute()
}
