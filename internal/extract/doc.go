// Package extract implements the publication-record extraction pipeline.
//
// The input is a flat block of text pasted from an external citation source:
// lines with no field delimiters, no consistent schema, and no markup. The
// extraction works outward from "year anchors":
//
//  1. The normalizer turns the raw block into trimmed, indexed lines.
//  2. The classifier tags each line as a year anchor, a standalone quartile
//     token, auxiliary metadata, or content.
//  3. Every year anchor defines a candidate record. A window bounded by the
//     neighboring anchor keeps each record's scan from reading another
//     record's lines.
//  4. Scanning upward from the anchor locates the quartile token and then the
//     nearest content line, which is taken as the title.
//
// Parsing is a total function: malformed input never produces an error, only
// skipped outcomes carrying a diagnostic reason. The whole pass is pure and
// allocates nothing that outlives the call.
//
// Design decision: The scanners are explicit index walks over a slice of
// classified lines rather than recursive dispatch. Pathological inputs
// (thousands of metadata lines between two anchors) stay O(n) with no stack
// growth, and window boundaries reduce to integer comparisons.
package extract
