// Package patterns holds the versioned pattern library used across the
// analysis pipeline: entity recognizers, the urgency vocabulary, and the
// jargon dictionary.
//
// The library is pure data plus matching. Recognizers are compiled once and
// the resulting Library is immutable and safe for concurrent use. The jargon
// Dictionary is the one mutable piece; it serializes its own updates and is
// owned by whoever constructs it, never by a package-level singleton.
//
// Recognizer order within a category is fixed and load-bearing: the entity
// extractor skips matches that overlap an earlier recognizer's span, so
// reordering recognizers changes capture precedence.
package patterns
