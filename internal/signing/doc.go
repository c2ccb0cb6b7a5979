// Package signing parses the attribute blob produced by the external
// signing tool (Sparkle's sign_update) into ordered enclosure attributes.
//
// The format is a flat sequence of whitespace-separated key=value tokens,
// typically a cryptographic signature and a byte length; any extra pairs
// pass through to the enclosure unmodified.
package signing
