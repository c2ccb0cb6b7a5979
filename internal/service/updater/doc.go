// Package updater generates or updates the Sparkle appcast for a published build.
//
// It parses the signing tool's attribute output, loads the existing feed (or
// starts a fresh one), replaces any item with the same build number, appends
// the new item, and writes the result to the configured output path.
package updater
