// Package validator performs structural validation of a Sparkle appcast.
//
// It checks the fixed rule set (namespace usage, channel, items, per-item
// version/signature/length fields) and optionally that a specific build
// number and download URL are published.
package validator
