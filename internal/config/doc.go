// Package config defines feed settings used by the appcast binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds channel statics (application name, feed link and
// description) plus per-item defaults such as the minimum OS version.
package config
