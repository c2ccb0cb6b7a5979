package appcast

import (
	"strings"
	"time"

	"github.com/beevik/etree"
)

// PubDateFormat is the fixed textual format for item publication timestamps.
const PubDateFormat = time.RFC1123Z

// ChannelInfo holds the static descriptive fields written when a channel is created.
type ChannelInfo struct {
	// Title is the channel title, typically "<app name> (<channel name>)".
	Title string
	// Link is the project URL.
	Link string
	// Description is a short human-readable feed description.
	Description string
}

// Attribute is a single enclosure attribute produced by the signing step.
// Keys with the "sparkle:" prefix become namespace-qualified attributes.
type Attribute struct {
	// Key is the attribute name, optionally prefixed.
	Key string
	// Value is the attribute value with surrounding quotes already stripped.
	Value string
}

// Attributes is an ordered list of enclosure attributes.
// Order is preserved when rendering so output stays deterministic.
type Attributes []Attribute

// Get returns the value for the given key and whether it was present.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}

	return "", false
}

// Enclosure describes the downloadable artifact of an item.
type Enclosure struct {
	// URL is the artifact download location.
	URL string
	// Type is the MIME type of the artifact.
	Type string
	// Attributes carries every signing pair (signature, length, extras) verbatim.
	Attributes Attributes
}

// Item represents one published build inside the channel.
type Item struct {
	// Title is the human-facing item title, typically "<app name> <version>".
	Title string
	// PubDate is the publication timestamp, rendered with PubDateFormat.
	PubDate time.Time
	// Build is the unique build number keying the item within the channel.
	Build string
	// DisplayVersion is the human-facing version label.
	DisplayVersion string
	// MinimumSystemVersion is the semantic version floor for the update.
	MinimumSystemVersion string
	// Description is an optional short HTML fragment shown as release notes.
	Description string
	// Enclosure is the downloadable artifact with its signing attributes.
	Enclosure Enclosure
}

// appendItem renders the item as a channel child.
// New items always use the canonical prefix for Sparkle fields.
func appendItem(ch *etree.Element, item Item) {
	el := ch.CreateElement("item")
	el.CreateElement("title").SetText(item.Title)
	el.CreateElement("pubDate").SetText(item.PubDate.Format(PubDateFormat))
	el.CreateElement(canonicalPrefix + ":version").SetText(item.Build)
	el.CreateElement(canonicalPrefix + ":shortVersionString").SetText(item.DisplayVersion)
	el.CreateElement(canonicalPrefix + ":minimumSystemVersion").SetText(item.MinimumSystemVersion)

	if item.Description != "" {
		el.CreateElement("description").SetText(item.Description)
	}

	enc := el.CreateElement("enclosure")
	enc.CreateAttr("url", item.Enclosure.URL)
	enc.CreateAttr("type", item.Enclosure.Type)

	for _, attr := range item.Enclosure.Attributes {
		// Prefixed keys such as "sparkle:edSignature" become
		// namespace-qualified attributes; everything else stays plain.
		enc.CreateAttr(attr.Key, attr.Value)
	}
}

// isBlank reports whether a field value is empty after trimming whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
