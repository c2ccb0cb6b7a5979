package appcast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// validFeed is a well-formed appcast exercising every validated field.
const validFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle">
  <channel>
    <title>Example App (stable)</title>
    <link>https://example.com</link>
    <description>Example App updates</description>
    <item>
      <title>Example App 1.2.0</title>
      <pubDate>Sun, 23 Aug 2026 12:00:00 +0000</pubDate>
      <sparkle:version>42</sparkle:version>
      <sparkle:shortVersionString>1.2.0</sparkle:shortVersionString>
      <sparkle:minimumSystemVersion>15.0</sparkle:minimumSystemVersion>
      <enclosure url="https://example.com/app-42.dmg" type="application/octet-stream" sparkle:edSignature="c2lnbmF0dXJl" length="123456"/>
    </item>
  </channel>
</rss>`

// mustParse parses the raw feed or fails the test.
func mustParse(t *testing.T, raw string) *Document {
	t.Helper()

	doc, err := Parse([]byte(raw))
	require.NoError(t, err)

	return doc
}

// TestValidate_ValidFeed passes a complete document through every rule.
func TestValidate_ValidFeed(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, validFeed)
	require.NoError(t, doc.Validate(ValidateOptions{}))
	require.NoError(t, doc.Validate(ValidateOptions{
		RequireBuild: "42",
		RequireURL:   "https://example.com/app-42.dmg",
	}))
}

// TestValidate_RequireFilters fails on absent build or URL.
func TestValidate_RequireFilters(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, validFeed)

	err := doc.Validate(ValidateOptions{RequireBuild: "43"})
	require.ErrorIs(t, err, ErrBuildNotFound)

	err = doc.Validate(ValidateOptions{RequireURL: "https://example.com/app-43.dmg"})
	require.ErrorIs(t, err, ErrURLNotFound)
}

// TestValidate_NamespaceUnused fails a document with no trace of the namespace.
func TestValidate_NamespaceUnused(t *testing.T) {
	t.Parallel()

	raw := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <item>
      <title>no namespace here</title>
      <enclosure url="https://example.com/a.dmg" length="1"/>
    </item>
  </channel>
</rss>`

	doc := mustParse(t, raw)
	require.ErrorIs(t, doc.Validate(ValidateOptions{}), ErrNamespaceUnused)
}

// TestValidate_MissingChannel fails when no channel container exists.
func TestValidate_MissingChannel(t *testing.T) {
	t.Parallel()

	raw := `<rss version="2.0" xmlns:sparkle="` + Namespace + `"><sparkle:version>1</sparkle:version></rss>`

	doc := mustParse(t, raw)
	require.ErrorIs(t, doc.Validate(ValidateOptions{}), ErrMissingChannel)
}

// TestValidate_NoItems fails an empty channel.
func TestValidate_NoItems(t *testing.T) {
	t.Parallel()

	raw := `<rss version="2.0" xmlns:sparkle="` + Namespace + `">
  <channel>
    <title sparkle:marker="x">Example App (stable)</title>
  </channel>
</rss>`

	doc := mustParse(t, raw)
	require.ErrorIs(t, doc.Validate(ValidateOptions{}), ErrNoItems)
}

// TestValidate_PerItemRules removes one required field at a time and expects
// the matching rule failure.
func TestValidate_PerItemRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name: "blank version",
			mutate: func(raw string) string {
				return strings.Replace(raw, "<sparkle:version>42</sparkle:version>", "<sparkle:version>  </sparkle:version>", 1)
			},
			wantErr: ErrMissingVersion,
		},
		{
			name: "missing short version",
			mutate: func(raw string) string {
				return strings.Replace(raw, "<sparkle:shortVersionString>1.2.0</sparkle:shortVersionString>", "", 1)
			},
			wantErr: ErrMissingShortVersion,
		},
		{
			name: "missing enclosure",
			mutate: func(raw string) string {
				start := strings.Index(raw, "<enclosure")
				end := strings.Index(raw, "/>") + len("/>")
				return raw[:start] + raw[end:]
			},
			wantErr: ErrMissingEnclosure,
		},
		{
			name: "empty enclosure url",
			mutate: func(raw string) string {
				return strings.Replace(raw, `url="https://example.com/app-42.dmg"`, `url=""`, 1)
			},
			wantErr: ErrMissingEnclosureURL,
		},
		{
			name: "missing signature",
			mutate: func(raw string) string {
				return strings.Replace(raw, ` sparkle:edSignature="c2lnbmF0dXJl"`, "", 1)
			},
			wantErr: ErrMissingSignature,
		},
		{
			name: "missing length",
			mutate: func(raw string) string {
				return strings.Replace(raw, ` length="123456"`, "", 1)
			},
			wantErr: ErrMissingLength,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tc.mutate(validFeed))
			require.ErrorIs(t, doc.Validate(ValidateOptions{}), tc.wantErr)
		})
	}
}

// TestValidate_ForeignPrefix accepts documents binding the namespace to a
// different prefix for both elements and attributes.
func TestValidate_ForeignPrefix(t *testing.T) {
	t.Parallel()

	raw := strings.ReplaceAll(validFeed, "sparkle:", "s:")
	raw = strings.Replace(raw, "xmlns:sparkle=", "xmlns:s=", 1)

	doc := mustParse(t, raw)
	require.NoError(t, doc.Validate(ValidateOptions{
		RequireBuild: "42",
		RequireURL:   "https://example.com/app-42.dmg",
	}))
}
