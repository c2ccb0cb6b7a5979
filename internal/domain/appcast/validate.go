package appcast

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ValidateOptions narrows validation to a specific published build and URL.
type ValidateOptions struct {
	// RequireBuild, when set, demands an item with this exact build number.
	RequireBuild string
	// RequireURL, when set, demands an enclosure with this exact URL.
	RequireURL string
}

// Validation rule failures. Validate reports the first failing rule.
var (
	// ErrNamespaceUnused indicates no element or attribute uses the Sparkle namespace.
	ErrNamespaceUnused = errors.New("appcast does not use the sparkle namespace")
	// ErrMissingChannel indicates the channel container is absent.
	ErrMissingChannel = errors.New("appcast is missing a channel")
	// ErrNoItems indicates the channel holds no items.
	ErrNoItems = errors.New("appcast has no items")
	// ErrBuildNotFound indicates the required build number is not published.
	ErrBuildNotFound = errors.New("appcast is missing required build")
	// ErrURLNotFound indicates the required enclosure URL is not published.
	ErrURLNotFound = errors.New("appcast is missing required enclosure URL")
	// ErrMissingVersion indicates an item lacks a non-blank sparkle:version.
	ErrMissingVersion = errors.New("item is missing sparkle:version")
	// ErrMissingShortVersion indicates an item lacks a non-blank sparkle:shortVersionString.
	ErrMissingShortVersion = errors.New("item is missing sparkle:shortVersionString")
	// ErrMissingEnclosure indicates an item has no enclosure child.
	ErrMissingEnclosure = errors.New("item is missing an enclosure")
	// ErrMissingEnclosureURL indicates an enclosure has no url attribute.
	ErrMissingEnclosureURL = errors.New("enclosure is missing a url")
	// ErrMissingSignature indicates an enclosure has no sparkle:edSignature attribute.
	ErrMissingSignature = errors.New("enclosure is missing sparkle:edSignature")
	// ErrMissingLength indicates an enclosure has no length attribute.
	ErrMissingLength = errors.New("enclosure is missing a length")
)

// Validate runs the structural rule set over the document and returns the
// first failing rule:
//
//  1. the Sparkle namespace is used by some element or attribute,
//  2. a channel exists,
//  3. at least one item exists,
//  4. the required build is published (when requested),
//  5. the required enclosure URL is published (when requested),
//  6. every item carries a non-blank build number, a non-blank display
//     version, and an enclosure with url, signature and length.
func (d *Document) Validate(opts ValidateOptions) error {
	prefixes := d.sparklePrefixes()

	if !d.namespaceUsed(prefixes) {
		return ErrNamespaceUnused
	}

	if d.Channel() == nil {
		return ErrMissingChannel
	}

	items := d.Items()
	if len(items) == 0 {
		return ErrNoItems
	}

	if opts.RequireBuild != "" && d.FindBuild(opts.RequireBuild) == nil {
		return fmt.Errorf("%w %s", ErrBuildNotFound, opts.RequireBuild)
	}

	if opts.RequireURL != "" && !d.HasEnclosureURL(opts.RequireURL) {
		return fmt.Errorf("%w %s", ErrURLNotFound, opts.RequireURL)
	}

	for i, item := range items {
		if err := validateItem(item, prefixes); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	return nil
}

// namespaceUsed reports whether any element or attribute resolves to the
// Sparkle namespace. Declarations alone do not count as usage.
func (d *Document) namespaceUsed(prefixes map[string]struct{}) bool {
	root := d.doc.Root()
	if root == nil {
		return false
	}

	return walkElements(root, func(el *etree.Element) bool {
		if _, ok := prefixes[el.Space]; ok {
			return true
		}

		for _, attr := range el.Attr {
			if _, ok := prefixes[attr.Space]; ok {
				return true
			}
		}

		return false
	})
}

// validateItem checks the per-item rules from the fixed rule set.
func validateItem(item *etree.Element, prefixes map[string]struct{}) error {
	if isBlank(sparkleChildText(item, "version", prefixes)) {
		return ErrMissingVersion
	}

	if isBlank(sparkleChildText(item, "shortVersionString", prefixes)) {
		return ErrMissingShortVersion
	}

	enc := item.SelectElement("enclosure")
	if enc == nil {
		return ErrMissingEnclosure
	}

	if enc.SelectAttrValue("url", "") == "" {
		return ErrMissingEnclosureURL
	}

	if sparkleAttrValue(enc, "edSignature", prefixes) == "" {
		return ErrMissingSignature
	}

	if enc.SelectAttrValue("length", "") == "" {
		return ErrMissingLength
	}

	return nil
}
