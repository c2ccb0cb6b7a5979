package appcast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Namespace is the Sparkle XML namespace used for version and signature fields.
const Namespace = "http://www.andymatuschak.org/xml-namespaces/sparkle"

// canonicalPrefix is the prefix Sparkle tooling binds to Namespace.
// Lookups fall back to it even when the document carries no binding.
const canonicalPrefix = "sparkle"

const (
	// rootTag is the feed root element name.
	rootTag = "rss"
	// rssVersion is written on freshly created roots.
	rssVersion = "2.0"
	// indentSpaces is the indentation width used when serializing.
	indentSpaces = 2
)

// errNoRootElement is returned when a parsed document has no root element.
var errNoRootElement = errors.New("document has no root element")

// Document wraps a feed document and exposes channel/item operations that
// resolve the Sparkle namespace by whatever prefix the document binds it to.
type Document struct {
	doc *etree.Document
}

// New creates a fresh feed document: XML declaration, an rss root with the
// standard version attribute and the Sparkle namespace declared.
func New() *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(rootTag)
	root.CreateAttr("version", rssVersion)
	root.CreateAttr("xmlns:"+canonicalPrefix, Namespace)

	return &Document{doc: doc}
}

// Parse reads a feed document from raw XML.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse appcast: %w", err)
	}

	if doc.Root() == nil {
		return nil, errNoRootElement
	}

	return &Document{doc: doc}, nil
}

// Root returns the document's root element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Channel returns the channel container, or nil when absent.
func (d *Document) Channel() *etree.Element {
	root := d.doc.Root()
	if root == nil {
		return nil
	}

	return root.SelectElement("channel")
}

// EnsureChannel returns the existing channel or creates one.
// Static descriptive fields are written only on creation.
func (d *Document) EnsureChannel(info ChannelInfo) *etree.Element {
	if ch := d.Channel(); ch != nil {
		return ch
	}

	ch := d.doc.Root().CreateElement("channel")
	ch.CreateElement("title").SetText(info.Title)
	ch.CreateElement("link").SetText(info.Link)
	ch.CreateElement("description").SetText(info.Description)

	return ch
}

// Items returns the channel's item elements in document order.
func (d *Document) Items() []*etree.Element {
	ch := d.Channel()
	if ch == nil {
		return nil
	}

	return ch.SelectElements("item")
}

// Upsert removes every existing item whose build number equals the new one,
// then appends the item. It reports how many items were replaced.
func (d *Document) Upsert(item Item) (int, error) {
	ch := d.Channel()
	if ch == nil {
		return 0, ErrMissingChannel
	}

	d.ensureNamespaceDecl()

	prefixes := d.sparklePrefixes()

	removed := 0

	for _, existing := range ch.SelectElements("item") {
		if sparkleChildText(existing, "version", prefixes) == item.Build {
			ch.RemoveChild(existing)

			removed++
		}
	}

	appendItem(ch, item)

	return removed, nil
}

// FindBuild returns the first item with the given build number, or nil.
func (d *Document) FindBuild(build string) *etree.Element {
	prefixes := d.sparklePrefixes()

	for _, item := range d.Items() {
		if sparkleChildText(item, "version", prefixes) == build {
			return item
		}
	}

	return nil
}

// HasEnclosureURL reports whether any item's enclosure carries the given URL.
func (d *Document) HasEnclosureURL(url string) bool {
	for _, item := range d.Items() {
		enc := item.SelectElement("enclosure")
		if enc != nil && enc.SelectAttrValue("url", "") == url {
			return true
		}
	}

	return false
}

// Bytes serializes the document, indented and with an XML declaration.
func (d *Document) Bytes() ([]byte, error) {
	d.ensureDeclaration()
	d.doc.Indent(indentSpaces)

	data, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize appcast: %w", err)
	}

	return data, nil
}

// sparklePrefixes returns the prefixes bound to Namespace anywhere in the
// document. The canonical prefix is always included so documents that use
// sparkle: fields without declaring the namespace still resolve.
func (d *Document) sparklePrefixes() map[string]struct{} {
	prefixes := map[string]struct{}{
		canonicalPrefix: {},
	}

	root := d.doc.Root()
	if root == nil {
		return prefixes
	}

	walkElements(root, func(el *etree.Element) bool {
		for _, attr := range el.Attr {
			if attr.Space == "xmlns" && attr.Value == Namespace {
				prefixes[attr.Key] = struct{}{}
			}
		}

		return false
	})

	return prefixes
}

// ensureNamespaceDecl binds the canonical prefix on the root when the root
// does not already declare it. New items are always written with the
// canonical prefix, so the declaration must exist even when the document
// binds the namespace to some other prefix as well.
func (d *Document) ensureNamespaceDecl() {
	root := d.doc.Root()
	if root == nil {
		return
	}

	if attr := root.SelectAttr("xmlns:" + canonicalPrefix); attr != nil && attr.Value == Namespace {
		return
	}

	root.CreateAttr("xmlns:"+canonicalPrefix, Namespace)
}

// ensureDeclaration prepends the standard XML declaration when missing.
func (d *Document) ensureDeclaration() {
	for _, token := range d.doc.Child {
		if pi, ok := token.(*etree.ProcInst); ok && pi.Target == "xml" {
			return
		}
	}

	decl := d.doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	d.doc.RemoveChild(decl)
	d.doc.InsertChildAt(0, decl)
}

// walkElements visits el and its descendants until fn returns true.
func walkElements(el *etree.Element, fn func(*etree.Element) bool) bool {
	if fn(el) {
		return true
	}

	for _, child := range el.ChildElements() {
		if walkElements(child, fn) {
			return true
		}
	}

	return false
}

// sparkleChild returns the item's child with the given local name under any
// of the resolved Sparkle prefixes, or nil.
func sparkleChild(item *etree.Element, name string, prefixes map[string]struct{}) *etree.Element {
	for _, child := range item.ChildElements() {
		if child.Tag != name {
			continue
		}

		if _, ok := prefixes[child.Space]; ok {
			return child
		}
	}

	return nil
}

// sparkleChildText returns the trimmed text of the Sparkle child, or "".
func sparkleChildText(item *etree.Element, name string, prefixes map[string]struct{}) string {
	child := sparkleChild(item, name, prefixes)
	if child == nil {
		return ""
	}

	return strings.TrimSpace(child.Text())
}

// sparkleAttrValue returns the value of the enclosure attribute with the
// given local name under any of the resolved Sparkle prefixes, or "".
func sparkleAttrValue(el *etree.Element, name string, prefixes map[string]struct{}) string {
	for _, attr := range el.Attr {
		if attr.Key != name {
			continue
		}

		if _, ok := prefixes[attr.Space]; ok {
			return attr.Value
		}
	}

	return ""
}
