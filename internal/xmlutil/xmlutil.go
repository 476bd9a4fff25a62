// Package xmlutil wraps XML parsing and serialization with the
// malformed-document policy shared by all XML format adapters.
package xmlutil

import (
	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"

	"github.com/maptools/geoport/internal/i18n"
	"github.com/maptools/geoport/internal/report"
)

// Parse reads text into an XML document. A decode error is the parser-error
// marker: it is reported through the alert sink as "cannot parse data", but
// the partially read document is still returned rather than failing outright.
// Callers must tolerate incomplete trees.
func Parse(text string, alerts report.AlertSink) *etree.Document {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		log.Debug().Err(err).Msg("XML decode failed, returning partial document")
		if alerts != nil {
			alerts.Alert(i18n.T("cannot parse data"), report.ExtendedDuration)
		}
	}
	return doc
}

// Serialize renders doc as indented XML text.
func Serialize(doc *etree.Document) (string, error) {
	doc.Indent(2)
	return doc.WriteToString()
}

// FindAll returns every descendant of root whose local tag matches name,
// ignoring namespace prefixes, in document order. Root itself is not
// considered.
func FindAll(root *etree.Element, name string) []*etree.Element {
	if root == nil {
		return nil
	}
	var found []*etree.Element
	for _, child := range root.ChildElements() {
		if child.Tag == name {
			found = append(found, child)
		}
		found = append(found, FindAll(child, name)...)
	}
	return found
}

// FindChild returns the first direct child with the given local tag, or nil.
func FindChild(parent *etree.Element, name string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, child := range parent.ChildElements() {
		if child.Tag == name {
			return child
		}
	}
	return nil
}

// ChildText returns the text of the first direct child with the given local
// tag, or "" when absent.
func ChildText(parent *etree.Element, name string) string {
	if child := FindChild(parent, name); child != nil {
		return child.Text()
	}
	return ""
}
