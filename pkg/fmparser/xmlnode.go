// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"encoding/xml"
	"slices"
	"strings"
)

// xmlElement is a generic element tree for formats whose nesting depends on
// element names and attributes rather than a fixed schema.
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Text     string       `xml:",chardata"`
	Children []xmlElement `xml:",any"`
}

func decodeXMLElement(data []byte) (*xmlElement, error) {
	var root xmlElement
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// name returns the element's local name.
func (e *xmlElement) name() string { return e.XMLName.Local }

// attr returns the value of the attribute with the given local name.
func (e *xmlElement) attr(local string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// text returns the trimmed character data.
func (e *xmlElement) text() string { return strings.TrimSpace(e.Text) }

// elements returns the direct children whose local name is one of names.
func (e *xmlElement) elements(names ...string) []*xmlElement {
	var out []*xmlElement
	for i := range e.Children {
		if slices.Contains(names, e.Children[i].name()) {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// first returns the first direct child named one of names.
func (e *xmlElement) first(names ...string) (*xmlElement, bool) {
	els := e.elements(names...)
	if len(els) == 0 {
		return nil, false
	}
	return els[0], true
}

// find returns every descendant named local, in document order.
func (e *xmlElement) find(local string) []*xmlElement {
	var out []*xmlElement
	for i := range e.Children {
		c := &e.Children[i]
		if c.name() == local {
			out = append(out, c)
		}
		out = append(out, c.find(local)...)
	}
	return out
}
