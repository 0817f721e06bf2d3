// Package wire implements the XML datagram codec spoken by the MVN Animate
// remote control port. Every request and response is a single XML element
// carried in one UDP datagram; attributes hold the payload and a small number
// of messages carry child elements.
package wire

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Element is a single protocol element: a tag, its attributes, and any
// child elements. Attribute order is not significant.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Element
}

// Encode renders the element as a single XML element suitable for sending
// in one datagram. Tags and attribute names must be valid XML names and
// values must be representable as XML attribute values, otherwise the
// result wraps ErrEncoding.
func Encode(el Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeElement(&buf, el); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeElement(buf *bytes.Buffer, el Element) error {
	if !validName(el.Tag) {
		return errors.Wrapf(ErrEncoding, "invalid tag %q", el.Tag)
	}
	buf.WriteByte('<')
	buf.WriteString(el.Tag)

	// Deterministic attribute order; decoding does not depend on it.
	keys := make([]string, 0, len(el.Attrs))
	for k := range el.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := el.Attrs[k]
		if !validName(k) {
			return errors.Wrapf(ErrEncoding, "invalid attribute name %q", k)
		}
		if !validValue(v) {
			return errors.Wrapf(ErrEncoding, "unrepresentable value for attribute %q", k)
		}
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteString(`="`)
		if err := xml.EscapeText(buf, []byte(v)); err != nil {
			return errors.Wrap(ErrEncoding, err.Error())
		}
		buf.WriteByte('"')
	}

	if len(el.Children) == 0 {
		buf.WriteString(" />")
		return nil
	}
	buf.WriteByte('>')
	for _, child := range el.Children {
		if err := writeElement(buf, child); err != nil {
			return err
		}
	}
	buf.WriteString("</")
	buf.WriteString(el.Tag)
	buf.WriteByte('>')
	return nil
}

// Decode parses a datagram holding exactly one well-formed XML element.
// Truncated input, non-XML garbage and multiple root elements all wrap
// ErrMalformedMessage; Decode never panics on corrupted input.
func Decode(data []byte) (Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root Element
	seenRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Element{}, errors.Wrap(ErrMalformedMessage, err.Error())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if seenRoot {
				return Element{}, errors.Wrap(ErrMalformedMessage, "multiple root elements")
			}
			root, err = parseElement(dec, t)
			if err != nil {
				return Element{}, err
			}
			seenRoot = true
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return Element{}, errors.Wrap(ErrMalformedMessage, "text outside root element")
			}
		default:
			return Element{}, errors.Wrap(ErrMalformedMessage, "unexpected token")
		}
	}
	if !seenRoot {
		return Element{}, errors.Wrap(ErrMalformedMessage, "no root element")
	}
	return root, nil
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (Element, error) {
	el := Element{
		Tag:   start.Name.Local,
		Attrs: make(map[string]string, len(start.Attr)),
	}
	for _, a := range start.Attr {
		el.Attrs[a.Name.Local] = a.Value
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Element{}, errors.Wrap(ErrMalformedMessage, "unterminated element")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return Element{}, err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			return el, nil
		case xml.CharData:
			// The protocol carries payloads in attributes only.
		default:
			return Element{}, errors.Wrap(ErrMalformedMessage, "unexpected token inside element")
		}
	}
}

// validName reports whether s is acceptable as an XML tag or attribute name.
func validName(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// validValue reports whether s can be carried as an XML attribute value.
func validValue(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
	})
}
