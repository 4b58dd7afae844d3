package x12

import "strings"

// Segment is one record of the transmission: an ordered list of element
// strings whose first element is the segment identifier.
type Segment struct {
	Elements []string
}

// ID returns the segment identifier (element 0).
func (s Segment) ID() string {
	if len(s.Elements) == 0 {
		return ""
	}
	return s.Elements[0]
}

// Element returns the element at index i, or "" when the index is past the
// end of the segment. Every downstream grammar relies on this bounds-checked
// access instead of guarding lengths itself.
func (s Segment) Element(i int) string {
	if i < 0 || i >= len(s.Elements) {
		return ""
	}
	return s.Elements[i]
}

// Components splits the element at index i on the component separator.
func (s Segment) Components(i int, d Delimiters) []string {
	v := s.Element(i)
	if v == "" {
		return nil
	}
	if d.Component == "" {
		return []string{v}
	}
	return strings.Split(v, d.Component)
}

// Join renders the segment back to wire form using the given delimiters.
// Trailing empty elements are not preserved.
func (s Segment) Join(d Delimiters) string {
	elems := s.Elements
	for len(elems) > 1 && elems[len(elems)-1] == "" {
		elems = elems[:len(elems)-1]
	}
	return strings.Join(elems, d.Element) + d.Segment
}

// Tokenize splits raw EDI text into ordered segments. Line breaks are
// stripped first, empty segments are discarded, and each remaining segment
// is split on the element separator.
func Tokenize(raw []byte, d Delimiters) []Segment {
	text := string(raw)
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", "")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, d.Segment)
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, Segment{Elements: strings.Split(part, d.Element)})
	}
	return segments
}
