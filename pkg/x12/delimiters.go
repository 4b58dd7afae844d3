package x12

// Delimiters holds the three separators that shape an X12 transmission.
type Delimiters struct {
	Segment   string
	Element   string
	Component string
}

// DefaultDelimiters returns the separators most healthcare clearinghouses
// transmit with.
func DefaultDelimiters() Delimiters {
	return Delimiters{Segment: "~", Element: "*", Component: ":"}
}

// DetectDelimiters reads the separators out of the fixed-width ISA header:
// the element separator is the byte after "ISA", the component separator and
// segment terminator occupy the last two bytes of the 106-byte header. It
// returns false when the input does not open with a well-formed ISA, in
// which case callers fall back to their configured delimiters.
func DetectDelimiters(raw []byte) (Delimiters, bool) {
	if len(raw) < isaByteCount || string(raw[:3]) != isaSegmentID {
		return Delimiters{}, false
	}
	d := Delimiters{
		Element:   string(raw[isaElementSeparatorIndex]),
		Component: string(raw[isaComponentSepIndex]),
		Segment:   string(raw[isaSegmentTermIndex]),
	}
	if d.Element == "" || d.Segment == "" || d.Element == d.Segment {
		return Delimiters{}, false
	}
	return d, true
}
