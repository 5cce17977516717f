package version

import (
	"strings"
)

// Range is an interval of versions. A nil bound is unbounded on that side.
type Range struct {
	Min          *Version
	Max          *Version
	MinInclusive bool
	MaxInclusive bool
}

// Any returns the default range [0, +inf).
func Any() Range {
	return Range{Min: Zero(), MinInclusive: true}
}

// Exact returns [v, v].
func Exact(v *Version) Range {
	return Range{Min: v, Max: v, MinInclusive: true, MaxInclusive: true}
}

// ParseRange parses interval notation such as "[1.5,2)" or "(,3]". A bare
// version is the exact range containing only that version and empty text is
// the default range.
func ParseRange(text string) (Range, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Any(), nil
	}

	if s[0] != '[' && s[0] != '(' {
		v, err := Parse(s)
		if err != nil {
			return Range{}, err
		}
		return Exact(v), nil
	}

	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return Range{}, &ParseError{Text: text, Reason: "missing closing bracket"}
	}

	bounds := strings.Split(s[1:len(s)-1], ",")
	if len(bounds) != 2 {
		return Range{}, &ParseError{Text: text, Reason: "expected exactly two bounds"}
	}

	r := Range{MinInclusive: s[0] == '[', MaxInclusive: last == ']'}
	if b := strings.TrimSpace(bounds[0]); b != "" {
		v, err := Parse(b)
		if err != nil {
			return Range{}, &ParseError{Text: text, Reason: "bad lower bound"}
		}
		r.Min = v
	}
	if b := strings.TrimSpace(bounds[1]); b != "" {
		v, err := Parse(b)
		if err != nil {
			return Range{}, &ParseError{Text: text, Reason: "bad upper bound"}
		}
		r.Max = v
	}

	return r, nil
}

// MustParseRange is like ParseRange but panics on invalid input.
func MustParseRange(text string) Range {
	r, err := ParseRange(text)
	if err != nil {
		panic(err)
	}
	return r
}

// Contains reports whether v lies inside the range. Ranges whose bounds
// exclude every version simply contain nothing.
func (r Range) Contains(v *Version) bool {
	if r.Min != nil {
		c := v.Compare(r.Min)
		if c < 0 || (c == 0 && !r.MinInclusive) {
			return false
		}
	}
	if r.Max != nil {
		c := v.Compare(r.Max)
		if c > 0 || (c == 0 && !r.MaxInclusive) {
			return false
		}
	}
	return true
}

func (r Range) String() string {
	var b strings.Builder
	if r.MinInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.Min != nil {
		b.WriteString(r.Min.String())
	}
	b.WriteByte(',')
	if r.Max != nil {
		b.WriteString(r.Max.String())
	}
	if r.MaxInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(b []byte) error {
	parsed, err := ParseRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
