// Package version implements the dotted numeric version numbers used by
// package versions and the bounded ranges used by dependencies.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/glorpus-work/wpm/pkg/errors"
)

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// ParseError reports text that is not a valid version or range.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid version %q", e.Text)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Text, e.Reason)
}

// Is makes ParseError match errors.ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == errors.ErrParse
}

// Version is an immutable sequence of non-negative integers such as 1.5.12.
type Version struct {
	text  string
	parts []int64
	v     *goversion.Version
}

// Parse parses dot separated non-negative integers.
func Parse(text string) (*Version, error) {
	text = strings.TrimSpace(text)
	if !versionPattern.MatchString(text) {
		return nil, &ParseError{Text: text}
	}

	parts := make([]int64, 0, strings.Count(text, ".")+1)
	for _, p := range strings.Split(text, ".") {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, &ParseError{Text: text, Reason: "number out of range"}
		}
		parts = append(parts, n)
	}

	v, err := goversion.NewVersion(text)
	if err != nil {
		return nil, &ParseError{Text: text, Reason: err.Error()}
	}

	return &Version{text: text, parts: parts, v: v}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(text string) *Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Zero returns version 0.
func Zero() *Version {
	return MustParse("0")
}

// Compare returns -1, 0 or 1. Missing trailing parts count as zero.
func (v *Version) Compare(o *Version) int {
	return v.v.Compare(o.v)
}

// Equal reports whether both versions compare equal.
func (v *Version) Equal(o *Version) bool {
	return v.Compare(o) == 0
}

// Less reports whether v sorts before o.
func (v *Version) Less(o *Version) bool {
	return v.Compare(o) < 0
}

// Parts returns a copy of the numeric parts as written.
func (v *Version) Parts() []int64 {
	out := make([]int64, len(v.parts))
	copy(out, v.parts)
	return out
}

// Normalized returns the version without trailing zero parts. Equal versions
// have equal normalized forms, so it is used as an identity key.
func (v *Version) Normalized() string {
	n := len(v.parts)
	for n > 1 && v.parts[n-1] == 0 {
		n--
	}
	s := make([]string, n)
	for i := 0; i < n; i++ {
		s[i] = strconv.FormatInt(v.parts[i], 10)
	}
	return strings.Join(s, ".")
}

func (v *Version) String() string {
	return v.text
}

// MarshalText implements encoding.TextMarshaler.
func (v *Version) MarshalText() ([]byte, error) {
	return []byte(v.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// Newest returns the greatest version of vs, or nil for an empty slice.
func Newest(vs ...*Version) *Version {
	var best *Version
	for _, v := range vs {
		if best == nil || v.Compare(best) > 0 {
			best = v
		}
	}
	return best
}
