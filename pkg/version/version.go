// Package version parses and orders the semver-like version strings
// used by the Depot registry: MAJOR.MINOR.PATCH with an optional
// -prerelease suffix.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned by Parse for strings that do not match
// the version grammar.
var ErrInvalidFormat = errors.New("invalid version format")

// Version is a parsed version string. Pre is the raw pre-release
// suffix without the leading hyphen, empty if absent.
type Version struct {
	Major int
	Minor int
	Patch int
	Pre   string
}

// String renders the version back to its canonical form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// Parse parses a version string. The grammar is three non-negative
// integers separated by dots, optionally followed by a hyphen and a
// pre-release suffix of letters, digits, dots, and hyphens.
func Parse(s string) (Version, error) {
	base := s
	pre := ""
	if i := strings.IndexByte(s, '-'); i >= 0 {
		base, pre = s[:i], s[i+1:]
		if pre == "" || !validPre(pre) {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}

	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := parseComponent(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Pre: pre}, nil
}

// parseComponent parses one numeric component. Leading zeros are
// accepted; signs and empty strings are not.
func parseComponent(p string) (int, error) {
	if p == "" {
		return 0, ErrInvalidFormat
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return 0, ErrInvalidFormat
		}
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return n, nil
}

func validPre(pre string) bool {
	for i := 0; i < len(pre); i++ {
		c := pre[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}

// Compare orders two versions by major, then minor, then patch,
// compared as integers. The pre-release suffix does not participate:
// two versions differing only by pre-release tag compare equal, and
// their relative order in a sorted list is whatever the stable sort
// preserves. Returns -1, 0, or +1.
func Compare(a, b Version) int {
	if c := cmpInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmpInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmpInt(a.Patch, b.Patch)
}

// CompareStrings compares two raw version strings. Malformed or
// missing components default to 0 so arbitrary stored strings still
// compare without crashing.
func CompareStrings(a, b string) int {
	return Compare(parseLenient(a), parseLenient(b))
}

// parseLenient extracts whatever numeric components it can, treating
// anything unparseable as 0.
func parseLenient(s string) Version {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	var v Version
	parts := strings.Split(s, ".")
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i := 0; i < len(dst) && i < len(parts); i++ {
		if n, err := parseComponent(parts[i]); err == nil {
			*dst[i] = n
		}
	}
	return v
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
