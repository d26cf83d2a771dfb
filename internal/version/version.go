package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnparseable indicates that a server version string has no dotted-numeric prefix
var ErrUnparseable = errors.New("unparseable version")

// Version представляет версию сервера вида "6.3.0.1234-SNAPSHOT".
// Числовые сегменты сравниваются по порядку, qualifier хранится отдельно
// и игнорируется CompareIgnoreQualifier.
type Version struct {
	raw       string
	qualifier string
	numbers   []int
}

// Parse parses a dotted-numeric version with an optional qualifier suffix.
// Accepted forms: "6.3", "6.3.1.1234", "6.3-SNAPSHOT", "7.9.1 (build 1234)".
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrUnparseable)
	}

	// Отделяем qualifier: всё после первого '-' или пробела
	numeric, qualifier := raw, ""
	if idx := strings.IndexAny(raw, "- "); idx >= 0 {
		numeric, qualifier = raw[:idx], strings.TrimSpace(raw[idx+1:])
	}

	parts := strings.Split(numeric, ".")
	numbers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		numbers = append(numbers, n)
	}

	return Version{raw: raw, qualifier: qualifier, numbers: numbers}, nil
}

// MustParse is like Parse but panics on error. Only for constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// CompareIgnoreQualifier returns -1, 0 or 1. Missing trailing segments are treated as zero,
// so "6.3" equals "6.3.0".
func (v Version) CompareIgnoreQualifier(other Version) int {
	n := max(len(v.numbers), len(other.numbers))
	for i := 0; i < n; i++ {
		a, b := v.segment(i), other.segment(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v >= other ignoring qualifiers
func (v Version) AtLeast(other Version) bool {
	return v.CompareIgnoreQualifier(other) >= 0
}

func (v Version) segment(i int) int {
	if i < len(v.numbers) {
		return v.numbers[i]
	}
	return 0
}

// Qualifier returns the suffix after the numeric part, if any
func (v Version) Qualifier() string {
	return v.qualifier
}

func (v Version) String() string {
	return v.raw
}
