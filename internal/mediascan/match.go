package mediascan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extension returns the substring after the final dot of name.
// Names without a dot, ending in a dot, or whose only dot is the leading
// one (hidden files such as ".profile") have no extension.
func Extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", false
	}

	return name[i+1:], true
}

// ParseExtensions splits a comma-separated list. Items are kept verbatim,
// so "jpg, png" yields " png"; empty items are dropped.
func ParseExtensions(list string) []string {
	parts := strings.Split(list, ",")

	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}

		exts = append(exts, p)
	}

	return exts
}

// ExtensionSet is an ordered, de-duplicated set of extensions.
type ExtensionSet struct {
	list []string
	set  map[string]struct{}
}

// NewExtensionSet builds a set from exts, keeping first occurrences in order.
func NewExtensionSet(exts ...string) ExtensionSet {
	s := ExtensionSet{set: make(map[string]struct{}, len(exts))}

	for _, e := range exts {
		if _, ok := s.set[e]; ok {
			continue
		}

		s.set[e] = struct{}{}
		s.list = append(s.list, e)
	}

	return s
}

// Contains reports whether ext is in the set. Comparison is case-sensitive.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s.set[ext]

	return ok
}

// List returns the extensions in their configured order.
func (s ExtensionSet) List() []string {
	return append([]string(nil), s.list...)
}

// Len returns the number of distinct extensions.
func (s ExtensionSet) Len() int {
	return len(s.list)
}

// Matcher decides which entries are scanned and which files are media.
type Matcher struct {
	exts     ExtensionSet
	excludes []string
}

// NewMatcher creates a matcher for the given extensions and exclusion globs.
func NewMatcher(exts, excludes []string) (*Matcher, error) {
	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	return &Matcher{
		exts:     NewExtensionSet(exts...),
		excludes: excludes,
	}, nil
}

// Match returns the extension of name and whether it is a configured media extension.
func (m *Matcher) Match(name string) (string, bool) {
	ext, ok := Extension(name)
	if !ok {
		return "", false
	}

	return ext, m.exts.Contains(ext)
}

// Excluded reports whether rel, a path relative to the scan root, matches an
// exclusion glob. Patterns are tried against the slash path and the base name.
func (m *Matcher) Excluded(rel string) bool {
	if len(m.excludes) == 0 {
		return false
	}

	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)

	for _, p := range m.excludes {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}

		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}

	return false
}

// Extensions returns the configured extension set.
func (m *Matcher) Extensions() ExtensionSet {
	return m.exts
}
