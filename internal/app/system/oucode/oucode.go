// Package oucode inspects organization unit codes and selects subtrees by
// code prefix.
//
// A code is a materialized path: dot-separated, zero-padded ordinals
// ("00001.00003.00002"). The code of a child is its parent's code followed by
// Separator and one more unit, so an ancestor's code is always a textual
// prefix of a descendant's.
package oucode

import (
	"errors"
	"regexp"
	"strings"
)

// Separator delimits the units of a code.
const Separator = "."

// ErrBadMatch reports an unknown subtree match mode.
var ErrBadMatch = errors.New(`oucode: match must be "segment" or "text"`)

// Parent returns the code one level up, or "" for a root code.
func Parent(code string) string {
	i := strings.LastIndex(code, Separator)
	if i < 0 {
		return ""
	}
	return code[:i]
}

// Depth returns the number of units in a code; 0 for "".
func Depth(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, Separator) + 1
}

// Match selects how a code prefix selects a subtree.
type Match int

const (
	// MatchSegment matches the prefix itself and codes continuing past a
	// separator. "00001" matches "00001" and "00001.00002" but not "000012".
	MatchSegment Match = iota
	// MatchText is a raw textual prefix. "0000" matches "00001" and "00002".
	MatchText
)

func (m Match) String() string {
	if m == MatchText {
		return "text"
	}
	return "segment"
}

// ParseMatch maps "segment" / "text" to a Match. Empty means MatchSegment.
func ParseMatch(s string) (Match, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "segment":
		return MatchSegment, nil
	case "text":
		return MatchText, nil
	}
	return MatchSegment, ErrBadMatch
}

// SubtreePattern returns an anchored regular expression selecting the codes
// under prefix. Anchored prefix expressions can use an index on code.
//
// A prefix that already ends in Separator is matched textually in both modes.
// An empty prefix matches every code.
func SubtreePattern(prefix string, m Match) string {
	quoted := regexp.QuoteMeta(prefix)
	if m == MatchText || prefix == "" || strings.HasSuffix(prefix, Separator) {
		return "^" + quoted
	}
	return "^" + quoted + "(" + regexp.QuoteMeta(Separator) + "|$)"
}
