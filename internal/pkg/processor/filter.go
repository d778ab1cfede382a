// Package processor decides which staged changes are worth summarizing.
package processor

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/git"
)

// Filter drops changes that would only add noise to a summary: paths
// matching an exclude pattern (lock files by default) and binary files.
type Filter struct {
	patterns []string
}

// NewFilter creates a Filter for the given glob patterns. A pattern without
// a slash matches the base name; one with a slash matches the full path and
// may use ** to cross directories; one ending in a slash matches that
// directory at any depth.
func NewFilter(patterns []string) *Filter {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return &Filter{patterns: cleaned}
}

// Apply returns the changes to summarize, in their original order. When
// every change would be dropped the input is returned unchanged, so a
// commit that only touches lock files still gets a message.
func (f *Filter) Apply(changes []git.Change) []git.Change {
	kept := make([]git.Change, 0, len(changes))
	for _, c := range changes {
		if reason := f.skipReason(c); reason != "" {
			apperrors.Debug("skipping %s: %s", c.Path, reason)
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) == 0 && len(changes) > 0 {
		apperrors.Info("all %d staged changes are excluded; summarizing them anyway", len(changes))
		return changes
	}
	return kept
}

// Excluded reports whether p matches one of the exclude patterns.
func (f *Filter) Excluded(p string) bool {
	base := path.Base(p)
	for _, pattern := range f.patterns {
		var ok bool
		switch {
		case strings.HasSuffix(pattern, "/"):
			ok = doublestar.MatchUnvalidated("**/"+pattern+"**", p)
		case strings.Contains(pattern, "/"):
			ok = doublestar.MatchUnvalidated(pattern, p)
		default:
			ok = doublestar.MatchUnvalidated(pattern, base)
		}
		if ok {
			return true
		}
	}
	return false
}

func (f *Filter) skipReason(c git.Change) string {
	if c.IsBinary {
		return "binary file"
	}
	if f.Excluded(c.Path) {
		return "matches exclude pattern"
	}
	return ""
}
