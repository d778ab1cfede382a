// Package message parses, validates and post-processes commit messages.
package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidCommitTypes contains the conventional-commit types the composer may emit.
var ValidCommitTypes = []string{
	"init", "feat", "fix", "docs", "style", "refactor",
	"perf", "test", "build", "ci", "chore", "revert",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// subjectRegex matches "[decoration ]type[(scope)]: subject". The decoration
// is any run of non-word characters, which covers emoji glyphs.
var subjectRegex = regexp.MustCompile(`^(?:([^\w\s]+)\s+)?(\w+)(\([^)]*\))?!?:\s*(.*)$`)

// ValidationResult contains the result of commit message validation.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// CommitMessage is a commit message split into its conventional parts.
type CommitMessage struct {
	Decoration string // leading emoji, if any
	Type       string // as written, possibly upper-cased
	Scope      string
	Subject    string
	Body       string
	Footer     string
}

// Parse splits raw text into a CommitMessage.
func Parse(rawText string) *CommitMessage {
	cm := &CommitMessage{}
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return cm
	}

	lines := strings.Split(rawText, "\n")
	cm.parseSubject(strings.TrimSpace(lines[0]))
	if len(lines) > 1 {
		cm.parseBodyAndFooter(lines[1:])
	}
	return cm
}

func (cm *CommitMessage) parseSubject(line string) {
	m := subjectRegex.FindStringSubmatch(line)
	if m == nil {
		cm.Subject = line
		return
	}
	cm.Decoration = m[1]
	cm.Type = m[2]
	cm.Scope = strings.Trim(m[3], "()")
	cm.Subject = strings.TrimSpace(m[4])
}

// parseBodyAndFooter treats the first trailer-looking line and everything
// after it as the footer.
func (cm *CommitMessage) parseBodyAndFooter(lines []string) {
	var body, footer []string
	inFooter := false

	for _, line := range lines {
		if !inFooter && isFooterLine(strings.TrimSpace(line)) {
			inFooter = true
		}
		if inFooter {
			footer = append(footer, line)
		} else {
			body = append(body, line)
		}
	}

	cm.Body = strings.TrimSpace(strings.Join(body, "\n"))
	cm.Footer = strings.TrimSpace(strings.Join(footer, "\n"))
}

var footerPrefixes = []string{
	"BREAKING CHANGE:",
	"BREAKING-CHANGE:",
	"REFS:",
	"CLOSES:",
	"FIXES:",
	"RESOLVES:",
	"SEE:",
	"CO-AUTHORED-BY:",
	"SIGNED-OFF-BY:",
	"REVIEWED-BY:",
}

func isFooterLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, prefix := range footerPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// Header returns the first line.
func (cm *CommitMessage) Header() string {
	var sb strings.Builder
	if cm.Decoration != "" {
		sb.WriteString(cm.Decoration)
		sb.WriteString(" ")
	}
	if cm.Type != "" {
		sb.WriteString(cm.Type)
		if cm.Scope != "" {
			sb.WriteString("(" + cm.Scope + ")")
		}
		sb.WriteString(": ")
	}
	sb.WriteString(cm.Subject)
	return sb.String()
}

// String returns the full message with blank lines between sections.
func (cm *CommitMessage) String() string {
	parts := []string{cm.Header()}
	if cm.Body != "" {
		parts = append(parts, "", cm.Body)
	}
	if cm.Footer != "" {
		parts = append(parts, "", cm.Footer)
	}
	return strings.Join(parts, "\n")
}

// IsMultiLine returns true if the commit message has body or footer sections.
func (cm *CommitMessage) IsMultiLine() bool {
	return cm.Body != "" || cm.Footer != ""
}

// Validate checks the message against the conventional-commit format.
// Errors make the message non-conforming; warnings are advisory.
func (cm *CommitMessage) Validate() *ValidationResult {
	result := &ValidationResult{IsValid: true}

	switch {
	case cm.Type == "":
		result.Errors = append(result.Errors, "missing commit type")
	case !IsValidCommitType(cm.Type):
		result.Errors = append(result.Errors, fmt.Sprintf(
			"unknown commit type %q (expected one of %s)",
			cm.Type, strings.Join(ValidCommitTypes, ", ")))
	}
	if cm.Subject == "" {
		result.Errors = append(result.Errors, "missing commit subject")
	}
	result.IsValid = len(result.Errors) == 0

	if n := len([]rune(cm.Header())); n > MaxSubjectLength {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"subject line exceeds %d characters (%d chars)", MaxSubjectLength, n))
	}
	if strings.HasSuffix(cm.Subject, ".") {
		result.Warnings = append(result.Warnings, "subject line ends with a period")
	}

	return result
}

// IsValidCommitType reports whether commitType names a known type, ignoring case.
func IsValidCommitType(commitType string) bool {
	return slices.Contains(ValidCommitTypes, strings.ToLower(commitType))
}
