package message

import (
	"regexp"
	"sort"
	"strings"
)

// Decoration controls the post-processing applied to a composed message.
type Decoration struct {
	UseEmojis    bool
	UseUppercase bool
	Emojis       map[string]string
}

// leadingTypeRegex matches a leading "word:" token.
var leadingTypeRegex = regexp.MustCompile(`^(\w+):`)

// PostProcess cleans a raw model response in a fixed order: quotes are
// removed, emojis are applied, the leading type is upper-cased, and
// surrounding whitespace is trimmed.
func PostProcess(raw string, d Decoration) string {
	msg := StripQuotes(raw)
	if d.UseEmojis {
		msg = ApplyEmojis(msg, d.Emojis)
	}
	if d.UseUppercase {
		msg = UppercaseType(msg)
	}
	return strings.TrimSpace(msg)
}

// StripQuotes removes every double quote and backtick.
func StripQuotes(msg string) string {
	return strings.NewReplacer(`"`, "", "`", "").Replace(msg)
}

// ApplyEmojis prefixes every whole-word, case-sensitive occurrence of each
// type tag with "{emoji} ". Tags are processed in sorted order. An occurrence
// already preceded by its own prefix is left alone, so applying twice is a
// no-op.
func ApplyEmojis(msg string, emojis map[string]string) string {
	tags := make([]string, 0, len(emojis))
	for tag := range emojis {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		if tag == "" || emojis[tag] == "" {
			continue
		}
		msg = decorateTag(msg, tag, emojis[tag]+" ")
	}
	return msg
}

func decorateTag(msg, tag, prefix string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(tag) + `\b`)
	matches := re.FindAllStringIndex(msg, -1)
	if len(matches) == 0 {
		return msg
	}

	var sb strings.Builder
	last := 0
	for _, loc := range matches {
		start := loc[0]
		if strings.HasSuffix(msg[:start], prefix) {
			continue
		}
		sb.WriteString(msg[last:start])
		sb.WriteString(prefix)
		last = start
	}
	sb.WriteString(msg[last:])
	return sb.String()
}

// UppercaseType upper-cases the leading word when the message starts with
// "word:". The rest of the message is returned unchanged.
func UppercaseType(msg string) string {
	loc := leadingTypeRegex.FindStringSubmatchIndex(msg)
	if loc == nil {
		return msg
	}
	return strings.ToUpper(msg[:loc[3]]) + msg[loc[3]:]
}
