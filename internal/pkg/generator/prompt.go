package generator

import (
	"strings"
	"unicode"
)

// CommitResponseTokens caps the length of the composed commit message.
const CommitResponseTokens = 45

// User message prefixes sent ahead of the diff and the summaries.
const (
	summaryUserPrefix = "Here is the `git diff` output: "
	commitUserPrefix  = "Here are the summaries changes: "
)

// DefaultSummaryPrompt asks for a single plain sentence per file diff.
const DefaultSummaryPrompt = `You are reviewing the output of git diff for a single file.
Lines starting with a single minus sign were removed and lines starting with a single plus sign were added.
Describe what changed in one concise sentence written in the present tense.
Do not include code, snippets, file paths or bullet points.
Reply with plain text only, without any preface or explanation.`

// DefaultCommitPrompt asks for one conventional-commit header built from
// the per-file summaries.
const DefaultCommitPrompt = `You write Git commit messages in English, in the present tense.
You receive short summaries of every changed file. Combine them into ONE commit message that captures the overall intent.
Follow these rules strictly:
- Use the format {type}(scope?): {description}
- {type} is one of init, feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert
- scope is optional and names the affected area
- Keep the message under 50 characters and never exceed 74
- The first line must satisfy semantic-release so tooling can derive a version from it
- Output the commit message only, as plain text, with no issue numbers and no explanation
Examples:
- chore: run tests on travis ci
- fix(server): send cors headers
- feat(blog): add comment section
- feat(wasm-plugin): add WasmPlugin resource for Istio Ingress`

// summaryUserMessage embeds the diff verbatim.
func summaryUserMessage(diff string) string {
	return summaryUserPrefix + diff
}

// commitUserMessage joins the summaries with ", " in the given order.
func commitUserMessage(summaries []string) string {
	return commitUserPrefix + strings.Join(summaries, ", ")
}

// promptOrDefault returns override unless it is blank.
func promptOrDefault(override, fallback string) string {
	if strings.TrimSpace(override) == "" {
		return fallback
	}
	return override
}

// normalizeSummary trims the start of the response, then every line.
func normalizeSummary(raw string) string {
	lines := strings.Split(strings.TrimLeftFunc(raw, unicode.IsSpace), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
