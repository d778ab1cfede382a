// Package security holds the checks around where diff content is sent.
package security

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// IsLocalEndpoint reports whether endpoint points at this machine. Hosts
// that cannot be parsed are treated as remote.
func IsLocalEndpoint(endpoint string) bool {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || u.Host == "" {
		return false
	}

	host := u.Hostname()
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

// NeedsRemoteWarning reports whether the remote endpoint notice should be shown.
func NeedsRemoteWarning(endpoint string, acknowledged bool) bool {
	return !acknowledged && !IsLocalEndpoint(endpoint)
}

// RemoteEndpointWarning returns the notice shown before diffs are sent to
// an inference server on another host.
func RemoteEndpointWarning(endpoint string) string {
	return fmt.Sprintf(remoteWarningTemplate, endpoint)
}

const remoteWarningTemplate = `
⚠️  The configured inference endpoint is not on this machine:

    %s

commitollama sends the full text of your staged diff to that server.
Make sure you trust it, and keep secrets out of staged changes.

`

// RemoteEndpointAcknowledgment is shown after the user accepts the notice.
const RemoteEndpointAcknowledgment = "Notice acknowledged. It will not be shown again."

var sanitizePatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`), "sk-****"},
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key|token)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
}

// SanitizeForLogging masks things that look like credentials so that diff
// excerpts and model output can be written to debug logs.
func SanitizeForLogging(s string) string {
	for _, p := range sanitizePatterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}
