package logger

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "***"

// userinfoPattern matches "scheme://user[:pass]@" prefixes inside free text.
var userinfoPattern = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^/@\s]+@`)

// RedactURL masks the userinfo part of a URL. Strings that are not URLs are
// returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil || u.Host == "" {
		return raw
	}
	u.User = nil
	return strings.Replace(u.String(), "://", "://"+redacted+"@", 1)
}

// RedactText masks userinfo in every URL found in text.
func RedactText(text string) string {
	return userinfoPattern.ReplaceAllString(text, "${1}"+redacted+"@")
}

// RedactArgs returns a copy of args with credentials removed from URLs.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = RedactText(arg)
	}
	return out
}
