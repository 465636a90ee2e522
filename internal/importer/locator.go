package importer

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	opaqueIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)
	// /place/<name>/[@coords/]data=...!1s<token>
	placeDataPattern = regexp.MustCompile(`/place/[^/]+/(?:[^/]+/)*data=[^?#]*?!1s([^!?#&/]+)`)
)

// ParseLocator extracts a place identifier from user input. It accepts a raw
// identifier or a Google Maps URL carrying a cid, an embedded !1s token or an
// ftid. The boolean is false when nothing identifiable was found, which
// callers treat as a name search rather than an error.
func ParseLocator(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if opaqueIDPattern.MatchString(input) {
		return input, true
	}

	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	query := u.Query()
	if cid := query.Get("cid"); cid != "" {
		return cid, true
	}

	if m := placeDataPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1], true
	}

	if ftid := query.Get("ftid"); ftid != "" {
		return ftid, true
	}

	return "", false
}
