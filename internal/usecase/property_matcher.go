package usecase

import (
	"net/url"
	"strings"
)

// domainPropertyPrefix marks a whole-domain Search Console property
// ("sc-domain:example.com") as opposed to a URL-prefix property.
const domainPropertyPrefix = "sc-domain:"

// normalizedURL holds the decomposed parts of a user-supplied URL.
// baseHost is the host with a leading "www." stripped; case is preserved
// for output, comparisons are case-insensitive.
type normalizedURL struct {
	scheme   string
	host     string
	baseHost string
	path     string
}

// normalizeRawURL decomposes the raw input. Inputs without a scheme get
// https:// prefixed; a trailing slash is stripped before parsing.
// It never fails: unparseable input is treated as an opaque host string.
func normalizeRawURL(raw string) normalizedURL {
	raw = strings.TrimSpace(raw)

	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	raw = strings.TrimSuffix(raw, "/")

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Opaque fallback: keep whatever came after the scheme as the host.
		host := raw
		if i := strings.Index(host, "://"); i >= 0 {
			host = host[i+3:]
		}
		u = &url.URL{Scheme: "https", Host: host}
	}

	host := u.Host
	baseHost := host
	if hasWWWPrefix(host) {
		baseHost = host[len("www."):]
	}

	return normalizedURL{
		scheme:   u.Scheme,
		host:     host,
		baseHost: baseHost,
		path:     u.Path,
	}
}

func hasWWWPrefix(host string) bool {
	return len(host) > len("www.") && strings.EqualFold(host[:len("www.")], "www.")
}

// propertyMatches reports whether a Search Console property identifier
// refers to the same site as the parsed input. A property matches when
// its host equals the base host, the full host, or "www." plus the base
// host, compared case-insensitively. Identifiers in neither the
// domain-property nor the URL-prefix form never match.
func propertyMatches(property, baseHost, host string) bool {
	var propHost string

	if strings.HasPrefix(strings.ToLower(property), domainPropertyPrefix) {
		propHost = strings.TrimSuffix(property[len(domainPropertyPrefix):], "/")
	} else {
		u, err := url.Parse(property)
		if err != nil || u.Host == "" {
			return false
		}
		propHost = u.Host
	}

	return strings.EqualFold(propHost, baseHost) ||
		strings.EqualFold(propHost, host) ||
		strings.EqualFold(propHost, "www."+baseHost)
}

// BuildCandidates resolves a user-supplied URL against the properties the
// account has access to and returns an ordered, deduplicated list of
// identifiers to try against the ranking API, most likely first:
//
//  1. known properties that match the input's host, in their original order
//  2. the remaining known properties, in original order
//  3. generated variations of the input itself (bare/trailing-slash URL,
//     sc-domain forms, the www/non-www counterpart, and path-scoped URLs
//     when the input had a non-root path)
//
// The result is never empty and the function never fails; it is a pure
// function of its inputs.
func BuildCandidates(rawURL string, knownProperties []string) []string {
	n := normalizeRawURL(rawURL)

	seen := make(map[string]struct{})
	var candidates []string
	add := func(c string) {
		if c == "" {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}

	// Known properties matching the input host come first.
	for _, p := range knownProperties {
		if propertyMatches(p, n.baseHost, n.host) {
			add(p)
		}
	}
	// Then every remaining known property. Same-account properties with
	// different path scoping cannot be disambiguated further, so they
	// stay in the running.
	for _, p := range knownProperties {
		add(p)
	}

	// Generated variations of the input.
	base := n.scheme + "://" + n.host
	add(base)
	add(base + "/")
	add(domainPropertyPrefix + n.baseHost)
	add(domainPropertyPrefix + "www." + n.baseHost)

	if hasWWWPrefix(n.host) {
		alt := n.scheme + "://" + n.baseHost
		add(alt)
		add(alt + "/")
		add(domainPropertyPrefix + n.baseHost)
	} else {
		alt := n.scheme + "://www." + n.host
		add(alt)
		add(alt + "/")
		add(domainPropertyPrefix + "www." + n.host)
	}

	if n.path != "" && n.path != "/" {
		add(base + n.path)
		add(base + n.path + "/")
	}

	return candidates
}
