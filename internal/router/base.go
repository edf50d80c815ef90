// Package router maps browser locations to views: mount-prefix handling,
// the static route table and the history-driven navigator.
package router

import (
	"net/url"
	"strings"
)

// DeployPrefix is the path the site is mounted under when it is not served
// from the root of its host.
const DeployPrefix = "/myeasyevent-front"

// DefaultLocalHosts are the development hosts on which the site is mounted
// under DeployPrefix.
var DefaultLocalHosts = []string{"localhost", "127.0.0.1", "::1"}

// Base is the mount prefix of the application: "" or a path such as
// "/myeasyevent-front" without a trailing slash. It is computed once at
// startup and never changes.
type Base string

// DetectBase picks the mount prefix for loc. The prefix applies when the
// host is one of localHosts or when the path already sits under it.
func DetectBase(loc *url.URL, localHosts []string, prefix string) Base {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" || loc == nil {
		return ""
	}
	host := loc.Hostname()
	for _, h := range localHosts {
		if strings.EqualFold(h, host) {
			return Base(prefix)
		}
	}
	if under(loc.Path, prefix) {
		return Base(prefix)
	}
	return ""
}

// Strip removes the prefix from a browser path. The result always starts
// with "/"; an empty remainder is the root.
func (b Base) Strip(raw string) string {
	if b == "" {
		if raw == "" {
			return "/"
		}
		return raw
	}
	p := string(b)
	if under(raw, p) {
		raw = raw[len(p):]
	}
	if raw == "" {
		return "/"
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}

// Add prefixes an application path.
func (b Base) Add(app string) string {
	if !strings.HasPrefix(app, "/") {
		app = "/" + app
	}
	return string(b) + app
}

// AppPath turns a bare path or an absolute URL into the canonical
// application path: query and fragment dropped, prefix removed, trailing
// slashes removed except for the root. AppPath(AppPath(x)) == AppPath(x).
func (b Base) AppPath(input string) string {
	p := pathOf(input)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if b != "" {
		for under(p, string(b)) {
			p = b.Strip(p)
		}
	}
	return clean(p)
}

// SplitQuery separates "path?query#hash" into its path and raw query.
func SplitQuery(target string) (path, query string) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}

func pathOf(input string) string {
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		return u.EscapedPath()
	}
	p, _ := SplitQuery(input)
	return p
}

func clean(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// under reports whether p equals prefix or continues it with a segment.
func under(p, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(p, prefix) {
		return false
	}
	return len(p) == len(prefix) || p[len(prefix)] == '/'
}
