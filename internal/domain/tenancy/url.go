// Package tenancy builds the absolute URLs that move a browser between
// tenant subdomains, the tenant-less registration site and local paths.
package tenancy

import "strings"

const (
	schemeHTTP  = "http"
	schemeHTTPS = "https"
)

// BuildURL returns the absolute URL of path on the tenant identified by slug.
//
// With a configured root domain the result is https://{slug}.{root}{path}
// (https://{root}{path} without a slug) and currentHost is ignored. Without
// one the slug is prepended to the current host as received, port included,
// so both "shop" and "example.com" become "acme.shop" and "acme.example.com".
// That branch uses plain http.
func BuildURL(currentHost, rootDomain, slug, path string) string {
	return buildURL(currentHost, rootDomain, slug, path, false)
}

func buildURL(currentHost, rootDomain, slug, path string, forceHTTPS bool) string {
	if root := strings.TrimSpace(rootDomain); root != "" {
		return schemeHTTPS + "://" + joinHost(slug, root) + path
	}

	scheme := schemeHTTP
	if forceHTTPS {
		scheme = schemeHTTPS
	}
	return scheme + "://" + joinHost(slug, currentHost) + path
}

func joinHost(slug, host string) string {
	if slug == "" {
		return host
	}
	return slug + "." + host
}
