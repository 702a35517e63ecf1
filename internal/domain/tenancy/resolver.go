package tenancy

import "strings"

// Resolver derives the cross-origin targets used by the route guards.
type Resolver struct {
	RootDomain         string
	RegistrationDomain string
	LoginPath          string
	RegisterPath       string
	// ForceHTTPS upgrades the host-derived branch to https. Off by default so
	// local development over plain http keeps working.
	ForceHTTPS bool
}

// TenantLoginURL is the login page on the tenant's own subdomain.
func (r Resolver) TenantLoginURL(currentHost, slug string) string {
	return buildURL(currentHost, r.RootDomain, slug, r.LoginPath, r.ForceHTTPS)
}

// RegistrationURL is the global, tenant-less store registration page. A
// configured registration domain wins; otherwise the register path is built
// on the root domain or, failing that, the current host.
func (r Resolver) RegistrationURL(currentHost string) string {
	if d := strings.TrimSpace(r.RegistrationDomain); d != "" {
		if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
			return d
		}
		return schemeHTTPS + "://" + d
	}
	return buildURL(currentHost, r.RootDomain, "", r.RegisterPath, r.ForceHTTPS)
}

// Slug returns the tenant slug encoded in host under the root domain
func (r Resolver) Slug(host string) string {
	return SlugFromHost(host, r.RootDomain)
}

// SlugFromHost extracts the tenant slug from host, e.g. "acme.ocm.vn" with
// root "ocm.vn" returns "acme". It returns "" when host is the bare root, a
// "www" alias, or not under root at all.
func SlugFromHost(host, rootDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if rootDomain == "" || !strings.HasSuffix(host, "."+rootDomain) {
		return ""
	}

	sub := strings.TrimSuffix(host, "."+rootDomain)
	if sub == "" || sub == "www" {
		return ""
	}
	return strings.Split(sub, ".")[0]
}
