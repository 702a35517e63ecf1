// Package clientstore keeps the visitor's tokens in browser cookies.
package clientstore

import (
	"net/http"
	"strings"
	"time"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
)

// CookieConfig holds the cookie attributes
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite string // strict, lax, none
	MaxAge   time.Duration
}

// Jar hands out per-request token stores
type Jar struct {
	config   CookieConfig
	sameSite http.SameSite
	sealer   Sealer
}

// NewJar creates a Jar
func NewJar(config CookieConfig, sealer Sealer) *Jar {
	if config.Path == "" {
		config.Path = "/"
	}
	if sealer == nil {
		sealer = PlainSealer{}
	}
	return &Jar{config: config, sameSite: parseSameSite(config.SameSite), sealer: sealer}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// For binds a token store to one request/response pair
func (j *Jar) For(w http.ResponseWriter, r *http.Request) *Store {
	return &Store{jar: j, w: w, r: r, pending: map[string]*string{}}
}

// Store is the client storage of one request. Writes are visible to later
// reads in the same request. Not safe for concurrent use.
type Store struct {
	jar     *Jar
	w       http.ResponseWriter
	r       *http.Request
	pending map[string]*string // nil value = removed
}

var _ session.TokenStore = (*Store)(nil)

// Get returns the value for key. A cookie that cannot be unsealed is absent.
func (s *Store) Get(key string) (string, bool) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}

	c, err := s.r.Cookie(key)
	if err != nil || c.Value == "" {
		return "", false
	}
	v, err := s.jar.sealer.Open(c.Value)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// Set seals value and writes it as an HttpOnly cookie
func (s *Store) Set(key, value string) error {
	sealed, err := s.jar.sealer.Seal(value)
	if err != nil {
		return err
	}
	http.SetCookie(s.w, s.cookie(key, sealed, int(s.jar.config.MaxAge/time.Second)))
	s.pending[key] = &value
	return nil
}

// Remove expires the cookie
func (s *Store) Remove(key string) {
	http.SetCookie(s.w, s.cookie(key, "", -1))
	s.pending[key] = nil
}

func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.jar.config.Path,
		Domain:   s.jar.config.Domain,
		MaxAge:   maxAge,
		Secure:   s.jar.config.Secure,
		HttpOnly: true,
		SameSite: s.jar.sameSite,
	}
}
