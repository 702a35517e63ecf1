package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sessionapp "github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/tenancy"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/clientstore"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/handler"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/middleware"
)

// mockBackend stands in for the auth, store and channel services
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Login(ctx context.Context, caller sessionapp.Caller, credentials sessionapp.Credentials) (*sessionapp.TokenPair, error) {
	args := m.Called(ctx, caller, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionapp.TokenPair), args.Error(1)
}

func (m *mockBackend) GetProfile(ctx context.Context, caller sessionapp.Caller) (*session.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.User), args.Error(1)
}

func (m *mockBackend) CheckStore(ctx context.Context, caller sessionapp.Caller) error {
	return m.Called(ctx, caller).Error(0)
}

func (m *mockBackend) GetPublications(ctx context.Context, caller sessionapp.Caller) ([]session.Publication, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Publication), args.Error(1)
}

// newBackendEngine wires the real bootstrap and login services over backend
// with cookie-backed client storage.
func newBackendEngine(t *testing.T, backend *mockBackend) http.Handler {
	t.Helper()

	log := zap.NewNop()
	jar := clientstore.NewJar(clientstore.CookieConfig{Path: "/"}, clientstore.PlainSealer{})

	engine, err := NewAdminEngine(AdminConfig{
		Resolver: tenancy.Resolver{RootDomain: "ocm.vn", LoginPath: "/login", RegisterPath: "/register"},
		Security: middleware.DefaultSecurityConfig(),
		Tracing:  middleware.TracingConfig{Enabled: false},
		Name:     "ocm-admin",
		Version:  "test",
	}, AdminDeps{
		Bootstrapper: sessionapp.NewBootstrapper(backend, backend, backend, sessionapp.BootstrapConfig{}, log),
		Tokens: func(w http.ResponseWriter, r *http.Request) sessionapp.TokenStore {
			return jar.For(w, r)
		},
		Auth:   sessionapp.NewLoginService(backend, backend, nil, nil, log),
		Events: &stubEvents{},
		Checks: map[string]handler.Pinger{},
		Logger: log,
	})
	require.NoError(t, err)
	return engine
}

func cookieNames(w *httptest.ResponseRecorder) []string {
	var names []string
	for _, c := range w.Result().Cookies() {
		if c.Value != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

func TestAdminEngine_KnownUserOnForeignHost(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantLocation string
	}{
		{name: "home", target: "http://other.ocm.vn/", wantLocation: "https://acme.ocm.vn/login"},
		{name: "login page", target: "http://other.ocm.vn/login", wantLocation: "https://acme.ocm.vn/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			caller := sessionapp.Caller{Host: "other.ocm.vn", AccessToken: "token-1"}
			backend.On("GetProfile", mock.Anything, caller).
				Return(&session.User{ID: 7, Email: "owner@acme.vn", DomainStore: "acme"}, nil)
			backend.On("CheckStore", mock.Anything, caller).Return(errors.New("store not found"))
			backend.On("GetPublications", mock.Anything, caller).Return([]session.Publication{}, nil)
			engine := newBackendEngine(t, backend)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.AddCookie(&http.Cookie{Name: sessionapp.AccessTokenKey, Value: "token-1"})
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			backend.AssertExpectations(t)
		})
	}
}

func TestAdminEngine_VisitorSignsIn(t *testing.T) {
	backend := &mockBackend{}
	anonymous := sessionapp.Caller{Host: "acme.ocm.vn"}
	credentials := sessionapp.Credentials{Email: "owner@acme.vn", Password: "secret1"}
	backend.On("CheckStore", mock.Anything, anonymous).Return(nil)
	backend.On("Login", mock.Anything, anonymous, credentials).Return(&sessionapp.TokenPair{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &session.User{ID: 7, Email: "owner@acme.vn", DomainStore: "acme"},
	}, nil).Once()
	backend.On("GetPublications", mock.Anything, anonymous).
		Return([]session.Publication{{ID: 1, Name: "Online Store"}}, nil).Once()
	engine := newBackendEngine(t, backend)

	req := httptest.NewRequest(http.MethodGet, "http://acme.ocm.vn/login", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="email"`)
	assert.Empty(t, cookieNames(w))

	form := url.Values{"email": {credentials.Email}, "password": {credentials.Password}}
	req = httptest.NewRequest(http.MethodPost, "http://acme.ocm.vn/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.ElementsMatch(t, []string{sessionapp.AccessTokenKey, sessionapp.RefreshTokenKey}, cookieNames(w))
	backend.AssertExpectations(t)
	backend.AssertNumberOfCalls(t, "Login", 1)
	backend.AssertNumberOfCalls(t, "GetPublications", 1)
}
