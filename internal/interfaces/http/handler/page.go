package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sessionapp "github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/middleware"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/web"
)

// Login outcomes reported to LoginMetrics
const (
	LoginSucceeded   = "succeeded"
	LoginFailed      = "failed"
	LoginInvalid     = "invalid"
	LoginRateLimited = "rate_limited"
)

// RateLimitedMessage is the toast shown when login attempts are throttled
const RateLimitedMessage = "Too many login attempts, please wait a moment and try again"

// Authenticator signs visitors in and out
type Authenticator interface {
	Login(ctx context.Context, host string, tokens sessionapp.TokenStore, credentials sessionapp.Credentials) (*sessionapp.LoginOutput, error)
	Logout(ctx context.Context, host string, tokens sessionapp.TokenStore)
}

// LoginMetrics counts login attempts by outcome
type LoginMetrics interface {
	RecordLogin(ctx context.Context, outcome string)
}

type noopLoginMetrics struct{}

func (noopLoginMetrics) RecordLogin(context.Context, string) {}

// PagePaths are the local paths of the admin pages
type PagePaths struct {
	Home   string
	Login  string
	Logout string
}

// PageHandler serves the server-rendered admin pages and the login form
type PageHandler struct {
	BaseHandler
	auth      Authenticator
	tokens    middleware.TokenStoreFunc
	navigator *middleware.Navigator
	metrics   LoginMetrics
	paths     PagePaths
}

// NewPageHandler creates a PageHandler. tokens opens the client storage on
// routes that are not behind SessionMount. metrics may be nil.
func NewPageHandler(
	auth Authenticator,
	tokens middleware.TokenStoreFunc,
	navigator *middleware.Navigator,
	metrics LoginMetrics,
	paths PagePaths,
) *PageHandler {
	if metrics == nil {
		metrics = noopLoginMetrics{}
	}
	if navigator == nil {
		navigator = middleware.NewNavigator(0)
	}
	return &PageHandler{
		auth:      auth,
		tokens:    tokens,
		navigator: navigator,
		metrics:   metrics,
		paths:     paths,
	}
}

// loginView is the data of the login page
type loginView struct {
	Email       string
	Toast       string
	FieldErrors map[string]string
}

// Home renders the dashboard of the signed-in user
func (h *PageHandler) Home(c *gin.Context) {
	snap := middleware.GetSnapshot(c)
	c.HTML(http.StatusOK, web.PageHome, gin.H{
		"Title":        "Dashboard",
		"User":         snap.User,
		"Publications": snap.Publications,
		"LogoutAction": h.paths.Logout,
	})
}

// LoginForm renders the empty login form
func (h *PageHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, loginView{})
}

// Login handles the login form submission. Form posts get the page back
// with messages or a redirect home; JSON clients get the envelope.
func (h *PageHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var credentials sessionapp.Credentials
	if err := c.ShouldBind(&credentials); err != nil {
		h.metrics.RecordLogin(ctx, LoginInvalid)
		if wantsJSON(c) {
			if details := middleware.ValidationDetails(err); details != nil {
				h.ValidationError(c, details)
			} else {
				h.BadRequest(c, "Invalid request body")
			}
			return
		}
		h.renderLogin(c, http.StatusUnprocessableEntity, loginView{
			Email:       credentials.Email,
			Toast:       sessionapp.GenericLoginFailure,
			FieldErrors: middleware.FieldErrors(err),
		})
		return
	}

	out, err := h.auth.Login(ctx, c.Request.Host, h.tokensFor(c), credentials)
	if err != nil {
		h.metrics.RecordLogin(ctx, LoginFailed)
		var loginErr *sessionapp.LoginError
		if !errors.As(err, &loginErr) {
			logger.GetGinLogger(c).Error("Unexpected login error", zap.Error(err))
			loginErr = &sessionapp.LoginError{Message: sessionapp.GenericLoginFailure}
		}
		h.loginFailed(c, credentials.Email, loginErr)
		return
	}

	h.metrics.RecordLogin(ctx, LoginSucceeded)
	if wantsJSON(c) {
		resp := dto.ToSessionResponse(session.Snapshot{
			User:         out.User,
			StoreExists:  true,
			Publications: out.Publications,
		})
		resp.Navigate = &dto.Navigation{Mode: dto.NavigateSoft, Path: h.paths.Home}
		h.Success(c, resp)
		return
	}
	h.navigator.SoftRedirect(c, h.paths.Home)
}

// Logout signs the visitor out and returns to the login page
func (h *PageHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), c.Request.Host, h.tokensFor(c))

	if wantsJSON(c) {
		h.Success(c, gin.H{"logged_out": true})
		return
	}
	h.navigator.SoftRedirect(c, h.paths.Login)
}

// LoginRateLimited answers a throttled login submission. It is meant for
// RateLimitConfig.OnLimited.
func (h *PageHandler) LoginRateLimited(c *gin.Context) {
	h.metrics.RecordLogin(c.Request.Context(), LoginRateLimited)
	if wantsJSON(c) {
		h.TooManyRequests(c, RateLimitedMessage)
	} else {
		h.renderLogin(c, http.StatusTooManyRequests, loginView{
			Email: c.PostForm("email"),
			Toast: RateLimitedMessage,
		})
	}
	c.Abort()
}

func (h *PageHandler) loginFailed(c *gin.Context, email string, loginErr *sessionapp.LoginError) {
	if wantsJSON(c) {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeLoginFailed, loginErr.Message, getRequestID(c))
		resp.Error.Details = fieldDetails(loginErr.Fields)
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeLoginFailed), resp)
		return
	}
	h.renderLogin(c, http.StatusUnprocessableEntity, loginView{
		Email:       email,
		Toast:       loginErr.Message,
		FieldErrors: loginErr.Fields,
	})
}

func (h *PageHandler) renderLogin(c *gin.Context, status int, view loginView) {
	if view.FieldErrors == nil {
		view.FieldErrors = map[string]string{}
	}
	c.HTML(status, web.PageLogin, gin.H{
		"Title":       "Sign in",
		"Action":      h.paths.Login,
		"Email":       view.Email,
		"Toast":       view.Toast,
		"FieldErrors": view.FieldErrors,
	})
}

// tokensFor prefers the storage opened by SessionMount so both see the
// same pending cookie writes
func (h *PageHandler) tokensFor(c *gin.Context) sessionapp.TokenStore {
	if tokens := middleware.GetTokens(c); tokens != nil {
		return tokens
	}
	return h.tokens(c.Writer, c.Request)
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON
}

func fieldDetails(fields map[string]string) []dto.ValidationDetail {
	if len(fields) == 0 {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(fields))
	for field, message := range fields {
		details = append(details, dto.ValidationDetail{Field: field, Message: message})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return details
}
