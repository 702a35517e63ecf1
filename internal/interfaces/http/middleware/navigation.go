package middleware

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/web"
)

// NavigationHeader marks requests made by the dashboard's client-side
// router. Those get JSON instructions instead of redirects.
const NavigationHeader = "X-Admin-Navigation"

// IsClientNavigation reports whether the request came from the client-side
// router
func IsClientNavigation(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader(NavigationHeader), "client")
}

// Navigator performs the two kinds of navigation a guard can ask for. A soft
// redirect changes route within the current origin; a hard redirect is a full
// page navigation that may leave it.
type Navigator struct {
	// RetryAfter is how soon the loading page reloads itself
	RetryAfter time.Duration
}

// NewNavigator creates a Navigator
func NewNavigator(retryAfter time.Duration) *Navigator {
	return &Navigator{RetryAfter: retryAfter}
}

// SoftRedirect moves to path on the current origin. Anything that is not a
// local absolute path falls back to "/".
func (n *Navigator) SoftRedirect(c *gin.Context, path string) {
	if !isLocalPath(path) {
		path = "/"
	}

	if IsClientNavigation(c) {
		c.AbortWithStatusJSON(http.StatusOK, dto.NavigationResponse{
			Navigate: &dto.Navigation{Mode: dto.NavigateSoft, Path: path},
		})
		return
	}

	c.Header("Location", path)
	c.HTML(http.StatusSeeOther, web.PageRedirect, gin.H{"Title": "Redirecting", "Location": path})
	c.Abort()
}

// HardRedirect performs a full navigation to an absolute URL
func (n *Navigator) HardRedirect(c *gin.Context, url string) {
	if IsClientNavigation(c) {
		c.AbortWithStatusJSON(http.StatusOK, dto.NavigationResponse{
			Navigate: &dto.Navigation{Mode: dto.NavigateHard, URL: url},
		})
		return
	}

	c.Header("Location", url)
	c.HTML(http.StatusFound, web.PageRedirect, gin.H{"Title": "Redirecting", "Location": url})
	c.Abort()
}

// Loading answers while the session is still being established
func (n *Navigator) Loading(c *gin.Context) {
	if IsClientNavigation(c) {
		c.AbortWithStatusJSON(http.StatusAccepted, dto.NavigationResponse{Loading: true})
		return
	}

	retry := int(math.Ceil(n.RetryAfter.Seconds()))
	if retry < 1 {
		retry = 1
	}
	c.HTML(http.StatusAccepted, web.PageLoading, gin.H{"Title": "Loading", "RetryAfter": retry})
	c.Abort()
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
