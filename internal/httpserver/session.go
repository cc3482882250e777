package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"grocermart/internal/domain"
	sessionrepo "grocermart/internal/repository/session"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "grocermart_session"
	sessionTTL    = 6 * time.Hour

	ctxTokenKey = "sessionToken"
	ctxUserKey  = "currentUser"
)

// sessionMiddleware resolves the session cookie into a token and, when the
// session is bound to an account, the authenticated user. Unknown and expired
// tokens read as no session; handlers that need one call ensureSession.
func (h *handlers) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		sess, err := h.deps.Sessions.Get(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				h.logger.Printf("session lookup: %v", err)
			}
			c.Next()
			return
		}
		c.Set(ctxTokenKey, sess.Token)
		if sess.UserID != nil {
			u, err := h.deps.Users.Get(c.Request.Context(), *sess.UserID)
			if err == nil && u.Active {
				c.Set(ctxUserKey, u)
			}
		}
		c.Next()
	}
}

// ensureSession returns the request's session token, creating a session row
// and setting the cookie when the request has none yet.
func (h *handlers) ensureSession(c *gin.Context) (string, error) {
	if token := sessionToken(c); token != "" {
		return token, nil
	}
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	if err := h.deps.Sessions.Create(c.Request.Context(), sessionrepo.Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}); err != nil {
		return "", err
	}
	c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.Set(ctxTokenKey, token)
	return token, nil
}

func sessionToken(c *gin.Context) string {
	if v, ok := c.Get(ctxTokenKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func (h *handlers) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (h *handlers) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

func (h *handlers) internalError(c *gin.Context, err error) {
	h.logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
