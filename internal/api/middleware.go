package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/stylestore/api/internal/domain/user"
)

// Context keys set by Authenticate.
const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

// Authenticate resolves the Bearer token to a live account and stores the
// user's id and role in the gin context. Missing, malformed, or stale
// credentials end the request with 401.
func (h *Handler) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respondError(c, http.StatusUnauthorized, "authentication required")
		c.Abort()
		return
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid or expired token")
		c.Abort()
		return
	}

	// The role is read from the store, not the token, so demotions and
	// deletions take effect immediately.
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
		} else {
			respondInternal(c, "failed to authenticate", err)
		}
		c.Abort()
		return
	}

	c.Set(ctxUserID, u.ID)
	c.Set(ctxUserRole, u.Role)
	c.Next()
}

// RequireAdmin ends the request with 403 unless Authenticate stored the admin
// role. It must run after Authenticate.
func (h *Handler) RequireAdmin(c *gin.Context) {
	role, _ := c.Get(ctxUserRole)
	if role != user.RoleAdmin {
		respondError(c, http.StatusForbidden, "admin access required")
		c.Abort()
		return
	}
	c.Next()
}

// currentUserID returns the authenticated user's id set by Authenticate.
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
