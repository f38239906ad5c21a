package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/stylestore/api/internal/auth"
	"github.com/stylestore/api/internal/domain/user"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// Register creates an account and issues a token for it.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, email and a password of at least 6 characters are required")
		return
	}

	role := user.Role(req.Role)
	if role == "" {
		role = user.RoleCustomer
	}
	if !role.Valid() {
		respondError(c, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(c, "failed to register", err)
		return
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, "user already exists with this email")
			return
		}
		respondInternal(c, "failed to register", err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		respondInternal(c, "failed to register", err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "registration successful",
		"token":   token,
		"user":    toUserView(u),
	})
}

// Login verifies credentials and issues a token. When the request names a
// role, the account must hold it.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondInternal(c, "failed to log in", err)
		return
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if req.Role != "" && user.Role(req.Role) != u.Role {
		respondError(c, http.StatusForbidden, "access denied for this role")
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		respondInternal(c, "failed to log in", err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    toUserView(u),
	})
}

// Me returns the authenticated account without its password hash.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(c, "failed to load profile", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": toUserView(u)})
}
