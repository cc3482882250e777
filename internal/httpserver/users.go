package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"grocermart/internal/domain"
	usersvc "grocermart/internal/service/user"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) register(c *gin.Context) {
	var in usersvc.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.deps.Users.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	h.bindSession(c, u)
	c.JSON(http.StatusOK, gin.H{"user": toUserView(*u)})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.deps.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usersvc.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		case errors.Is(err, usersvc.ErrSuspended):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Account suspended"})
		default:
			h.internalError(c, err)
		}
		return
	}
	h.bindSession(c, u)
	c.JSON(http.StatusOK, gin.H{
		"user":    toUserView(*u),
		"message": "Login successful",
	})
}

// bindSession attaches the account to the request's session so subsequent
// requests authenticate via the cookie. The session keeps its cart.
func (h *handlers) bindSession(c *gin.Context, u *domain.User) {
	token, err := h.ensureSession(c)
	if err != nil {
		h.logger.Printf("bind session: %v", err)
		return
	}
	if err := h.deps.Sessions.BindUser(c.Request.Context(), token, u.ID); err != nil {
		h.logger.Printf("bind session: %v", err)
	}
}

func (h *handlers) logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := h.deps.Sessions.UnbindUser(c.Request.Context(), token); err != nil && !errors.Is(err, domain.ErrNotFound) {
			h.internalError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *handlers) me(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Session expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserView(*u)})
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req struct {
		FullName    string `json:"full_name" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	id := c.Param("id")
	if u := currentUser(c); !u.IsAdmin && u.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}
	u, err := h.deps.Users.UpdateProfile(c.Request.Context(), id, req.FullName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    toUserView(*u),
	})
}

func (h *handlers) updatePassword(c *gin.Context) {
	var req struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	id := c.Param("id")
	if u := currentUser(c); !u.IsAdmin && u.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}
	if err := h.deps.Users.UpdatePassword(c.Request.Context(), id, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *handlers) adminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	users, total, totalPages, err := h.deps.Users.List(c.Request.Context(), usersvc.AdminListInput{
		Role:       c.Query("role"),
		DateFilter: c.Query("dateFilter"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      toUserViews(users),
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func (h *handlers) adminSuspendUser(c *gin.Context) {
	u, err := h.deps.Users.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	state := "suspended"
	if u.Active {
		state = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User account " + state,
		"user":    toUserView(*u),
	})
}

func (h *handlers) adminResetPassword(c *gin.Context) {
	if err := h.deps.Users.ResetPassword(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User password reset successfully"})
}
