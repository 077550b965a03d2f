package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkurosawa/task-manager-api/internal/dto"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/middleware"
	"github.com/mkurosawa/task-manager-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all registered users. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	users, err := h.users.ListAll(c.Request.Context(), p)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Update changes a user's name, email or role. Admin only.
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	user, err := h.users.Update(c.Request.Context(), p, c.Param("userId"), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user and the tasks the user owns. Admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	deleted, err := h.users.Delete(c.Request.Context(), p, c.Param("userId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !deleted {
		apperrors.Internal(c, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
