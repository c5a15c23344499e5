package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/services"
)

// UserHandler handles user administration requests
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents the payload for creating a user
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=100"`
	Password string          `json:"password" binding:"required,min=4"`
	Role     models.UserRole `json:"role" binding:"required,user_role"`
}

// UpdateUserRequest represents the payload for updating a user
type UpdateUserRequest struct {
	Username *string          `json:"username" binding:"omitempty,min=3,max=100"`
	Password *string          `json:"password" binding:"omitempty,min=4"`
	Role     *models.UserRole `json:"role" binding:"omitempty,user_role"`
}

// ListUsers returns all user accounts
// @Summary     List users
// @Description List all users (admin only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Users"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	users, err := h.userService.ListUsers(actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser creates a new user account
// @Summary     Create user
// @Description Create a user with a role (admin only)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} map[string]interface{} "Created user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(actor, req.Username, req.Password, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "user.create", "user", user.ID, c.ClientIP(), map[string]any{
		"username": req.Username,
		"role":     req.Role,
	})
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser updates an existing user account
// @Summary     Update user
// @Description Update a user's username, password, or role (admin only)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(actor, c.Param("id"), services.UserUpdateFields{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "user.update", "user", user.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user account
// @Summary     Delete user
// @Description Delete a non-admin user (admin only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} MessageResponse "User deleted"
// @Failure     403 {object} ErrorResponse "Forbidden or admin undeletable"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.userService.DeleteUser(actor, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "user.delete", "user", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
