package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/application"
	"github.com/hyttelaget/cabin-booking/internal/platform/middleware"
	"github.com/hyttelaget/cabin-booking/internal/platform/response"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	service *application.ProfileService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.ProfileService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers all user routes on the given router group.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	users := r.Group("/users")
	users.Use(authMW)
	{
		users.GET("/me", h.GetMe)
		users.GET("", adminMW, h.ListUsers)
		users.PATCH("/:id", adminMW, h.UpdateUser)
		users.DELETE("/:id", adminMW, h.DeleteUser)
	}
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	IsAdmin  *bool   `json:"is_admin"`
}

// GetMe handles GET /api/v1/users/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateUser handles PATCH /api/v1/users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), actorID, userID, application.UpdateUserCommand{
		FullName: req.FullName,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteUser handles DELETE /api/v1/users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
