package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	applog "github.com/kendall-kelly/car-rent-api/logger"
	"github.com/kendall-kelly/car-rent-api/middleware"
	"github.com/kendall-kelly/car-rent-api/services"
	"go.uber.org/zap"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UserController serves the /users routes
type UserController struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserController creates a user controller
func NewUserController(users *services.UserService, logger *zap.Logger) *UserController {
	return &UserController{users: users, logger: applog.OrNop(logger)}
}

// CreateUser handles POST /api/v1/users - creates the caller's profile from Auth0 userinfo
func (uc *UserController) CreateUser(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token", nil)
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found", nil)
		return
	}

	user, err := uc.users.Provision(c.Request.Context(), auth0ID, accessToken, middleware.GetRole(c))
	if err != nil {
		if errors.Is(err, services.ErrUserInfoUnavailable) {
			uc.logger.Error("failed to fetch userinfo", zap.String("auth0_id", auth0ID), zap.Error(err))
			errorJSON(c, http.StatusInternalServerError, "AUTH0_ERROR", "Failed to fetch user information from Auth0", nil)
			return
		}
		respondError(c, uc.logger, err)
		return
	}

	success(c, http.StatusCreated, user)
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func (uc *UserController) GetMyProfile(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information", nil)
		return
	}

	user, err := uc.users.Profile(c.Request.Context(), auth0ID)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	success(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func (uc *UserController) UpdateMyProfile(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information", nil)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	user, err := uc.users.UpdateProfile(c.Request.Context(), auth0ID, services.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	success(c, http.StatusOK, user)
}
