package handler

import (
	"net/http"

	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/middleware"
	"github.com/SraaaamX/realestate-api/internal/service"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService   *service.UserService
	files         storage.FileStore
	avatarProfile storage.Profile
}

func NewAuthHandler(userService *service.UserService, files storage.FileStore, avatarProfile storage.Profile) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		files:         files,
		avatarProfile: avatarProfile,
	}
}

// Register accepts JSON or multipart form data with an optional
// "profilepic" image.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest

	// 1. Parse request
	if err := bind(c, &req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("nickname", req.Nickname),
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	// 2. Store the picture; the service releases it if registration fails
	profilePic, err := saveUpload(c, h.files, h.avatarProfile, "profilepic")
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Call service
	user, token, err := h.userService.Register(c.Request.Context(), &req, profilePic, middleware.ActorFrom(c))
	if err != nil {
		logger.Log.Warn("Registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	// 4. Return success response
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    dto.ToUserDTO(user),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest

	// 1. Parse request
	if err := bind(c, &req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	// 2. Call service
	user, token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.Warn("Login failed",
			zap.String("email", req.Email),
			zap.String("ip", c.ClientIP()),
		)
		respondError(c, err)
		return
	}

	// 3. Return success response
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    dto.ToUserDTO(user),
		"token":   token,
	})
}
