package handler

import (
	"net/http"

	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/middleware"
	"github.com/SraaaamX/realestate-api/internal/service"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   *service.UserService
	files         storage.FileStore
	avatarProfile storage.Profile
}

func NewUserHandler(userService *service.UserService, files storage.FileStore, avatarProfile storage.Profile) *UserHandler {
	return &UserHandler{
		userService:   userService,
		files:         files,
		avatarProfile: avatarProfile,
	}
}

// List returns all users (admin only)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTOList(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(user))
}

// Update applies a partial update, optionally replacing the profile picture
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	profilePic, err := saveUpload(c, h.files, h.avatarProfile, "profilepic")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req, profilePic, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
