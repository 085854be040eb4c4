package handler

import (
	"net/http"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/middleware"
	"github.com/SraaaamX/realestate-api/internal/service"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService *service.PropertyService
	files           storage.FileStore
	imageProfile    storage.Profile
}

func NewPropertyHandler(propertyService *service.PropertyService, files storage.FileStore, imageProfile storage.Profile) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		files:           files,
		imageProfile:    imageProfile,
	}
}

func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.propertyService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyDTOList(properties))
}

// Search filters by the query string criteria, e.g.
// /api/properties/search?city=paris&min_price=100000&rooms=3
func (h *PropertyHandler) Search(c *gin.Context) {
	var query dto.PropertySearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, apperr.Wrap(apperr.InvalidInput, "Invalid search query", err))
		return
	}

	properties, err := h.propertyService.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyDTOList(properties))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.propertyService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyDTO(property))
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req dto.CreatePropertyRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	image, err := saveUpload(c, h.files, h.imageProfile, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), &req, image, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPropertyDTO(property))
}

func (h *PropertyHandler) Update(c *gin.Context) {
	var req dto.UpdatePropertyRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	image, err := saveUpload(c, h.files, h.imageProfile, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), c.Param("id"), &req, image, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyDTO(property))
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.propertyService.Delete(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}

func (h *PropertyHandler) ToggleFeatured(c *gin.Context) {
	property, err := h.propertyService.ToggleFeatured(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyDTO(property))
}

func (h *PropertyHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdatePropertyStatusRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	property, err := h.propertyService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyDTO(property))
}
