package handler

import (
	"net/http"

	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/middleware"
	"github.com/SraaaamX/realestate-api/internal/service"
	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	inquiryService *service.InquiryService
}

func NewInquiryHandler(inquiryService *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

func (h *InquiryHandler) Create(c *gin.Context) {
	var req dto.CreateInquiryRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	inquiry, err := h.inquiryService.Create(c.Request.Context(), &req, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToInquiryDTO(inquiry))
}

func (h *InquiryHandler) List(c *gin.Context) {
	inquiries, err := h.inquiryService.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTOList(inquiries))
}

func (h *InquiryHandler) Get(c *gin.Context) {
	inquiry, err := h.inquiryService.GetByID(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTO(inquiry))
}

func (h *InquiryHandler) ListByUser(c *gin.Context) {
	inquiries, err := h.inquiryService.ListByUser(c.Request.Context(), c.Param("userId"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTOList(inquiries))
}

func (h *InquiryHandler) ListByProperty(c *gin.Context) {
	inquiries, err := h.inquiryService.ListByProperty(c.Request.Context(), c.Param("propertyId"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTOList(inquiries))
}

func (h *InquiryHandler) Update(c *gin.Context) {
	var req dto.UpdateInquiryRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	inquiry, err := h.inquiryService.Update(c.Request.Context(), c.Param("id"), &req, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTO(inquiry))
}

func (h *InquiryHandler) Delete(c *gin.Context) {
	if err := h.inquiryService.Delete(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted successfully"})
}

func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateInquiryStatusRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTO(inquiry))
}

// AddResponse accepts the reply under "agent_response" or "response"
func (h *InquiryHandler) AddResponse(c *gin.Context) {
	var req dto.AgentResponseRequest
	if err := bind(c, &req); err != nil {
		respondError(c, err)
		return
	}

	inquiry, err := h.inquiryService.AddAgentResponse(c.Request.Context(), c.Param("id"), req.Text(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInquiryDTO(inquiry))
}
