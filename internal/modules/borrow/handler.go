package borrow

import (
	"net/http"
	"strconv"

	"unilib/internal/middleware"
	"unilib/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/borrowed")
	{
		g.GET("", h.GetAll)
		g.GET("/active", h.GetActive)
		g.GET("/overdue", h.GetOverdue)
		g.GET("/user/:id", h.GetByUser)
		g.GET("/:id", h.GetByID)
		g.POST("/from-request/:id", middleware.AdminOnly(), h.CreateFromRequest)
		g.PUT("/return/:id", h.Return)
		g.DELETE("/:id", middleware.AdminOnly(), h.Delete)
	}
}

func (h *Handler) GetAll(c *gin.Context) {
	loans, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list borrowed books")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loans})
}

func (h *Handler) GetActive(c *gin.Context) {
	loans, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list active loans")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loans})
}

func (h *Handler) GetOverdue(c *gin.Context) {
	loans, err := h.service.GetOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list overdue loans")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loans})
}

func (h *Handler) GetByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}

	loans, err := h.service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list user loans")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loans})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid borrowed id")
		return
	}

	loan, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrLoanNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Borrowed record not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load borrowed record")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loan})
}

func (h *Handler) CreateFromRequest(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request id")
		return
	}

	var body CreateFromRequestBody
	// Body is optional; a missing or empty body falls back to the default
	// loan period.
	_ = c.ShouldBindJSON(&body)

	loan, err := h.service.CreateFromRequest(c.Request.Context(), requestID, body.ReturnDays)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loan})
}

func (h *Handler) Return(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid borrowed id")
		return
	}

	loan, err := h.service.Return(c.Request.Context(), id)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loan})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid borrowed id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Borrowed record deleted"})
}

func (h *Handler) writeWorkflowError(c *gin.Context, err error) {
	switch err {
	case ErrRequestNotFound, ErrBookNotFound, ErrUserNotFound, ErrLoanNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case ErrOutOfStock:
		response.Error(c, http.StatusBadRequest, "OUT_OF_STOCK", "Book is out of stock")
	case ErrAlreadyReturned:
		response.Error(c, http.StatusBadRequest, "ALREADY_RETURNED", "Book is already returned")
	case ErrInvalidStatus:
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Request is not pending")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Borrow operation failed")
	}
}
