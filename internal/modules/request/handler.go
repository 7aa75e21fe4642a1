package request

import (
	"net/http"
	"strconv"

	"unilib/internal/middleware"
	"unilib/internal/modules/borrow"
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
	g := rg.Group("/requests")
	{
		g.POST("", h.Create)
		g.GET("", middleware.AdminOnly(), h.GetAll)
		g.GET("/pending", middleware.AdminOnly(), h.GetPending)
		g.GET("/user/:id", h.GetByUser)
		g.GET("/:id", h.GetByID)
		g.PUT("/approve/:id", middleware.AdminOnly(), h.Approve)
		g.DELETE("/book-title/:title", middleware.AdminOnly(), h.DeleteByBookTitle)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if body.UserID != 0 {
		userID = body.UserID
	}

	req, err := h.service.Create(c.Request.Context(), userID, body.BookID)
	if err != nil {
		switch err {
		case ErrBookNotFound, ErrUserNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case ErrOutOfStock:
			response.Error(c, http.StatusBadRequest, "OUT_OF_STOCK", "Book is out of stock")
		case ErrDuplicate:
			response.Error(c, http.StatusConflict, "DUPLICATE_REQUEST", "You already have a pending request for this book")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create request")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"request": req})
}

func (h *Handler) GetAll(c *gin.Context) {
	requests, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": requests})
}

func (h *Handler) GetPending(c *gin.Context) {
	requests, err := h.service.GetPending(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list pending requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": requests})
}

func (h *Handler) GetByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}

	requests, err := h.service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list user requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": requests})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request id")
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrRequestNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load request")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request id")
		return
	}

	var body ApproveRequestBody
	_ = c.ShouldBindJSON(&body)

	loan, err := h.service.Approve(c.Request.Context(), id, body.ReturnDays)
	if err != nil {
		switch err {
		case borrow.ErrRequestNotFound, borrow.ErrBookNotFound, borrow.ErrUserNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case borrow.ErrOutOfStock:
			response.Error(c, http.StatusBadRequest, "OUT_OF_STOCK", "Book is out of stock")
		case borrow.ErrInvalidStatus:
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Request is not pending")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to approve request")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowed": loan})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrRequestNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete request")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Request deleted"})
}

func (h *Handler) DeleteByBookTitle(c *gin.Context) {
	if err := h.service.DeleteByBookTitle(c.Request.Context(), c.Param("title")); err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete requests")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Requests deleted"})
}
