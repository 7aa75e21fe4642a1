package notification

import (
	"net/http"
	"strconv"
	"time"

	"unilib/internal/middleware"
	"unilib/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    *Service
	dispatcher *Dispatcher
}

func NewHandler(service *Service, dispatcher *Dispatcher) *Handler {
	return &Handler{service: service, dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	{
		g.POST("", middleware.AdminOnly(), h.Create)
		// The capitalized form is what existing clients call.
		g.POST("/System", middleware.AdminOnly(), h.TriggerScan)
		g.POST("/system", middleware.AdminOnly(), h.TriggerScan)
		g.GET("/:id", h.GetForUser)
		g.PATCH("/:id/mark-as-read", h.MarkRead)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	n, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrLoanNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Borrowed record not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create notification")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"notification": n})
}

// TriggerScan runs the due-today scan on demand, outside the schedule.
func (h *Handler) TriggerScan(c *gin.Context) {
	created, err := h.service.ScanDueToday(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to run due-date scan")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"notifications": created})
}

func (h *Handler) GetForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}

	notifications, err := h.service.GetForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification id")
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrNotificationNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification as read")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notification": n})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrNotificationNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete notification")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Notification deleted"})
}
