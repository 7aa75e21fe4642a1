package users

import (
	"net/http"
	"strconv"

	"unilib/internal/domain"
	"unilib/internal/middleware"
	"unilib/internal/pkg/response"
	"unilib/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	{
		g.GET("", middleware.AdminOnly(), h.List)
		g.GET("/:id", h.Get)
		g.PATCH("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/saved-books", h.SavedBooks)
		g.GET("/:id/reviews", h.Reviews)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": list})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// Update is restricted to the account owner or an admin.
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	if !h.canModify(c, id) {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user", fields)
		return
	}

	u, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	if !h.canModify(c, id) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *Handler) SavedBooks(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	books, err := h.service.SavedBooks(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to list saved books")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": books})
}

func (h *Handler) Reviews(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	reviews, err := h.service.Reviews(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to list reviews")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return 0, false
	}
	return id, true
}

func (h *Handler) canModify(c *gin.Context, id int64) bool {
	if c.GetInt64("user_id") == id || c.GetString("role") == string(domain.RoleAdmin) {
		return true
	}
	response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only modify your own account")
	return false
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case ErrUserNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
